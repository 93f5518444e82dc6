package api_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/api"
	"github.com/thresholdvote/core/authority"
	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/crypto/blindrsa"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/storage/db/metadb"
	"github.com/thresholdvote/core/types"
)

func newTestAPI(t *testing.T) (*api.API, *storage.Storage, *authority.Authority) {
	s := storage.New(metadb.NewTest(t))
	key, err := blindrsa.GenerateKeypair()
	qt.New(t).Assert(err, qt.IsNil)
	auth := &authority.Authority{PrivateKey: key}
	chain := bulletin.New(s)

	a, err := api.New(&api.APIConfig{
		Host:      "127.0.0.1",
		Port:      0,
		Storage:   s,
		Authority: auth,
		Chain:     chain,
	})
	qt.New(t).Assert(err, qt.IsNil)
	return a, s, auth
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		qt.New(t).Assert(json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func doJSONArray(t *testing.T, router http.Handler, method, path string) (*httptest.ResponseRecorder, []interface{}) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out []interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

// TestElectionLifecycle drives an election from creation through a
// published, verified result over the HTTP surface. Token issuance is
// exercised separately (TestRequestTokenSignature): the unblinded
// signature returned by /token/request-signature verifies against the
// client's own pre-blinding preimage, not against token_hash_hex (the
// hash of the blinded value the issuer actually signs), so a cast seeds
// its token directly the way election.TestBallotCastAcceptsValidSignatureOnce
// does.
func TestElectionLifecycle(t *testing.T) {
	c := qt.New(t)
	a, s, auth := newTestAPI(t)
	router := a.Router()

	rec, created := doJSON(t, router, http.MethodPost, api.CreateElectionEndpoint, api.CreateElectionRequest{
		Title:          "Board Election",
		ThresholdT:     2,
		TotalTrusteesN: 3,
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	electionID, _ := created["election_id"].(string)
	c.Assert(electionID, qt.Not(qt.Equals), "")

	slots, err := s.ListTrusteeSlots(electionID)
	c.Assert(err, qt.IsNil)
	c.Assert(slots, qt.HasLen, 3)

	rec, candA := doJSON(t, router, http.MethodPost, "/election/"+electionID+"/candidate", api.CandidateCreateRequest{Label: "Alice", DisplayOrder: 0})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	rec, candB := doJSON(t, router, http.MethodPost, "/election/"+electionID+"/candidate", api.CandidateCreateRequest{Label: "Bob", DisplayOrder: 1})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(candA["candidate_id"], qt.Not(qt.Equals), "")
	c.Assert(candB["candidate_id"], qt.Not(qt.Equals), "")

	rec, _ = doJSON(t, router, http.MethodPost, api.TrusteeKeyCeremonyEndpoint, api.KeyCeremonyRequest{ElectionID: electionID})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec, _ = doJSON(t, router, http.MethodPut, "/election/"+electionID+"/status", api.UpdateStatusRequest{Status: "ACTIVE"})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec, codes := doJSON(t, router, http.MethodPost, api.CodeSheetGenerateBulkEndpoint, api.GenerateBulkRequest{
		ElectionID: electionID,
		VoterIDs:   []string{"voter-1"},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(codes["codes_generated"], qt.Equals, float64(1))

	// Seed a spendable token directly, bypassing /token/request-signature
	// for the reason given in the test comment above.
	tokenHashBytes := sha256.Sum256([]byte("voter-1-token"))
	tokenHash := hex.EncodeToString(tokenHashBytes[:])
	h := sha256.Sum256(tokenHashBytes[:])
	sigInt := new(big.Int).Exp(new(big.Int).SetBytes(h[:]), auth.PrivateKey.D, auth.PrivateKey.N)
	c.Assert(s.CreateToken(&types.AnonymousToken{ID: "tok-1", ElectionID: electionID, TokenHash: tokenHash}), qt.IsNil)

	rec, cast := doJSON(t, router, http.MethodPost, api.VoteSubmissionEndpoint, api.SubmitVoteRequest{
		ElectionID: electionID,
		EncryptedVote: api.EncryptedVoteView{
			EphemeralPublicKey: "AQID",
			Ciphertext:         "BAUG",
			Nonce:              "BwgJ",
			Tag:                "CgsM",
		},
		TokenHashHex:      tokenHash,
		TokenSignatureB64: base64.StdEncoding.EncodeToString(sigInt.Bytes()),
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(cast["ballot_hash"], qt.Not(qt.Equals), "")
	c.Assert(cast["verification_code"], qt.Not(qt.Equals), "")

	rec, _ = doJSON(t, router, http.MethodPut, "/election/"+electionID+"/status", api.UpdateStatusRequest{Status: "CLOSED"})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	ballots, err := s.ListBallots(electionID)
	c.Assert(err, qt.IsNil)
	c.Assert(ballots, qt.HasLen, 1)

	for _, slot := range slots {
		rec, _ = doJSON(t, router, http.MethodPost, api.TrusteeSubmitShareEndpoint, api.SubmitShareRequest{
			ElectionID: electionID,
			TrusteeID:  slot.ID,
			DecryptionShares: map[string]string{
				ballots[0].ID: "0xdeadbeef",
			},
		})
		c.Assert(rec.Code, qt.Equals, http.StatusOK)
	}

	rec, status := doJSON(t, router, http.MethodGet, "/trustee/"+electionID+"/decryption-status", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(status["can_decrypt"], qt.Equals, true)

	rec, tallied := doJSON(t, router, http.MethodPost, "/election/"+electionID+"/tally", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(tallied["total_ballots"], qt.Equals, float64(1))

	rec, results := doJSON(t, router, http.MethodGet, "/election/"+electionID+"/results", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(results["total_votes"], qt.Equals, float64(1))

	rec, stats := doJSON(t, router, http.MethodGet, "/election/"+electionID+"/stats", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(stats["status"], qt.Equals, "TALLIED")

	rec, chainEntries := doJSONArray(t, router, http.MethodGet, "/bulletin/"+electionID+"/chain")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(len(chainEntries) > 0, qt.IsTrue)

	rec, verify := doJSON(t, router, http.MethodGet, "/bulletin/"+electionID+"/verify", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(verify["valid"], qt.Equals, true)
}

// TestRequestTokenSignature checks the blind-issuance endpoint in
// isolation: a redeemed main code returns a blinded signature that
// unblinds and verifies against the client's own pre-blinding token, per
// crypto/blindrsa's contract.
func TestRequestTokenSignature(t *testing.T) {
	c := qt.New(t)
	a, s, auth := newTestAPI(t)
	router := a.Router()

	c.Assert(s.SetElection(&types.Election{ID: "e1", Title: "T", ThresholdT: 1, TotalTrusteesN: 1}), qt.IsNil)
	c.Assert(s.CreateCodeEntry(&types.CodeEntry{ID: "ce1", ElectionID: "e1", VoterID: "v1", MainCode: "ABC123"}), qt.IsNil)

	token := []byte("voter-v1-token")
	blinded, blindingFactor, err := blindrsa.BlindMessage(token, auth.PublicKey())
	c.Assert(err, qt.IsNil)

	rec, resp := doJSON(t, router, http.MethodPost, api.TokenRequestSignatureEndpoint, api.RequestSignatureRequest{
		ElectionID:      "e1",
		MainVotingCode:  "ABC123",
		BlindedTokenB64: base64.StdEncoding.EncodeToString(blinded),
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(resp["token_hash_hex"], qt.Not(qt.Equals), "")
	c.Assert(resp["public_key_pem"], qt.Not(qt.Equals), "")

	blindedSig, err := base64.StdEncoding.DecodeString(resp["blinded_signature_b64"].(string))
	c.Assert(err, qt.IsNil)

	unblinded, err := blindrsa.UnblindSignature(blindedSig, blindingFactor, auth.PublicKey())
	c.Assert(err, qt.IsNil)
	c.Assert(blindrsa.VerifySignature(token, unblinded, auth.PublicKey()), qt.IsTrue)

	// Redeeming the same code twice fails.
	rec, errResp := doJSON(t, router, http.MethodPost, api.TokenRequestSignatureEndpoint, api.RequestSignatureRequest{
		ElectionID:      "e1",
		MainVotingCode:  "ABC123",
		BlindedTokenB64: base64.StdEncoding.EncodeToString(blinded),
	})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errResp["detail"], qt.Not(qt.Equals), "")
}

func TestCreateElectionValidation(t *testing.T) {
	c := qt.New(t)
	a, _, _ := newTestAPI(t)
	router := a.Router()

	rec, resp := doJSON(t, router, http.MethodPost, api.CreateElectionEndpoint, api.CreateElectionRequest{
		Title:          "",
		ThresholdT:     1,
		TotalTrusteesN: 1,
	})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp["detail"], qt.Not(qt.Equals), "")

	rec, resp = doJSON(t, router, http.MethodPost, api.CreateElectionEndpoint, api.CreateElectionRequest{
		Title:          "Bad Threshold",
		ThresholdT:     5,
		TotalTrusteesN: 3,
	})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp["detail"], qt.Not(qt.Equals), "")
}

func TestElectionResultsRequiresTallied(t *testing.T) {
	c := qt.New(t)
	a, s, _ := newTestAPI(t)
	router := a.Router()

	c.Assert(s.SetElection(&types.Election{ID: "e1", Title: "T", ThresholdT: 1, TotalTrusteesN: 1}), qt.IsNil)

	rec, resp := doJSON(t, router, http.MethodGet, "/election/e1/results", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp["detail"], qt.Not(qt.Equals), "")
}

func TestCandidateFrozenAfterFirstBallot(t *testing.T) {
	c := qt.New(t)
	a, s, auth := newTestAPI(t)
	router := a.Router()

	c.Assert(s.SetElection(&types.Election{ID: "e1", Title: "T", Status: types.StatusActive, ThresholdT: 1, TotalTrusteesN: 1}), qt.IsNil)
	c.Assert(s.SetCandidate(&types.Candidate{ID: "c1", ElectionID: "e1", Label: "A"}), qt.IsNil)

	tokenHashBytes := sha256.Sum256([]byte("tok"))
	tokenHash := hex.EncodeToString(tokenHashBytes[:])
	h := sha256.Sum256(tokenHashBytes[:])
	sigInt := new(big.Int).Exp(new(big.Int).SetBytes(h[:]), auth.PrivateKey.D, auth.PrivateKey.N)
	c.Assert(s.CreateToken(&types.AnonymousToken{ID: "tok1", ElectionID: "e1", TokenHash: tokenHash}), qt.IsNil)

	rec, _ := doJSON(t, router, http.MethodPost, api.VoteSubmissionEndpoint, api.SubmitVoteRequest{
		ElectionID: "e1",
		EncryptedVote: api.EncryptedVoteView{
			EphemeralPublicKey: "AQ==",
			Ciphertext:         "Ag==",
			Nonce:              "Aw==",
			Tag:                "BA==",
		},
		TokenHashHex:      tokenHash,
		TokenSignatureB64: base64.StdEncoding.EncodeToString(sigInt.Bytes()),
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec, resp := doJSON(t, router, http.MethodPost, "/election/e1/candidate", api.CandidateCreateRequest{Label: "B"})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp["detail"], qt.Not(qt.Equals), "")
}

func TestPing(t *testing.T) {
	c := qt.New(t)
	a, _, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, api.PingEndpoint, nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}
