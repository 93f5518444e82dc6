package api

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
)

// requestTokenSignature handles POST /token/request-signature.
func (a *API) requestTokenSignature(w http.ResponseWriter, r *http.Request) {
	var req RequestSignatureRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	blinded, err := base64.StdEncoding.DecodeString(req.BlindedTokenB64)
	if err != nil {
		ErrInvalidBase64.WithErr(err).Write(w)
		return
	}

	result, err := a.blindIssuer.Sign(req.ElectionID, req.MainVotingCode, blinded)
	if err != nil {
		writeErr(w, err)
		return
	}

	pubDER, err := x509.MarshalPKIXPublicKey(a.auth.PublicKey())
	if err != nil {
		writeErr(w, err)
		return
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	httpWriteJSON(w, RequestSignatureResponse{
		BlindedSignatureB64: base64.StdEncoding.EncodeToString(result.BlindedSignature),
		TokenHashHex:        result.TokenHash,
		PublicKeyPEM:        string(pubPEM),
	})
}
