package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thresholdvote/core/authority"
	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/election"
	"github.com/thresholdvote/core/log"
	stg "github.com/thresholdvote/core/storage"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host                     string
	Port                     int
	AllowedOrigins           []string
	Storage                  *stg.Storage
	Authority                *authority.Authority
	Chain                    *bulletin.Chain
	AllowDirectTokenIssuance bool
}

// API wires the six election operations and the bulletin chain behind
// the HTTP surface of §6.
type API struct {
	router  *chi.Mux
	storage *stg.Storage
	chain   *bulletin.Chain
	auth    *authority.Authority

	keyCeremony *election.KeyCeremony
	codeSheet   *election.CodeSheet
	blindIssuer *election.BlindIssuer
	ballotCast  *election.BallotCast
	shareSubmit *election.TrusteeShareSubmission
	threshold   *election.ThresholdTally
}

// New constructs an API over conf and starts serving in the background.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.Authority == nil {
		return nil, fmt.Errorf("missing authority keypair")
	}

	a := &API{
		storage:     conf.Storage,
		chain:       conf.Chain,
		auth:        conf.Authority,
		keyCeremony: election.NewKeyCeremony(conf.Storage, conf.Chain),
		codeSheet:   election.NewCodeSheet(conf.Storage),
		blindIssuer: election.NewBlindIssuer(conf.Storage, conf.Authority, conf.AllowDirectTokenIssuance),
		ballotCast:  election.NewBallotCast(conf.Storage, conf.Authority, conf.Chain),
		shareSubmit: election.NewTrusteeShareSubmission(conf.Storage, conf.Chain),
		threshold:   election.NewThresholdTally(conf.Storage, conf.Chain),
	}

	a.initRouter(conf.AllowedOrigins)
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	log.Infow("register handler", "endpoint", CreateElectionEndpoint, "method", "POST")
	a.router.Post(CreateElectionEndpoint, a.createElection)
	log.Infow("register handler", "endpoint", ElectionStatusEndpoint, "method", "PUT")
	a.router.Put(ElectionStatusEndpoint, a.updateElectionStatus)
	log.Infow("register handler", "endpoint", ElectionCandidateEndpoint, "method", "POST")
	a.router.Post(ElectionCandidateEndpoint, a.createCandidate)
	log.Infow("register handler", "endpoint", ElectionTallyEndpoint, "method", "POST")
	a.router.Post(ElectionTallyEndpoint, a.tallyElection)
	log.Infow("register handler", "endpoint", ElectionResultsEndpoint, "method", "GET")
	a.router.Get(ElectionResultsEndpoint, a.electionResults)
	log.Infow("register handler", "endpoint", ElectionStatsEndpoint, "method", "GET")
	a.router.Get(ElectionStatsEndpoint, a.electionStats)

	log.Infow("register handler", "endpoint", TrusteeKeyCeremonyEndpoint, "method", "POST")
	a.router.Post(TrusteeKeyCeremonyEndpoint, a.trusteeKeyCeremony)
	log.Infow("register handler", "endpoint", TrusteeSubmitShareEndpoint, "method", "POST")
	a.router.Post(TrusteeSubmitShareEndpoint, a.trusteeSubmitShare)
	log.Infow("register handler", "endpoint", TrusteeDecryptionStatusEndpoint, "method", "GET")
	a.router.Get(TrusteeDecryptionStatusEndpoint, a.trusteeDecryptionStatus)
	log.Infow("register handler", "endpoint", TrusteeBallotsEndpoint, "method", "GET")
	a.router.Get(TrusteeBallotsEndpoint, a.trusteeBallots)

	log.Infow("register handler", "endpoint", CodeSheetGenerateBulkEndpoint, "method", "POST")
	a.router.Post(CodeSheetGenerateBulkEndpoint, a.generateBulkCodeSheet)

	log.Infow("register handler", "endpoint", TokenRequestSignatureEndpoint, "method", "POST")
	a.router.Post(TokenRequestSignatureEndpoint, a.requestTokenSignature)

	log.Infow("register handler", "endpoint", VoteSubmissionEndpoint, "method", "POST")
	a.router.Post(VoteSubmissionEndpoint, a.submitVote)

	log.Infow("register handler", "endpoint", BulletinAppendEndpoint, "method", "POST")
	a.router.Post(BulletinAppendEndpoint, a.appendBulletinEntry)
	log.Infow("register handler", "endpoint", BulletinChainEndpoint, "method", "GET")
	a.router.Get(BulletinChainEndpoint, a.bulletinChain)
	log.Infow("register handler", "endpoint", BulletinVerifyEndpoint, "method", "GET")
	a.router.Get(BulletinVerifyEndpoint, a.bulletinVerify)
}

// bufPool is a pool of bytes.Buffer to reduce logger allocations.
var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	logHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log.Level() != log.LogLevelDebug || r.URL.Path == PingEndpoint {
				next.ServeHTTP(w, r)
				return
			}

			buf := bufPool.Get().(*bytes.Buffer)
			buf.Reset()

			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "unable to read request body", http.StatusInternalServerError)
				bufPool.Put(buf)
				return
			}
			buf.Write(bodyBytes)

			log.Debugw("api request",
				"method", r.Method,
				"url", r.URL.String(),
				"body", strings.ReplaceAll(buf.String(), "\"", ""),
			)

			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bufPool.Put(buf)

			next.ServeHTTP(w, r)
		})
	}

	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(logHandler)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
