//nolint:lll
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/thresholdvote/core/election"
	"github.com/thresholdvote/core/log"
	"github.com/thresholdvote/core/storage"
)

// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
var (
	ErrMalformedBody    = Error{Code: 40001, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrResourceNotFound = Error{Code: 40002, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMissingField     = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("missing required field")}
	ErrInvalidStatus    = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid election status")}
	ErrInvalidBase64    = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid base64 field")}
	ErrInvalidTransition = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("election status transition not allowed")}

	ErrCandidatesFrozen = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("candidates are frozen once the first ballot is cast")}
	ErrNotTallied       = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("election has not been tallied yet")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)

// electionErrorStatus maps the election package's typed error taxonomy
// (§7) onto the HTTP status the external contract names. CryptoError and
// QuorumError are both surfaced as 400: the caller gave a request that
// cannot succeed right now, not a malformed one, but the contract does
// not carve out a distinct status for either.
func electionErrorStatus(kind election.Kind) int {
	switch kind {
	case election.KindValidation, election.KindState, election.KindQuorum, election.KindCrypto:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeErr translates an error returned by an election component or the
// storage layer into the {"detail": ...} response shape, logging
// anything unrecognized at ERROR without leaking internals to the
// client. Internal log records never include main codes, token
// signatures, raw shares, or the election private scalar (§7), and none
// of the errors routed through here carry any.
func writeErr(w http.ResponseWriter, err error) {
	var elErr *election.Error
	if errors.As(err, &elErr) {
		Error{Err: fmt.Errorf("%s", elErr.Msg), HTTPstatus: electionErrorStatus(elErr.Kind)}.Write(w)
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		ErrResourceNotFound.Write(w)
		return
	}
	log.Errorw("unhandled api error", "error", err)
	ErrGenericInternalServerError.Write(w)
}
