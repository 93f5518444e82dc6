package bulletin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/thresholdvote/core/log"
)

// Client is the capability interface a component uses to relay a
// bulletin entry to an external bulletin board service, kept separate
// from Chain so election-side code never calls requests.post directly
// the way post_bulletin_entry did.
type Client interface {
	Post(ctx context.Context, electionID, entryType string, entryData map[string]interface{}) error
}

// NopClient is a Client that does nothing, used when no external
// bulletin service is configured and entries only live in local storage.
type NopClient struct{}

func (NopClient) Post(context.Context, string, string, map[string]interface{}) error { return nil }

// MemoryClient records every post in-process, for tests that assert on
// bulletin side-effects without a network dependency.
type MemoryClient struct {
	Posted []MemoryPost
}

// MemoryPost is one recorded call to MemoryClient.Post.
type MemoryPost struct {
	ElectionID string
	EntryType  string
	EntryData  map[string]interface{}
}

func (m *MemoryClient) Post(_ context.Context, electionID, entryType string, entryData map[string]interface{}) error {
	m.Posted = append(m.Posted, MemoryPost{ElectionID: electionID, EntryType: entryType, EntryData: entryData})
	return nil
}

// HTTPClient relays entries to an external bulletin board service over
// HTTP/JSON, matching the payload shape of post_bulletin_entry:
// {"election_id", "entry_type", "entry_data"}. Failures are retried with
// exponential backoff and ultimately logged, never surfaced to the
// caller: per §7's TransientError handling, a bulletin-relay failure is
// best-effort and must never block the transaction that produced the
// event.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient builds an HTTPClient pointed at baseURL (e.g.
// BULLETIN_SERVICE_URL).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

type postBody struct {
	ElectionID string                 `json:"election_id"`
	EntryType  string                 `json:"entry_type"`
	EntryData  map[string]interface{} `json:"entry_data"`
}

func (c *HTTPClient) Post(ctx context.Context, electionID, entryType string, entryData map[string]interface{}) error {
	body, err := json.Marshal(postBody{ElectionID: electionID, EntryType: entryType, EntryData: entryData})
	if err != nil {
		log.Error(fmt.Errorf("bulletin: encode post body: %w", err))
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/append", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bulletin service returned status %d", resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		log.Errorf("bulletin: failed to post entry for election %s after retries: %v", electionID, err)
	}
	return nil
}
