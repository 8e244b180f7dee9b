package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HostedSource reads the events table from a hosted PostgREST endpoint
// (a Supabase project) using its anonymous key.
type HostedSource struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewHostedSource creates a source for the project at baseURL.
func NewHostedSource(baseURL, anonKey string) (*HostedSource, error) {
	if baseURL == "" || anonKey == "" {
		return nil, fmt.Errorf("%w: missing hosted url or key", ErrSourceUnavailable)
	}
	return &HostedSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     anonKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Fetch lists every event.
func (h *HostedSource) Fetch(ctx context.Context) ([]Event, error) {
	return h.query(ctx, url.Values{"select": {"*"}})
}

func (h *HostedSource) query(ctx context.Context, q url.Values) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/rest/v1/events?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", h.key)
	req.Header.Set("Authorization", "Bearer "+h.key)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSourceUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	out := []Event{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}
