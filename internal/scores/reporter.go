package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Reporter posts won sessions to a portfolio server's leaderboard.
// Enqueue never blocks; Run delivers in the background.
type Reporter struct {
	endpoint string
	client   *http.Client
	queue    chan Result
}

// NewReporter creates a reporter for the server at baseURL.
func NewReporter(baseURL string) *Reporter {
	jar, _ := cookiejar.New(nil) // keeps the player cookie between posts
	return &Reporter{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/hero/results",
		client:   &http.Client{Timeout: 10 * time.Second, Jar: jar},
		queue:    make(chan Result, 16),
	}
}

// Enqueue schedules r for delivery. Results are dropped when the queue is full.
func (p *Reporter) Enqueue(gameID, title string, elapsed time.Duration) {
	r := Result{GameID: gameID, Title: title, ElapsedMs: elapsed.Milliseconds()}
	select {
	case p.queue <- r:
	default:
		log.Warn().Str("game_id", gameID).Msg("result queue full; dropped")
	}
}

// Run delivers queued results until ctx is done.
func (p *Reporter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-p.queue:
			if err := p.post(ctx, r); err != nil {
				log.Warn().Err(err).Str("game_id", r.GameID).Msg("report result")
			}
		}
	}
}

func (p *Reporter) post(ctx context.Context, r Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	log.Info().Str("game_id", r.GameID).Int64("elapsed_ms", r.ElapsedMs).Msg("result reported")
	return nil
}
