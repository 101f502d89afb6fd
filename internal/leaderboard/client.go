package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vovakirdan/tracksnake/internal/snake"
)

// SubmitError reports a rejected or failed score submission.
type SubmitError struct {
	Status  int
	Message string
}

func (e *SubmitError) Error() string {
	if e.Status != 0 && e.Status != http.StatusOK {
		return fmt.Sprintf("leaderboard: submit failed (%d): %s", e.Status, e.Message)
	}
	return "leaderboard: submit failed: " + e.Message
}

// Client talks to a remote leaderboard endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the leaderboard at endpoint, e.g.
// "https://example.com/leaderboard". A nil hc gets a 10 second timeout.
func NewClient(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoint: endpoint, http: hc}
}

// Submit posts a final score.
func (c *Client) Submit(ctx context.Context, username string, score int) error {
	body, err := json.Marshal(map[string]any{"username": username, "score": score})
	if err != nil {
		return fmt.Errorf("leaderboard: cannot encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("leaderboard: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("leaderboard: submit: %w", err)
	}
	defer resp.Body.Close()

	// Errors may arrive with a 200 status, so the body decides
	var out submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return &SubmitError{Status: resp.StatusCode, Message: "unreadable response"}
	}
	if out.Error != "" {
		return &SubmitError{Status: resp.StatusCode, Message: out.Error}
	}
	if !out.Success || resp.StatusCode != http.StatusOK {
		return &SubmitError{Status: resp.StatusCode, Message: "not accepted"}
	}
	return nil
}

// Top fetches the best scores.
func (c *Client) Top(ctx context.Context, limit int) ([]snake.LeaderEntry, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: bad endpoint: %w", err)
	}
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: fetch: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot read response: %w", err)
	}

	// PHP backends serialize scores as strings
	var rows []struct {
		Username string      `json:"username"`
		Score    json.Number `json:"score"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		var out submitResponse
		if json.Unmarshal(data, &out) == nil && out.Error != "" {
			return nil, errors.New("leaderboard: " + out.Error)
		}
		return nil, fmt.Errorf("leaderboard: cannot decode response (%s): %w", resp.Status, err)
	}

	entries := make([]snake.LeaderEntry, 0, len(rows))
	for _, row := range rows {
		score, err := row.Score.Int64()
		if err != nil {
			continue
		}
		entries = append(entries, snake.LeaderEntry{Username: row.Username, Score: int(score)})
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Ensure Client implements snake.Leaderboard
var _ snake.Leaderboard = (*Client)(nil)
