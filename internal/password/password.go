// Package password talks to the password audit endpoint of the content
// API. Kept separate from the content client: the audit is a tool, not
// part of the learning flow.
package password

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Report is the audit verdict for one password.
type Report struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTimeSeconds float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string  `json:"crack_time_display"`
	Breached         bool    `json:"breached"`
	BreachCount      int     `json:"breach_count"`
	BreachChecked    bool    `json:"breach_checked"`
}

// Verdict summarizes the report in one line for display.
func (r *Report) Verdict() string {
	switch {
	case r.Breached:
		return fmt.Sprintf("seen in %d breaches, do not use it", r.BreachCount)
	case r.Score >= 3:
		return "strong, would take " + r.CrackTimeDisplay + " to crack"
	case r.Score == 2:
		return "mediocre, crackable in " + r.CrackTimeDisplay
	default:
		return "weak, crackable in " + r.CrackTimeDisplay
	}
}

// Checker audits passwords. Implemented over HTTP; mocked in tests.
type Checker interface {
	Check(ctx context.Context, password string) (*Report, error)
}

// Client is the HTTP Checker against the content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

var _ Checker = (*Client)(nil)

// NewClient builds a Checker for the API at baseURL
// (e.g. "http://localhost:9000/api").
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.Named("password"),
	}
}

func (c *Client) Check(ctx context.Context, password string) (*Report, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/password/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("password check failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("password check: status %d: %s", resp.StatusCode, string(msg))
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	c.log.Debug("password audited",
		zap.Int("score", report.Score),
		zap.Bool("breached", report.Breached))
	return &report, nil
}
