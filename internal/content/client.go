package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the content API reports an unknown module.
var ErrNotFound = errors.New("module not found")

// HTTPClient talks to the cyberkit content API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewHTTPClient creates a client for the content API at baseURL
// (e.g. "http://localhost:9000/api").
func NewHTTPClient(baseURL string, log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.Named("content"),
	}
}

type modulesResp struct {
	Modules []ModuleRef `json:"modules"`
}

func (c *HTTPClient) ListModules(ctx context.Context) ([]ModuleRef, error) {
	var out modulesResp
	if err := c.get(ctx, "/modules", &out); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	c.log.Debug("listed modules", zap.Int("count", len(out.Modules)))
	return out.Modules, nil
}

func (c *HTTPClient) GetModule(ctx context.Context, id string) (*ModuleDetail, error) {
	var out ModuleDetail
	if err := c.get(ctx, "/modules/"+id, &out); err != nil {
		return nil, fmt.Errorf("get module %s: %w", id, err)
	}
	return &out, nil
}

func (c *HTTPClient) CheckAnswer(ctx context.Context, moduleID, questionID string, answerIndex int) (bool, error) {
	body := map[string]any{
		"question_id":  questionID,
		"answer_index": answerIndex,
	}
	var out struct {
		Correct bool `json:"correct"`
	}
	path := fmt.Sprintf("/modules/%s/quiz/check", moduleID)
	if err := c.post(ctx, path, body, &out); err != nil {
		return false, fmt.Errorf("check answer %s/%s: %w", moduleID, questionID, err)
	}
	return out.Correct, nil
}

func (c *HTTPClient) GradeQuiz(ctx context.Context, moduleID string, answers AnswerMap) (*GradeResult, error) {
	body := map[string]any{"answers": answers}
	var out GradeResult
	path := fmt.Sprintf("/modules/%s/quiz/grade", moduleID)
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, fmt.Errorf("grade quiz %s: %w", moduleID, err)
	}
	c.log.Info("quiz graded",
		zap.String("module", moduleID),
		zap.Int("score", out.Score),
		zap.Int("total", out.Total))
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("request failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("response received",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
