package server

import (
	"bufio"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/nbutton23/zxcvbn-go"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/apperr"
)

type passwordCheckRequest struct {
	Password string `json:"password"`
}

type passwordCheckResponse struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTimeSeconds float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string  `json:"crack_time_display"`

	// Breached reports whether the password appears in known breach
	// corpora. BreachCount is how many times. BreachChecked is false
	// when the upstream lookup failed and the strength estimate is all
	// the caller gets.
	Breached      bool `json:"breached"`
	BreachCount   int  `json:"breach_count"`
	BreachChecked bool `json:"breach_checked"`
}

// handlePasswordCheck estimates password strength locally and consults
// the Have I Been Pwned range API via k-anonymity: only the first five
// hex chars of the SHA-1 leave this process, never the password.
func (s *Server) handlePasswordCheck(w http.ResponseWriter, r *http.Request) {
	var req passwordCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.BadRequest("invalid JSON body"))
		return
	}
	if req.Password == "" {
		s.writeError(w, apperr.Validation("password", "cannot be empty"))
		return
	}
	if len(req.Password) > 256 {
		s.writeError(w, apperr.Validation("password", "too long"))
		return
	}

	strength := zxcvbn.PasswordStrength(req.Password, nil)
	resp := passwordCheckResponse{
		Score:            strength.Score,
		Entropy:          strength.Entropy,
		CrackTimeSeconds: strength.CrackTime,
		CrackTimeDisplay: strength.CrackTimeDisplay,
	}

	count, err := s.breachCount(r, req.Password)
	if err != nil {
		// Degrade gracefully: strength still answers, breach does not.
		s.log.Warn("breach lookup failed", zap.Error(err))
	} else {
		resp.BreachChecked = true
		resp.BreachCount = count
		resp.Breached = count > 0
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// breachCount does the HIBP range lookup for one password.
func (s *Server) breachCount(r *http.Request, password string) (int, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(fmt.Sprintf("%x", sum))
	prefix, suffix := digest[:5], digest[5:]

	url := strings.TrimRight(s.cfg.HIBPBaseURL, "/") + "/" + prefix
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Add-Padding", "true")

	resp, err := s.hibpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("range query returned status %d", resp.StatusCode)
	}

	// Response is one "SUFFIX:COUNT" pair per line for the whole
	// prefix bucket. Padding entries carry count 0.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, suffix+":")
		if !ok {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return 0, fmt.Errorf("malformed range line %q", line)
		}
		return count, nil
	}
	return 0, scanner.Err()
}
