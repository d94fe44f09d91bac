package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ih4temyself/cyberkit-v1/internal/config"
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	bank, err := LoadBank("")
	require.NoError(t, err, "embedded bank must load")
	cfg := config.Config{HIBPBaseURL: "http://invalid.localhost/range"}
	return New(bank, cfg, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Modules int    `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Modules)
}

func TestListModules(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/modules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Modules []content.ModuleRef `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Modules, 4)

	// Bank order is serving order.
	assert.Equal(t, "passwords", resp.Modules[0].ID)
	assert.Equal(t, 3, resp.Modules[0].QuizCount)

	// Content-only module reports zero quiz questions.
	assert.Equal(t, "updates", resp.Modules[2].ID)
	assert.Equal(t, 0, resp.Modules[2].QuizCount)
}

func TestGetModuleSanitized(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/modules/passwords", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Answer keys and explanations must never appear in the payload.
	body := rec.Body.String()
	assert.NotContains(t, body, `"answer"`)
	assert.NotContains(t, body, `"explanation"`)

	var detail content.ModuleDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "passwords", detail.ID)
	require.Len(t, detail.Quiz, 3)
	assert.Equal(t, "pw-q1", detail.Quiz[0].ID)
	assert.NotEmpty(t, detail.Quiz[0].Options)
}

func TestGetModuleNotFound(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodGet, "/api/modules/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCheckAnswer(t *testing.T) {
	h := testServer(t).Routes()

	tests := []struct {
		name    string
		body    checkRequest
		correct bool
	}{
		{"correct choice", checkRequest{QuestionID: "pw-q1", AnswerIndex: 1}, true},
		{"wrong choice", checkRequest{QuestionID: "pw-q1", AnswerIndex: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/check", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Correct bool `json:"correct"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.correct, resp.Correct)
		})
	}
}

func TestCheckAnswerValidation(t *testing.T) {
	h := testServer(t).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/check",
		checkRequest{QuestionID: "pw-q1", AnswerIndex: 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/check",
		checkRequest{QuestionID: "ghost", AnswerIndex: 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradeQuiz(t *testing.T) {
	h := testServer(t).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/grade", gradeRequest{
		Answers: content.AnswerMap{"pw-q1": 1, "pw-q2": 1, "pw-q3": 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result content.GradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Results, 3)

	// Results come back in bank question order with the key revealed.
	assert.Equal(t, "pw-q1", result.Results[0].QuestionID)
	assert.True(t, result.Results[0].Correct)
	assert.Equal(t, 1, result.Results[0].CorrectIndex)
	assert.NotEmpty(t, result.Results[0].Explanation)

	assert.Equal(t, "pw-q2", result.Results[1].QuestionID)
	assert.False(t, result.Results[1].Correct)
	assert.Equal(t, 0, result.Results[1].CorrectIndex)
	require.NotNil(t, result.Results[1].YourIndex)
	assert.Equal(t, 1, *result.Results[1].YourIndex)
}

func TestGradeQuizUnanswered(t *testing.T) {
	h := testServer(t).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/grade", gradeRequest{
		Answers: content.AnswerMap{"pw-q1": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result content.GradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.Total)

	// Unanswered questions grade incorrect with no chosen index.
	assert.False(t, result.Results[1].Correct)
	assert.Nil(t, result.Results[1].YourIndex)
}

func TestGradeQuizRejectsUnknownQuestion(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodPost, "/api/modules/passwords/quiz/grade", gradeRequest{
		Answers: content.AnswerMap{"ghost": 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeContentOnlyModule(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodPost, "/api/modules/updates/quiz/grade", gradeRequest{
		Answers: content.AnswerMap{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result content.GradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Total)
}

func TestPasswordCheck(t *testing.T) {
	// Fake HIBP range endpoint: "password" hashes to
	// 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8, prefix 5BAA6.
	hibp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/range/5BAA6" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:2\r\n")
		fmt.Fprint(w, "1E4C9B93F3F0682250B6CF8331B7EE68FD8:12345\r\n")
	}))
	defer hibp.Close()

	bank, err := LoadBank("")
	require.NoError(t, err)
	srv := New(bank, config.Config{HIBPBaseURL: hibp.URL + "/range"}, nil)
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/password/check",
		passwordCheckRequest{Password: "password"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp passwordCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.BreachChecked)
	assert.True(t, resp.Breached)
	assert.Equal(t, 12345, resp.BreachCount)
	assert.LessOrEqual(t, resp.Score, 1, "a dictionary word should score low")
}

func TestPasswordCheckDegradesWithoutHIBP(t *testing.T) {
	// Point at a server that always fails; strength must still answer.
	hibp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer hibp.Close()

	bank, err := LoadBank("")
	require.NoError(t, err)
	srv := New(bank, config.Config{HIBPBaseURL: hibp.URL + "/range"}, nil)
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/password/check",
		passwordCheckRequest{Password: "correct-battery-staple-horse"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp passwordCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.BreachChecked)
	assert.False(t, resp.Breached)
	assert.GreaterOrEqual(t, resp.Score, 3, "a long passphrase should score high")
}

func TestPasswordCheckValidation(t *testing.T) {
	h := testServer(t).Routes()
	rec := doJSON(t, h, http.MethodPost, "/api/password/check",
		passwordCheckRequest{Password: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadBankRejectsBadAnswerIndex(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bank.json"
	bad := `{"modules":[{"id":"m","title":"M","content":[],"quiz":[{"id":"q","question":"?","options":["a","b"],"answer":5}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadBank(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadBankRejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bank.json"
	bad := `{"modules":[{"title":"missing id","content":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadBank(path)
	require.Error(t, err)
}
