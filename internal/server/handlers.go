package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/apperr"
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"modules": len(s.bank.Modules),
	})
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"modules": s.bank.Refs(),
	})
}

func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.bank.Module(id)
	if !ok {
		s.writeError(w, apperr.NotFound("module", id))
		return
	}
	s.writeJSON(w, http.StatusOK, m.Sanitized())
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.bank.Module(id)
	if !ok {
		s.writeError(w, apperr.NotFound("module", id))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"module_id": m.ID,
		"quiz":      m.Sanitized().Quiz,
	})
}

type checkRequest struct {
	QuestionID  string `json:"question_id"`
	AnswerIndex int    `json:"answer_index"`
}

// handleCheckAnswer gives advisory per-question feedback. It never
// reveals the correct index; grading does that.
func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.bank.Module(id)
	if !ok {
		s.writeError(w, apperr.NotFound("module", id))
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.BadRequest("invalid JSON body"))
		return
	}
	if req.QuestionID == "" {
		s.writeError(w, apperr.Validation("question_id", "cannot be empty"))
		return
	}

	var question *BankQuestion
	for i := range m.Quiz {
		if m.Quiz[i].ID == req.QuestionID {
			question = &m.Quiz[i]
			break
		}
	}
	if question == nil {
		s.writeError(w, apperr.NotFound("question", req.QuestionID))
		return
	}
	if req.AnswerIndex < 0 || req.AnswerIndex >= len(question.Options) {
		s.writeError(w, apperr.Validation("answer_index", "out of range"))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"question_id": question.ID,
		"correct":     req.AnswerIndex == question.Answer,
	})
}

type gradeRequest struct {
	Answers content.AnswerMap `json:"answers"`
}

// handleGradeQuiz is the authoritative batch grade. Unknown question
// ids are rejected rather than silently ignored.
func (s *Server) handleGradeQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.bank.Module(id)
	if !ok {
		s.writeError(w, apperr.NotFound("module", id))
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.BadRequest("invalid JSON body"))
		return
	}

	known := make(map[string]int, len(m.Quiz))
	for _, q := range m.Quiz {
		known[q.ID] = len(q.Options)
	}
	for qid, idx := range req.Answers {
		optCount, ok := known[qid]
		if !ok {
			s.writeError(w, apperr.Validation("answers", "unknown question id "+qid))
			return
		}
		if idx < 0 || idx >= optCount {
			s.writeError(w, apperr.Validation("answers", "answer index out of range for "+qid))
			return
		}
	}

	result := m.Grade(req.Answers)
	s.log.Info("quiz graded",
		zap.String("module", m.ID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

// writeError maps application errors onto the JSON error envelope.
// Unknown errors become opaque 500s so internals never leak.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}
	if appErr.Status >= 500 {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
