// Package server implements the cyberkit content API: module listing and
// delivery, advisory answer checks, authoritative quiz grading, and the
// password audit endpoint.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/config"
)

// Server serves the content API from an in-memory module bank. The bank
// is loaded and validated once at startup; handlers only read it.
type Server struct {
	bank *Bank
	cfg  config.Config
	log  *zap.Logger

	// hibpClient talks to the Have I Been Pwned range API. Short
	// timeout so a slow upstream degrades the audit, not the request.
	hibpClient *http.Client
}

// New builds a Server around a validated bank.
func New(bank *Bank, cfg config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		bank:       bank,
		cfg:        cfg,
		log:        log.Named("server"),
		hibpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Routes assembles the chi router for the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/modules", s.handleListModules)
		r.Get("/modules/{id}", s.handleGetModule)
		r.Get("/modules/{id}/quiz", s.handleGetQuiz)
		r.Post("/modules/{id}/quiz/check", s.handleCheckAnswer)
		r.Post("/modules/{id}/quiz/grade", s.handleGradeQuiz)
		r.Post("/password/check", s.handlePasswordCheck)
	})
	return r
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.log.Info("listening", zap.String("addr", addr), zap.Int("modules", len(s.bank.Modules)))
	return httpServer.ListenAndServe()
}
