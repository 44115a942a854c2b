package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"mediamend/internal/corrections"
	"mediamend/internal/logging"
	"mediamend/internal/metastore"
	"mediamend/internal/services"
)

// Corrector is the slice of the correction service the API needs. It is nil
// when the storage section is not configured.
type Corrector interface {
	Apply(ctx context.Context, req corrections.Request) (metastore.FolderEntry, error)
	Document(ctx context.Context) (*metastore.Document, error)
}

// Server serves the mediamend HTTP API.
type Server struct {
	bind      string
	logger    *slog.Logger
	sessions  SessionResolver
	corrector Corrector

	listener net.Listener
	server   *http.Server
}

// New builds the API server. corrector may be nil; correction and folder
// endpoints then answer with a configuration error.
func New(bind string, resolver SessionResolver, corrector Corrector, logger *slog.Logger) *Server {
	s := &Server{
		bind:      strings.TrimSpace(bind),
		logger:    logging.NewComponentLogger(logger, "api-server"),
		sessions:  resolver,
		corrector: corrector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/corrections", s.requireSession(s.handleCorrections))
	mux.HandleFunc("/api/folders", s.requireSession(s.handleFolders))

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving on the configured bind address and shuts down when ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCorrections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.corrector == nil {
		s.writeError(w, http.StatusBadRequest, "storage service is not configured")
		return
	}

	var req corrections.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.corrector.Apply(r.Context(), req)
	if err != nil {
		s.writeCorrectionError(w, r, err)
		return
	}

	if session := sessionFrom(r.Context()); session != nil {
		s.logger.Info("correction accepted",
			logging.String("user", session.Username),
			logging.String("folder", req.Folder))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("metadata for %q updated (last_updated %d)", req.Folder, entry.LastUpdated),
	})
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.corrector == nil {
		s.writeError(w, http.StatusBadRequest, "storage service is not configured")
		return
	}

	doc, err := s.corrector.Document(r.Context())
	if err != nil {
		s.writeCorrectionError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"folders": doc.Folders})
}

// writeCorrectionError maps a tagged service error onto the response contract:
// 400 for validation/configuration, 404 for a missing document, and 500 with
// details for everything else.
func (s *Server) writeCorrectionError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	switch status {
	case http.StatusInternalServerError:
		s.logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err))
		s.writeJSON(w, status, map[string]string{
			"error":   "correction failed",
			"details": err.Error(),
		})
	default:
		s.writeError(w, status, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
