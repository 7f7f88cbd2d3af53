package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dkhromov/patter/internal/buffer"
	"github.com/dkhromov/patter/internal/coalesce"
	"github.com/dkhromov/patter/internal/config"
	"github.com/dkhromov/patter/internal/engine"
	"github.com/dkhromov/patter/internal/observability"
	"github.com/dkhromov/patter/internal/pacing"
)

// Engine is the pacing facade the API delegates to.
type Engine interface {
	SegmentOutgoing(ctx context.Context, text string, forceSplit bool) pacing.Result
	ProcessIncoming(ctx context.Context, userID string, msgs []engine.InboundMessage, now time.Time) (coalesce.Result, error)
	ClearSession(ctx context.Context, userID string) error
	SessionInfo(ctx context.Context, userID string) (buffer.Info, error)
	StoreMode() string
}

type Server struct {
	cfg      config.Config
	eng      Engine
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, eng Engine, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		eng:     eng,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin only by default; other sites must not drive
				// a user's delivery stream if the service leaves localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/replies/segment", s.handleSegment)
	r.Get("/v1/replies/stream", s.handleStream)
	r.Post("/v1/messages/coalesce", s.handleCoalesce)
	r.Post("/v1/sessions/{id}/clear", s.handleClearSession)
	r.Get("/v1/sessions/{id}", s.handleSessionInfo)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"store_mode": s.eng.StoreMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"store_mode": s.eng.StoreMode(),
	})
}

type segmentRequest struct {
	Text       string `json:"text"`
	ForceSplit bool   `json:"force_split"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res := s.eng.SegmentOutgoing(r.Context(), req.Text, req.ForceSplit)
	respondJSON(w, http.StatusOK, res)
}

type coalesceRequest struct {
	UserID   string                  `json:"user_id"`
	Messages []engine.InboundMessage `json:"messages"`
}

func (s *Server) handleCoalesce(w http.ResponseWriter, r *http.Request) {
	var req coalesceRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	res, err := s.eng.ProcessIncoming(r.Context(), req.UserID, req.Messages, time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "buffer_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	if err := s.eng.ClearSession(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "buffer_unavailable", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	info, err := s.eng.SessionInfo(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "buffer_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":       id,
		"message_count": info.MessageCount,
		"last_activity": info.LastActivity,
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
