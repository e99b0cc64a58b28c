package leaderboard

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Reader is the part of storage.Store the HTTP API reads from.
type Reader interface {
	Leaderboard(mode string, duration int, limit int) ([]storage.LeaderEntry, error)
}

// Server exposes the leaderboard as a read-only JSON API.
type Server struct {
	store  Reader
	modes  config.ModesConfig
	logger *log.Logger
}

// NewServer creates a new API server. A nil logger discards output.
func NewServer(store Reader, modes config.ModesConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{store: store, modes: modes, logger: logger}
}

// ModeResponse describes one playable mode.
type ModeResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Duration  int    `json:"duration"`
	Durations []int  `json:"durations,omitempty"`
	Daily     bool   `json:"daily,omitempty"`
}

// EntryResponse is one ranked leaderboard row.
type EntryResponse struct {
	Rank      int       `json:"rank"`
	Player    string    `json:"player"`
	Best      int       `json:"best"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardResponse is the body of GET /api/leaderboard/{mode}.
type LeaderboardResponse struct {
	Mode     string          `json:"mode"`
	Duration int             `json:"duration"`
	Entries  []EntryResponse `json:"entries"`
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/modes", s.handleModes)
		r.Get("/leaderboard/{mode}", s.handleLeaderboard)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleModes(w http.ResponseWriter, _ *http.Request) {
	ids := s.modes.IDs()
	out := make([]ModeResponse, 0, len(ids))
	for _, id := range ids {
		m := s.modes.Modes[id]
		resp := ModeResponse{ID: id, Title: m.Title, Kind: string(m.Kind), Daily: m.Daily}
		if m.Timed() {
			resp.Duration = m.Duration
			resp.Durations = m.Durations
		}
		out = append(out, resp)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "mode")
	mode, err := s.modes.Mode(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown mode: "+id)
		return
	}

	duration := 0
	if mode.Timed() {
		duration = mode.Duration
	}
	if v := r.URL.Query().Get("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			s.writeError(w, http.StatusBadRequest, "duration must be a non-negative integer")
			return
		}
		duration = d
	}

	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 || l > maxLimit {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = l
	}

	entries, err := s.store.Leaderboard(id, duration, limit)
	if err != nil {
		s.logger.Error("leaderboard query failed", "mode", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read leaderboard")
		return
	}

	resp := LeaderboardResponse{Mode: id, Duration: duration, Entries: make([]EntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			Rank:      e.Rank,
			Player:    e.Player,
			Best:      e.Best,
			UpdatedAt: e.UpdatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("cannot encode response", "err", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
