package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mridul45/Expectimax-Search/internal/domain"
	"github.com/mridul45/Expectimax-Search/internal/usecase"
)

// Server は表示層に向けてゲームの状態と操作を公開する
type Server struct {
	game      *domain.Game
	companion *usecase.Companion
	hub       *Hub
	logger    zerolog.Logger
}

// StateResponse は現在の状態
type StateResponse struct {
	domain.Snapshot
	Companion bool `json:"companion"`
}

// HintResponse は相棒の推奨手
type HintResponse struct {
	Direction string             `json:"direction"`
	Depth     int                `json:"depth"`
	Score     float64            `json:"score"`
	Fallback  bool               `json:"fallback"`
	Moves     []domain.MoveScore `json:"moves"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type companionRequest struct {
	Enabled bool `json:"enabled"`
}

// NewServer は新しいServerを生成する
func NewServer(game *domain.Game, companion *usecase.Companion, hub *Hub, logger zerolog.Logger) *Server {
	return &Server{
		game:      game,
		companion: companion,
		hub:       hub,
		logger:    logger,
	}
}

// Routes はHTTPルーティングを返す
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, s.state())
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload moveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		out, err := s.move(payload.Direction)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"outcome": out, "state": s.state()})
	})

	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		ok := s.undo()
		s.writeJSON(w, http.StatusOK, map[string]any{"undone": ok, "state": s.state()})
	})

	r.Post("/api/new", func(w http.ResponseWriter, r *http.Request) {
		s.restart()
		s.writeJSON(w, http.StatusOK, s.state())
	})

	r.Get("/api/hint", func(w http.ResponseWriter, r *http.Request) {
		res := s.companion.Hint()
		moves, err := s.companion.Analyze(r.Context())
		if err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		s.writeJSON(w, http.StatusOK, HintResponse{
			Direction: res.Direction.String(),
			Depth:     res.Depth,
			Score:     res.Score,
			Fallback:  res.Fallback,
			Moves:     moves,
		})
	})

	r.Post("/api/companion", func(w http.ResponseWriter, r *http.Request) {
		var payload companionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		s.setCompanion(payload.Enabled)
		s.writeJSON(w, http.StatusOK, s.state())
	})

	r.Get("/ws", s.serveWS)

	return r
}

// Publish は状態が変わったことを全クライアントに知らせる
func (s *Server) Publish(snap domain.Snapshot) {
	s.hub.Broadcast("state", StateResponse{Snapshot: snap, Companion: s.companion.Enabled()})
}

func (s *Server) state() StateResponse {
	return StateResponse{Snapshot: s.game.Snapshot(), Companion: s.companion.Enabled()}
}

func (s *Server) move(direction string) (domain.Outcome, error) {
	dir, ok := domain.ParseDirection(direction)
	if !ok {
		return domain.Outcome{}, fmt.Errorf("unknown direction %q", direction)
	}
	out := s.game.Move(dir)
	if out.Moved {
		s.Publish(s.game.Snapshot())
	}
	return out, nil
}

func (s *Server) undo() bool {
	ok := s.game.Undo()
	if ok {
		s.Publish(s.game.Snapshot())
	}
	return ok
}

func (s *Server) restart() {
	s.companion.SetEnabled(false)
	s.game.Restart()
	s.Publish(s.game.Snapshot())
}

func (s *Server) setCompanion(enabled bool) {
	s.companion.SetEnabled(enabled)
	s.Publish(s.game.Snapshot())
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request-id", middleware.GetReqID(r.Context())).
				Msg("http-request")
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug().Err(err).Int("status", status).Msg("encode-response-failed")
	}
}
