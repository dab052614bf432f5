package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"snake-boom/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes the hub and the score store over HTTP.
type Server struct {
	hub   *Hub
	store game.Store
	log   zerolog.Logger
}

func NewServer(hub *Hub, store game.Store, log zerolog.Logger) *Server {
	return &Server{
		hub:   hub,
		store: store,
		log:   log.With().Str("component", "spectate").Logger(),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(s.requestLogger)

	r.Get("/ws", s.handleWS)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/highscore", s.handleHighScore)
	r.Get("/runs", s.handleRuns)

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("spectator server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := NewClient(s.hub, conn)
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	latest := s.hub.Latest()
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(latest)
}

func (s *Server) handleHighScore(w http.ResponseWriter, r *http.Request) {
	high, err := s.store.HighScore()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read high score")
		s.writeError(w, http.StatusInternalServerError, "high score unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"high_score": high})
}

// ranker is implemented by stores that can rank runs themselves.
type ranker interface {
	Top(n int) ([]game.RunRecord, error)
}

// handleRuns lists the latest runs, or with ?top=N the N best runs.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.store.(game.HistoryReader)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run history is not kept")
		return
	}

	q := r.URL.Query()
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		runs, err := s.topRuns(reader, n)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to rank runs")
			s.writeError(w, http.StatusInternalServerError, "run history unavailable")
			return
		}
		s.writeRuns(w, runs)
		return
	}

	limit := 20
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := reader.Runs()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read run history")
		s.writeError(w, http.StatusInternalServerError, "run history unavailable")
		return
	}
	if len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	s.writeRuns(w, runs)
}

func (s *Server) topRuns(reader game.HistoryReader, n int) ([]game.RunRecord, error) {
	if rk, ok := s.store.(ranker); ok {
		return rk.Top(n)
	}
	runs, err := reader.Runs()
	if err != nil {
		return nil, err
	}
	ranked := make([]game.RunRecord, len(runs))
	copy(ranked, runs)
	// history is oldest first, so equal scores keep the earlier run first
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (s *Server) writeRuns(w http.ResponseWriter, runs []game.RunRecord) {
	if runs == nil {
		runs = []game.RunRecord{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
