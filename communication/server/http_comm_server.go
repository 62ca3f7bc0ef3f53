package server

import (
	"blackhole/communication"
	"blackhole/game"
	"blackhole/gamemaster"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// MoveRequest names a cell either by index or by column and row.
type MoveRequest struct {
	Index *int `json:"index,omitempty"`
	Col   *int `json:"col,omitempty"`
	Row   *int `json:"row,omitempty"`
}

type MovesResponse struct {
	LegalMoves []int `json:"legalMoves"`
}

type ComputerMoveResponse struct {
	Move   int               `json:"move"`
	Status gamemaster.Status `json:"status"`
}

type ServerCommunicator struct {
	game     *gamemaster.Game
	upgrader websocket.Upgrader
}

// NewServerCommunicator exposes g over HTTP.
func NewServerCommunicator(g *gamemaster.Game) *ServerCommunicator {
	return &ServerCommunicator{
		game: g,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (sc *ServerCommunicator) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", sc.handleStatus)
		r.Get("/moves", sc.handleMoves)
		r.Post("/move", sc.handleMove)
		r.Post("/computer", sc.handleComputerMove)
		r.Post("/reset", sc.handleReset)
		r.Get("/ws", sc.handleWS)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           sc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", addr).Msg("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (sc *ServerCommunicator) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := sc.game.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (sc *ServerCommunicator) handleMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := sc.game.LegalMoves(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if moves == nil {
		moves = []int{}
	}
	writeJSON(w, http.StatusOK, MovesResponse{LegalMoves: moves})
}

func (sc *ServerCommunicator) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload", Code: communication.CodeBadRequest})
		return
	}
	index, err := payload.index()
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := sc.game.Play(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (sc *ServerCommunicator) handleComputerMove(w http.ResponseWriter, r *http.Request) {
	move, status, err := sc.game.ComputerMove(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ComputerMoveResponse{Move: move, Status: status})
}

func (sc *ServerCommunicator) handleReset(w http.ResponseWriter, r *http.Request) {
	status, err := sc.game.Reset(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (m MoveRequest) index() (int, error) {
	switch {
	case m.Index != nil:
		return *m.Index, nil
	case m.Col != nil && m.Row != nil:
		i, ok := game.Coordinates{Col: *m.Col, Row: *m.Row}.Index()
		if !ok {
			return 0, fmt.Errorf("%w: (%d, %d) is outside the board", game.ErrInvalidMove, *m.Col, *m.Row)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: missing index or coordinates", game.ErrInvalidMove)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	code, name := communication.Classify(err)
	if code == http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, code, communication.ErrorResponse{Error: err.Error(), Code: name})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
