package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/tomasen/realip"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const maxBodyBytes = 1 << 10

type TurnRequest struct {
	Cell *int `json:"cell"`
}

type AIRequest struct {
	Enabled *bool `json:"enabled"`
}

type TurnResponse struct {
	Result entity.MoveResult `json:"result"`
	State  entity.Snapshot   `json:"state"`
	Error  string            `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (that *Server) Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := that.page.Execute(w, pageData{SocketPort: that.socketPort}); err != nil {
		that.logger.Error("failed to render page", "error", err)
	}
}

func (that *Server) GetGame(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	that.writeJSON(w, http.StatusOK, that.game.State())
}

// MakeTurn answers 409 for a rejected move; the body still carries the unchanged state.
func (that *Server) MakeTurn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req TurnRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "cell is required"})
		return
	}

	result, state, err := that.game.MakeTurn(r.Context(), *req.Cell)
	if errors.Is(err, apperror.ErrInvalidMove) {
		that.writeJSON(w, http.StatusConflict, TurnResponse{Result: result, State: state, Error: err.Error()})
		return
	}

	if err != nil {
		that.logger.Error("failed to make turn", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, TurnResponse{Result: result, State: state})
}

func (that *Server) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	that.writeJSON(w, http.StatusOK, that.game.Reset(r.Context()))
}

func (that *Server) SetAI(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req AIRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if req.Enabled == nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "enabled is required"})
		return
	}

	that.writeJSON(w, http.StatusOK, that.game.SetAIEnabled(r.Context(), *req.Enabled))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (that *statusRecorder) WriteHeader(status int) {
	that.status = status
	that.ResponseWriter.WriteHeader(status)
}

func (that *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		that.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"client", realip.FromRequest(r),
			"duration", time.Since(started),
		)
	})
}
