package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/render/raster"
)

type touchRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type errorResponse struct {
	Error  string       `json:"error"`
	Reason string       `json:"reason,omitempty"`
	Game   *entity.Game `json:"game,omitempty"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.NewGame(r.Context())
	if err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	that.sendJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	that.sendJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.EndGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	that.sendJSON(w, http.StatusOK, game)
}

func (that *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	var req touchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.X == nil || req.Y == nil {
		that.sendJSON(w, http.StatusBadRequest, errorResponse{Error: "x and y are required"})
		return
	}

	result, err := that.games.Touch(r.Context(), chi.URLParam(r, "id"), *req.X, *req.Y)
	if err != nil {
		var game *entity.Game
		if result != nil {
			game = result.Game
		}
		that.sendError(w, r, err, game)
		return
	}

	that.sendJSON(w, http.StatusOK, result)
}

func (that *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	picture, err := that.games.Render(r.Context(), chi.URLParam(r, "id"), debugParam(r))
	if err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	that.sendJSON(w, http.StatusOK, picture)
}

func (that *Server) handleBoardPNG(w http.ResponseWriter, r *http.Request) {
	picture, err := that.games.Render(r.Context(), chi.URLParam(r, "id"), debugParam(r))
	if err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	var buf bytes.Buffer
	if err = raster.EncodePNG(&buf, picture.Commands, picture.Width, picture.Height); err != nil {
		that.sendError(w, r, err, nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err = buf.WriteTo(w); err != nil {
		that.logger.Error("failed to write png", "error", err)
	}
}

func debugParam(r *http.Request) bool {
	debug, err := strconv.ParseBool(r.URL.Query().Get("debug"))
	return err == nil && debug
}

func (that *Server) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// sendError maps use case errors to status codes.
func (that *Server) sendError(w http.ResponseWriter, r *http.Request, err error, game *entity.Game) {
	resp := errorResponse{Error: err.Error(), Reason: apperror.Reason(err), Game: game}

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.sendJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, apperror.ErrGameFinished):
		that.sendJSON(w, http.StatusConflict, resp)
	case apperror.IsRejection(err):
		that.sendJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		that.sendJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
