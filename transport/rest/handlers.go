package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
)

type Handlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	DestroyGame(w http.ResponseWriter, r *http.Request)
	Play(w http.ResponseWriter, r *http.Request)
	JumpTo(w http.ResponseWriter, r *http.Request)
	ToggleSortOrder(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	CreateGame(ctx context.Context) (*entity.GameView, error)
	GetGame(ctx context.Context, id string) (*entity.GameView, error)
	Play(ctx context.Context, id string, cell int) (*entity.GameView, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.GameView, error)
	ToggleSortOrder(ctx context.Context, id string) (*entity.GameView, error)
	DestroyGame(ctx context.Context, id string) error
}

type playRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
}

func NewHandlers(logger *slog.Logger, gameManager gameManager) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameManager: gameManager,
	}
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "CreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) DestroyGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameManager.DestroyGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		that.writeError(w, "DestroyGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	game, err := that.gameManager.Play(r.Context(), chi.URLParam(r, "gameID"), *req.Cell)
	if err != nil {
		that.writeError(w, "Play", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) JumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Move == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "move is required"})
		return
	}

	game, err := that.gameManager.JumpTo(r.Context(), chi.URLParam(r, "gameID"), *req.Move)
	if err != nil {
		that.writeError(w, "JumpTo", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) ToggleSortOrder(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.ToggleSortOrder(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, "ToggleSortOrder", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// StatusFromError - maps domain errors onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrMoveOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
