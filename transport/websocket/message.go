package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
)

const (
	ActionNewGame   = "game:new"
	ActionGetGame   = "game:get"
	ActionPlay      = "game:play"
	ActionJump      = "game:jump"
	ActionSort      = "game:sort"
	ActionCloseGame = "game:close"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingGameID  = errors.New("game id is required")
	ErrMissingCell    = errors.New("cell is required")
	ErrMissingMove    = errors.New("move is required")
	errInternalServer = errors.New("internal server error")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string   `json:"action"`
	Payload *Payload `json:"payload,omitempty"`
}

type Payload struct {
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
	Move   *int   `json:"move,omitempty"`
}

type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}

type ResponsePayload struct {
	Game  *entity.GameView `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}

// processMessage - dispatches a message to its handler and wraps the outcome.
func (that *Server) processMessage(ctx context.Context, msg *Message) Response {
	response := Response{Action: msg.Action}

	handler, ok := that.handlers[msg.Action]
	if !ok {
		response.Payload.Error = fmt.Errorf("%w: %s", ErrUnknownAction, msg.Action).Error()
		return response
	}

	payload := msg.Payload
	if payload == nil {
		payload = &Payload{}
	}

	game, err := handler(ctx, payload)
	if err != nil {
		response.Payload.Error = that.publicError(msg.Action, err).Error()
		return response
	}

	response.Payload.Game = game

	return response
}

func (that *Server) publicError(action string, err error) error {
	switch {
	case errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrMoveOutOfRange),
		errors.Is(err, ErrMissingGameID),
		errors.Is(err, ErrMissingCell),
		errors.Is(err, ErrMissingMove):
		return err
	default:
		that.logger.Error("action failed", "action", action, "error", err)
		return errInternalServer
	}
}

func (that *Server) handleNewGame(ctx context.Context, _ *Payload) (*entity.GameView, error) {
	return that.gameManager.CreateGame(ctx)
}

func (that *Server) handleGetGame(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.GameID == "" {
		return nil, ErrMissingGameID
	}

	return that.gameManager.GetGame(ctx, payload.GameID)
}

func (that *Server) handlePlay(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.GameID == "" {
		return nil, ErrMissingGameID
	}

	if payload.Cell == nil {
		return nil, ErrMissingCell
	}

	return that.gameManager.Play(ctx, payload.GameID, *payload.Cell)
}

func (that *Server) handleJump(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.GameID == "" {
		return nil, ErrMissingGameID
	}

	if payload.Move == nil {
		return nil, ErrMissingMove
	}

	return that.gameManager.JumpTo(ctx, payload.GameID, *payload.Move)
}

func (that *Server) handleSort(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.GameID == "" {
		return nil, ErrMissingGameID
	}

	return that.gameManager.ToggleSortOrder(ctx, payload.GameID)
}

// handleCloseGame - destroys the session; the response carries no game.
func (that *Server) handleCloseGame(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.GameID == "" {
		return nil, ErrMissingGameID
	}

	if err := that.gameManager.DestroyGame(ctx, payload.GameID); err != nil {
		return nil, err
	}

	return nil, nil
}
