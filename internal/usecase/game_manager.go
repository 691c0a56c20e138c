package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error
	GetByID(ctx context.Context, id string) (*entity.GameRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager owns the lifecycle of game sessions. Intents are applied one at a time.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := pkg.GenerateGameID()
	game := tictactoe.NewGame()

	if err := that.saveGame(ctx, id, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", id)

	return NewGameView(id, game), nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return NewGameView(id, game), nil
}

// Play - an ignored intent is not an error, the unchanged view is returned.
func (that *GameManager) Play(ctx context.Context, id string, cell int) (*entity.GameView, error) {
	return that.update(ctx, id, func(game *tictactoe.Game) (bool, error) {
		accepted, err := game.Play(cell)
		if err != nil {
			return false, fmt.Errorf("failed to play cell %d: %w", cell, err)
		}

		if !accepted {
			that.logger.Debug("move ignored", "gameID", id, "cell", cell, "status", game.Status())
		}

		return accepted, nil
	})
}

func (that *GameManager) JumpTo(ctx context.Context, id string, move int) (*entity.GameView, error) {
	return that.update(ctx, id, func(game *tictactoe.Game) (bool, error) {
		if err := game.JumpTo(move); err != nil {
			return false, fmt.Errorf("failed to jump: %w", err)
		}

		return true, nil
	})
}

func (that *GameManager) ToggleSortOrder(ctx context.Context, id string) (*entity.GameView, error) {
	return that.update(ctx, id, func(game *tictactoe.Game) (bool, error) {
		game.ToggleSortOrder()

		return true, nil
	})
}

func (that *GameManager) DestroyGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game destroyed", "gameID", id)

	return nil
}

func (that *GameManager) update(ctx context.Context, id string, apply func(game *tictactoe.Game) (bool, error)) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := apply(game)
	if err != nil {
		return nil, err
	}

	if changed {
		if err = that.saveGame(ctx, id, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	return NewGameView(id, game), nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*tictactoe.Game, error) {
	record, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err := tictactoe.Restore(record.Moves, record.CurrentMove, record.IsAscending)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	return game, nil
}

func (that *GameManager) saveGame(ctx context.Context, id string, game *tictactoe.Game) error {
	record := &entity.GameRecord{
		ID:          id,
		Moves:       game.Moves(),
		CurrentMove: game.CurrentMove(),
		IsAscending: game.IsAscending(),
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, record); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// NewGameView - builds the read model of a game.
func NewGameView(id string, game *tictactoe.Game) *entity.GameView {
	view := &entity.GameView{
		ID:            id,
		Board:         game.CurrentBoard(),
		CurrentMove:   game.CurrentMove(),
		HistoryLength: game.Len(),
		NextPlayer:    game.CurrentPlayer(),
		Status:        game.Status(),
		IsDraw:        game.IsDraw(),
		IsAscending:   game.IsAscending(),
		Moves:         game.MoveDescriptions(),
	}

	if winner, ok := game.Winner(); ok {
		view.Winner = &winner
	}

	return view
}
