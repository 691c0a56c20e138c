package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const (
	labelGameStart = "Game start"
	statusDraw     = "It's a draw!"
)

// Game owns the history of one session and is the only thing allowed to change it.
// It is not safe for concurrent use.
type Game struct {
	history     []entity.Move
	currentMove int
	isAscending bool
}

func NewGame() *Game {
	return &Game{
		history:     []entity.Move{{Board: entity.Board{}}},
		isAscending: true,
	}
}

// Restore - rebuilds a game by replaying the cells of every ply.
func Restore(moves []int, currentMove int, isAscending bool) (*Game, error) {
	game := NewGame()

	for ply, cell := range moves {
		accepted, err := game.Play(cell)
		if err != nil {
			return nil, fmt.Errorf("%w: ply %d: %w", apperror.ErrCorruptedHistory, ply+1, err)
		}

		if !accepted {
			return nil, fmt.Errorf("%w: ply %d at cell %d is illegal", apperror.ErrCorruptedHistory, ply+1, cell)
		}
	}

	if err := game.JumpTo(currentMove); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedHistory, err)
	}

	game.isAscending = isAscending

	return game, nil
}

// Play - places the current player's symbol at cell.
// Returns false without error when the intent is ignored: the position is terminal or the cell is taken.
// A cell outside the board is not an ignored intent but a caller error, reported as ErrInvalidCell.
func (that *Game) Play(cell int) (bool, error) {
	if !entity.IsValidCell(cell) {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := that.CurrentBoard()
	if board.IsTerminal() || !board.IsCellEmpty(cell) {
		return false, nil
	}

	next, err := board.ApplyMove(cell, that.CurrentPlayer())
	if err != nil {
		return false, fmt.Errorf("apply move: %w", err)
	}

	played := cell
	that.history = append(that.history[:that.currentMove+1:that.currentMove+1], entity.Move{Board: next, Cell: &played})
	that.currentMove = len(that.history) - 1

	return true, nil
}

// JumpTo - moves the current position without touching the history.
func (that *Game) JumpTo(move int) error {
	if move < 0 || move >= len(that.history) {
		return fmt.Errorf("%w: move %d, history length %d", apperror.ErrMoveOutOfRange, move, len(that.history))
	}

	that.currentMove = move

	return nil
}

func (that *Game) ToggleSortOrder() {
	that.isAscending = !that.isAscending
}

func (that *Game) IsAscending() bool {
	return that.isAscending
}

func (that *Game) CurrentMove() int {
	return that.currentMove
}

func (that *Game) Len() int {
	return len(that.history)
}

// History - returns a copy of the records. Boards are values so nothing can leak back in.
func (that *Game) History() []entity.Move {
	history := make([]entity.Move, len(that.history))
	copy(history, that.history)

	return history
}

// Moves - returns the cell played at every ply, oldest first.
func (that *Game) Moves() []int {
	moves := make([]int, 0, len(that.history)-1)
	for _, record := range that.history[1:] {
		moves = append(moves, *record.Cell)
	}

	return moves
}

func (that *Game) CurrentBoard() entity.Board {
	return that.history[that.currentMove].Board
}

// CurrentPlayer - X opens, then the symbols alternate, so X moves on even plies.
func (that *Game) CurrentPlayer() entity.Cell {
	record := that.history[that.currentMove]
	if record.Cell == nil {
		return entity.PlayerX
	}

	return record.Board[*record.Cell].Opponent()
}

func (that *Game) Winner() (entity.Winner, bool) {
	return that.CurrentBoard().CalculateWinner()
}

// WinningLine - returns nil while nobody has won.
func (that *Game) WinningLine() *entity.Line {
	winner, ok := that.Winner()
	if !ok {
		return nil
	}

	return &winner.Line
}

func (that *Game) IsDraw() bool {
	return that.CurrentBoard().IsDraw()
}

func (that *Game) Status() string {
	if winner, ok := that.Winner(); ok {
		return "Winner: " + winner.Symbol.String()
	}

	if that.IsDraw() {
		return statusDraw
	}

	return "Next player: " + that.CurrentPlayer().String()
}

// MoveDescriptions - describes every record in display order.
// The location of an entry is computed from the cell stored in that entry.
func (that *Game) MoveDescriptions() []entity.MoveDescription {
	descriptions := make([]entity.MoveDescription, 0, len(that.history))

	for move, record := range that.history {
		description := entity.MoveDescription{
			Move:      move,
			Location:  labelGameStart,
			Label:     labelGameStart,
			IsCurrent: move == that.currentMove,
		}

		if record.Cell != nil {
			description.Location = entity.FormatRowCol(*record.Cell)

			if description.IsCurrent {
				description.Label = fmt.Sprintf("You are at move #%d %s", move, description.Location)
			} else {
				description.Label = fmt.Sprintf("Go to move #%d %s", move, description.Location)
			}
		}

		descriptions = append(descriptions, description)
	}

	if !that.isAscending {
		for i, j := 0, len(descriptions)-1; i < j; i, j = i+1, j-1 {
			descriptions[i], descriptions[j] = descriptions[j], descriptions[i]
		}
	}

	return descriptions
}
