package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

const (
	BoardSide = 3
	BoardSize = BoardSide * BoardSide
)

// Cell is the content of a single square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the symbol that moves after this one.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	case "":
		*that = Empty
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidSymbol, text)
	}

	return nil
}

// Line is an ordered triple of cell indexes.
type Line [3]int

// WinLines are evaluated in this order: rows top-to-bottom, columns left-to-right, main diagonal, anti diagonal.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Winner struct {
	Symbol Cell `json:"symbol"`
	Line   Line `json:"line"`
}

// Board is a value type: every move returns a new Board, the receiver is never touched.
type Board [BoardSize]Cell

func (that Board) IsCellEmpty(cell int) bool {
	return IsValidCell(cell) && that[cell] == Empty
}

// ApplyMove - returns a copy of the board with symbol placed at cell.
func (that Board) ApplyMove(cell int, symbol Cell) (Board, error) {
	if !IsValidCell(cell) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if symbol != PlayerX && symbol != PlayerO {
		return that, fmt.Errorf("%w: %d", apperror.ErrInvalidSymbol, symbol)
	}

	if that[cell] != Empty {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	if _, won := that.CalculateWinner(); won {
		return that, apperror.ErrGameFinished
	}

	next := that
	next[cell] = symbol

	return next, nil
}

// CalculateWinner - returns the first line in WinLines held by a single symbol.
func (that Board) CalculateWinner() (Winner, bool) {
	for _, line := range WinLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != Empty && a == b && b == c {
			return Winner{Symbol: a, Line: line}, true
		}
	}

	return Winner{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that Board) IsDraw() bool {
	if _, won := that.CalculateWinner(); won {
		return false
	}

	return that.IsFull()
}

func (that Board) IsTerminal() bool {
	if _, won := that.CalculateWinner(); won {
		return true
	}

	return that.IsFull()
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// RowCol - returns the 1-indexed row and column of a cell.
func RowCol(cell int) (int, int) {
	return cell/BoardSide + 1, cell%BoardSide + 1
}

func FormatRowCol(cell int) string {
	row, col := RowCol(cell)
	return fmt.Sprintf("(%d, %d)", row, col)
}
