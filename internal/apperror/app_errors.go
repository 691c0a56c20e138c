package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidSymbol    = errors.New("invalid player symbol")
	ErrMoveOutOfRange   = errors.New("move is out of history range")
	ErrCorruptedHistory = errors.New("history is not a legal game")
)
