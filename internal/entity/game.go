package entity

// Move is one history record: the board after the ply and the cell that was played.
// Cell is nil for the synthetic start-of-game record.
type Move struct {
	Board Board `json:"board"`
	Cell  *int  `json:"cell,omitempty"`
}

type MoveDescription struct {
	Move      int    `json:"move"`
	Location  string `json:"location"`
	Label     string `json:"label"`
	IsCurrent bool   `json:"is_current"`
}

// GameView is the read model handed to the transports.
type GameView struct {
	ID            string            `json:"id"`
	Board         Board             `json:"board"`
	CurrentMove   int               `json:"current_move"`
	HistoryLength int               `json:"history_length"`
	NextPlayer    Cell              `json:"next_player"`
	Status        string            `json:"status"`
	Winner        *Winner           `json:"winner,omitempty"`
	IsDraw        bool              `json:"is_draw"`
	IsAscending   bool              `json:"is_ascending"`
	Moves         []MoveDescription `json:"moves"`
}

// GameRecord is the stored form of a session. Boards are rebuilt by replaying Moves.
type GameRecord struct {
	ID          string `json:"id"`
	Moves       []int  `json:"moves"`
	CurrentMove int    `json:"current_move"`
	IsAscending bool   `json:"is_ascending"`
}
