package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.Empty
)

func playAll(t *testing.T, game *Game, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		accepted, err := game.Play(cell)
		require.NoError(t, err)
		require.True(t, accepted, "move at cell %d was ignored", cell)
	}
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame()

	// Then: history holds only the empty board and X is to move
	require.Equal(t, 1, game.Len())
	assert.Equal(t, 0, game.CurrentMove())
	assert.Equal(t, entity.Board{}, game.CurrentBoard())
	assert.Equal(t, x, game.CurrentPlayer())
	assert.Equal(t, "Next player: X", game.Status())
	assert.Nil(t, game.WinningLine())
	assert.True(t, game.IsAscending())
	assert.Nil(t, game.History()[0].Cell)
}

func TestGame_Play(t *testing.T) {
	t.Run("Play", func(t *testing.T) {
		// Given: a new game
		game := NewGame()

		// When: X plays the centre
		accepted, err := game.Play(4)

		// Then: the move is recorded and O is next
		require.NoError(t, err)
		require.True(t, accepted)
		assert.Equal(t, 2, game.Len())
		assert.Equal(t, 1, game.CurrentMove())
		assert.Equal(t, entity.Board{e, e, e, e, x, e, e, e, e}, game.CurrentBoard())
		assert.Equal(t, o, game.CurrentPlayer())
		assert.Equal(t, "Next player: O", game.Status())
	})

	t.Run("Occupied cell is ignored and idempotent", func(t *testing.T) {
		// Given: X holds cell 0
		game := NewGame()
		playAll(t, game, 0)
		before := game.History()

		// When: O clicks cell 0 twice
		first, err := game.Play(0)
		require.NoError(t, err)
		second, err := game.Play(0)
		require.NoError(t, err)

		// Then: both intents are dropped and nothing changes
		assert.False(t, first)
		assert.False(t, second)
		assert.Equal(t, before, game.History())
		assert.Equal(t, 1, game.CurrentMove())
	})

	t.Run("Invalid cell is a caller error", func(t *testing.T) {
		game := NewGame()

		_, err := game.Play(9)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = game.Play(-1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		assert.Equal(t, 1, game.Len())
	})

	t.Run("Move after game finished is ignored", func(t *testing.T) {
		// Given: X has won along the top row
		game := NewGame()
		playAll(t, game, 0, 4, 1, 5, 2)

		// When: O tries to keep playing
		accepted, err := game.Play(8)

		// Then: the intent is dropped
		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, 6, game.Len())
	})

	t.Run("Move after draw is ignored", func(t *testing.T) {
		// Given: a drawn game
		game := NewGame()
		playAll(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)
		require.Equal(t, "It's a draw!", game.Status())

		// When: anyone plays
		accepted, err := game.Play(4)

		// Then: nothing happens
		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, 10, game.Len())
	})
}

func TestGame_JumpTo(t *testing.T) {
	t.Run("Round trip returns the stored snapshot", func(t *testing.T) {
		// Given: a game with four plies
		game := NewGame()
		playAll(t, game, 0, 4, 8, 2)
		history := game.History()

		for k := range history {
			// When: jumping to move k
			require.NoError(t, game.JumpTo(k))

			// Then: the current board is exactly history[k] and history is untouched
			assert.Equal(t, history[k].Board, game.CurrentBoard())
			assert.Equal(t, history, game.History())
		}
	})

	t.Run("Active player follows the position", func(t *testing.T) {
		game := NewGame()
		playAll(t, game, 0, 4, 8)

		require.NoError(t, game.JumpTo(1))
		assert.Equal(t, o, game.CurrentPlayer())

		require.NoError(t, game.JumpTo(2))
		assert.Equal(t, x, game.CurrentPlayer())
	})

	t.Run("Out of range is a caller error", func(t *testing.T) {
		// Given: a game with one ply
		game := NewGame()
		playAll(t, game, 0)

		// When: jumping outside the history
		errHigh := game.JumpTo(2)
		errLow := game.JumpTo(-1)

		// Then: ErrMoveOutOfRange is returned and the position is kept
		require.ErrorIs(t, errHigh, apperror.ErrMoveOutOfRange)
		require.ErrorIs(t, errLow, apperror.ErrMoveOutOfRange)
		assert.Equal(t, 1, game.CurrentMove())
	})

	t.Run("Branching truncates the future", func(t *testing.T) {
		// Given: five plies and a jump back to move 2
		game := NewGame()
		playAll(t, game, 0, 4, 1, 5, 8)
		before := game.History()
		require.NoError(t, game.JumpTo(2))

		// When: a new move is played from there
		playAll(t, game, 6)

		// Then: history is k+2 long, the prefix is kept and the old future is gone
		require.Equal(t, 4, game.Len())
		assert.Equal(t, 3, game.CurrentMove())
		assert.Equal(t, before[:3], game.History()[:3])
		assert.Equal(t, []int{0, 4, 6}, game.Moves())
		assert.Equal(t, entity.Board{x, e, e, e, o, e, x, e, e}, game.CurrentBoard())
	})

	t.Run("Earlier snapshots are not aliased by later branches", func(t *testing.T) {
		game := NewGame()
		playAll(t, game, 0, 4)
		snapshot := game.History()

		require.NoError(t, game.JumpTo(1))
		playAll(t, game, 8)

		assert.Equal(t, entity.Board{x, e, e, e, o, e, e, e, e}, snapshot[2].Board)
	})
}

func TestGame_Status(t *testing.T) {
	t.Run("Winner X on the top row", func(t *testing.T) {
		// Given: X at {0,1,2}, O at {3,4}
		game := NewGame()
		playAll(t, game, 0, 3, 1, 4, 2)

		// Then: X wins along [0,1,2]
		assert.Equal(t, "Winner: X", game.Status())
		require.NotNil(t, game.WinningLine())
		assert.Equal(t, entity.Line{0, 1, 2}, *game.WinningLine())
	})

	t.Run("Draw", func(t *testing.T) {
		game := NewGame()
		playAll(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		assert.Equal(t, "It's a draw!", game.Status())
		assert.True(t, game.IsDraw())
		assert.Nil(t, game.WinningLine())
	})
}

func TestGame_FullScenario(t *testing.T) {
	// Given: X@0, O@4, X@1, O@5, X@2
	game := NewGame()
	playAll(t, game, 0, 4, 1, 5, 2)

	// Then: X wins on [0,1,2]
	winner, ok := game.Winner()
	require.True(t, ok)
	assert.Equal(t, entity.Winner{Symbol: x, Line: entity.Line{0, 1, 2}}, winner)

	// When: play(8) on the finished board
	accepted, err := game.Play(8)

	// Then: it is a no-op
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 6, game.Len())

	// When: jumping to the start and playing 8
	require.NoError(t, game.JumpTo(0))
	accepted, err = game.Play(8)

	// Then: a new branch of length 2 exists
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 2, game.Len())
	assert.Equal(t, entity.Board{e, e, e, e, e, e, e, e, x}, game.CurrentBoard())
}

func TestGame_ReachableBoards(t *testing.T) {
	seen := make(map[entity.Board]bool)

	var walk func(game *Game)
	walk = func(game *Game) {
		board := game.CurrentBoard()
		seen[board] = true

		// Then: every completed line on a reachable board belongs to the same symbol
		completed := [3]bool{}
		for _, line := range entity.WinLines {
			first := board[line[0]]
			if first != e && first == board[line[1]] && first == board[line[2]] {
				completed[first] = true
			}
		}

		require.False(t, completed[x] && completed[o], "board %v has lines for both symbols", board)

		if winner, ok := board.CalculateWinner(); ok {
			require.True(t, completed[winner.Symbol])
		}

		// Then: the player to move follows the ply parity
		expected := x
		if game.CurrentMove()%2 == 1 {
			expected = o
		}

		require.Equal(t, expected, game.CurrentPlayer())

		// When: every cell is tried from this position
		from := game.CurrentMove()
		for cell := 0; cell < entity.BoardSize; cell++ {
			accepted, err := game.Play(cell)
			require.NoError(t, err)

			if !accepted {
				continue
			}

			walk(game)
			require.NoError(t, game.JumpTo(from))
		}
	}

	// Given: a fresh game explored depth first through Play and JumpTo
	walk(NewGame())

	// Then: all distinct reachable boards were visited
	assert.Len(t, seen, 5478)
}

func TestGame_MoveDescriptions(t *testing.T) {
	t.Run("Each entry shows its own cell", func(t *testing.T) {
		// Given: three plies, positioned at move 2
		game := NewGame()
		playAll(t, game, 0, 4, 8)
		require.NoError(t, game.JumpTo(2))

		// When: describing the moves
		descriptions := game.MoveDescriptions()

		// Then: labels use the location of each record
		expected := []entity.MoveDescription{
			{Move: 0, Location: "Game start", Label: "Game start"},
			{Move: 1, Location: "(1, 1)", Label: "Go to move #1 (1, 1)"},
			{Move: 2, Location: "(2, 2)", Label: "You are at move #2 (2, 2)", IsCurrent: true},
			{Move: 3, Location: "(3, 3)", Label: "Go to move #3 (3, 3)"},
		}
		assert.Equal(t, expected, descriptions)
	})

	t.Run("Start entry is current on a new game", func(t *testing.T) {
		descriptions := NewGame().MoveDescriptions()

		require.Len(t, descriptions, 1)
		assert.Equal(t, entity.MoveDescription{Move: 0, Location: "Game start", Label: "Game start", IsCurrent: true}, descriptions[0])
	})

	t.Run("Sort toggle only changes the presentation order", func(t *testing.T) {
		// Given: a game with two plies
		game := NewGame()
		playAll(t, game, 0, 4)
		history := game.History()
		ascending := game.MoveDescriptions()

		// When: toggling the sort order
		game.ToggleSortOrder()

		// Then: descriptions are reversed, state is unchanged
		assert.False(t, game.IsAscending())
		descending := game.MoveDescriptions()
		require.Len(t, descending, 3)
		assert.Equal(t, ascending[2], descending[0])
		assert.Equal(t, ascending[0], descending[2])
		assert.Equal(t, history, game.History())
		assert.Equal(t, 2, game.CurrentMove())

		// When: toggling back
		game.ToggleSortOrder()

		// Then: the original order returns
		assert.Equal(t, ascending, game.MoveDescriptions())
	})
}

func TestRestore(t *testing.T) {
	t.Run("Replays the moves", func(t *testing.T) {
		// Given: the moves of a played game
		original := NewGame()
		playAll(t, original, 0, 4, 1)
		require.NoError(t, original.JumpTo(1))
		original.ToggleSortOrder()

		// When: restoring from its compact form
		restored, err := Restore(original.Moves(), original.CurrentMove(), original.IsAscending())

		// Then: both games are identical
		require.NoError(t, err)
		assert.Equal(t, original.History(), restored.History())
		assert.Equal(t, 1, restored.CurrentMove())
		assert.False(t, restored.IsAscending())
	})

	t.Run("Rejects a repeated cell", func(t *testing.T) {
		_, err := Restore([]int{0, 0}, 1, true)

		require.ErrorIs(t, err, apperror.ErrCorruptedHistory)
	})

	t.Run("Rejects moves after a win", func(t *testing.T) {
		_, err := Restore([]int{0, 3, 1, 4, 2, 5}, 6, true)

		require.ErrorIs(t, err, apperror.ErrCorruptedHistory)
	})

	t.Run("Rejects an invalid cell", func(t *testing.T) {
		_, err := Restore([]int{12}, 1, true)

		require.ErrorIs(t, err, apperror.ErrCorruptedHistory)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Rejects a position outside the history", func(t *testing.T) {
		_, err := Restore([]int{0}, 5, true)

		require.ErrorIs(t, err, apperror.ErrCorruptedHistory)
		require.ErrorIs(t, err, apperror.ErrMoveOutOfRange)
	})
}
