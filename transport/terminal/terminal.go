package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const helpText = `commands:
  play <cell>   place the next symbol, cells are 1..9 row by row
  jump <move>   go to a move from the list
  sort          toggle ascending/descending move list
  new           start over
  quit          leave
`

var errQuit = errors.New("quit")

// Terminal is a line based presentation adapter over a single in-process game.
type Terminal struct {
	logger *slog.Logger
	output *termenv.Output
	game   *tictactoe.Game
}

func New(logger *slog.Logger, out io.Writer, profile termenv.Profile) *Terminal {
	return &Terminal{
		logger: logger.With("component", "terminal"),
		output: termenv.NewOutput(out, termenv.WithProfile(profile)),
		game:   tictactoe.NewGame(),
	}
}

// Run - reads commands until quit, EOF or ctx cancellation.
// Cancellation is honoured while waiting for input.
func (that *Terminal) Run(ctx context.Context, in io.Reader) error {
	lines, readErr := readLines(ctx, in)

	that.render()

	for {
		if ctx.Err() != nil {
			return nil
		}

		that.printf("> ")

		var line string
		var ok bool

		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			select {
			case err := <-readErr:
				return fmt.Errorf("failed to read command: %w", err)
			default:
				return nil
			}
		}

		err := that.execute(line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			that.printf("%s\n", that.output.String(err.Error()).Foreground(that.output.Color("1")))
		default:
			that.render()
		}
	}
}

// readLines - scans in on its own goroutine. lines is closed on EOF, on a read error
// (sent to the error channel first) or when ctx is done.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			readErr <- err
		}
	}()

	return lines, readErr
}

func (that *Terminal) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "play", "p":
		cell, err := argument(fields)
		if err != nil {
			return err
		}

		accepted, err := that.game.Play(cell - 1)
		if err != nil {
			return fmt.Errorf("cell must be between 1 and %d", entity.BoardSize)
		}

		if !accepted {
			that.logger.Debug("move ignored", "cell", cell)
		}
	case "jump", "j":
		move, err := argument(fields)
		if err != nil {
			return err
		}

		if err = that.game.JumpTo(move); err != nil {
			if errors.Is(err, apperror.ErrMoveOutOfRange) {
				return fmt.Errorf("move must be between 0 and %d", that.game.Len()-1)
			}

			return err
		}
	case "sort", "s":
		that.game.ToggleSortOrder()
	case "new", "n":
		that.game = tictactoe.NewGame()
	case "help", "h", "?":
		that.printf("%s", helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, type help", fields[0])
	}

	return nil
}

func argument(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s needs a number", fields[0])
	}

	value, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", fields[1])
	}

	return value, nil
}

func (that *Terminal) render() {
	board := that.game.CurrentBoard()

	statusStyle := that.output.String(that.game.Status()).Bold()

	var highlighted [entity.BoardSize]bool
	if line := that.game.WinningLine(); line != nil {
		for _, cell := range line {
			highlighted[cell] = true
		}

		statusStyle = statusStyle.Foreground(that.output.Color("2"))
	}

	that.printf("\n%s\n\n", statusStyle)

	for row := 0; row < entity.BoardSide; row++ {
		squares := make([]string, 0, entity.BoardSide)

		for col := 0; col < entity.BoardSide; col++ {
			cell := row*entity.BoardSide + col
			squares = append(squares, that.square(board[cell], cell, highlighted[cell]))
		}

		that.printf(" %s\n", strings.Join(squares, " | "))
	}

	that.printf("\n")

	order := "ASC"
	if !that.game.IsAscending() {
		order = "DESC"
	}

	that.printf("moves (%s):\n", order)

	for _, description := range that.game.MoveDescriptions() {
		label := that.output.String(description.Label)
		if description.IsCurrent && description.Move > 0 {
			label = label.Underline()
		}

		that.printf("  %d. %s\n", description.Move, label)
	}
}

func (that *Terminal) square(value entity.Cell, cell int, highlighted bool) string {
	if value == entity.Empty {
		return that.output.String(strconv.Itoa(cell + 1)).Faint().String()
	}

	style := that.output.String(value.String())
	if highlighted {
		style = style.Bold().Foreground(that.output.Color("2"))
	}

	return style.String()
}

func (that *Terminal) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.output, format, args...); err != nil {
		that.logger.Error("failed to write", "error", err)
	}
}
