package player

import (
	"blackhole/communication"
	"blackhole/game"
	"blackhole/gamemaster"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrQuit = errors.New("player quit")

// Player is a human at a terminal playing against the computer through a
// Communicator.
type Player struct {
	Communicator communication.Communicator
	in           *bufio.Scanner
	out          io.Writer
}

// NewPlayer creates a new Player reading moves from in and writing the board
// to out.
func NewPlayer(comm communication.Communicator, in io.Reader, out io.Writer) *Player {
	return &Player{
		Communicator: comm,
		in:           bufio.NewScanner(in),
		out:          out,
	}
}

// Play runs the turn loop until the game is over and returns the result.
func (p *Player) Play(ctx context.Context) (game.Result, error) {
	status, err := p.Communicator.Status(ctx)
	if err != nil {
		return game.Result{}, err
	}

	for !status.Over {
		if status.CurrentPlayer == game.Computer {
			fmt.Fprintln(p.out, "Computer is thinking...")
			var move int
			move, status, err = p.Communicator.ComputerMove(ctx)
			if err != nil {
				return game.Result{}, err
			}
			coords, _ := game.IndexToCoords(move)
			fmt.Fprintf(p.out, "Computer played %d (%d,%d)\n", move, coords.Col, coords.Row)
			continue
		}

		status, err = p.TakeTurn(ctx, status)
		if err != nil {
			return game.Result{}, err
		}
	}

	fmt.Fprint(p.out, render(status))
	fmt.Fprintln(p.out, announce(*status.Result))
	return *status.Result, nil
}

// TakeTurn prompts until the human makes a legal move, resets or quits.
func (p *Player) TakeTurn(ctx context.Context, status gamemaster.Status) (gamemaster.Status, error) {
	for {
		fmt.Fprint(p.out, render(status))
		fmt.Fprintf(p.out, "Your tile %d. Move (index or col,row), 'reset' or 'quit': ", status.NextValue)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return status, err
			}
			return status, ErrQuit
		}
		line := strings.TrimSpace(p.in.Text())

		switch line {
		case "":
			continue
		case "quit", "q":
			return status, ErrQuit
		case "reset":
			return p.Communicator.Reset(ctx)
		}

		index, err := parseMove(line)
		if err != nil {
			fmt.Fprintf(p.out, "Cannot read %q: %v\n", line, err)
			continue
		}

		next, err := p.Communicator.Play(ctx, index)
		if errors.Is(err, game.ErrInvalidMove) || errors.Is(err, gamemaster.ErrWrongTurn) {
			fmt.Fprintf(p.out, "Move rejected: %v\n", err)
			continue
		}
		return next, err
	}
}

// parseMove accepts a cell index ("7") or coordinates ("1,3").
func parseMove(s string) (int, error) {
	col, row, found := strings.Cut(s, ",")
	if !found {
		return strconv.Atoi(s)
	}

	c, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return 0, err
	}
	r, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil {
		return 0, err
	}
	index, ok := game.Coordinates{Col: c, Row: r}.Index()
	if !ok {
		return 0, fmt.Errorf("(%d,%d) is outside the board", c, r)
	}
	return index, nil
}

func render(status gamemaster.Status) string {
	return game.Render(func(i int) (game.Tile, bool) {
		if i < len(status.Cells) && status.Cells[i] != nil {
			return *status.Cells[i], true
		}
		return game.Tile{}, false
	})
}

func announce(result game.Result) string {
	switch {
	case result.Draw:
		return "Draw"
	case result.Winner == game.Human:
		return fmt.Sprintf("You win by %d", result.Margin)
	default:
		return fmt.Sprintf("You lose by %d", result.Margin)
	}
}
