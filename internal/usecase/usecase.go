package usecase

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mridul45/Expectimax-Search/internal/domain"
)

// PlayGame はCLIで2048ゲームを実行する
// solverがnilならヒントは使えない
func PlayGame(r io.Reader, w io.Writer, game *domain.Game, solver *domain.Solver) {
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, u=Undo, n=New, h=Hint, q=Quit")
	fmt.Fprintln(w)

	for {
		snap := game.Snapshot()
		fmt.Fprint(w, game.Board())
		fmt.Fprintf(w, "Score: %d  Best: %d\n", snap.Score, snap.Best)

		if snap.Won {
			fmt.Fprintln(w, "You made 2048!")
		}
		if snap.Over {
			fmt.Fprintln(w, "Game Over! (u=Undo, n=New, q=Quit)")
		}

		fmt.Fprint(w, "Move: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		input = strings.TrimSpace(strings.ToLower(input))
		switch input {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return
		case "u":
			if !game.Undo() {
				fmt.Fprintln(w, "Nothing to undo.")
			}
			fmt.Fprintln(w)
			continue
		case "n":
			game.Restart()
			fmt.Fprintln(w)
			continue
		case "h":
			if solver == nil {
				fmt.Fprintln(w, "Hint is disabled.")
			} else {
				res := solver.Search(game.Board())
				fmt.Fprintf(w, "Hint: %s (depth %d)\n", res.Direction, res.Depth)
			}
			fmt.Fprintln(w)
			continue
		}

		dir, ok := parseDirection(input)
		if !ok {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, u, n, h or q to quit.")
			continue
		}

		if snap.Over {
			fmt.Fprintln(w, "No moves left.")
		} else if out := game.Move(dir); !out.Moved {
			fmt.Fprintln(w, "Cannot move in that direction.")
		}
		fmt.Fprintln(w)
	}
}

func parseDirection(input string) (domain.Direction, bool) {
	switch input {
	case "w":
		return domain.Up, true
	case "s":
		return domain.Down, true
	case "a":
		return domain.Left, true
	case "d":
		return domain.Right, true
	default:
		return domain.None, false
	}
}
