package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mridul45/Expectimax-Search/internal/domain"
)

func main() {
	defaults := domain.DefaultSolverConfig()
	depth := flag.Int("depth", defaults.MaxDepth, "maximum search depth")
	budget := flag.Duration("budget", 500*time.Millisecond, "think time per analysis")
	flag.Parse()

	scanner := bufio.NewScanner(os.Stdin)
	evaluator := domain.NewHeuristicEvaluator(domain.DefaultWeights())

	config := defaults
	config.MaxDepth = *depth
	config.TimeBudget = *budget

	fmt.Println("=== 2048 Interactive Analyzer ===")
	fmt.Println("Enter board state as 16 numbers (0 for empty), or 'quit' to exit")
	fmt.Println("Example: 0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2")
	fmt.Println()

	for {
		board := inputBoard(scanner)
		if board == nil {
			break
		}

		for {
			fmt.Println("\nCurrent board:")
			fmt.Println(board)

			if board.IsGameOver() {
				fmt.Println("Game Over!")
				break
			}

			fmt.Printf("\nSearch depth: %d, budget: %s\n", config.MaxDepth, config.TimeBudget)
			fmt.Println("Analyzing best move...")

			solver := domain.NewSolver(evaluator, config, nil)
			result := solver.Search(*board)
			if result.Direction == domain.None {
				fmt.Println("No valid moves available!")
				break
			}

			fmt.Printf("\n=== Recommended move: %s (depth %d, %d nodes, %s) ===\n",
				result.Direction, result.Depth, result.Nodes, result.Elapsed.Round(time.Millisecond))
			if result.Fallback {
				fmt.Println("(time ran out before any depth completed; first legal move)")
			}

			analysis, err := solver.AnalyzeMoves(context.Background(), *board)
			if err != nil {
				fmt.Printf("Analysis failed: %v\n", err)
			} else {
				fmt.Println("\nMove scores:")
				for _, m := range analysis {
					fmt.Printf("  %-5s: %.2f (depth %d, +%d)", m.Direction, m.Score, m.Depth, m.Gained)
					if m.Direction == result.Direction {
						fmt.Print(" <- BEST")
					}
					fmt.Println()
				}
			}

			fmt.Println("\nOptions:")
			fmt.Println("  1. Apply suggested move and add new tile")
			fmt.Println("  2. Enter custom move and new tile")
			fmt.Println("  3. Change search depth")
			fmt.Println("  4. Change time budget")
			fmt.Println("  5. New board")
			fmt.Println("  6. Quit")
			fmt.Print("Choice: ")

			if !scanner.Scan() {
				return
			}
			choice := strings.TrimSpace(scanner.Text())

			switch choice {
			case "1":
				board = applyMoveWithNewTile(scanner, *board, result.Direction)
			case "2":
				board = customMoveWithNewTile(scanner, *board)
			case "3":
				config.MaxDepth = changeDepth(scanner, config.MaxDepth)
			case "4":
				config.TimeBudget = changeBudget(scanner, config.TimeBudget)
			case "5":
			case "6":
				return
			default:
				fmt.Println("Invalid choice")
			}

			if choice == "5" {
				break
			}
		}
	}
}

func inputBoard(scanner *bufio.Scanner) *domain.Board {
	for {
		fmt.Println("Enter board (16 numbers separated by spaces, or 'quit'):")
		if !scanner.Scan() {
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "quit" {
			return nil
		}

		board, err := parseBoard(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		return &board
	}
}

func parseBoard(input string) (domain.Board, error) {
	parts := strings.Fields(input)
	if len(parts) != domain.Cells {
		return domain.Board{}, fmt.Errorf("need exactly %d numbers, got %d", domain.Cells, len(parts))
	}

	var values [domain.Cells]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return domain.Board{}, fmt.Errorf("parse %q: %w", p, err)
		}
		if v != 0 && (v < 2 || v&(v-1) != 0) {
			return domain.Board{}, fmt.Errorf("%d is not a tile value", v)
		}
		values[i] = v
	}
	return domain.NewBoardFromValues(values), nil
}

func applyMoveWithNewTile(scanner *bufio.Scanner, board domain.Board, dir domain.Direction) *domain.Board {
	newBoard, moved, score := board.Move(dir)
	if !moved {
		fmt.Printf("\n%s does not move anything\n", dir)
		return &board
	}
	fmt.Printf("\nApplied %s (score gained: +%d)\n", dir, score)
	fmt.Println(newBoard)

	fmt.Println("\nEmpty cells:")
	for _, i := range newBoard.EmptyCells() {
		fmt.Printf("  (%d,%d)\n", i/domain.Size, i%domain.Size)
	}

	fmt.Print("\nEnter new tile position (row col) and value (2 or 4): ")
	scanner.Scan()
	parts := strings.Fields(scanner.Text())

	if len(parts) != 3 {
		fmt.Println("Invalid input. Format: row col value")
		return &board
	}

	row, _ := strconv.Atoi(parts[0])
	col, _ := strconv.Atoi(parts[1])
	val, _ := strconv.Atoi(parts[2])

	if row < 0 || row >= domain.Size || col < 0 || col >= domain.Size || newBoard.Get(row, col) != 0 {
		fmt.Println("Invalid position")
		return &board
	}

	if val != 2 && val != 4 {
		fmt.Println("Value must be 2 or 4")
		return &board
	}

	finalBoard := newBoard.Set(row, col, val)
	return &finalBoard
}

func customMoveWithNewTile(scanner *bufio.Scanner, board domain.Board) *domain.Board {
	fmt.Print("Enter direction (u/d/l/r): ")
	scanner.Scan()

	dir, ok := domain.ParseDirection(scanner.Text())
	if !ok {
		fmt.Println("Invalid direction")
		return &board
	}

	return applyMoveWithNewTile(scanner, board, dir)
}

func changeDepth(scanner *bufio.Scanner, currentDepth int) int {
	fmt.Printf("Enter new depth (current: %d): ", currentDepth)
	scanner.Scan()
	newDepth, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || newDepth < 2 || newDepth > 10 {
		fmt.Println("Invalid depth (must be 2-10)")
		return currentDepth
	}
	return newDepth
}

func changeBudget(scanner *bufio.Scanner, current time.Duration) time.Duration {
	fmt.Printf("Enter new budget, e.g. 200ms (current: %s): ", current)
	scanner.Scan()
	d, err := time.ParseDuration(strings.TrimSpace(scanner.Text()))
	if err != nil || d < 0 {
		fmt.Println("Invalid duration")
		return current
	}
	return d
}
