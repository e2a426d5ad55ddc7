package usecase

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mridul45/Expectimax-Search/internal/domain"
)

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	Solver  domain.SolverConfig
	Weights domain.Weights
	Delay   time.Duration
	// MaxMoves が0より大きければその手数で打ち切る
	MaxMoves int
	// StopOnWin が真なら2048に到達した時点で止める
	StopOnWin bool
	Verbose   bool
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	return AutoPlayConfig{
		Solver:  domain.DefaultSolverConfig(),
		Weights: domain.DefaultWeights(),
		Delay:   100 * time.Millisecond,
		Verbose: true,
	}
}

// AutoPlayResult は自動プレイの結果
type AutoPlayResult struct {
	Score   int
	Moves   int
	MaxTile int
	Won     bool
}

// AutoPlay は自動でゲームをプレイする
func AutoPlay(w io.Writer, logger zerolog.Logger, game *domain.Game, rng domain.RandomSource, config AutoPlayConfig) AutoPlayResult {
	evaluator := domain.NewHeuristicEvaluator(config.Weights)
	solver := domain.NewSolver(evaluator, config.Solver, rng)

	moves := 0

	if config.Verbose {
		fmt.Fprintln(w, "=== 2048 AutoPlay ===")
		fmt.Fprintf(w, "Depth: %d, Budget: %s\n\n", config.Solver.MaxDepth, config.Solver.TimeBudget)
	}

	for !game.IsGameOver() {
		if config.MaxMoves > 0 && moves >= config.MaxMoves {
			break
		}
		if config.StopOnWin && game.Won() {
			break
		}

		board := game.Board()
		if config.Verbose {
			fmt.Fprint(w, board)
			fmt.Fprintf(w, "Score: %d, Moves: %d\n", game.Score(), moves)
		}

		res := solver.Search(board)
		if res.Direction == domain.None {
			break
		}

		logger.Debug().
			Str("dir", res.Direction.String()).
			Int("depth", res.Depth).
			Float64("score", res.Score).
			Bool("cutoff", res.Cutoff).
			Bool("fallback", res.Fallback).
			Int("nodes", res.Nodes).
			Int("cache-hits", res.CacheHits).
			Dur("elapsed", res.Elapsed).
			Msg("best-move")

		if config.Verbose {
			fmt.Fprintf(w, "Move: %s\n\n", res.Direction)
		}

		game.Move(res.Direction)
		moves++

		if config.Delay > 0 {
			time.Sleep(config.Delay)
		}
	}

	board := game.Board()
	result := AutoPlayResult{
		Score:   game.Score(),
		Moves:   moves,
		MaxTile: board.MaxTile(),
		Won:     game.Won(),
	}

	// 最終結果は常に表示
	fmt.Fprint(w, board)
	fmt.Fprintln(w, "=== Game Over ===")
	fmt.Fprintf(w, "Final Score: %d\n", result.Score)
	fmt.Fprintf(w, "Total Moves: %d\n", result.Moves)
	fmt.Fprintf(w, "Max Tile: %d\n", result.MaxTile)

	logger.Info().
		Int("score", result.Score).
		Int("moves", result.Moves).
		Int("max-tile", result.MaxTile).
		Bool("won", result.Won).
		Msg("autoplay-finished")

	return result
}
