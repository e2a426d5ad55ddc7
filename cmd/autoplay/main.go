package main

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/profile"
	_ "go.uber.org/automaxprocs"

	"github.com/mridul45/Expectimax-Search/internal/domain"
	"github.com/mridul45/Expectimax-Search/internal/infrastructure"
	"github.com/mridul45/Expectimax-Search/internal/usecase"
)

func main() {
	config := usecase.DefaultAutoPlayConfig()

	depth := flag.Int("depth", config.Solver.MaxDepth, "maximum search depth (even)")
	budget := flag.Duration("budget", config.Solver.TimeBudget, "think time per move")
	sample := flag.Int("sample", config.Solver.SampleCells, "empty cells sampled per chance node")
	delay := flag.Int("delay", 100, "delay between moves (ms)")
	maxMoves := flag.Int("max-moves", 0, "stop after this many moves (0 = play to the end)")
	stopOnWin := flag.Bool("stop-on-win", false, "stop once 2048 is reached")
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	bestPath := flag.String("best", "", "file to keep the best score in")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the current directory")
	quiet := flag.Bool("quiet", false, "suppress board output")
	verbose := flag.Bool("v", false, "debug logging")

	weights := config.Weights
	flag.Float64Var(&weights.Empty, "w-empty", weights.Empty, "weight of empty cells")
	flag.Float64Var(&weights.Merge, "w-merge", weights.Merge, "weight of adjacent equal pairs")
	flag.Float64Var(&weights.Monotonicity, "w-mono", weights.Monotonicity, "weight of monotonic rows/columns")
	flag.Float64Var(&weights.Smoothness, "w-smooth", weights.Smoothness, "weight of smoothness penalty")
	flag.Float64Var(&weights.Corner, "w-corner", weights.Corner, "weight of max tile in a corner")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	config.Solver.MaxDepth = *depth
	config.Solver.TimeBudget = *budget
	config.Solver.SampleCells = *sample
	config.Weights = weights
	config.Delay = time.Duration(*delay) * time.Millisecond
	config.MaxMoves = *maxMoves
	config.StopOnWin = *stopOnWin
	config.Verbose = !*quiet

	logger := usecase.NewLogger(os.Stderr, *verbose)

	var store domain.BestStore
	if *bestPath != "" {
		store = infrastructure.NewFileBestStore(*bestPath)
	}

	// 盤面とサンプリングで別の乱数列を使う
	searchSeed := uint64(0)
	if *seed != 0 {
		searchSeed = *seed + 1
	}

	game := domain.NewGame(domain.NewRandomSource(*seed), store, logger)
	usecase.AutoPlay(os.Stdout, logger, game, domain.NewRandomSource(searchSeed), config)
}
