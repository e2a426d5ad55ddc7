package main

import (
	"flag"
	"os"

	"github.com/mridul45/Expectimax-Search/internal/domain"
	"github.com/mridul45/Expectimax-Search/internal/infrastructure"
	"github.com/mridul45/Expectimax-Search/internal/usecase"
)

func main() {
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	bestPath := flag.String("best", "", "file to keep the best score in")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := usecase.NewLogger(os.Stderr, *verbose)
	rng := domain.NewRandomSource(*seed)

	var store domain.BestStore
	if *bestPath != "" {
		store = infrastructure.NewFileBestStore(*bestPath)
	}

	game := domain.NewGame(rng, store, logger)
	solver := domain.NewSolver(domain.NewHeuristicEvaluator(domain.DefaultWeights()), domain.DefaultSolverConfig(), domain.NewRandomSource(0))
	usecase.PlayGame(os.Stdin, os.Stdout, game, solver)
}
