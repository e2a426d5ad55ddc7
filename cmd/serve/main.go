package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/mridul45/Expectimax-Search/internal/domain"
	"github.com/mridul45/Expectimax-Search/internal/handler"
	"github.com/mridul45/Expectimax-Search/internal/infrastructure"
	"github.com/mridul45/Expectimax-Search/internal/usecase"
)

func main() {
	config := usecase.DefaultCompanionConfig()

	addr := flag.String("addr", ":8080", "listen address")
	bestPath := flag.String("best", "best_2048.json", "file to keep the best score in (empty = memory only)")
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	interval := flag.Duration("interval", config.Interval, "companion move cadence")
	depth := flag.Int("depth", config.Solver.MaxDepth, "companion maximum search depth")
	budget := flag.Duration("budget", config.Solver.TimeBudget, "companion think time per move")
	companionOn := flag.Bool("companion", false, "start with the companion enabled")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := usecase.NewLogger(os.Stderr, *verbose)

	config.Interval = *interval
	config.Solver.MaxDepth = *depth
	config.Solver.TimeBudget = *budget

	searchSeed := uint64(0)
	if *seed != 0 {
		searchSeed = *seed + 1
	}

	var store domain.BestStore = &infrastructure.MemoryBestStore{}
	if *bestPath != "" {
		store = infrastructure.NewFileBestStore(*bestPath)
	}

	game := domain.NewGame(domain.NewRandomSource(*seed), store, logger)
	hub := handler.NewHub(logger)

	var server *handler.Server
	companion := usecase.NewCompanion(game, domain.NewRandomSource(searchSeed), config, func(snap domain.Snapshot) {
		server.Publish(snap)
	}, logger)
	server = handler.NewServer(game, companion, hub, logger)
	companion.SetEnabled(*companionOn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(ctx)
	})
	g.Go(func() error {
		return companion.Run(ctx)
	})
	g.Go(func() error {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server-exited")
		os.Exit(1)
	}
	logger.Info().Msg("shutdown")
}
