package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mridul45/Expectimax-Search/internal/domain"
)

// minCompanionInterval より短い間隔では動かさない
const minCompanionInterval = 80 * time.Millisecond

// CompanionConfig は自動プレイ相棒の設定
type CompanionConfig struct {
	Interval time.Duration
	Solver   domain.SolverConfig
	Weights  domain.Weights
}

// DefaultCompanionConfig はデフォルトの設定を返す
func DefaultCompanionConfig() CompanionConfig {
	return CompanionConfig{
		Interval: 140 * time.Millisecond,
		Solver:   domain.DefaultSolverConfig(),
		Weights:  domain.DefaultWeights(),
	}
}

// Companion は一定間隔で最善手を探してゲームに適用する
// 2048に到達したゲームとゲームオーバーでは自動で止まる
type Companion struct {
	game     *domain.Game
	mu       sync.Mutex // solverの乱数源を守る
	solver   *domain.Solver
	interval time.Duration
	enabled  atomic.Bool
	onChange func(domain.Snapshot)
	logger   zerolog.Logger
}

// NewCompanion は新しいCompanionを生成する
// onChangeは手を指すたびに呼ばれる（nil可）
func NewCompanion(game *domain.Game, rng domain.RandomSource, config CompanionConfig, onChange func(domain.Snapshot), logger zerolog.Logger) *Companion {
	interval := config.Interval
	if interval < minCompanionInterval {
		interval = minCompanionInterval
	}
	return &Companion{
		game:     game,
		solver:   domain.NewSolver(domain.NewHeuristicEvaluator(config.Weights), config.Solver, rng),
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// SetEnabled は自動プレイのオン・オフを切り替える
func (c *Companion) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
	c.logger.Info().Bool("enabled", enabled).Msg("companion-toggled")
}

// Enabled は自動プレイが有効かどうかを返す
func (c *Companion) Enabled() bool {
	return c.enabled.Load()
}

// Hint は現在の盤面に対する探索結果を返す（盤面は変更しない）
func (c *Companion) Hint() domain.Result {
	return c.search(c.game.Board())
}

func (c *Companion) search(board domain.Board) domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.solver.Search(board)
}

// Analyze は現在の盤面の方向ごとの評価を返す
func (c *Companion) Analyze(ctx context.Context) ([]domain.MoveScore, error) {
	return c.solver.AnalyzeMoves(ctx, c.game.Board())
}

// Run はctxがキャンセルされるまで一定間隔で手を指し続ける
func (c *Companion) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Step()
		}
	}
}

// Step は有効なら1手だけ指し、指したかどうかを返す
func (c *Companion) Step() bool {
	if !c.Enabled() {
		return false
	}

	if c.game.IsGameOver() {
		c.stop("game-over")
		return false
	}
	if c.game.Won() {
		c.stop("reached-2048")
		return false
	}

	board := c.game.Board()
	res := c.search(board)
	if res.Direction == domain.None {
		return false
	}

	out, ok := c.game.MoveFrom(board, res.Direction)
	if !ok {
		c.logger.Debug().Str("dir", res.Direction.String()).Msg("companion-board-changed")
		return false
	}
	c.logger.Debug().
		Str("dir", res.Direction.String()).
		Int("depth", res.Depth).
		Bool("fallback", res.Fallback).
		Int("gained", out.Gained).
		Dur("elapsed", res.Elapsed).
		Msg("companion-move")

	if out.Won {
		c.stop("reached-2048")
	}
	if out.Moved && c.onChange != nil {
		c.onChange(c.game.Snapshot())
	}
	return out.Moved
}

func (c *Companion) stop(reason string) {
	c.enabled.Store(false)
	c.logger.Info().Str("reason", reason).Msg("companion-stopped")
}
