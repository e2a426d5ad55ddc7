package domain

import (
	"sync"

	"github.com/rs/zerolog"
)

// BestStore は最高スコアを永続化する
type BestStore interface {
	LoadBest() (int, error)
	SaveBest(best int) error
}

// Game は2048ゲームの状態を管理する
// 入力ハンドラと自動プレイのループから同時に呼ばれるのでロックで守る
type Game struct {
	mu      sync.Mutex
	session Session
	rng     RandomSource
	store   BestStore
	logger  zerolog.Logger
}

// NewGame は新しいゲームを開始する
// storeがnilなら最高スコアは保存しない
func NewGame(rng RandomSource, store BestStore, logger zerolog.Logger) *Game {
	best := 0
	if store != nil {
		b, err := store.LoadBest()
		if err != nil {
			logger.Warn().Err(err).Msg("load-best-score-failed")
		} else {
			best = b
		}
	}
	return NewGameFromSession(NewSession(rng, best), rng, store, logger)
}

// NewGameFromSession は途中の局面からゲームを始める
func NewGameFromSession(session Session, rng RandomSource, store BestStore, logger zerolog.Logger) *Game {
	return &Game{
		session: session,
		rng:     rng,
		store:   store,
		logger:  logger,
	}
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Board()
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Score()
}

// IsGameOver はゲームオーバーかどうかを返す
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Over()
}

// Won は2048に到達したかどうかを返す
func (g *Game) Won() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Won()
}

// Snapshot は表示層向けの状態を返す
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Snapshot()
}

// Move は指定した方向にスワイプを実行する
// 盤面が変化しなければOutcome.Movedはfalse
func (g *Game) Move(dir Direction) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.move(dir)
}

// MoveFrom は盤面がboardのままならdirに動かす
// 探索中に別の入力で盤面が変わっていればfalseを返し何もしない
func (g *Game) MoveFrom(board Board, dir Direction) (Outcome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.session.Board().Equal(board) {
		return Outcome{Spawned: -1}, false
	}
	return g.move(dir), true
}

func (g *Game) move(dir Direction) Outcome {
	next, out := g.session.Apply(dir, g.rng)
	if !out.Moved {
		return out
	}
	g.session = next

	if out.NewBest {
		g.saveBest(next.Best())
	}
	if out.Won {
		g.logger.Info().Int("score", next.Score()).Msg("reached-2048")
	}
	if out.Over {
		g.logger.Info().Int("score", next.Score()).Int("max-tile", next.grid.MaxTile()).Msg("game-over")
	}
	return out
}

// Undo は直前の手を取り消す
func (g *Game) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, ok := g.session.Undo()
	g.session = next
	return ok
}

// Restart は新しいゲームを始める
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = g.session.Restart(g.rng)
}

func (g *Game) saveBest(best int) {
	if g.store == nil {
		return
	}
	if err := g.store.SaveBest(best); err != nil {
		g.logger.Warn().Err(err).Int("best", best).Msg("save-best-score-failed")
	}
}
