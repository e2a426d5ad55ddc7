package domain

import (
	"math"
	"time"
)

// SolverConfig は探索の設定
type SolverConfig struct {
	// MaxDepth は反復深化で試す最大の深さ（プレイヤー手番とスポーンでそれぞれ1）
	MaxDepth int `json:"maxDepth"`
	// TimeBudget は1回の探索に使える時間
	TimeBudget time.Duration `json:"timeBudget"`
	// SampleCells はチャンスノードで展開する空きマスの最大数
	SampleCells int `json:"sampleCells"`
	// MergeBonus は即時のマージ得点に掛ける係数
	MergeBonus float64 `json:"mergeBonus"`
	// AcceptCutoff が真なら時間切れで打ち切られた深さの手も採用する
	AcceptCutoff bool `json:"acceptCutoff"`
}

// DefaultSolverConfig はデフォルトの設定を返す
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxDepth:    6,
		TimeBudget:  55 * time.Millisecond,
		SampleCells: 6,
		MergeBonus:  0.6,
	}
}

// Result は探索結果
type Result struct {
	Direction Direction
	Score     float64
	// Depth は手を決めた深さ（フォールバックなら0）
	Depth     int
	Cutoff    bool
	Fallback  bool
	Nodes     int
	CacheHits int
	Elapsed   time.Duration
}

// Solver は時間制限付きの反復深化Expectimaxで最良の手を探索する
type Solver struct {
	evaluator Evaluator
	config    SolverConfig
	rng       RandomSource
	now       func() time.Time
}

// NewSolver は新しいSolverを生成する
// rngがnilならチャンスノードのサンプリングは決定的になる
func NewSolver(evaluator Evaluator, config SolverConfig, rng RandomSource) *Solver {
	return &Solver{
		evaluator: evaluator,
		config:    config,
		rng:       rng,
		now:       time.Now,
	}
}

// Config は設定を返す
func (s *Solver) Config() SolverConfig {
	return s.config
}

// BestMove は現在の盤面から最良の手を返す
// 有効な手がない場合はNoneを返す
func (s *Solver) BestMove(board Board) Direction {
	return s.Search(board).Direction
}

// Search は深さ2から2ずつ深くしながら探索し、時間切れか最大深さで止める
func (s *Solver) Search(board Board) Result {
	st := s.newSearch()
	res := Result{Direction: None, Score: math.Inf(-1)}

	for depth := 2; depth <= s.config.MaxDepth; depth += 2 {
		n := st.searchMax(board, depth)
		if n.dir != None && (!n.cutoff || s.config.AcceptCutoff) {
			res.Direction = n.dir
			res.Score = n.score
			res.Depth = depth
			res.Cutoff = n.cutoff
		}
		if st.expired() {
			break
		}
	}

	if res.Direction == None {
		res.Score = st.eval.Evaluate(board)
		for _, dir := range SearchOrder {
			if _, moved, _ := board.Move(dir); moved {
				res.Direction = dir
				res.Fallback = true
				break
			}
		}
	}

	res.Nodes = st.nodes
	res.CacheHits = st.eval.hits
	res.Elapsed = s.now().Sub(st.start)
	return res
}

// node は探索木の1ノードの評価結果
type node struct {
	score  float64
	dir    Direction
	cutoff bool
}

// search は1回の探索の状態（呼び出しをまたいで共有しない）
type search struct {
	*Solver
	eval  *evalCache
	start time.Time
	nodes int
}

func (s *Solver) newSearch() *search {
	return &search{
		Solver: s,
		eval:   newEvalCache(s.evaluator),
		start:  s.now(),
	}
}

func (st *search) expired() bool {
	return st.now().Sub(st.start) > st.config.TimeBudget
}

func (st *search) leaf(board Board, cutoff bool) node {
	return node{score: st.eval.Evaluate(board), dir: None, cutoff: cutoff}
}

// searchMax はプレイヤーの最善手を探索
func (st *search) searchMax(board Board, depth int) node {
	st.nodes++
	if st.expired() {
		return st.leaf(board, true)
	}
	if depth <= 0 {
		return st.leaf(board, false)
	}

	bestScore := math.Inf(-1)
	bestDir := None

	for _, dir := range SearchOrder {
		next, moved, gained := board.Move(dir)
		if !moved {
			continue
		}

		child := st.expectedScore(next, depth-1)
		score := child.score + float64(gained)*st.config.MergeBonus
		if score > bestScore {
			bestScore = score
			bestDir = dir
		}
		if child.cutoff {
			return node{score: bestScore, dir: bestDir, cutoff: true}
		}
	}

	// どの方向にも動かせない
	if bestDir == None {
		return st.leaf(board, false)
	}
	return node{score: bestScore, dir: bestDir}
}

// expectedScore はスポーンの期待値を計算する
func (st *search) expectedScore(board Board, depth int) node {
	st.nodes++
	if st.expired() {
		return st.leaf(board, true)
	}
	if depth <= 0 {
		return st.leaf(board, false)
	}

	emptyCells := board.EmptyCells()
	if len(emptyCells) == 0 {
		return st.leaf(board, false)
	}

	cells := sampleCells(emptyCells, st.config.SampleCells, st.rng)
	n := float64(len(cells))

	totalScore := 0.0
	for _, pos := range cells {
		// 2がスポーンした場合
		child := st.searchMax(board.SetAt(pos, 2), depth-1)
		totalScore += spawn2Prob * child.score
		if child.cutoff {
			return node{score: totalScore / n, dir: None, cutoff: true}
		}

		// 4がスポーンした場合
		child = st.searchMax(board.SetAt(pos, 4), depth-1)
		totalScore += spawn4Prob * child.score
		if child.cutoff {
			return node{score: totalScore / n, dir: None, cutoff: true}
		}
	}

	return node{score: totalScore / n, dir: None}
}
