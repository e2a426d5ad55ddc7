package domain

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// MoveScore はルートの1方向についての評価
type MoveScore struct {
	Direction Direction `json:"direction"`
	Score     float64   `json:"score"`
	Gained    int       `json:"gained"`
	Depth     int       `json:"depth"`
	Cutoff    bool      `json:"cutoff"`
}

// AnalyzeMoves は有効な各方向の期待値を方向ごとに並列で計算する
// 各goroutineは自分専用の探索状態を持ち、サンプリングは決定的に行う
// 結果はSearchOrderの順に並ぶ
func (s *Solver) AnalyzeMoves(ctx context.Context, board Board) ([]MoveScore, error) {
	type job struct {
		dir    Direction
		next   Board
		gained int
	}

	// 有効な手を事前にフィルタリング
	jobs := make([]job, 0, len(SearchOrder))
	for _, dir := range SearchOrder {
		next, moved, gained := board.Move(dir)
		if moved {
			jobs = append(jobs, job{dir: dir, next: next, gained: gained})
		}
	}

	results := make([]MoveScore, len(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i, j := range jobs {
		g.Go(func() error {
			worker := &Solver{
				evaluator: s.evaluator,
				config:    s.config,
				now:       s.now,
			}
			score, err := worker.scoreMove(ctx, j.next, j.gained)
			if err != nil {
				return err
			}
			score.Direction = j.dir
			results[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scoreMove は手を指した後の盤面をチャンスノードとして反復深化で評価する
func (s *Solver) scoreMove(ctx context.Context, next Board, gained int) (MoveScore, error) {
	st := s.newSearch()
	res := MoveScore{Score: math.Inf(-1), Gained: gained}
	bonus := float64(gained) * s.config.MergeBonus

	for depth := 2; depth <= s.config.MaxDepth; depth += 2 {
		if err := ctx.Err(); err != nil {
			return MoveScore{}, err
		}
		n := st.expectedScore(next, depth-1)
		if res.Depth == 0 || !n.cutoff || s.config.AcceptCutoff {
			res.Score = n.score + bonus
			res.Depth = depth
			res.Cutoff = n.cutoff
		}
		if st.expired() {
			break
		}
	}

	if res.Depth == 0 {
		res.Score = st.eval.Evaluate(next) + bonus
	}
	return res, nil
}
