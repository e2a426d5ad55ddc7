package domain

import "math"

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) float64
}

// WeightedEvaluator は複数のEvaluatorを係数付きで組み合わせる
type WeightedEvaluator struct {
	evaluators []Evaluator
	weights    []float64
}

// NewWeightedEvaluator は係数付きEvaluatorを生成する
func NewWeightedEvaluator(evaluators []Evaluator, weights []float64) *WeightedEvaluator {
	if len(evaluators) != len(weights) {
		panic("domain: evaluators and weights differ in length")
	}
	return &WeightedEvaluator{
		evaluators: evaluators,
		weights:    weights,
	}
}

// Evaluate は全てのEvaluatorの重み付き和を返す
func (w *WeightedEvaluator) Evaluate(b Board) float64 {
	score := 0.0
	for i, ev := range w.evaluators {
		score += w.weights[i] * ev.Evaluate(b)
	}
	return score
}

// Weights はヒューリスティック評価の各項の係数
type Weights struct {
	Empty        float64 `json:"empty"`
	Merge        float64 `json:"merge"`
	Monotonicity float64 `json:"monotonicity"`
	Smoothness   float64 `json:"smoothness"`
	Corner       float64 `json:"corner"`
}

// DefaultWeights は調整済みの係数を返す
func DefaultWeights() Weights {
	return Weights{
		Empty:        120.0,
		Merge:        12.0,
		Monotonicity: 8.0,
		Smoothness:   0.15,
		Corner:       8.0,
	}
}

// NewHeuristicEvaluator は空きマス・マージ候補・単調性・滑らかさ・角の5項を組み合わせたEvaluatorを返す
func NewHeuristicEvaluator(w Weights) *WeightedEvaluator {
	return NewWeightedEvaluator(
		[]Evaluator{
			&EmptyCellsEvaluator{},
			&MergeableEvaluator{},
			&MonotonicityEvaluator{},
			&SmoothnessEvaluator{},
			&CornerBonusEvaluator{},
		},
		[]float64{w.Empty, w.Merge, w.Monotonicity, w.Smoothness, w.Corner},
	)
}

// EmptyCellsEvaluator は空きマス数で評価する
type EmptyCellsEvaluator struct{}

func (e *EmptyCellsEvaluator) Evaluate(b Board) float64 {
	count := 0
	for _, v := range b.cells {
		if v == 0 {
			count++
		}
	}
	return float64(count)
}

// MergeableEvaluator は隣接する同じ値のペア数で評価する
type MergeableEvaluator struct{}

func (e *MergeableEvaluator) Evaluate(b Board) float64 {
	count := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v == 0 {
				continue
			}
			// 右隣
			if c < Size-1 && b.Get(r, c+1) == v {
				count++
			}
			// 下隣
			if r < Size-1 && b.Get(r+1, c) == v {
				count++
			}
		}
	}
	return count
}

// MonotonicityEvaluator は全体が非減少または非増加になっている行・列の数で評価する
type MonotonicityEvaluator struct{}

func (e *MonotonicityEvaluator) Evaluate(b Board) float64 {
	score := 0.0
	for i := 0; i < Size; i++ {
		var row, col [Size]int
		for k := 0; k < Size; k++ {
			row[k] = b.Get(i, k)
			col[k] = b.Get(k, i)
		}
		if isMonotonic(row) {
			score++
		}
		if isMonotonic(col) {
			score++
		}
	}
	return score
}

func isMonotonic(line [Size]int) bool {
	inc, dec := true, true
	for k := 1; k < Size; k++ {
		if line[k-1] > line[k] {
			inc = false
		}
		if line[k-1] < line[k] {
			dec = false
		}
	}
	return inc || dec
}

// SmoothnessEvaluator は隣接タイルとの値の差で評価する（差が小さいほど高評価）
// 空きマスの隣は値0として比較する
type SmoothnessEvaluator struct{}

func (e *SmoothnessEvaluator) Evaluate(b Board) float64 {
	penalty := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v == 0 {
				continue
			}
			if r < Size-1 {
				penalty += math.Abs(float64(v - b.Get(r+1, c)))
			}
			if c < Size-1 {
				penalty += math.Abs(float64(v - b.Get(r, c+1)))
			}
		}
	}
	return -penalty
}

// CornerBonusEvaluator は最大タイルが角にあればそのlog2で評価する
type CornerBonusEvaluator struct{}

func (e *CornerBonusEvaluator) Evaluate(b Board) float64 {
	maxVal := 0
	maxRow, maxCol := 0, 0

	// 同じ値なら行優先で最初のもの
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v > maxVal {
				maxVal = v
				maxRow, maxCol = r, c
			}
		}
	}

	isCorner := (maxRow == 0 || maxRow == Size-1) && (maxCol == 0 || maxCol == Size-1)
	if !isCorner {
		return 0.0
	}
	if maxVal == 0 {
		maxVal = 2
	}
	return math.Log2(float64(maxVal))
}
