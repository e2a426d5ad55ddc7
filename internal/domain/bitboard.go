package domain

import (
	"math/bits"
)

// BitBoard は盤面を64ビット整数に詰めた表現（評価値キャッシュのキーに使う）
// 各タイルは4ビットの指数（0=空, 1=2, 2=4, ..., 15=32768）
type BitBoard uint64

// maxPackedExp は4ビットに収まる最大の指数
const maxPackedExp = 15

// NewBitBoard はBoardをBitBoardに詰める
// 32768を超えるタイルがあると表現できないのでfalseを返す
func NewBitBoard(b Board) (BitBoard, bool) {
	var bb BitBoard
	for i, v := range b.cells {
		if v == 0 {
			continue
		}
		// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
		exp := bits.TrailingZeros(uint(v))
		if exp > maxPackedExp {
			return 0, false
		}
		bb.setTile(i, exp)
	}
	return bb, true
}

// ToBoard はBitBoardを通常のBoardに戻す
func (bb BitBoard) ToBoard() Board {
	var b Board
	for i := 0; i < Cells; i++ {
		if exp := bb.getTile(i); exp > 0 {
			b.cells[i] = 1 << exp
		}
	}
	return b
}

// getTile は指定位置のタイルの指数を取得
func (bb BitBoard) getTile(i int) int {
	return int((bb >> (i * 4)) & 0xF)
}

// setTile は指定位置にタイルの指数を設定
func (bb *BitBoard) setTile(i, exp int) {
	shift := i * 4
	mask := ^(BitBoard(0xF) << shift)
	*bb = (*bb & mask) | (BitBoard(exp) << shift)
}

// evalCache は1回の探索の中だけで使う静的評価のメモ
type evalCache struct {
	evaluator Evaluator
	memo      map[BitBoard]float64
	hits      int
}

func newEvalCache(evaluator Evaluator) *evalCache {
	return &evalCache{
		evaluator: evaluator,
		memo:      make(map[BitBoard]float64, 1024),
	}
}

func (c *evalCache) Evaluate(b Board) float64 {
	key, ok := NewBitBoard(b)
	if !ok {
		return c.evaluator.Evaluate(b)
	}
	if v, found := c.memo[key]; found {
		c.hits++
		return v
	}
	v := c.evaluator.Evaluate(b)
	c.memo[key] = v
	return v
}
