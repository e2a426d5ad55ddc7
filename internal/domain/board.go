package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

// Size は盤面の一辺のマス数
const Size = 4

// Cells は盤面のマス数
const Cells = Size * Size

// Direction はスワイプの方向を表す
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// None は選べる手がないことを表す
const None Direction = -1

// SearchOrder は探索で方向を試す順序（同点のときは先に試した方向が残る）
var SearchOrder = [4]Direction{Left, Down, Right, Up}

// String は方向の名前を返す
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection は入力文字列を方向に変換する
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "w", "arrowup":
		return Up, true
	case "down", "s", "arrowdown":
		return Down, true
	case "left", "l", "a", "arrowleft":
		return Left, true
	case "right", "r", "d", "arrowright":
		return Right, true
	default:
		return None, false
	}
}

// Board は4x4の盤面の値だけを持つビュー（immutable）
// 0は空きマス、それ以外は2以上の2の累乗
type Board struct {
	cells [Cells]int
}

// NewBoard は空のBoardを生成する
func NewBoard() Board {
	return Board{}
}

// NewBoardFromCells はセルの値を指定してBoardを生成する
// 2の累乗でない値が含まれていればpanicする
func NewBoardFromCells(cells [Size][Size]int) Board {
	var values [Cells]int
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			values[r*Size+c] = cells[r][c]
		}
	}
	return NewBoardFromValues(values)
}

// NewBoardFromValues は行優先の16個の値からBoardを生成する
func NewBoardFromValues(values [Cells]int) Board {
	for i, v := range values {
		mustBeTileValue(i, v)
	}
	return Board{cells: values}
}

func mustBeTileValue(i, v int) {
	if v == 0 {
		return
	}
	if v < 2 || bits.OnesCount(uint(v)) != 1 {
		panic(fmt.Sprintf("domain: cell %d holds %d, want 0 or a power of two >= 2", i, v))
	}
}

// Get は指定した位置のセル値を取得する
func (b Board) Get(row, col int) int {
	return b.cells[row*Size+col]
}

// At は行優先インデックスのセル値を取得する
func (b Board) At(i int) int {
	return b.cells[i]
}

// Values は行優先の値を返す
func (b Board) Values() [Cells]int {
	return b.cells
}

// Set は指定した位置に値を設定した新しいBoardを返す
func (b Board) Set(row, col, value int) Board {
	return b.SetAt(row*Size+col, value)
}

// SetAt は行優先インデックスに値を設定した新しいBoardを返す
func (b Board) SetAt(i, value int) Board {
	mustBeTileValue(i, value)
	b.cells[i] = value
	return b
}

// Copy はBoardのコピーを返す
func (b Board) Copy() Board {
	return Board{cells: b.cells}
}

// EmptyCells は空のセルのインデックスを昇順で返す
func (b Board) EmptyCells() []int {
	empty := make([]int, 0, Cells)
	for i, v := range b.cells {
		if v == 0 {
			empty = append(empty, i)
		}
	}
	return empty
}

// HasMoves は空きマスか、右または下に同じ値の隣接ペアがあるかを返す
func (b Board) HasMoves() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v == 0 {
				return true
			}
			if c+1 < Size && b.Get(r, c+1) == v {
				return true
			}
			if r+1 < Size && b.Get(r+1, c) == v {
				return true
			}
		}
	}
	return false
}

// IsGameOver は動かせる手がないかどうかを返す
func (b Board) IsGameOver() bool {
	return !b.HasMoves()
}

// Sum は全タイルの値の合計を返す
func (b Board) Sum() int {
	sum := 0
	for _, v := range b.cells {
		sum += v
	}
	return sum
}

// MaxTile は最大タイルの値を返す
func (b Board) MaxTile() int {
	max := 0
	for _, v := range b.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// Transpose は転置した盤面を返す
func (b Board) Transpose() Board {
	var t Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t.cells[c*Size+r] = b.cells[r*Size+c]
		}
	}
	return t
}

// ReverseRows は各行を左右反転した盤面を返す
func (b Board) ReverseRows() Board {
	var m Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			m.cells[r*Size+Size-1-c] = b.cells[r*Size+c]
		}
	}
	return m
}

// Equal は2つのBoardが等しいかどうかを返す
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+------+------+------+------+"
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for r := 0; r < Size; r++ {
		sb.WriteString("|")
		for c := 0; c < Size; c++ {
			if v := b.Get(r, c); v == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", v)
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
