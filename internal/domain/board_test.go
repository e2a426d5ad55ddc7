package domain

import (
	"math/rand"
	"strings"
	"testing"
)

// randomBoard はテスト用に0〜16のランダムな盤面を作る
func randomBoard(rng *rand.Rand) Board {
	choices := []int{0, 0, 2, 2, 4, 8, 16}
	var values [Cells]int
	for i := range values {
		values[i] = choices[rng.Intn(len(choices))]
	}
	return NewBoardFromValues(values)
}

func TestMergeLine(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		score    int
	}{
		{
			name:     "empty line",
			input:    [4]int{0, 0, 0, 0},
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "no merge needed",
			input:    [4]int{2, 4, 8, 16},
			expected: [4]int{2, 4, 8, 16},
		},
		{
			name:     "simple merge",
			input:    [4]int{2, 2, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with gap",
			input:    [4]int{2, 0, 2, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "two merges",
			input:    [4]int{2, 2, 4, 4},
			expected: [4]int{4, 8, 0, 0},
			score:    12,
		},
		{
			name:     "chain does not cascade",
			input:    [4]int{2, 2, 2, 2},
			expected: [4]int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "three same values",
			input:    [4]int{2, 2, 2, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "merged tile does not merge again",
			input:    [4]int{2, 2, 4, 0},
			expected: [4]int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "shift left",
			input:    [4]int{0, 0, 0, 2},
			expected: [4]int{2, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := mergeLine(tt.input)
			if result != tt.expected {
				t.Errorf("mergeLine(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("mergeLine(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestCompressLineSources(t *testing.T) {
	slots, _ := compressLine([4]int{0, 8, 8, 2})

	if !slots[0].merged() || slots[0].from != 1 || slots[0].with != 2 {
		t.Errorf("expected slot 0 merged from 1 and 2, got %+v", slots[0])
	}
	if slots[1].merged() || slots[1].from != 3 || slots[1].value != 2 {
		t.Errorf("expected slot 1 to carry cell 3, got %+v", slots[1])
	}
	for _, s := range slots[2:] {
		if s != emptySlot {
			t.Errorf("expected padding, got %+v", s)
		}
	}
}

func TestMergeLineIdempotent(t *testing.T) {
	lines := [][4]int{
		{2, 4, 8, 16},
		{4, 2, 0, 0},
		{16, 0, 0, 0},
		{0, 0, 0, 0},
		{8, 2, 8, 2},
	}
	for _, line := range lines {
		result, score := mergeLine(line)
		if result != line || score != 0 {
			t.Errorf("mergeLine(%v) = %v, %d; want unchanged with no score", line, result, score)
		}
	}
}

func TestMoveLeft(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 2, 4, 0},
		{4, 0, 4, 0},
		{8, 8, 0, 0},
		{0, 0, 0, 2},
	})

	next, moved, gained := board.MoveLeft()

	expected := NewBoardFromCells([4][4]int{
		{4, 4, 0, 0},
		{8, 0, 0, 0},
		{16, 0, 0, 0},
		{2, 0, 0, 0},
	})
	if !moved {
		t.Error("expected move")
	}
	if !next.Equal(expected) {
		t.Errorf("unexpected board:\n%s", next)
	}
	if gained != 4+8+16 {
		t.Errorf("expected gain 28, got %d", gained)
	}
}

func TestMoveRight(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	// 右端に4が来るはず
	next, moved, _ := board.MoveRight()
	if !moved || next.Get(0, 3) != 4 {
		t.Errorf("expected top-right to be 4, got %d", next.Get(0, 3))
	}
}

func TestMoveUp(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	// 上端に4が来るはず
	next, moved, gained := board.MoveUp()
	if !moved || next.Get(0, 0) != 4 || gained != 4 {
		t.Errorf("expected top-left to be 4, got %d (gain %d)", next.Get(0, 0), gained)
	}
}

func TestMoveDown(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
	})

	// 下端に4、その上に2が残るはず
	next, moved, gained := board.MoveDown()
	if !moved {
		t.Fatal("expected move")
	}
	if next.Get(3, 0) != 4 || next.Get(2, 0) != 2 || next.Get(1, 0) != 0 {
		t.Errorf("unexpected board:\n%s", next)
	}
	if gained != 4 {
		t.Errorf("expected gain 4, got %d", gained)
	}
}

func TestMoveNoChange(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{16, 0, 0, 0},
	})

	// 左にスワイプしても変化なし
	next, moved, gained := board.MoveLeft()
	if moved || gained != 0 || !next.Equal(board) {
		t.Errorf("expected no change, got moved=%v gained=%d", moved, gained)
	}

	// 下にはそもそも詰まっている
	if _, moved, _ := board.MoveDown(); moved {
		t.Error("expected no change moving down")
	}
	if _, moved, _ := board.MoveRight(); !moved {
		t.Error("expected change moving right")
	}
}

func TestMoveConservesSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		board := randomBoard(rng)
		for _, dir := range SearchOrder {
			next, _, _ := board.Move(dir)
			if next.Sum() != board.Sum() {
				t.Fatalf("%s changed the sum %d -> %d on\n%s", dir, board.Sum(), next.Sum(), board)
			}
		}
	}
}

func TestMoveSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		board := randomBoard(rng)

		left, lMoved, lGain := board.ReverseRows().MoveLeft()
		right, rMoved, rGain := board.MoveRight()
		if !right.Equal(left.ReverseRows()) || rMoved != lMoved || rGain != lGain {
			t.Fatalf("right is not mirrored left on\n%s", board)
		}

		upT, uMovedT, uGainT := board.Transpose().MoveLeft()
		up, uMoved, uGain := board.MoveUp()
		if !up.Equal(upT.Transpose()) || uMoved != uMovedT || uGain != uGainT {
			t.Fatalf("up is not transposed left on\n%s", board)
		}

		downT, dMovedT, dGainT := board.Transpose().MoveRight()
		down, dMoved, dGain := board.MoveDown()
		if !down.Equal(downT.Transpose()) || dMoved != dMovedT || dGain != dGainT {
			t.Fatalf("down is not transposed right on\n%s", board)
		}
	}
}

func TestReverseLineMatchesRightMerge(t *testing.T) {
	line := [4]int{2, 2, 2, 0}
	merged, _ := mergeLine(reverseLine(line))
	got := reverseLine(merged)

	board := NewBoardFromCells([4][4]int{line, {}, {}, {}})
	next, _, _ := board.MoveRight()
	for c := 0; c < Size; c++ {
		if next.Get(0, c) != got[c] {
			t.Errorf("col %d: MoveRight=%d, reversed merge=%d", c, next.Get(0, c), got[c])
		}
	}
	if got != [4]int{0, 0, 2, 4} {
		t.Errorf("expected [0 0 2 4], got %v", got)
	}
}

func TestBoardImmutability(t *testing.T) {
	original := NewBoardFromCells([4][4]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	originalCopy := original.Copy()

	_, _, _ = original.MoveLeft()
	_ = original.Set(3, 3, 4)

	// オリジナルが変更されていないことを確認
	if !original.Equal(originalCopy) {
		t.Error("original board was mutated")
	}
}

func TestEmptyCells(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 4, 8},
		{16, 32, 64, 128},
		{256, 512, 1024, 2048},
		{4, 2, 4, 0},
	})
	got := board.EmptyCells()
	if len(got) != 2 || got[0] != 1 || got[1] != 15 {
		t.Errorf("expected [1 15], got %v", got)
	}

	full := NewBoardFromCells([4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if len(full.EmptyCells()) != 0 {
		t.Error("expected no empty cells")
	}
	if len(NewBoard().EmptyCells()) != Cells {
		t.Error("expected all cells empty")
	}
}

func TestHasMoves(t *testing.T) {
	// 行優先で狭義単調増加、空きなし
	var increasing [Cells]int
	for i := range increasing {
		increasing[i] = 2 << i
	}
	if NewBoardFromValues(increasing).HasMoves() {
		t.Error("expected no moves on a strictly increasing full board")
	}

	gameOver := NewBoardFromCells([4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if !gameOver.IsGameOver() {
		t.Error("expected game over")
	}

	// 空きが1つあれば必ず動ける
	for i := 0; i < Cells; i++ {
		if !NewBoardFromValues(increasing).SetAt(i, 0).HasMoves() {
			t.Errorf("expected moves with cell %d empty", i)
		}
	}

	// 縦に同じ値
	vertical := gameOver.Set(3, 3, 4)
	if !vertical.HasMoves() {
		t.Error("expected a move with an equal vertical pair")
	}
}

func TestLegalMoves(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	got := board.LegalMoves()
	if len(got) != 2 || got[0] != Down || got[1] != Right {
		t.Errorf("expected [down right], got %v", got)
	}
}

func TestNewBoardRejectsInvalidValues(t *testing.T) {
	for _, v := range []int{1, 3, 6, -2} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for value %d", v)
				}
			}()
			var values [Cells]int
			values[5] = v
			NewBoardFromValues(values)
		}()
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"left": Left, "A": Left, "ArrowRight": Right, "u": Up, " down ": Down,
	}
	for in, want := range tests {
		got, ok := ParseDirection(in)
		if !ok || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("expected failure for unknown direction")
	}
}

func TestEqual(t *testing.T) {
	board1 := NewBoardFromCells([4][4]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	board2 := NewBoardFromCells([4][4]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	board3 := NewBoardFromCells([4][4]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if !board1.Equal(board2) {
		t.Error("expected board1 and board2 to be equal")
	}

	if board1.Equal(board3) {
		t.Error("expected board1 and board3 to be different")
	}
}

func TestString(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 0},
		{0, 0, 0, 2},
	})

	str := board.String()

	// 各値が含まれていることを確認
	for _, v := range []string{"2", "4", "8", "16", "32", "64", "128", "256", "512", "1024", "2048"} {
		if !strings.Contains(str, v) {
			t.Errorf("expected string to contain %s", v)
		}
	}

	// 罫線が含まれていることを確認
	if !strings.Contains(str, "+------+") {
		t.Error("expected string to contain border")
	}

	t.Logf("Board display:\n%s", str)
}
