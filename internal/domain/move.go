package domain

// Move は指定した方向にスワイプした盤面、変化の有無、獲得スコアを返す（spawnなし）
func (b Board) Move(dir Direction) (Board, bool, int) {
	var next Board
	moved := false
	gained := 0

	for i := 0; i < Size; i++ {
		idx := lineIndices(dir, i)
		var line [Size]int
		for k, p := range idx {
			line[k] = b.cells[p]
		}

		merged, score := mergeLine(line)
		gained += score
		for k, p := range idx {
			next.cells[p] = merged[k]
			if merged[k] != line[k] {
				moved = true
			}
		}
	}

	return next, moved, gained
}

// MoveLeft は左スワイプ
func (b Board) MoveLeft() (Board, bool, int) { return b.Move(Left) }

// MoveRight は右スワイプ
func (b Board) MoveRight() (Board, bool, int) { return b.Move(Right) }

// MoveUp は上スワイプ
func (b Board) MoveUp() (Board, bool, int) { return b.Move(Up) }

// MoveDown は下スワイプ
func (b Board) MoveDown() (Board, bool, int) { return b.Move(Down) }

// LegalMoves は盤面が変化する方向をSearchOrderの順に返す
func (b Board) LegalMoves() []Direction {
	dirs := make([]Direction, 0, len(SearchOrder))
	for _, dir := range SearchOrder {
		if _, moved, _ := b.Move(dir); moved {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
