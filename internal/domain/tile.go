package domain

// Tile は盤面上の1枚のタイル
// IDは描画の連続性のためだけに使い、探索には影響しない
type Tile struct {
	ID          uint64 `json:"id"`
	Value       int    `json:"value"`
	JustMerged  bool   `json:"justMerged"`
	JustSpawned bool   `json:"justSpawned"`
}

// Empty はタイルがないマスかどうかを返す
func (t Tile) Empty() bool {
	return t.Value == 0
}

// Grid は表示層に渡すタイル付きの盤面（行優先、immutable）
type Grid [Cells]Tile

// Clone はIDとフラグを保ったままコピーを返す
func (g Grid) Clone() Grid {
	return g
}

// Values は値だけのBoardを返す
func (g Grid) Values() Board {
	var values [Cells]int
	for i, t := range g {
		values[i] = t.Value
	}
	return NewBoardFromValues(values)
}

// EmptyCells は空のセルのインデックスを昇順で返す
func (g Grid) EmptyCells() []int {
	return g.Values().EmptyCells()
}

// HasMoves は動かせる手が残っているかを返す
func (g Grid) HasMoves() bool {
	return g.Values().HasMoves()
}

// MaxTile は最大タイルの値を返す
func (g Grid) MaxTile() int {
	return g.Values().MaxTile()
}

// Place は空きマスiに新しく出現したタイルを置いたGridを返す
func (g Grid) Place(i, value int, id uint64) Grid {
	if !g[i].Empty() {
		panic("domain: spawn on an occupied cell")
	}
	mustBeTileValue(i, value)
	g[i] = Tile{ID: id, Value: value, JustSpawned: true}
	return g
}

// Move は指定した方向にスワイプしたGrid、変化の有無、獲得スコアを返す
// マージで生まれたタイルにはnewIDで新しいIDを割り当てる
func (g Grid) Move(dir Direction, newID func() uint64) (Grid, bool, int) {
	var next Grid
	moved := false
	gained := 0

	for i := 0; i < Size; i++ {
		idx := lineIndices(dir, i)
		var line [Size]int
		for k, p := range idx {
			line[k] = g[p].Value
		}

		slots, score := compressLine(line)
		gained += score
		for k, p := range idx {
			s := slots[k]
			switch {
			case s.value == 0:
				next[p] = Tile{}
			case s.merged():
				next[p] = Tile{ID: newID(), Value: s.value, JustMerged: true}
			default:
				src := g[idx[s.from]]
				next[p] = Tile{ID: src.ID, Value: src.Value}
			}
			if s.value != line[k] {
				moved = true
			}
		}
	}

	return next, moved, gained
}
