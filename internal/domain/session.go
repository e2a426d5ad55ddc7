package domain

// WinTile はこの値以上のタイルができたら勝ちとする
const WinTile = 2048

// snapshot はUndoのために保存する直前の状態
type snapshot struct {
	grid  Grid
	score int
}

// Session は1つのゲームの状態（値型）
// 状態遷移は新しいSessionと変化の内容を返し、元のSessionは変更しない
type Session struct {
	grid   Grid
	score  int
	best   int
	won    bool
	over   bool
	prev   *snapshot
	nextID uint64
}

// Outcome は1回の遷移で何が変わったかを表す（描画の差分用）
type Outcome struct {
	Moved   bool `json:"moved"`
	Gained  int  `json:"gained"`
	Spawned int  `json:"spawned"`
	NewBest bool `json:"newBest"`
	Won     bool `json:"won"`
	Over    bool `json:"over"`
}

// Snapshot は表示層に渡す現在の状態
type Snapshot struct {
	Cells   Grid `json:"cells"`
	Score   int  `json:"score"`
	Best    int  `json:"best"`
	Won     bool `json:"won"`
	Over    bool `json:"over"`
	CanUndo bool `json:"canUndo"`
}

// NewSession は空の盤面に2つのタイルを置いた新しいSessionを返す
func NewSession(rng RandomSource, best int) Session {
	s := Session{best: best, nextID: 1}
	s.grid, _ = s.spawn(s.grid, rng)
	s.grid, _ = s.spawn(s.grid, rng)
	return s
}

// NewSessionFromBoard は任意の盤面から始まるSessionを返す
// タイルには新しいIDを振り、勝ち・ゲームオーバーは盤面から決める
func NewSessionFromBoard(b Board, score, best int) Session {
	s := Session{score: score, best: max(best, score), nextID: 1}
	for i, v := range b.Values() {
		if v != 0 {
			s.grid[i] = Tile{ID: s.allocID(), Value: v}
		}
	}
	s.won = b.MaxTile() >= WinTile
	s.over = !b.HasMoves()
	return s
}

// Grid は現在のタイル付き盤面を返す
func (s Session) Grid() Grid { return s.grid }

// Board は現在の盤面の値を返す
func (s Session) Board() Board { return s.grid.Values() }

// Score は現在のスコアを返す
func (s Session) Score() int { return s.score }

// Best は最高スコアを返す
func (s Session) Best() int { return s.best }

// Won は2048に到達したかどうかを返す
func (s Session) Won() bool { return s.won }

// Over は動かせる手がなくなったかどうかを返す
func (s Session) Over() bool { return s.over }

// CanUndo はUndoできる状態が保存されているかを返す
func (s Session) CanUndo() bool { return s.prev != nil }

// Snapshot は表示層向けの状態を返す
func (s Session) Snapshot() Snapshot {
	return Snapshot{
		Cells:   s.grid.Clone(),
		Score:   s.score,
		Best:    s.best,
		Won:     s.won,
		Over:    s.over,
		CanUndo: s.prev != nil,
	}
}

// Apply は指定した方向に動かし、1つタイルを出現させたSessionを返す
// ゲームオーバー後や盤面が変化しない手では何も変えない
func (s Session) Apply(dir Direction, rng RandomSource) (Session, Outcome) {
	if s.over {
		return s, Outcome{Spawned: -1}
	}

	next := s
	moved, gained := false, 0
	next.grid, moved, gained = s.grid.Move(dir, next.allocID)
	if !moved {
		return s, Outcome{Spawned: -1}
	}

	next.prev = &snapshot{grid: s.grid, score: s.score}
	next.score += gained

	var spawned int
	next.grid, spawned = next.spawn(next.grid, rng)

	out := Outcome{Moved: true, Gained: gained, Spawned: spawned}
	if next.score > next.best {
		next.best = next.score
		out.NewBest = true
	}
	if !next.won && next.grid.MaxTile() >= WinTile {
		next.won = true
		out.Won = true
	}
	next.over = !next.grid.HasMoves()
	out.Over = next.over
	return next, out
}

// Undo は直前の手を指す前の盤面とスコアに戻す
// 保存された状態がなければ何もしない
func (s Session) Undo() (Session, bool) {
	if s.prev == nil {
		return s, false
	}
	next := s
	next.grid = s.prev.grid
	next.score = s.prev.score
	next.over = !next.grid.HasMoves()
	return next, true
}

// Restart は最高スコアとUndo用の状態を残したまま新しいゲームを始める
func (s Session) Restart(rng RandomSource) Session {
	next := Session{best: s.best, prev: s.prev, nextID: s.nextID}
	next.grid, _ = next.spawn(next.grid, rng)
	next.grid, _ = next.spawn(next.grid, rng)
	return next
}

// allocID は新しいタイルのIDを払い出す
func (s *Session) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// spawn は空きマスにランダムにタイルを配置し、その位置を返す（空きがなければ-1）
func (s *Session) spawn(g Grid, rng RandomSource) (Grid, int) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return g, -1
	}

	pos := empty[rng.Intn(len(empty))]
	val := spawnValue(rng)
	return g.Place(pos, val, s.allocID()), pos
}
