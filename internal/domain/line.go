package domain

// slot は圧縮後の1マスがどの元マスから作られたかを表す
// from/with は元の行内の位置（使わない場合は-1）
type slot struct {
	value int
	from  int
	with  int
}

func (s slot) merged() bool {
	return s.with >= 0
}

var emptySlot = slot{value: 0, from: -1, with: -1}

// compressLine は1行/1列をインデックス0の方向に詰めてマージし、結果とスコアを返す
// 1回の移動で各タイルがマージされるのは1度だけ
func compressLine(line [Size]int) ([Size]slot, int) {
	score := 0

	// 0を除去して詰める
	var tiles [Size]int
	n := 0
	for i, v := range line {
		if v != 0 {
			tiles[n] = i
			n++
		}
	}

	var result [Size]slot
	w := 0
	for i := 0; i < n; i++ {
		cur := tiles[i]
		if i+1 < n && line[cur] == line[tiles[i+1]] {
			v := line[cur] * 2
			result[w] = slot{value: v, from: cur, with: tiles[i+1]}
			score += v
			i++ // 次の要素をスキップ
		} else {
			result[w] = slot{value: line[cur], from: cur, with: -1}
		}
		w++
	}

	for ; w < Size; w++ {
		result[w] = emptySlot
	}
	return result, score
}

// mergeLine は値だけの行を左方向にマージし、結果とスコアを返す
func mergeLine(line [Size]int) ([Size]int, int) {
	slots, score := compressLine(line)
	var result [Size]int
	for i, s := range slots {
		result[i] = s.value
	}
	return result, score
}

// reverseLine は配列を反転する
func reverseLine(line [Size]int) [Size]int {
	return [Size]int{line[3], line[2], line[1], line[0]}
}

// lineIndices はdir方向にスワイプするときのi番目の行/列のセル位置を
// タイルが寄っていく壁の側から順に返す
func lineIndices(dir Direction, i int) [Size]int {
	var idx [Size]int
	for k := 0; k < Size; k++ {
		switch dir {
		case Left:
			idx[k] = i*Size + k
		case Right:
			idx[k] = i*Size + (Size - 1 - k)
		case Up:
			idx[k] = k*Size + i
		case Down:
			idx[k] = (Size-1-k)*Size + i
		default:
			panic("domain: unknown direction " + dir.String())
		}
	}
	return idx
}
