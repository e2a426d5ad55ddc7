package domain

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// スポーン確率（2が90%、4が10%）
const (
	spawn2Prob = 0.9
	spawn4Prob = 0.1
)

// SpawnValues はスワイプ後に空きマスに出現しうる値
var SpawnValues = []int{2, 4}

// RandomSource はタイルの出現と探索のサンプリングに使う乱数源
// *rand.Rand と *frand.RNG のどちらも満たす
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// NewRandomSource はseedから再現可能な乱数源を生成する
// seedが0ならOSのエントロピーから初期化する
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// spawnValue は2か4を重み付きで選ぶ
func spawnValue(rng RandomSource) int {
	if rng.Float64() < spawn2Prob {
		return SpawnValues[0]
	}
	return SpawnValues[1]
}

// sampleCells は空きマスから最大k個を選ぶ
// rngがnilなら均等な間隔で選ぶ
func sampleCells(empty []int, k int, rng RandomSource) []int {
	if k <= 0 || len(empty) <= k {
		return empty
	}

	if rng == nil {
		sampled := make([]int, 0, k)
		step := len(empty) / k
		for i := 0; i < len(empty) && len(sampled) < k; i += step {
			sampled = append(sampled, empty[i])
		}
		return sampled
	}

	// 先頭k個だけの部分シャッフル
	shuffled := make([]int, len(empty))
	copy(shuffled, empty)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}
