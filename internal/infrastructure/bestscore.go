package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileBestStore は最高スコアをJSONファイルに保存する
type FileBestStore struct {
	mu   sync.Mutex
	path string
}

type bestFile struct {
	Best int `json:"best"`
}

// NewFileBestStore はpathに保存するストアを返す
func NewFileBestStore(path string) *FileBestStore {
	return &FileBestStore{path: path}
}

// LoadBest は保存された最高スコアを返す（ファイルがなければ0）
func (s *FileBestStore) LoadBest() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read best score %s: %w", s.path, err)
	}

	var f bestFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("decode best score %s: %w", s.path, err)
	}
	if f.Best < 0 {
		return 0, fmt.Errorf("decode best score %s: negative value %d", s.path, f.Best)
	}
	return f.Best, nil
}

// SaveBest は最高スコアを書き込む
// 一時ファイルに書いてからrenameで置き換える
func (s *FileBestStore) SaveBest(best int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(bestFile{Best: best})
	if err != nil {
		return fmt.Errorf("encode best score: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create best score dir %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write best score %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace best score %s: %w", s.path, err)
	}
	return nil
}

// MemoryBestStore はプロセス内だけで最高スコアを保持する
type MemoryBestStore struct {
	mu   sync.Mutex
	best int
}

// LoadBest は保持している最高スコアを返す
func (s *MemoryBestStore) LoadBest() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best, nil
}

// SaveBest は最高スコアを更新する
func (s *MemoryBestStore) SaveBest(best int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.best = best
	return nil
}
