package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mridul45/Expectimax-Search/internal/domain"
	"github.com/mridul45/Expectimax-Search/internal/infrastructure"
	"github.com/mridul45/Expectimax-Search/internal/usecase"
)

func newTestServer(t *testing.T) (*Server, *domain.Game) {
	t.Helper()
	logger := zerolog.Nop()
	game := domain.NewGame(domain.NewRandomSource(11), &infrastructure.MemoryBestStore{}, logger)

	config := usecase.DefaultCompanionConfig()
	config.Solver.MaxDepth = 2
	config.Solver.SampleCells = 2

	hub := NewHub(logger)
	var server *Server
	companion := usecase.NewCompanion(game, nil, config, func(s domain.Snapshot) {
		server.Publish(s)
	}, logger)
	server = NewServer(game, companion, hub, logger)
	return server, game
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doRequest(t, server.Routes(), http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestState(t *testing.T) {
	server, game := newTestServer(t)
	rec := doRequest(t, server.Routes(), http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Snapshot != game.Snapshot() {
		t.Errorf("state does not match the game: %+v", got)
	}
	if got.Companion {
		t.Error("companion should start disabled")
	}
}

func TestMove(t *testing.T) {
	server, game := newTestServer(t)
	h := server.Routes()

	legal := game.Board().LegalMoves()
	if len(legal) == 0 {
		t.Fatal("new game has no legal moves")
	}

	rec := doRequest(t, h, http.MethodPost, "/api/move", `{"direction":"`+legal[0].String()+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Outcome domain.Outcome `json:"outcome"`
		State   StateResponse  `json:"state"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Outcome.Moved || got.Outcome.Spawned < 0 {
		t.Errorf("expected a move with a spawn, got %+v", got.Outcome)
	}
	if !got.State.CanUndo {
		t.Error("expected undo to be available after a move")
	}
}

func TestMoveRejectsBadInput(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Routes()

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown direction", body: `{"direction":"sideways"}`},
		{name: "broken json", body: `{"direction":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/move", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestUndoAndNew(t *testing.T) {
	server, game := newTestServer(t)
	h := server.Routes()

	rec := doRequest(t, h, http.MethodPost, "/api/undo", "")
	var undo struct {
		Undone bool `json:"undone"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&undo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if undo.Undone {
		t.Error("expected nothing to undo")
	}

	start := game.Board()
	game.Move(game.Board().LegalMoves()[0])
	rec = doRequest(t, h, http.MethodPost, "/api/undo", "")
	if err := json.NewDecoder(rec.Body).Decode(&undo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !undo.Undone || !game.Board().Equal(start) {
		t.Error("expected undo to restore the starting board")
	}

	rec = doRequest(t, h, http.MethodPost, "/api/new", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if game.Score() != 0 {
		t.Errorf("expected a fresh game, got score %d", game.Score())
	}
}

func TestCompanionToggle(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Routes()

	rec := doRequest(t, h, http.MethodPost, "/api/companion", `{"enabled":true}`)
	var got StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Companion || !server.companion.Enabled() {
		t.Error("expected the companion to be enabled")
	}

	// 新しいゲームで相棒は止まる
	doRequest(t, h, http.MethodPost, "/api/new", "")
	if server.companion.Enabled() {
		t.Error("expected restart to disable the companion")
	}

	rec = doRequest(t, h, http.MethodPost, "/api/companion", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHint(t *testing.T) {
	server, game := newTestServer(t)
	before := game.Board()

	rec := doRequest(t, server.Routes(), http.MethodGet, "/api/hint", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got HintResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	dir, ok := domain.ParseDirection(got.Direction)
	if !ok {
		t.Fatalf("unexpected direction %q", got.Direction)
	}
	if _, moved, _ := before.Move(dir); !moved {
		t.Errorf("hint %s is not legal", dir)
	}
	if len(got.Moves) != len(before.LegalMoves()) {
		t.Errorf("expected %d move scores, got %d", len(before.LegalMoves()), len(got.Moves))
	}
	if !game.Board().Equal(before) {
		t.Error("hint changed the board")
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	var logs bytes.Buffer
	server, _ := newTestServer(t)
	server.logger = zerolog.New(&logs).Level(zerolog.DebugLevel)

	rec := httptest.NewRecorder()
	server.writeJSON(rec, http.StatusOK, map[string]float64{"score": math.Inf(1)})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(logs.String(), `"message":"encode-response-failed"`) {
		t.Errorf("expected the encode failure to be logged, got %q", logs.String())
	}
}
