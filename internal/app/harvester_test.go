package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tcmc-hq/tcmc-client/internal/config"
)

func TestHarvesterForwardsLogsToHTTPPublisher(t *testing.T) {
	var delivered atomic.Int32
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/admin-api/tcmc/client-user/session/page":
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": map[string]any{
				"list":  []map[string]any{{"id": 1}},
				"total": 1,
			}})
		case "/admin-api/tcmc/QA-log/list":
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": []map[string]any{
				{"id": 100, "sessionId": 1, "question": "q", "answer": "a"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	raw := "publishers:\n  - id: sink\n    type: http\n    http:\n      url: " + sink.URL + "\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := &config.Config{
		APIBaseURL:             api.URL + "/admin-api",
		APIContentType:         "application/json",
		APITimeout:             5 * time.Second,
		PublishersFile:         pubFile,
		HarvestInterval:        time.Hour,
		SessionPageSize:        10,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "harvest.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}

	h, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}

	if err := h.runOnce(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := h.runOnce(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	h.close()

	if got := delivered.Load(); got != 1 {
		t.Fatalf("expected exactly one delivery across passes, got %d", got)
	}
}

func TestNewHarvesterRequiresConfig(t *testing.T) {
	if _, err := NewHarvester(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
