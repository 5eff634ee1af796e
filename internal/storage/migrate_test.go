package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/routined/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:           "task-rt-1",
		OwnerID:      "user-1",
		Name:         "Roundtrip task",
		Active:       true,
		CreatedAt:    now,
		LastEditedAt: now,
	}
	task.Signature = task.ComputeSignature()
	if err := repo.CreateTask(t.Context(), task); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetTask(t.Context(), "task-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Name != "Roundtrip task" {
		t.Fatalf("unexpected name after roundtrip: %q", got.Name)
	}

	if _, err := repo.GetTask(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
