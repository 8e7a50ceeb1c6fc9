package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/playperu/scoreboard/internal/database"
	"github.com/playperu/scoreboard/internal/migrations"
)

func memorySQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestSQLiteStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := memorySQLite(t)

	data, err := s.Load(ctx)
	if err != nil || data != nil {
		t.Fatalf("empty load = %q, %v; want nil, nil", data, err)
	}

	for _, want := range []string{"{\n  \"teams\": []\n}", `{"teams":[{"id":"a"}]}`} {
		if err := s.Save(ctx, []byte(want)); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM quiz_state`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestOpenSQLiteReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), sqliteFileName)

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, []byte(`{"teams":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"teams":[]}` {
		t.Errorf("got %s", got)
	}
	if err := s.Check(ctx); err != nil {
		t.Errorf("check: %v", err)
	}
}
