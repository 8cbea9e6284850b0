// store_test.go - Tests for the DuckDB-backed dataset store
package dataset

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/f1-dashboard/backend/internal/testutil"
)

// createLoadedStore loads the fixture dataset into a fresh store.
func createLoadedStore(t *testing.T, opts Options) (*Store, func()) {
	t.Helper()

	dataDir := t.TempDir()
	if err := testutil.WriteDataset(dataDir); err != nil {
		t.Fatalf("Failed to write fixture dataset: %v", err)
	}

	store, err := Open(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.LoadDir(dataDir); err != nil {
		store.Close()
		t.Fatalf("Failed to load dataset: %v", err)
	}

	return store, func() { store.Close() }
}

func TestOpen(t *testing.T) {
	t.Run("creates database file in temp dir", func(t *testing.T) {
		tempDir := t.TempDir()
		store, err := Open(tempDir, Options{})
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		defer store.Close()

		matches, _ := filepath.Glob(filepath.Join(tempDir, "dashboard_*.duckdb"))
		if len(matches) != 1 {
			t.Errorf("Expected one database file, found %d", len(matches))
		}
	})

	t.Run("close removes database file", func(t *testing.T) {
		tempDir := t.TempDir()
		store, err := Open(tempDir, Options{})
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		store.Close()

		matches, _ := filepath.Glob(filepath.Join(tempDir, "dashboard_*"))
		if len(matches) != 0 {
			t.Errorf("Expected database files to be removed, found %v", matches)
		}
	})
}

func TestLoadDir(t *testing.T) {
	t.Run("loads all tables", func(t *testing.T) {
		store, cleanup := createLoadedStore(t, Options{})
		defer cleanup()

		counts := store.Counts()
		expected := map[string]int{
			"races":        4,
			"results":      10, // 11 in the file, one orphan dropped
			"drivers":      3,
			"constructors": 3,
			"circuits":     2,
			"qualifying":   5,
		}
		for table, want := range expected {
			if counts[table] != want {
				t.Errorf("Expected %d %s rows, got %d", want, table, counts[table])
			}
		}

		if store.DroppedRows() != 1 {
			t.Errorf("Expected 1 dropped row, got %d", store.DroppedRows())
		}
		if !store.HasQualifying() {
			t.Error("Expected qualifying data to be loaded")
		}

		min, max := store.SeasonRange()
		if min != 2020 || max != 2021 {
			t.Errorf("Expected season range 2020-2021, got %d-%d", min, max)
		}
	})

	t.Run("start year filters races and their results", func(t *testing.T) {
		store, cleanup := createLoadedStore(t, Options{StartYear: 2021})
		defer cleanup()

		counts := store.Counts()
		if counts["races"] != 3 {
			t.Errorf("Expected 3 races from 2021, got %d", counts["races"])
		}
		// The orphan plus both 2020 results go.
		if counts["results"] != 8 {
			t.Errorf("Expected 8 results, got %d", counts["results"])
		}
		// The 2020 qualifying row goes too.
		if counts["qualifying"] != 4 {
			t.Errorf("Expected 4 qualifying rows, got %d", counts["qualifying"])
		}
		if store.DroppedRows() != 4 {
			t.Errorf("Expected 4 dropped rows, got %d", store.DroppedRows())
		}

		min, max := store.SeasonRange()
		if min != 2021 || max != 2021 {
			t.Errorf("Expected season range 2021-2021, got %d-%d", min, max)
		}
	})

	t.Run("optional tables may be absent", func(t *testing.T) {
		dataDir := t.TempDir()
		if err := testutil.WriteMinimalDataset(dataDir); err != nil {
			t.Fatalf("Failed to write fixture dataset: %v", err)
		}

		store, err := Open(t.TempDir(), Options{})
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		defer store.Close()

		if err := store.LoadDir(dataDir); err != nil {
			t.Fatalf("Expected load without optional tables to succeed: %v", err)
		}
		if store.HasQualifying() {
			t.Error("Expected no qualifying data")
		}
		if store.Counts()["circuits"] != 0 {
			t.Errorf("Expected 0 circuits, got %d", store.Counts()["circuits"])
		}
	})

	t.Run("missing required table fails", func(t *testing.T) {
		store, err := Open(t.TempDir(), Options{})
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		defer store.Close()

		if err := store.LoadDir(t.TempDir()); err == nil {
			t.Error("Expected load from empty directory to fail")
		}
	})

	t.Run("retired driver has NULL position", func(t *testing.T) {
		store, cleanup := createLoadedStore(t, Options{})
		defer cleanup()

		var position sql.NullInt64
		var text string
		err := store.DB().QueryRow(
			"SELECT position, position_text FROM results WHERE id = 3").Scan(&position, &text)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if position.Valid {
			t.Errorf("Expected NULL position for retirement, got %d", position.Int64)
		}
		if text != "R" {
			t.Errorf("Expected position text R, got %q", text)
		}
	})
}

func TestAcquire(t *testing.T) {
	t.Run("releases slots", func(t *testing.T) {
		store, cleanup := createLoadedStore(t, Options{})
		defer cleanup()

		// More acquires than slots; each release frees one.
		for i := 0; i < 10; i++ {
			release, err := store.Acquire(context.Background())
			if err != nil {
				t.Fatalf("Acquire %d failed: %v", i, err)
			}
			release()
		}
	})

	t.Run("honours context cancellation when saturated", func(t *testing.T) {
		store, cleanup := createLoadedStore(t, Options{})
		defer cleanup()

		var releases []func()
		for i := 0; i < 3; i++ {
			release, err := store.Acquire(context.Background())
			if err != nil {
				t.Fatalf("Acquire %d failed: %v", i, err)
			}
			releases = append(releases, release)
		}
		defer func() {
			for _, release := range releases {
				release()
			}
		}()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := store.Acquire(ctx); err == nil {
			t.Error("Expected acquire with cancelled context to fail")
		}
	})
}
