// Package dataset loads the bundled historical F1 CSV tables into an
// in-process DuckDB database and owns that database for the life of the
// server. All aggregation queries run against it read-only.
package dataset

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"

	"github.com/f1-dashboard/backend/internal/models"
)

// Options tunes the underlying DuckDB instance.
type Options struct {
	Threads     int
	MemoryLimit string
	StartYear   int // earliest season to load, 0 means everything
}

// Store is a DuckDB-backed store for the historical dataset. Loading
// files larger than RAM is not a concern here, but keeping the database
// in a temp file (rather than :memory:) lets DuckDB spill during index
// creation on small machines.
type Store struct {
	db     *sql.DB
	dbPath string

	startYear int

	counts      map[string]int
	minSeason   int
	maxSeason   int
	droppedRows int
	loadErrors  []*RowError

	// Semaphore to limit concurrent analytics queries.
	querySem chan struct{}
}

// Open creates a fresh DuckDB database file in tempDir and its table schema.
func Open(tempDir string, opts Options) (*Store, error) {
	if opts.Threads <= 0 {
		opts.Threads = 4
	}
	if opts.MemoryLimit == "" {
		opts.MemoryLimit = "1GB"
	}

	dbPath := filepath.Join(tempDir, fmt.Sprintf("dashboard_%s.duckdb", uuid.New().String()))

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			fmt.Sprintf("PRAGMA memory_limit='%s'", opts.MemoryLimit),
			fmt.Sprintf("PRAGMA threads=%d", opts.Threads),
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	if err := createSchema(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, err
	}

	return &Store{
		db:        db,
		dbPath:    dbPath,
		startYear: opts.StartYear,
		counts:    make(map[string]int),
		querySem:  make(chan struct{}, 3), // Max 3 concurrent queries
	}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE races (
			id         INTEGER PRIMARY KEY,
			year       INTEGER NOT NULL,
			round      INTEGER NOT NULL,
			circuit_id INTEGER NOT NULL,
			name       VARCHAR NOT NULL,
			date       VARCHAR,
			time       VARCHAR
		)`,
		`CREATE TABLE results (
			id             INTEGER PRIMARY KEY,
			race_id        INTEGER NOT NULL,
			driver_id      INTEGER NOT NULL,
			constructor_id INTEGER NOT NULL,
			grid           INTEGER NOT NULL,
			position_text  VARCHAR,
			position       INTEGER,
			points         DOUBLE NOT NULL
		)`,
		`CREATE TABLE drivers (
			id          INTEGER PRIMARY KEY,
			ref         VARCHAR NOT NULL,
			code        VARCHAR,
			forename    VARCHAR NOT NULL,
			surname     VARCHAR NOT NULL,
			nationality VARCHAR
		)`,
		`CREATE TABLE constructors (
			id          INTEGER PRIMARY KEY,
			ref         VARCHAR NOT NULL,
			name        VARCHAR NOT NULL,
			nationality VARCHAR
		)`,
		`CREATE TABLE circuits (
			id       INTEGER PRIMARY KEY,
			ref      VARCHAR NOT NULL,
			name     VARCHAR NOT NULL,
			location VARCHAR,
			country  VARCHAR
		)`,
		`CREATE TABLE qualifying (
			id             INTEGER PRIMARY KEY,
			race_id        INTEGER NOT NULL,
			driver_id      INTEGER NOT NULL,
			constructor_id INTEGER NOT NULL,
			position       INTEGER NOT NULL,
			q1             VARCHAR,
			q2             VARCHAR,
			q3             VARCHAR
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	// NOTE: Indexes are created in finalize() after all inserts; creating
	// them up front slows the load phase considerably.
	return nil
}

// LoadDir loads the CSV tables from dataDir, enforces referential
// integrity, and builds indexes. races.csv, results.csv, drivers.csv and
// constructors.csv are required; circuits.csv and qualifying.csv are
// loaded when present.
func (s *Store) LoadDir(dataDir string) error {
	start := time.Now()

	races, errs, err := loadRaces(filepath.Join(dataDir, "races.csv"), s.startYear)
	if err != nil {
		return fmt.Errorf("loading races.csv: %w", err)
	}
	s.loadErrors = append(s.loadErrors, errs...)

	drivers, errs, err := loadDrivers(filepath.Join(dataDir, "drivers.csv"))
	if err != nil {
		return fmt.Errorf("loading drivers.csv: %w", err)
	}
	s.loadErrors = append(s.loadErrors, errs...)

	constructors, errs, err := loadConstructors(filepath.Join(dataDir, "constructors.csv"))
	if err != nil {
		return fmt.Errorf("loading constructors.csv: %w", err)
	}
	s.loadErrors = append(s.loadErrors, errs...)

	results, errs, err := loadResults(filepath.Join(dataDir, "results.csv"))
	if err != nil {
		return fmt.Errorf("loading results.csv: %w", err)
	}
	s.loadErrors = append(s.loadErrors, errs...)

	var circuits []models.Circuit
	if _, err := os.Stat(filepath.Join(dataDir, "circuits.csv")); err == nil {
		circuits, errs, err = loadCircuits(filepath.Join(dataDir, "circuits.csv"))
		if err != nil {
			return fmt.Errorf("loading circuits.csv: %w", err)
		}
		s.loadErrors = append(s.loadErrors, errs...)
	} else {
		log.Printf("[dataset] circuits.csv not found, circuit metadata disabled")
	}

	var qualifying []models.QualifyingResult
	if _, err := os.Stat(filepath.Join(dataDir, "qualifying.csv")); err == nil {
		qualifying, errs, err = loadQualifying(filepath.Join(dataDir, "qualifying.csv"))
		if err != nil {
			return fmt.Errorf("loading qualifying.csv: %w", err)
		}
		s.loadErrors = append(s.loadErrors, errs...)
	} else {
		log.Printf("[dataset] qualifying.csv not found, pole statistics disabled")
	}

	if err := s.appendRaces(races); err != nil {
		return err
	}
	if err := s.appendDrivers(drivers); err != nil {
		return err
	}
	if err := s.appendConstructors(constructors); err != nil {
		return err
	}
	if err := s.appendResults(results); err != nil {
		return err
	}
	if err := s.appendCircuits(circuits); err != nil {
		return err
	}
	if err := s.appendQualifying(qualifying); err != nil {
		return err
	}

	if err := s.finalize(); err != nil {
		return err
	}

	log.Printf("[dataset] loaded %d races, %d results, %d drivers, %d constructors in %v (%d rows dropped, %d rows unreadable)",
		s.counts["races"], s.counts["results"], s.counts["drivers"], s.counts["constructors"],
		time.Since(start).Round(time.Millisecond), s.droppedRows, len(s.loadErrors))
	return nil
}

// withAppender runs fn against a DuckDB native appender for the given
// table and flushes it. The Appender API is much faster than prepared
// INSERTs for bulk loads.
func (s *Store) withAppender(table string, fn func(ap *duckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		ap, err := duckdb.NewAppenderFromConn(dConn, "", table)
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer ap.Close()

		if err := fn(ap); err != nil {
			return err
		}
		return ap.Flush()
	})
	if err != nil {
		return fmt.Errorf("appending to %s: %w", table, err)
	}
	return nil
}

func (s *Store) appendRaces(races []models.Race) error {
	return s.withAppender("races", func(ap *duckdb.Appender) error {
		for _, r := range races {
			if err := ap.AppendRow(
				int32(r.ID), int32(r.Season), int32(r.Round), int32(r.CircuitID),
				r.Name, r.Date, r.Time,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) appendResults(results []models.Result) error {
	return s.withAppender("results", func(ap *duckdb.Appender) error {
		for _, r := range results {
			var position any
			if r.Position != nil {
				position = int32(*r.Position)
			}
			if err := ap.AppendRow(
				int32(r.ID), int32(r.RaceID), int32(r.DriverID), int32(r.ConstructorID),
				int32(r.Grid), r.PositionText, position, r.Points,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) appendDrivers(drivers []models.Driver) error {
	return s.withAppender("drivers", func(ap *duckdb.Appender) error {
		for _, d := range drivers {
			if err := ap.AppendRow(
				int32(d.ID), d.Ref, d.Code, d.Forename, d.Surname, d.Nationality,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) appendConstructors(constructors []models.Constructor) error {
	return s.withAppender("constructors", func(ap *duckdb.Appender) error {
		for _, c := range constructors {
			if err := ap.AppendRow(
				int32(c.ID), c.Ref, c.Name, c.Nationality,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) appendCircuits(circuits []models.Circuit) error {
	if len(circuits) == 0 {
		return nil
	}
	return s.withAppender("circuits", func(ap *duckdb.Appender) error {
		for _, c := range circuits {
			if err := ap.AppendRow(
				int32(c.ID), c.Ref, c.Name, c.Location, c.Country,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) appendQualifying(quals []models.QualifyingResult) error {
	if len(quals) == 0 {
		return nil
	}
	return s.withAppender("qualifying", func(ap *duckdb.Appender) error {
		for _, q := range quals {
			if err := ap.AppendRow(
				int32(q.ID), int32(q.RaceID), int32(q.DriverID), int32(q.ConstructorID),
				int32(q.Position), q.Q1, q.Q2, q.Q3,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// finalize drops rows that violate referential integrity, creates
// indexes, and records table statistics.
func (s *Store) finalize() error {
	// Every result must reference a loaded race, driver and constructor.
	// Races before StartYear are filtered at load time, so this also
	// trims their results.
	orphanChecks := []struct {
		table string
		query string
	}{
		{"results", `DELETE FROM results WHERE
			race_id NOT IN (SELECT id FROM races)
			OR driver_id NOT IN (SELECT id FROM drivers)
			OR constructor_id NOT IN (SELECT id FROM constructors)`},
		{"qualifying", `DELETE FROM qualifying WHERE
			race_id NOT IN (SELECT id FROM races)
			OR driver_id NOT IN (SELECT id FROM drivers)
			OR constructor_id NOT IN (SELECT id FROM constructors)`},
	}

	for _, check := range orphanChecks {
		res, err := s.db.Exec(check.query)
		if err != nil {
			return fmt.Errorf("integrity check on %s failed: %w", check.table, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			s.droppedRows += int(n)
			log.Printf("[dataset] dropped %d %s rows with dangling references", n, check.table)
		}
	}

	indexes := []string{
		"CREATE INDEX idx_races_year ON races(year)",
		"CREATE INDEX idx_results_race ON results(race_id)",
		"CREATE INDEX idx_results_driver ON results(driver_id)",
		"CREATE INDEX idx_qualifying_race ON qualifying(race_id)",
	}
	for _, idx := range indexes {
		if _, err := s.db.Exec(idx); err != nil {
			log.Printf("[dataset] warning: %s failed: %v", idx, err)
		}
	}

	for _, table := range []string{"races", "results", "drivers", "constructors", "circuits", "qualifying"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return fmt.Errorf("counting %s: %w", table, err)
		}
		s.counts[table] = n
	}

	if s.counts["races"] > 0 {
		if err := s.db.QueryRow("SELECT MIN(year), MAX(year) FROM races").Scan(&s.minSeason, &s.maxSeason); err != nil {
			return fmt.Errorf("reading season range: %w", err)
		}
	}

	return nil
}

// DB exposes the underlying database for read-only aggregation queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Acquire blocks until a query slot is free or ctx is done. The returned
// release function must be called when the query finishes.
func (s *Store) Acquire(ctx context.Context) (func(), error) {
	select {
	case s.querySem <- struct{}{}:
		return func() { <-s.querySem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Counts returns the per-table row counts recorded at load time.
func (s *Store) Counts() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// SeasonRange returns the earliest and latest loaded season.
func (s *Store) SeasonRange() (int, int) {
	return s.minSeason, s.maxSeason
}

// DroppedRows returns how many rows were removed by the integrity pass.
func (s *Store) DroppedRows() int {
	return s.droppedRows
}

// LoadErrors returns rows that could not be decoded from the CSV files.
func (s *Store) LoadErrors() []*RowError {
	return s.loadErrors
}

// HasQualifying reports whether qualifying data was loaded.
func (s *Store) HasQualifying() bool {
	return s.counts["qualifying"] > 0
}

// Close closes the database and removes its temp file.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.dbPath != "" {
		os.Remove(s.dbPath)
		// DuckDB write-ahead log, present if the database wasn't checkpointed
		os.Remove(s.dbPath + ".wal")
	}
	return err
}
