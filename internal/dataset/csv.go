package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/f1-dashboard/backend/internal/models"
)

// datasetNull is the null marker used throughout the historical CSV export.
const datasetNull = `\N`

// RowError records a CSV row that could not be decoded.
type RowError struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// csvTable reads a headered CSV file and resolves columns by name, so the
// loader survives column reordering between dataset exports.
type csvTable struct {
	file   string
	cols   map[string]int
	rows   *csv.Reader
	line   int
	errors []*RowError
}

func openCSVTable(path string) (*csvTable, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	return &csvTable{
		file: path,
		cols: cols,
		rows: r,
		line: 1,
	}, f, nil
}

// next returns the next record, or nil at EOF. Malformed rows are recorded
// and skipped.
func (t *csvTable) next() []string {
	for {
		rec, err := t.rows.Read()
		t.line++
		if err == io.EOF {
			return nil
		}
		if err != nil {
			t.errors = append(t.errors, &RowError{File: t.file, Line: t.line, Reason: err.Error()})
			continue
		}
		return rec
	}
}

func (t *csvTable) rowError(reason string) {
	t.errors = append(t.errors, &RowError{File: t.file, Line: t.line, Reason: reason})
}

// field returns the named column of a record, "" if absent.
func (t *csvTable) field(rec []string, name string) string {
	i, ok := t.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	v := strings.TrimSpace(rec[i])
	if v == datasetNull {
		return ""
	}
	return v
}

// intField parses a required integer column.
func (t *csvTable) intField(rec []string, name string) (int, error) {
	v := t.field(rec, name)
	if v == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}

// lenientInt parses an optional integer column. Non-numeric markers such
// as "R" (retired) or "W" (withdrawn) become nil rather than errors.
func (t *csvTable) lenientInt(rec []string, name string) *int {
	v := t.field(rec, name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// pointsField parses the points column; missing values count as zero.
func (t *csvTable) pointsField(rec []string, name string) float64 {
	v := t.field(rec, name)
	if v == "" {
		return 0
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return p
}

// loadRaces decodes races.csv. Races before startYear are skipped.
func loadRaces(path string, startYear int) ([]models.Race, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var races []models.Race
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "raceId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		year, err := t.intField(rec, "year")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		if year < startYear {
			continue
		}
		round, err := t.intField(rec, "round")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		circuitID, err := t.intField(rec, "circuitId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		races = append(races, models.Race{
			ID:        id,
			Season:    year,
			Round:     round,
			CircuitID: circuitID,
			Name:      t.field(rec, "name"),
			Date:      t.field(rec, "date"),
			Time:      t.field(rec, "time"),
		})
	}

	return races, t.errors, nil
}

// loadResults decodes results.csv.
func loadResults(path string) ([]models.Result, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var results []models.Result
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "resultId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		raceID, err := t.intField(rec, "raceId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		driverID, err := t.intField(rec, "driverId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		constructorID, err := t.intField(rec, "constructorId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		grid := 0
		if g := t.lenientInt(rec, "grid"); g != nil {
			grid = *g
		}

		results = append(results, models.Result{
			ID:            id,
			RaceID:        raceID,
			DriverID:      driverID,
			ConstructorID: constructorID,
			Grid:          grid,
			PositionText:  t.field(rec, "positionText"),
			Position:      t.lenientInt(rec, "positionOrder"),
			Points:        t.pointsField(rec, "points"),
		})
	}

	return results, t.errors, nil
}

// loadDrivers decodes drivers.csv.
func loadDrivers(path string) ([]models.Driver, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var drivers []models.Driver
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "driverId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		drivers = append(drivers, models.Driver{
			ID:          id,
			Ref:         t.field(rec, "driverRef"),
			Code:        t.field(rec, "code"),
			Forename:    t.field(rec, "forename"),
			Surname:     t.field(rec, "surname"),
			Nationality: t.field(rec, "nationality"),
		})
	}

	return drivers, t.errors, nil
}

// loadConstructors decodes constructors.csv.
func loadConstructors(path string) ([]models.Constructor, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var constructors []models.Constructor
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "constructorId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		constructors = append(constructors, models.Constructor{
			ID:          id,
			Ref:         t.field(rec, "constructorRef"),
			Name:        t.field(rec, "name"),
			Nationality: t.field(rec, "nationality"),
		})
	}

	return constructors, t.errors, nil
}

// loadCircuits decodes circuits.csv.
func loadCircuits(path string) ([]models.Circuit, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var circuits []models.Circuit
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "circuitId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		circuits = append(circuits, models.Circuit{
			ID:       id,
			Ref:      t.field(rec, "circuitRef"),
			Name:     t.field(rec, "name"),
			Location: t.field(rec, "location"),
			Country:  t.field(rec, "country"),
		})
	}

	return circuits, t.errors, nil
}

// loadQualifying decodes qualifying.csv.
func loadQualifying(path string) ([]models.QualifyingResult, []*RowError, error) {
	t, closer, err := openCSVTable(path)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	var quals []models.QualifyingResult
	for rec := t.next(); rec != nil; rec = t.next() {
		id, err := t.intField(rec, "qualifyId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		raceID, err := t.intField(rec, "raceId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		driverID, err := t.intField(rec, "driverId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}
		constructorID, err := t.intField(rec, "constructorId")
		if err != nil {
			t.rowError(err.Error())
			continue
		}

		pos := 0
		if p := t.lenientInt(rec, "position"); p != nil {
			pos = *p
		}

		quals = append(quals, models.QualifyingResult{
			ID:            id,
			RaceID:        raceID,
			DriverID:      driverID,
			ConstructorID: constructorID,
			Position:      pos,
			Q1:            t.field(rec, "q1"),
			Q2:            t.field(rec, "q2"),
			Q3:            t.field(rec, "q3"),
		})
	}

	return quals, t.errors, nil
}
