// Package stats runs the aggregation queries behind every chart. All
// queries are read-only; the dataset is immutable after load, so selector
// results are memoised.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/f1-dashboard/backend/internal/dataset"
	"github.com/f1-dashboard/backend/internal/models"
)

// DefaultTopN is how many series/rows the season charts keep, matching
// the dashboard's "top 10" presentation.
const DefaultTopN = 10

// Queries provides chart aggregations over a loaded dataset store.
type Queries struct {
	store *dataset.Store

	// Selector payloads never change for a loaded dataset.
	memoMu   sync.RWMutex
	seasons  []models.SeasonOption
	circuits []models.CircuitOption
}

// New creates a Queries layer over the given store.
func New(store *dataset.Store) *Queries {
	return &Queries{store: store}
}

// DriverProgression returns per-round cumulative points for the topN
// drivers of a season, ordered by final points descending. A season with
// no data yields an empty slice.
func (q *Queries) DriverProgression(ctx context.Context, season, topN int) ([]models.ProgressionSeries, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if topN <= 0 {
		topN = DefaultTopN
	}

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT r.round, res.driver_id, d.forename || ' ' || d.surname, res.points,
		       SUM(res.points) OVER (PARTITION BY res.driver_id ORDER BY r.round) AS cumulative
		FROM results res
		JOIN races r ON res.race_id = r.id
		JOIN drivers d ON res.driver_id = d.id
		WHERE r.year = ?
		ORDER BY res.driver_id, r.round
	`, season)
	if err != nil {
		return nil, fmt.Errorf("progression query failed: %w", err)
	}
	defer rows.Close()

	byDriver := make(map[int]*models.ProgressionSeries)
	var order []int
	for rows.Next() {
		var (
			round, driverID    int
			name               string
			points, cumulative float64
		)
		if err := rows.Scan(&round, &driverID, &name, &points, &cumulative); err != nil {
			return nil, err
		}
		series, ok := byDriver[driverID]
		if !ok {
			series = &models.ProgressionSeries{DriverID: driverID, DriverName: name}
			byDriver[driverID] = series
			order = append(order, driverID)
		}
		series.Rounds = append(series.Rounds, models.ProgressionPoint{
			Round:            round,
			Points:           points,
			CumulativePoints: cumulative,
		})
		series.FinalPoints = cumulative
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.ProgressionSeries, 0, len(order))
	for _, id := range order {
		out = append(out, *byDriver[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalPoints != out[j].FinalPoints {
			return out[i].FinalPoints > out[j].FinalPoints
		}
		return out[i].DriverName < out[j].DriverName
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// ConstructorSeasonPoints returns summed points per constructor per
// season from fromYear on, trimmed to the topN constructors by combined
// total. Cells are ordered by season then constructor name.
func (q *Queries) ConstructorSeasonPoints(ctx context.Context, fromYear, topN int) ([]models.HeatmapCell, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if topN <= 0 {
		topN = DefaultTopN
	}

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT r.year, c.name, SUM(res.points) AS pts
		FROM results res
		JOIN races r ON res.race_id = r.id
		JOIN constructors c ON res.constructor_id = c.id
		WHERE r.year >= ?
		GROUP BY r.year, c.name
		ORDER BY r.year, c.name
	`, fromYear)
	if err != nil {
		return nil, fmt.Errorf("constructor points query failed: %w", err)
	}
	defer rows.Close()

	var cells []models.HeatmapCell
	totals := make(map[string]float64)
	for rows.Next() {
		var cell models.HeatmapCell
		if err := rows.Scan(&cell.Season, &cell.Constructor, &cell.Points); err != nil {
			return nil, err
		}
		cells = append(cells, cell)
		totals[cell.Constructor] += cell.Points
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(totals) > topN {
		names := make([]string, 0, len(totals))
		for name := range totals {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if totals[names[i]] != totals[names[j]] {
				return totals[names[i]] > totals[names[j]]
			}
			return names[i] < names[j]
		})
		keep := make(map[string]bool, topN)
		for _, name := range names[:topN] {
			keep[name] = true
		}
		trimmed := cells[:0]
		for _, cell := range cells {
			if keep[cell.Constructor] {
				trimmed = append(trimmed, cell)
			}
		}
		cells = trimmed
	}

	if cells == nil {
		cells = []models.HeatmapCell{}
	}
	return cells, nil
}

// CircuitWinners returns win counts per driver at the circuit with the
// given ref, most successful first. An unknown ref yields an empty slice.
func (q *Queries) CircuitWinners(ctx context.Context, circuitRef string, limit int) ([]models.CircuitWinner, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if limit <= 0 {
		limit = DefaultTopN
	}

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT res.driver_id, d.forename || ' ' || d.surname, COUNT(*) AS wins
		FROM results res
		JOIN races r ON res.race_id = r.id
		JOIN circuits c ON r.circuit_id = c.id
		JOIN drivers d ON res.driver_id = d.id
		WHERE c.ref = ? AND res.position = 1
		GROUP BY res.driver_id, d.forename, d.surname
		ORDER BY wins DESC, 2 ASC
		LIMIT ?
	`, circuitRef, limit)
	if err != nil {
		return nil, fmt.Errorf("circuit winners query failed: %w", err)
	}
	defer rows.Close()

	winners := []models.CircuitWinner{}
	for rows.Next() {
		var w models.CircuitWinner
		if err := rows.Scan(&w.DriverID, &w.DriverName, &w.Wins); err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// HeadToHead compares two drivers across their careers. Unknown IDs
// produce zeroed stats rather than an error.
func (q *Queries) HeadToHead(ctx context.Context, driver1ID, driver2ID int) (*models.HeadToHead, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	d1, err := q.careerStats(ctx, driver1ID)
	if err != nil {
		return nil, err
	}
	d2, err := q.careerStats(ctx, driver2ID)
	if err != nil {
		return nil, err
	}
	return &models.HeadToHead{Driver1: *d1, Driver2: *d2}, nil
}

func (q *Queries) careerStats(ctx context.Context, driverID int) (*models.CareerStats, error) {
	stats := &models.CareerStats{DriverID: driverID}

	err := q.store.DB().QueryRowContext(ctx, `
		SELECT d.forename || ' ' || d.surname,
		       COUNT(*) FILTER (WHERE res.position = 1),
		       COUNT(*) FILTER (WHERE res.position <= 3),
		       COALESCE(SUM(res.points), 0),
		       COALESCE(AVG(res.position), 0),
		       COUNT(res.id)
		FROM drivers d
		LEFT JOIN results res ON res.driver_id = d.id
		WHERE d.id = ?
		GROUP BY d.forename, d.surname
	`, driverID).Scan(&stats.DriverName, &stats.Wins, &stats.Podiums,
		&stats.TotalPoints, &stats.AvgPosition, &stats.Races)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("career stats query failed: %w", err)
	}

	if q.store.HasQualifying() {
		err = q.store.DB().QueryRowContext(ctx, `
			SELECT COUNT(*) FROM qualifying WHERE driver_id = ? AND position = 1
		`, driverID).Scan(&stats.Poles)
		if err != nil {
			return nil, fmt.Errorf("poles query failed: %w", err)
		}
	}

	return stats, nil
}

// TopDrivers returns the career points leaderboard.
func (q *Queries) TopDrivers(ctx context.Context, limit int) ([]models.DriverCareer, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if limit <= 0 {
		limit = 20
	}

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT res.driver_id, d.forename || ' ' || d.surname, SUM(res.points) AS pts
		FROM results res
		JOIN drivers d ON res.driver_id = d.id
		GROUP BY res.driver_id, d.forename, d.surname
		ORDER BY pts DESC, 2 ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top drivers query failed: %w", err)
	}
	defer rows.Close()

	leaders := []models.DriverCareer{}
	for rows.Next() {
		var d models.DriverCareer
		if err := rows.Scan(&d.DriverID, &d.DriverName, &d.Points); err != nil {
			return nil, err
		}
		leaders = append(leaders, d)
	}
	return leaders, rows.Err()
}

// SeasonSummary returns the headline numbers for one season.
func (q *Queries) SeasonSummary(ctx context.Context, season int) (*models.SeasonSummary, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	summary := &models.SeasonSummary{Season: season}

	err = q.store.DB().QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT r.id),
		       COUNT(DISTINCT res.driver_id) FILTER (WHERE res.position = 1),
		       COUNT(DISTINCT res.constructor_id) FILTER (WHERE res.points > 0),
		       COALESCE(SUM(res.points), 0)
		FROM races r
		LEFT JOIN results res ON res.race_id = r.id
		WHERE r.year = ?
	`, season).Scan(&summary.Races, &summary.DistinctWinners,
		&summary.ScoringConstructor, &summary.TotalPoints)
	if err != nil {
		return nil, fmt.Errorf("season summary query failed: %w", err)
	}

	return summary, nil
}

// Seasons returns every loaded season with its race count, newest first.
func (q *Queries) Seasons(ctx context.Context) ([]models.SeasonOption, error) {
	q.memoMu.RLock()
	cached := q.seasons
	q.memoMu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT year, COUNT(*) FROM races GROUP BY year ORDER BY year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("seasons query failed: %w", err)
	}
	defer rows.Close()

	seasons := []models.SeasonOption{}
	for rows.Next() {
		var s models.SeasonOption
		if err := rows.Scan(&s.Season, &s.Races); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	q.memoMu.Lock()
	q.seasons = seasons
	q.memoMu.Unlock()
	return seasons, nil
}

// DriversFor returns selector entries: drivers who raced in the given
// season ordered by name, or, when season is 0, the all-time points
// leaders up to limit.
func (q *Queries) DriversFor(ctx context.Context, season, limit int) ([]models.DriverOption, error) {
	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	if season > 0 {
		rows, err = q.store.DB().QueryContext(ctx, `
			SELECT DISTINCT res.driver_id, d.forename || ' ' || d.surname AS name
			FROM results res
			JOIN races r ON res.race_id = r.id
			JOIN drivers d ON res.driver_id = d.id
			WHERE r.year = ?
			ORDER BY name
		`, season)
	} else {
		rows, err = q.store.DB().QueryContext(ctx, `
			SELECT res.driver_id, d.forename || ' ' || d.surname AS name
			FROM results res
			JOIN drivers d ON res.driver_id = d.id
			GROUP BY res.driver_id, name
			ORDER BY SUM(res.points) DESC, name
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("drivers query failed: %w", err)
	}
	defer rows.Close()

	drivers := []models.DriverOption{}
	for rows.Next() {
		var d models.DriverOption
		if err := rows.Scan(&d.DriverID, &d.DriverName); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Circuits returns every circuit that hosted at least one loaded race.
func (q *Queries) Circuits(ctx context.Context) ([]models.CircuitOption, error) {
	q.memoMu.RLock()
	cached := q.circuits
	q.memoMu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	release, err := q.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := q.store.DB().QueryContext(ctx, `
		SELECT c.ref, c.name, c.country, COUNT(r.id) AS races
		FROM circuits c
		JOIN races r ON r.circuit_id = c.id
		GROUP BY c.ref, c.name, c.country
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("circuits query failed: %w", err)
	}
	defer rows.Close()

	circuits := []models.CircuitOption{}
	for rows.Next() {
		var c models.CircuitOption
		if err := rows.Scan(&c.Ref, &c.Name, &c.Country, &c.Races); err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	q.memoMu.Lock()
	q.circuits = circuits
	q.memoMu.Unlock()
	return circuits, nil
}
