// queries_test.go - Tests for the chart aggregation queries
package stats

import (
	"context"
	"testing"

	"github.com/f1-dashboard/backend/internal/dataset"
	"github.com/f1-dashboard/backend/internal/testutil"
)

// newTestQueries loads the fixture dataset and wraps it in a Queries layer.
//
// Fixture recap: seasons 2020 (one race) and 2021 (three races), drivers
// Hamilton (1), Verstappen (2), Alonso (3), one retirement and one orphan
// result. Career points: Verstappen 87, Hamilton 86, Alonso 15.
func newTestQueries(t *testing.T) (*Queries, func()) {
	t.Helper()

	dataDir := t.TempDir()
	if err := testutil.WriteDataset(dataDir); err != nil {
		t.Fatalf("Failed to write fixture dataset: %v", err)
	}

	store, err := dataset.Open(t.TempDir(), dataset.Options{})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.LoadDir(dataDir); err != nil {
		store.Close()
		t.Fatalf("Failed to load dataset: %v", err)
	}

	return New(store), func() { store.Close() }
}

func TestDriverProgression(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("orders by final points and accumulates per round", func(t *testing.T) {
		series, err := q.DriverProgression(ctx, 2021, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(series) != 3 {
			t.Fatalf("Expected 3 series, got %d", len(series))
		}

		if series[0].DriverName != "Max Verstappen" || series[0].FinalPoints != 69 {
			t.Errorf("Expected Verstappen on 69 first, got %s on %v",
				series[0].DriverName, series[0].FinalPoints)
		}
		if series[1].DriverName != "Lewis Hamilton" || series[1].FinalPoints != 61 {
			t.Errorf("Expected Hamilton on 61 second, got %s on %v",
				series[1].DriverName, series[1].FinalPoints)
		}

		want := []float64{25, 43, 69}
		for i, p := range series[0].Rounds {
			if p.CumulativePoints != want[i] {
				t.Errorf("Round %d: expected cumulative %v, got %v", p.Round, want[i], p.CumulativePoints)
			}
		}
	})

	t.Run("cumulative points never decrease", func(t *testing.T) {
		series, err := q.DriverProgression(ctx, 2021, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		for _, s := range series {
			prev := 0.0
			for _, p := range s.Rounds {
				if p.CumulativePoints < prev {
					t.Errorf("%s: cumulative points decreased from %v to %v at round %d",
						s.DriverName, prev, p.CumulativePoints, p.Round)
				}
				prev = p.CumulativePoints
			}
		}
	})

	t.Run("trims to topN", func(t *testing.T) {
		series, err := q.DriverProgression(ctx, 2021, 2)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(series) != 2 {
			t.Errorf("Expected 2 series, got %d", len(series))
		}
	})

	t.Run("unknown season yields empty slice", func(t *testing.T) {
		series, err := q.DriverProgression(ctx, 1999, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(series) != 0 {
			t.Errorf("Expected no series, got %d", len(series))
		}
	})
}

func TestConstructorSeasonPoints(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("sums points per constructor per season", func(t *testing.T) {
		cells, err := q.ConstructorSeasonPoints(ctx, 2020, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}

		for _, c := range cells {
			if c.Season == 2021 && c.Constructor == "Red Bull" && c.Points != 69 {
				t.Errorf("Expected Red Bull on 69 in 2021, got %v", c.Points)
			}
			if c.Season == 2020 && c.Constructor == "Mercedes" && c.Points != 25 {
				t.Errorf("Expected Mercedes on 25 in 2020, got %v", c.Points)
			}
		}
		if len(cells) != 5 {
			t.Errorf("Expected 5 cells, got %d", len(cells))
		}
	})

	t.Run("trims to the topN constructors by combined total", func(t *testing.T) {
		cells, err := q.ConstructorSeasonPoints(ctx, 2020, 1)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		for _, c := range cells {
			if c.Constructor != "Red Bull" {
				t.Errorf("Expected only Red Bull cells, got %s", c.Constructor)
			}
		}
		if len(cells) != 2 {
			t.Errorf("Expected 2 Red Bull cells, got %d", len(cells))
		}
	})

	t.Run("future fromYear yields empty slice", func(t *testing.T) {
		cells, err := q.ConstructorSeasonPoints(ctx, 2030, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if cells == nil || len(cells) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", cells)
		}
	})
}

func TestCircuitWinners(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("counts wins at the circuit", func(t *testing.T) {
		winners, err := q.CircuitWinners(ctx, "monza", 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(winners) != 2 {
			t.Fatalf("Expected 2 winners, got %d", len(winners))
		}
		if winners[0].DriverName != "Max Verstappen" || winners[0].Wins != 2 {
			t.Errorf("Expected Verstappen with 2 wins first, got %s with %d",
				winners[0].DriverName, winners[0].Wins)
		}
		if winners[1].DriverName != "Lewis Hamilton" || winners[1].Wins != 1 {
			t.Errorf("Expected Hamilton with 1 win, got %s with %d",
				winners[1].DriverName, winners[1].Wins)
		}
	})

	t.Run("unknown circuit yields empty slice", func(t *testing.T) {
		winners, err := q.CircuitWinners(ctx, "nordschleife", 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if winners == nil || len(winners) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", winners)
		}
	})
}

func TestHeadToHead(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()

	h2h, err := q.HeadToHead(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	d1, d2 := h2h.Driver1, h2h.Driver2
	if d1.DriverName != "Lewis Hamilton" || d2.DriverName != "Max Verstappen" {
		t.Fatalf("Unexpected drivers: %s vs %s", d1.DriverName, d2.DriverName)
	}
	if d1.Wins != 2 || d2.Wins != 2 {
		t.Errorf("Expected 2 wins each, got %d and %d", d1.Wins, d2.Wins)
	}
	if d1.Podiums != 4 || d2.Podiums != 4 {
		t.Errorf("Expected 4 podiums each, got %d and %d", d1.Podiums, d2.Podiums)
	}
	if d1.TotalPoints != 86 || d2.TotalPoints != 87 {
		t.Errorf("Expected 86 and 87 points, got %v and %v", d1.TotalPoints, d2.TotalPoints)
	}
	if d1.Poles != 2 || d2.Poles != 2 {
		t.Errorf("Expected 2 poles each, got %d and %d", d1.Poles, d2.Poles)
	}
	if d1.Races != 4 || d2.Races != 4 {
		t.Errorf("Expected 4 races each, got %d and %d", d1.Races, d2.Races)
	}
	if d1.AvgPosition != 1.5 || d2.AvgPosition != 1.5 {
		t.Errorf("Expected average position 1.5 each, got %v and %v", d1.AvgPosition, d2.AvgPosition)
	}
}

func TestTopDrivers(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()

	leaders, err := q.TopDrivers(context.Background(), 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("Expected 2 leaders, got %d", len(leaders))
	}
	if leaders[0].DriverName != "Max Verstappen" || leaders[0].Points != 87 {
		t.Errorf("Expected Verstappen on 87 first, got %s on %v",
			leaders[0].DriverName, leaders[0].Points)
	}
	if leaders[1].DriverName != "Lewis Hamilton" || leaders[1].Points != 86 {
		t.Errorf("Expected Hamilton on 86 second, got %s on %v",
			leaders[1].DriverName, leaders[1].Points)
	}
}

func TestSeasonSummary(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("headline numbers", func(t *testing.T) {
		summary, err := q.SeasonSummary(ctx, 2021)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if summary.Races != 3 {
			t.Errorf("Expected 3 races, got %d", summary.Races)
		}
		if summary.DistinctWinners != 2 {
			t.Errorf("Expected 2 distinct winners, got %d", summary.DistinctWinners)
		}
		if summary.ScoringConstructor != 3 {
			t.Errorf("Expected 3 scoring constructors, got %d", summary.ScoringConstructor)
		}
		if summary.TotalPoints != 145 {
			t.Errorf("Expected 145 total points, got %v", summary.TotalPoints)
		}
	})

	t.Run("unknown season yields zeroes", func(t *testing.T) {
		summary, err := q.SeasonSummary(ctx, 1999)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if summary.Races != 0 || summary.TotalPoints != 0 {
			t.Errorf("Expected zeroed summary, got %+v", summary)
		}
	})
}

func TestSeasons(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	seasons, err := q.Seasons(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(seasons) != 2 {
		t.Fatalf("Expected 2 seasons, got %d", len(seasons))
	}
	if seasons[0].Season != 2021 || seasons[0].Races != 3 {
		t.Errorf("Expected 2021 with 3 races first, got %+v", seasons[0])
	}
	if seasons[1].Season != 2020 || seasons[1].Races != 1 {
		t.Errorf("Expected 2020 with 1 race, got %+v", seasons[1])
	}

	// Second call serves the memo.
	again, err := q.Seasons(ctx)
	if err != nil {
		t.Fatalf("Second query failed: %v", err)
	}
	if len(again) != len(seasons) {
		t.Errorf("Expected memoised result to match, got %d seasons", len(again))
	}
}

func TestDriversFor(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("season selection ordered by name", func(t *testing.T) {
		drivers, err := q.DriversFor(ctx, 2021, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		want := []string{"Fernando Alonso", "Lewis Hamilton", "Max Verstappen"}
		if len(drivers) != len(want) {
			t.Fatalf("Expected %d drivers, got %d", len(want), len(drivers))
		}
		for i, name := range want {
			if drivers[i].DriverName != name {
				t.Errorf("Position %d: expected %s, got %s", i, name, drivers[i].DriverName)
			}
		}
	})

	t.Run("no season means all-time leaders", func(t *testing.T) {
		drivers, err := q.DriversFor(ctx, 0, 2)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(drivers) != 2 {
			t.Fatalf("Expected 2 drivers, got %d", len(drivers))
		}
		if drivers[0].DriverName != "Max Verstappen" {
			t.Errorf("Expected Verstappen first, got %s", drivers[0].DriverName)
		}
	})

	t.Run("unknown season yields empty slice", func(t *testing.T) {
		drivers, err := q.DriversFor(ctx, 1999, 0)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if drivers == nil || len(drivers) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", drivers)
		}
	})
}

func TestCircuits(t *testing.T) {
	q, cleanup := newTestQueries(t)
	defer cleanup()

	circuits, err := q.Circuits(context.Background())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(circuits) != 2 {
		t.Fatalf("Expected 2 circuits, got %d", len(circuits))
	}
	if circuits[0].Ref != "monza" || circuits[0].Races != 3 {
		t.Errorf("Expected monza with 3 races first, got %+v", circuits[0])
	}
	if circuits[1].Ref != "silverstone" || circuits[1].Races != 1 {
		t.Errorf("Expected silverstone with 1 race, got %+v", circuits[1])
	}
}
