// client_test.go - Tests for the live standings client
package live

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const driverStandingsJSON = `{
	"MRData": {
		"StandingsTable": {
			"season": "2024",
			"StandingsLists": [{
				"season": "2024",
				"round": "10",
				"DriverStandings": [
					{
						"position": "1", "points": "255.5", "wins": "7",
						"Driver": {"driverId": "max_verstappen", "code": "VER",
							"givenName": "Max", "familyName": "Verstappen", "nationality": "Dutch"},
						"Constructors": [{"constructorId": "red_bull", "name": "Red Bull", "nationality": "Austrian"}]
					},
					{
						"position": "2", "points": "171", "wins": "2",
						"Driver": {"driverId": "norris", "code": "NOR",
							"givenName": "Lando", "familyName": "Norris", "nationality": "British"},
						"Constructors": [{"constructorId": "mclaren", "name": "McLaren", "nationality": "British"}]
					}
				]
			}]
		}
	}
}`

const constructorStandingsJSON = `{
	"MRData": {
		"StandingsTable": {
			"StandingsLists": [{
				"ConstructorStandings": [
					{
						"position": "1", "points": "373", "wins": "8",
						"Constructor": {"constructorId": "red_bull", "name": "Red Bull", "nationality": "Austrian"}
					}
				]
			}]
		}
	}
}`

const lastResultsJSON = `{
	"MRData": {
		"RaceTable": {
			"Races": [{
				"season": "2024", "round": "10", "raceName": "Spanish Grand Prix",
				"date": "2024-06-23", "time": "13:00:00Z",
				"Circuit": {
					"circuitId": "catalunya", "circuitName": "Circuit de Barcelona-Catalunya",
					"Location": {"locality": "Montmelo", "country": "Spain"}
				},
				"Results": [{
					"position": "1", "grid": "2", "points": "25", "status": "Finished",
					"Driver": {"givenName": "Max", "familyName": "Verstappen"},
					"Constructor": {"name": "Red Bull"}
				}]
			}]
		}
	}
}`

const emptyStandingsJSON = `{"MRData": {"StandingsTable": {"StandingsLists": []}}}`

func TestDriverStandings(t *testing.T) {
	t.Run("parses the standings table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/2024/driverStandings.json" {
				t.Errorf("Unexpected request path: %s", r.URL.Path)
			}
			w.Write([]byte(driverStandingsJSON))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, 0)
		standings, err := client.DriverStandings(context.Background(), 2024)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if len(standings) != 2 {
			t.Fatalf("Expected 2 standings, got %d", len(standings))
		}

		leader := standings[0]
		if leader.Position != 1 || leader.DriverName != "Max Verstappen" {
			t.Errorf("Unexpected leader: %+v", leader)
		}
		if leader.Points != 255.5 || leader.Wins != 7 {
			t.Errorf("Expected 255.5 points and 7 wins, got %v and %d", leader.Points, leader.Wins)
		}
		if leader.Constructor != "Red Bull" || leader.DriverCode != "VER" {
			t.Errorf("Unexpected leader details: %+v", leader)
		}
	})

	t.Run("non-positive season requests the current alias", func(t *testing.T) {
		var path atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.Path)
			w.Write([]byte(driverStandingsJSON))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, 0)
		if _, err := client.DriverStandings(context.Background(), 0); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if got := path.Load(); got != "/current/driverStandings.json" {
			t.Errorf("Expected current alias, got %v", got)
		}
	})

	t.Run("empty table means no data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(emptyStandingsJSON))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, 0)
		_, err := client.DriverStandings(context.Background(), 2030)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("Expected ErrNoData, got %v", err)
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, 0)
		_, err := client.DriverStandings(context.Background(), 2024)
		if err == nil || errors.Is(err, ErrNoData) {
			t.Errorf("Expected a transport error, got %v", err)
		}
	})
}

func TestConstructorStandings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(constructorStandingsJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, 0)
	standings, err := client.ConstructorStandings(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(standings) != 1 {
		t.Fatalf("Expected 1 standing, got %d", len(standings))
	}
	if standings[0].Name != "Red Bull" || standings[0].Points != 373 || standings[0].Wins != 8 {
		t.Errorf("Unexpected standing: %+v", standings[0])
	}
}

func TestLastRaceResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2024/last/results.json" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
		w.Write([]byte(lastResultsJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, 0)
	race, err := client.LastRaceResults(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if race.Name != "Spanish Grand Prix" || race.Round != 10 {
		t.Errorf("Unexpected race: %+v", race)
	}
	if race.Locality != "Montmelo" || race.Country != "Spain" {
		t.Errorf("Unexpected location: %+v", race)
	}
	if len(race.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(race.Results))
	}
	res := race.Results[0]
	if res.DriverName != "Max Verstappen" || res.Grid != 2 || res.Status != "Finished" {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestCaching(t *testing.T) {
	t.Run("fresh responses are served from cache", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(driverStandingsJSON))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, time.Minute)
		for i := 0; i < 3; i++ {
			if _, err := client.DriverStandings(context.Background(), 2024); err != nil {
				t.Fatalf("Fetch %d failed: %v", i, err)
			}
		}
		if hits.Load() != 1 {
			t.Errorf("Expected 1 upstream request, got %d", hits.Load())
		}
	})

	t.Run("zero TTL disables caching", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(driverStandingsJSON))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 0, 0)
		for i := 0; i < 2; i++ {
			if _, err := client.DriverStandings(context.Background(), 2024); err != nil {
				t.Fatalf("Fetch %d failed: %v", i, err)
			}
		}
		if hits.Load() != 2 {
			t.Errorf("Expected 2 upstream requests, got %d", hits.Load())
		}
	})
}
