// Package live is a read-only client for an Ergast-compatible F1 REST
// API, used for near-real-time standings next to the historical dataset.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/f1-dashboard/backend/internal/models"
)

// ErrNoData is returned when the upstream API answers with an empty table,
// e.g. standings requested for a season that has not started.
var ErrNoData = errors.New("live API returned no data")

type cacheEntry struct {
	payload *mrData
	expires time.Time
}

// Client queries the live API. Responses are cached per URL for the
// configured TTL; the upstream imposes rate limits, and standings do not
// move between sessions anyway.
type Client struct {
	baseURL string
	http    *http.Client
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewClient creates a live API client.
func NewClient(baseURL string, timeout, cacheTTL time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		ttl:     cacheTTL,
		cache:   make(map[string]cacheEntry),
	}
}

// seasonPath renders the season segment of a request URL; a non-positive
// season means the API's "current" alias.
func seasonPath(season int) string {
	if season <= 0 {
		return "current"
	}
	return strconv.Itoa(season)
}

// DriverStandings returns the driver championship table for a season.
func (c *Client) DriverStandings(ctx context.Context, season int) ([]models.DriverStanding, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s/driverStandings.json", c.baseURL, seasonPath(season)))
	if err != nil {
		return nil, fmt.Errorf("fetching driver standings: %w", err)
	}

	lists := resp.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 || len(lists[0].DriverStandings) == 0 {
		return nil, ErrNoData
	}

	standings := make([]models.DriverStanding, 0, len(lists[0].DriverStandings))
	for _, row := range lists[0].DriverStandings {
		constructor := ""
		if len(row.Constructors) > 0 {
			constructor = row.Constructors[0].Name
		}
		standings = append(standings, models.DriverStanding{
			Position:    atoi(row.Position),
			DriverName:  row.Driver.GivenName + " " + row.Driver.FamilyName,
			DriverCode:  row.Driver.Code,
			Nationality: row.Driver.Nationality,
			Constructor: constructor,
			Points:      atof(row.Points),
			Wins:        atoi(row.Wins),
		})
	}
	return standings, nil
}

// ConstructorStandings returns the constructor championship table for a season.
func (c *Client) ConstructorStandings(ctx context.Context, season int) ([]models.ConstructorStanding, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s/constructorStandings.json", c.baseURL, seasonPath(season)))
	if err != nil {
		return nil, fmt.Errorf("fetching constructor standings: %w", err)
	}

	lists := resp.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 || len(lists[0].ConstructorStandings) == 0 {
		return nil, ErrNoData
	}

	standings := make([]models.ConstructorStanding, 0, len(lists[0].ConstructorStandings))
	for _, row := range lists[0].ConstructorStandings {
		standings = append(standings, models.ConstructorStanding{
			Position:    atoi(row.Position),
			Name:        row.Constructor.Name,
			Nationality: row.Constructor.Nationality,
			Points:      atof(row.Points),
			Wins:        atoi(row.Wins),
		})
	}
	return standings, nil
}

// Calendar returns the season's race calendar.
func (c *Client) Calendar(ctx context.Context, season int) ([]models.LiveRace, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s.json", c.baseURL, seasonPath(season)))
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}

	races := resp.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, ErrNoData
	}

	out := make([]models.LiveRace, 0, len(races))
	for _, r := range races {
		out = append(out, liveRace(r))
	}
	return out, nil
}

// LastRaceResults returns the classification of the season's most recent race.
func (c *Client) LastRaceResults(ctx context.Context, season int) (*models.LiveRace, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s/last/results.json", c.baseURL, seasonPath(season)))
	if err != nil {
		return nil, fmt.Errorf("fetching race results: %w", err)
	}

	races := resp.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, ErrNoData
	}

	race := liveRace(races[0])
	return &race, nil
}

func liveRace(r wireRace) models.LiveRace {
	race := models.LiveRace{
		Season:   atoi(r.Season),
		Round:    atoi(r.Round),
		Name:     r.RaceName,
		Circuit:  r.Circuit.CircuitName,
		Locality: r.Circuit.Location.Locality,
		Country:  r.Circuit.Location.Country,
		Date:     r.Date,
		Time:     r.Time,
	}
	for _, res := range r.Results {
		race.Results = append(race.Results, models.LiveResult{
			Position:    atoi(res.Position),
			DriverName:  res.Driver.GivenName + " " + res.Driver.FamilyName,
			Constructor: res.Constructor.Name,
			Grid:        atoi(res.Grid),
			Points:      atof(res.Points),
			Status:      res.Status,
		})
	}
	return race
}

// get fetches and decodes a URL, serving from cache when fresh.
func (c *Client) get(ctx context.Context, url string) (*mrData, error) {
	c.mu.Lock()
	entry, ok := c.cache[url]
	c.mu.Unlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.payload, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live API returned status %d", resp.StatusCode)
	}

	payload := &mrData{}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return nil, fmt.Errorf("decoding live API response: %w", err)
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[url] = cacheEntry{payload: payload, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return payload, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
