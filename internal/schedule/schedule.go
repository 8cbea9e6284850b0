// Package schedule serves the bundled race calendar: upcoming rounds,
// the next race, and countdowns to its sessions.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/f1-dashboard/backend/internal/models"
)

// scheduleFile is the on-disk JSON layout of the bundled calendar.
type scheduleFile struct {
	Year  int            `json:"year"`
	Races []scheduleRace `json:"races"`
}

type scheduleRace struct {
	Round    int               `json:"round"`
	Name     string            `json:"name"`
	Location string            `json:"location"`
	Sessions map[string]string `json:"sessions"` // session name -> RFC3339 UTC time
}

// Handler loads the calendar file and answers schedule queries. The file
// is re-read after the TTL expires so a replaced calendar is picked up
// without a restart.
type Handler struct {
	path         string
	ttl          time.Duration
	countryCodes map[string]string

	mu       sync.RWMutex
	races    []models.ScheduleRace
	loadedAt time.Time
}

// New creates a schedule handler for the given calendar file.
// countryCodes maps race names ("Monaco", "British") to display codes.
func New(path string, ttl time.Duration, countryCodes map[string]string) *Handler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Handler{
		path:         path,
		ttl:          ttl,
		countryCodes: countryCodes,
	}
}

// Load reads the calendar file immediately. Later queries reload it
// transparently once the TTL expires.
func (h *Handler) Load() error {
	races, err := h.read()
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.races = races
	h.loadedAt = time.Now()
	h.mu.Unlock()
	return nil
}

func (h *Handler) read() ([]models.ScheduleRace, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}

	var file scheduleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}
	if len(file.Races) == 0 {
		return nil, fmt.Errorf("schedule file %s contains no races", h.path)
	}

	races := make([]models.ScheduleRace, 0, len(file.Races))
	for _, r := range file.Races {
		sessions, err := parseSessions(r.Sessions)
		if err != nil {
			// A malformed entry should not take the whole calendar down.
			continue
		}
		if sessions.GP.IsZero() {
			continue
		}

		code := h.countryCodes[r.Name]
		if code == "" {
			code = "F1"
		}

		races = append(races, models.ScheduleRace{
			Round:       r.Round,
			Name:        r.Name + " Grand Prix",
			Location:    r.Location,
			CountryCode: code,
			Sessions:    sessions,
		})
	}

	sort.Slice(races, func(i, j int) bool {
		return races[i].Sessions.GP.Before(races[j].Sessions.GP)
	})
	return races, nil
}

func parseSessions(raw map[string]string) (models.SessionTimes, error) {
	var s models.SessionTimes
	for name, value := range raw {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return s, fmt.Errorf("session %s: %w", name, err)
		}
		switch name {
		case "fp1":
			s.FP1 = t
		case "fp2":
			s.FP2 = t
		case "fp3":
			s.FP3 = t
		case "sprint":
			s.Sprint = t
		case "qualifying":
			s.Qualifying = t
		case "gp":
			s.GP = t
		}
	}
	return s, nil
}

// snapshot returns the cached races, reloading first if the TTL expired.
func (h *Handler) snapshot() []models.ScheduleRace {
	h.mu.RLock()
	fresh := time.Since(h.loadedAt) < h.ttl && h.races != nil
	races := h.races
	h.mu.RUnlock()

	if fresh {
		return races
	}

	if updated, err := h.read(); err == nil {
		h.mu.Lock()
		h.races = updated
		h.loadedAt = time.Now()
		races = updated
		h.mu.Unlock()
	}
	// On reload failure keep serving the stale calendar.
	return races
}

// Upcoming returns the races whose grand prix has not started yet,
// soonest first, with the first entry marked as next.
func (h *Handler) Upcoming(now time.Time) []models.ScheduleRace {
	races := h.snapshot()

	upcoming := []models.ScheduleRace{}
	for _, r := range races {
		if r.Sessions.GP.After(now) {
			upcoming = append(upcoming, r)
		}
	}
	if len(upcoming) > 0 {
		upcoming[0].IsNext = true
	}
	return upcoming
}

// NextRace returns the next upcoming race, or false when the season is over.
func (h *Handler) NextRace(now time.Time) (models.ScheduleRace, bool) {
	upcoming := h.Upcoming(now)
	if len(upcoming) == 0 {
		return models.ScheduleRace{}, false
	}
	return upcoming[0], true
}

// Countdown computes the remaining time until target.
func Countdown(target, now time.Time) models.Countdown {
	delta := target.Sub(now)
	if delta < 0 {
		return models.Countdown{Expired: true}
	}

	days := int(delta / (24 * time.Hour))
	delta -= time.Duration(days) * 24 * time.Hour
	hours := int(delta / time.Hour)
	delta -= time.Duration(hours) * time.Hour
	minutes := int(delta / time.Minute)
	delta -= time.Duration(minutes) * time.Minute
	seconds := int(delta / time.Second)

	return models.Countdown{
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}
}
