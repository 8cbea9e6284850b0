// Package theme holds the YAML dashboard settings: chart palette,
// top-N defaults, and the country-code map used by the schedule view.
package theme

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the dashboard settings document.
type Settings struct {
	Theme        Palette           `yaml:"theme" json:"theme"`
	Charts       ChartDefaults     `yaml:"charts" json:"charts"`
	CountryCodes map[string]string `yaml:"countryCodes" json:"countryCodes"`
}

// Palette is the chart color scheme.
type Palette struct {
	Primary   string `yaml:"primary" json:"primary"`
	Secondary string `yaml:"secondary" json:"secondary"`
	Accent    string `yaml:"accent" json:"accent"`
	Grid      string `yaml:"grid" json:"grid"`
}

// ChartDefaults holds per-chart trimming defaults.
type ChartDefaults struct {
	TopDrivers       int `yaml:"topDrivers" json:"topDrivers"`
	TopConstructors  int `yaml:"topConstructors" json:"topConstructors"`
	LeaderboardLimit int `yaml:"leaderboardLimit" json:"leaderboardLimit"`
}

// DefaultSettings returns the compiled-in settings, used when no
// settings file is shipped alongside the data.
func DefaultSettings() *Settings {
	return &Settings{
		Theme: Palette{
			Primary:   "#E10600",
			Secondary: "#15151E",
			Accent:    "#FFFFFF",
			Grid:      "#38383F",
		},
		Charts: ChartDefaults{
			TopDrivers:       10,
			TopConstructors:  10,
			LeaderboardLimit: 20,
		},
		CountryCodes: map[string]string{
			"Australian":     "AUS",
			"Chinese":        "CHN",
			"Japanese":       "JPN",
			"Bahrain":        "BHR",
			"Saudi Arabian":  "SAU",
			"Miami":          "USA",
			"Emilia Romagna": "ITA",
			"Monaco":         "MCO",
			"Spanish":        "ESP",
			"Canadian":       "CAN",
			"Austrian":       "AUT",
			"British":        "GBR",
			"Belgian":        "BEL",
			"Hungarian":      "HUN",
			"Dutch":          "NLD",
			"Italian":        "ITA",
			"Azerbaijan":     "AZE",
			"Singapore":      "SGP",
			"United States":  "USA",
			"Mexico City":    "MEX",
			"Brazilian":      "BRA",
			"Las Vegas":      "USA",
			"Qatar":          "QAT",
			"Abu Dhabi":      "UAE",
		},
	}
}

// ParseSettingsFromReader parses a settings document and fills gaps with
// the compiled-in defaults.
func ParseSettingsFromReader(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	settings.applyDefaults()
	return settings, nil
}

// LoadSettings loads the settings file at path, falling back to defaults
// when the file does not exist.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	defer f.Close()

	return ParseSettingsFromReader(f)
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()

	if s.Theme.Primary == "" {
		s.Theme.Primary = defaults.Theme.Primary
	}
	if s.Theme.Secondary == "" {
		s.Theme.Secondary = defaults.Theme.Secondary
	}
	if s.Theme.Accent == "" {
		s.Theme.Accent = defaults.Theme.Accent
	}
	if s.Theme.Grid == "" {
		s.Theme.Grid = defaults.Theme.Grid
	}
	if s.Charts.TopDrivers <= 0 {
		s.Charts.TopDrivers = defaults.Charts.TopDrivers
	}
	if s.Charts.TopConstructors <= 0 {
		s.Charts.TopConstructors = defaults.Charts.TopConstructors
	}
	if s.Charts.LeaderboardLimit <= 0 {
		s.Charts.LeaderboardLimit = defaults.Charts.LeaderboardLimit
	}
	if len(s.CountryCodes) == 0 {
		s.CountryCodes = defaults.CountryCodes
	}
}
