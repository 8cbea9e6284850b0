package models

// ProgressionPoint is one round of a driver's championship campaign.
type ProgressionPoint struct {
	Round            int     `json:"round"`
	Points           float64 `json:"points"`
	CumulativePoints float64 `json:"cumulativePoints"`
}

// ProgressionSeries is the full-season points line for one driver.
type ProgressionSeries struct {
	DriverID    int                `json:"driverId"`
	DriverName  string             `json:"driverName"`
	FinalPoints float64            `json:"finalPoints"`
	Rounds      []ProgressionPoint `json:"rounds"`
}

// HeatmapCell is one year/constructor cell of the dominance heatmap.
type HeatmapCell struct {
	Season      int     `json:"season"`
	Constructor string  `json:"constructor"`
	Points      float64 `json:"points"`
}

// CircuitWinner is a driver's win count at one circuit.
type CircuitWinner struct {
	DriverID   int    `json:"driverId"`
	DriverName string `json:"driverName"`
	Wins       int    `json:"wins"`
}

// CareerStats summarises one side of a head-to-head comparison.
type CareerStats struct {
	DriverID    int     `json:"driverId"`
	DriverName  string  `json:"driverName"`
	Wins        int     `json:"wins"`
	Podiums     int     `json:"podiums"`
	Poles       int     `json:"poles"`
	TotalPoints float64 `json:"totalPoints"`
	AvgPosition float64 `json:"avgPosition"` // mean classified finishing position, 0 if never classified
	Races       int     `json:"races"`
}

// HeadToHead compares two drivers across their careers.
type HeadToHead struct {
	Driver1 CareerStats `json:"driver1"`
	Driver2 CareerStats `json:"driver2"`
}

// DriverCareer is one row of the career points leaderboard.
type DriverCareer struct {
	DriverID   int     `json:"driverId"`
	DriverName string  `json:"driverName"`
	Points     float64 `json:"points"`
}

// SeasonSummary holds the headline numbers shown above the season charts.
type SeasonSummary struct {
	Season             int     `json:"season"`
	Races              int     `json:"races"`
	DistinctWinners    int     `json:"distinctWinners"`
	ScoringConstructor int     `json:"scoringConstructors"`
	TotalPoints        float64 `json:"totalPoints"`
}

// SeasonOption is a selector entry for the season dropdown.
type SeasonOption struct {
	Season int `json:"season"`
	Races  int `json:"races"`
}

// DriverOption is a selector entry for the driver dropdowns.
type DriverOption struct {
	DriverID   int    `json:"driverId"`
	DriverName string `json:"driverName"`
}

// CircuitOption is a selector entry for the circuit dropdown.
type CircuitOption struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Races   int    `json:"races"`
}
