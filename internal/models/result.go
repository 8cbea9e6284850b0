package models

// Result represents a single classified entry from results.csv.
type Result struct {
	ID            int     `json:"id"`
	RaceID        int     `json:"raceId"`
	DriverID      int     `json:"driverId"`
	ConstructorID int     `json:"constructorId"`
	Grid          int     `json:"grid"`
	PositionText  string  `json:"positionText"` // "1".."24", "R" retired, "W" withdrawn, "D" disqualified
	Position      *int    `json:"position"`     // nil when the entry was not classified
	Points        float64 `json:"points"`
}

// QualifyingResult represents a row from qualifying.csv.
type QualifyingResult struct {
	ID            int    `json:"id"`
	RaceID        int    `json:"raceId"`
	DriverID      int    `json:"driverId"`
	ConstructorID int    `json:"constructorId"`
	Position      int    `json:"position"`
	Q1            string `json:"q1,omitempty"`
	Q2            string `json:"q2,omitempty"`
	Q3            string `json:"q3,omitempty"`
}
