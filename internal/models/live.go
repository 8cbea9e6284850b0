package models

// DriverStanding is one row of the live driver championship table.
type DriverStanding struct {
	Position    int     `json:"position"`
	DriverName  string  `json:"driverName"`
	DriverCode  string  `json:"driverCode,omitempty"`
	Nationality string  `json:"nationality,omitempty"`
	Constructor string  `json:"constructor"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
}

// ConstructorStanding is one row of the live constructor championship table.
type ConstructorStanding struct {
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Nationality string  `json:"nationality,omitempty"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
}

// LiveRace is one calendar or result entry fetched from the live API.
type LiveRace struct {
	Season   int          `json:"season"`
	Round    int          `json:"round"`
	Name     string       `json:"name"`
	Circuit  string       `json:"circuit"`
	Locality string       `json:"locality,omitempty"`
	Country  string       `json:"country,omitempty"`
	Date     string       `json:"date"`
	Time     string       `json:"time,omitempty"`
	Results  []LiveResult `json:"results,omitempty"`
}

// LiveResult is one classified entry of a live race result.
type LiveResult struct {
	Position    int     `json:"position"`
	DriverName  string  `json:"driverName"`
	Constructor string  `json:"constructor"`
	Grid        int     `json:"grid"`
	Points      float64 `json:"points"`
	Status      string  `json:"status"`
}
