// Package models contains domain types for the F1 Analytics Dashboard.
package models

// Race represents a single championship round from races.csv.
type Race struct {
	ID        int    `json:"id"`
	Season    int    `json:"season"`
	Round     int    `json:"round"`
	CircuitID int    `json:"circuitId"`
	Name      string `json:"name"`
	Date      string `json:"date"` // ISO date, as shipped in the dataset
	Time      string `json:"time,omitempty"`
}

// Circuit represents a venue from circuits.csv.
type Circuit struct {
	ID       int    `json:"id"`
	Ref      string `json:"ref"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Country  string `json:"country"`
}
