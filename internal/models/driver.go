package models

// Driver represents a driver from drivers.csv.
type Driver struct {
	ID          int    `json:"id"`
	Ref         string `json:"ref"`
	Code        string `json:"code,omitempty"` // Three-letter code, missing for older drivers
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	Nationality string `json:"nationality"`
}

// FullName returns the display name used across all charts.
func (d Driver) FullName() string {
	return d.Forename + " " + d.Surname
}

// Constructor represents a team from constructors.csv.
type Constructor struct {
	ID          int    `json:"id"`
	Ref         string `json:"ref"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}
