package models

import "time"

// SessionTimes holds the UTC start times of a race weekend's sessions.
// Fields are zero when the weekend does not run that session.
type SessionTimes struct {
	FP1        time.Time `json:"fp1,omitempty"`
	FP2        time.Time `json:"fp2,omitempty"`
	FP3        time.Time `json:"fp3,omitempty"`
	Sprint     time.Time `json:"sprint,omitempty"`
	Qualifying time.Time `json:"qualifying,omitempty"`
	GP         time.Time `json:"gp"`
}

// ScheduleRace is one calendar entry from the bundled schedule file.
type ScheduleRace struct {
	Round       int          `json:"round"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	CountryCode string       `json:"countryCode"`
	Sessions    SessionTimes `json:"sessions"`
	IsNext      bool         `json:"isNext"`
}

// Countdown is the remaining time until a session start.
type Countdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}
