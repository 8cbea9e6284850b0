package models

import "time"

// SnapshotInfo represents metadata about a saved chart export.
type SnapshotInfo struct {
	ID      string    `json:"id"`
	Chart   string    `json:"chart"` // chart kind, e.g. "progression"
	Title   string    `json:"title"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}
