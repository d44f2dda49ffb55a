package db

import (
	"encoding/json"
	"time"
)

// RecordRow represents one job-release row in the records table.
// FabOrder is nullable: records that have never been reordered carry no key
// and display after every keyed record in their subset.
type RecordRow struct {
	JobNumber     int             `json:"job_number"`
	ReleaseNumber string          `json:"release_number"`
	StageGroup    string          `json:"stage_group"`
	FabOrder      *float64        `json:"fab_order"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
