// Package types provides type definitions for structured data used throughout the fab tracking system.
package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// StageGroup values recognized by the staging partitioner. Any other value
// (including empty) falls into the job-order catch-all.
const (
	StageFabrication = "FABRICATION"
	StageReadyToShip = "READY_TO_SHIP"
)

// Record represents one trackable job-release unit on the shop floor.
// Identity is (JobNumber, ReleaseNumber), unique across the whole collection.
// FabOrder is the numeric position key within the record's staging subset;
// nil means the record has never been ordered and sorts last.
type Record struct {
	JobNumber     int             `json:"job_number"`
	ReleaseNumber string          `json:"release_number"`
	StageGroup    string          `json:"stage_group"`
	FabOrder      *float64        `json:"fab_order"`
	Payload       json.RawMessage `json:"payload,omitempty"` // remaining dashboard columns, opaque to this core
}

// Identity returns the canonical "job-release" identity string.
func (r Record) Identity() string {
	return fmt.Sprintf("%d-%s", r.JobNumber, r.ReleaseNumber)
}

// SameIdentity reports whether two records refer to the same job-release unit.
func (r Record) SameIdentity(other Record) bool {
	return r.JobNumber == other.JobNumber && r.ReleaseNumber == other.ReleaseNumber
}

// SortKey returns the effective ordering key: records without a fab order
// sort after every keyed record.
func (r Record) SortKey() float64 {
	if r.FabOrder == nil {
		return math.Inf(1)
	}
	return *r.FabOrder
}

// IsRegularKey reports whether key is a regular position: an integer >= 1
// assigned by sequential renumbering of the body of a subset's list.
func IsRegularKey(key float64) bool {
	return key >= 1 && key == math.Trunc(key)
}

// IsUrgentKey reports whether key is an urgent position in (0, 1), produced
// by top-bump halving to slot a record above the nominal #1 position.
func IsUrgentKey(key float64) bool {
	return key > 0 && key < 1
}

// FabOrderOf is a convenience constructor for the nullable key field.
func FabOrderOf(key float64) *float64 {
	return &key
}
