package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// LoginRequest represents the operator login request.
type LoginRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authentication token issued on login.
type LoginResponse struct {
	Operator string `json:"operator"`
	Token    string `json:"token"`
}

// RecordRef identifies one job-release unit in a request body.
type RecordRef struct {
	JobNumber     int    `json:"job_number" validate:"required,min=1"`
	ReleaseNumber string `json:"release_number" validate:"required,min=1"`
}

// ReorderRequest describes a completed drop gesture: which record was
// dragged and which record it was dropped onto. The server resolves both
// against a fresh snapshot of the authoritative record collection.
type ReorderRequest struct {
	Dragged RecordRef `json:"dragged" validate:"required"`
	Target  RecordRef `json:"target" validate:"required"`
}

// SyncRecordPayload is one record in a polled dashboard snapshot push.
type SyncRecordPayload struct {
	JobNumber     int             `json:"job_number" validate:"required,min=1"`
	ReleaseNumber string          `json:"release_number" validate:"required,min=1"`
	StageGroup    string          `json:"stage_group"`
	FabOrder      *float64        `json:"fab_order"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// SyncRecordsRequest is the bulk snapshot upsert payload.
type SyncRecordsRequest struct {
	Records []SyncRecordPayload `json:"records" validate:"required,min=1,dive"`
}

// ToRecord converts a sync payload entry to the core record type.
func (p SyncRecordPayload) ToRecord() Record {
	return Record{
		JobNumber:     p.JobNumber,
		ReleaseNumber: p.ReleaseNumber,
		StageGroup:    p.StageGroup,
		FabOrder:      p.FabOrder,
		Payload:       p.Payload,
	}
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SyncRecordsRequest using the validator.
func (r *SyncRecordsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
