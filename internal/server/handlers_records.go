package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/db"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/schemas"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/staging"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// maxSyncBody caps the snapshot sync payload at 8 MiB.
const maxSyncBody = 8 << 20

// rowToRecord converts a stored row to the core record type.
func rowToRecord(row db.RecordRow) types.Record {
	return types.Record{
		JobNumber:     row.JobNumber,
		ReleaseNumber: row.ReleaseNumber,
		StageGroup:    row.StageGroup,
		FabOrder:      row.FabOrder,
		Payload:       row.Payload,
	}
}

// handleListRecords returns all records, optionally filtered to one staging
// subset with ?subset=fab|ready_to_ship|job_order.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListRecords(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	subsetParam := r.URL.Query().Get("subset")
	if subsetParam == "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{"records": rows, "count": len(rows)})
		return
	}

	subset := staging.SubsetID(subsetParam)
	switch subset {
	case staging.SubsetFab, staging.SubsetReadyToShip, staging.SubsetJobOrder:
	default:
		s.errorResponse(w, http.StatusBadRequest, "Unknown subset: "+subsetParam)
		return
	}

	filtered := make([]db.RecordRow, 0, len(rows))
	for _, row := range rows {
		if staging.Classify(rowToRecord(row)) == subset {
			filtered = append(filtered, row)
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"records": filtered, "count": len(filtered), "subset": subset})
}

// handleGetRecord returns one record by identity.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	jobNumber, err := strconv.Atoi(r.PathValue("job"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job number")
		return
	}
	releaseNumber := r.PathValue("release")

	row, err := s.store.GetRecord(r.Context(), jobNumber, releaseNumber)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if row == nil {
		s.errorResponse(w, http.StatusNotFound, "Record not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, row)
}

// handleDeleteRecord removes one record by identity, e.g. when a job release
// is shipped and drops off the dashboard entirely.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	jobNumber, err := strconv.Atoi(r.PathValue("job"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job number")
		return
	}
	releaseNumber := r.PathValue("release")

	if err := s.store.DeleteRecord(r.Context(), jobNumber, releaseNumber); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Record not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSyncRecords bulk-upserts a polled dashboard snapshot. The payload is
// checked against the records snapshot JSON schema before it is decoded.
func (s *Server) handleSyncRecords(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSyncBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateRecordsSnapshot(string(body)); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid snapshot: "+err.Error())
		return
	}

	var req types.SyncRecordsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid snapshot: "+err.Error())
		return
	}

	records := make([]types.Record, 0, len(req.Records))
	for _, payload := range req.Records {
		records = append(records, payload.ToRecord())
	}

	if err := s.store.SyncRecords(r.Context(), records); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "synced", "count": len(records)})
}
