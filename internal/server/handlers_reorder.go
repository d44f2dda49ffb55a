package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/db"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/ordering"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/reorder"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// handleReorder resolves a completed drag gesture. The dragged and target
// identities come from the request; the record collection is always loaded
// fresh from the store, so a stale dashboard cannot smuggle in old keys.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req types.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Dragged and target identities are required")
		return
	}

	rows, err := s.store.ListRecords(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	all := make([]types.Record, 0, len(rows))
	var dragged, target types.Record
	var haveDragged, haveTarget bool
	for _, row := range rows {
		rec := rowToRecord(row)
		all = append(all, rec)
		if rec.JobNumber == req.Dragged.JobNumber && rec.ReleaseNumber == req.Dragged.ReleaseNumber {
			dragged, haveDragged = rec, true
		}
		if rec.JobNumber == req.Target.JobNumber && rec.ReleaseNumber == req.Target.ReleaseNumber {
			target, haveTarget = rec, true
		}
	}
	if !haveDragged || !haveTarget {
		s.errorResponse(w, http.StatusNotFound, "Record not found")
		return
	}

	planner := reorder.NewPlanner(s.store)
	gestureID, err := planner.OnDragStart(dragged)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start gesture: "+err.Error())
		return
	}

	result, err := planner.OnDrop(r.Context(), target, all)
	if err != nil {
		switch {
		case errors.Is(err, ordering.ErrKeyUnderflow):
			log.Printf("[reorder] gesture %s: %v", gestureID, err)
			s.errorResponse(w, http.StatusConflict, "Urgent key space exhausted for this subset; records need renumbering")
		case errors.Is(err, db.ErrRecordNotFound):
			s.errorResponse(w, http.StatusNotFound, "Record not found")
		default:
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		}
		return
	}

	log.Printf("[reorder] gesture %s: %s %s in subset %s", gestureID, dragged.Identity(), result.Outcome, result.Subset)
	s.jsonResponse(w, http.StatusOK, result)
}
