package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/db"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/reorder"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

func reorderBody(t *testing.T, draggedJob int, draggedRelease string, targetJob int, targetRelease string) []byte {
	t.Helper()
	body, err := json.Marshal(types.ReorderRequest{
		Dragged: types.RecordRef{JobNumber: draggedJob, ReleaseNumber: draggedRelease},
		Target:  types.RecordRef{JobNumber: targetJob, ReleaseNumber: targetRelease},
	})
	require.NoError(t, err)
	return body
}

func postReorder(t *testing.T, s *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, authedRequest(t, s, "POST", "/reorder", body))
	return rec
}

func TestHandleReorder_PersistsNewKey(t *testing.T) {
	store := &mockStore{rows: []db.RecordRow{
		fabRow(4712, "A", types.FabOrderOf(1)),
		fabRow(4713, "A", types.FabOrderOf(2)),
		fabRow(4714, "A", types.FabOrderOf(3)),
	}}
	s := newTestServer(t, store)

	// Drag the first record down onto the last one.
	rec := postReorder(t, s, reorderBody(t, 4712, "A", 4714, "A"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result reorder.DropResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, reorder.OutcomePersisted, result.Outcome)
	require.NotNil(t, result.NewKey)
	assert.Equal(t, float64(3), *result.NewKey)

	require.Len(t, store.persisted, 1)
	assert.Equal(t, persistedOrder{job: 4712, release: "A", key: 3}, store.persisted[0])
}

func TestHandleReorder_TopBump(t *testing.T) {
	store := &mockStore{rows: []db.RecordRow{
		fabRow(4712, "A", types.FabOrderOf(0.5)),
		fabRow(4713, "A", types.FabOrderOf(1)),
		fabRow(4714, "A", types.FabOrderOf(2)),
	}}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4714, "A", 4712, "A"))
	require.Equal(t, http.StatusOK, rec.Code)

	var result reorder.DropResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.NewKey)
	assert.Equal(t, 0.25, *result.NewKey)
}

func TestHandleReorder_CrossSubsetIsSilentlyIgnored(t *testing.T) {
	store := &mockStore{rows: []db.RecordRow{
		fabRow(4712, "A", types.FabOrderOf(1)),
		{JobNumber: 4713, ReleaseNumber: "A", StageGroup: types.StageReadyToShip, FabOrder: types.FabOrderOf(1)},
	}}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4712, "A", 4713, "A"))
	require.Equal(t, http.StatusOK, rec.Code)

	var result reorder.DropResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, reorder.OutcomeCrossSubset, result.Outcome)
	assert.Nil(t, result.NewKey)
	assert.Empty(t, store.persisted)
}

func TestHandleReorder_UnknownRecord(t *testing.T) {
	store := &mockStore{rows: []db.RecordRow{fabRow(4712, "A", types.FabOrderOf(1))}}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4712, "A", 9999, "Z"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.persisted)
}

func TestHandleReorder_DropOnSelfIsNoop(t *testing.T) {
	store := &mockStore{rows: []db.RecordRow{
		fabRow(4712, "A", types.FabOrderOf(1)),
		fabRow(4713, "A", types.FabOrderOf(2)),
	}}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4712, "A", 4712, "A"))
	require.Equal(t, http.StatusOK, rec.Code)

	var result reorder.DropResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, reorder.OutcomeNoop, result.Outcome)
	assert.Empty(t, store.persisted)
}

func TestHandleReorder_UrgentKeySpaceExhausted(t *testing.T) {
	// The smallest representable urgent key is already taken: another top
	// bump cannot produce a distinct key at 4-decimal precision.
	store := &mockStore{rows: []db.RecordRow{
		fabRow(4712, "A", types.FabOrderOf(0.0001)),
		fabRow(4713, "A", types.FabOrderOf(1)),
	}}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4713, "A", 4712, "A"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, store.persisted)
}

func TestHandleReorder_PersistFailure(t *testing.T) {
	store := &mockStore{
		rows: []db.RecordRow{
			fabRow(4712, "A", types.FabOrderOf(1)),
			fabRow(4713, "A", types.FabOrderOf(2)),
		},
		persistErr: errors.New("connection reset"),
	}
	s := newTestServer(t, store)

	rec := postReorder(t, s, reorderBody(t, 4713, "A", 4712, "A"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleReorder_StaleIdentityMapsToNotFound(t *testing.T) {
	store := &mockStore{
		rows: []db.RecordRow{
			fabRow(4712, "A", types.FabOrderOf(1)),
			fabRow(4713, "A", types.FabOrderOf(2)),
		},
		persistErr: db.ErrRecordNotFound,
	}
	s := newTestServer(t, store)

	// The record vanished between the snapshot read and the UPDATE.
	rec := postReorder(t, s, reorderBody(t, 4713, "A", 4712, "A"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleReorder_BadRequest(t *testing.T) {
	s := newTestServer(t, &mockStore{})

	rec := postReorder(t, s, []byte(`{"dragged": {"job_number": 1}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
