// Package reorder orchestrates drag-and-drop gestures over the fab-order
// list: it partitions the record snapshot, decides where the dragged record
// lands, asks the ordering allocator for a new key, and persists it.
package reorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/ordering"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/staging"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// OrderPersister is the external store that durably records the
// (job, release) -> fabOrder mapping. PersistOrder must be idempotent for
// identical inputs. The planner issues at most one call per completed drop
// and performs no retries.
type OrderPersister interface {
	PersistOrder(ctx context.Context, jobNumber int, releaseNumber string, fabOrder float64) error
}

// State tracks where a planner is in its drag gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// ErrGestureInProgress is returned when a new drag starts before the prior
// gesture has returned to idle.
var ErrGestureInProgress = errors.New("drag gesture already in progress")

// Outcome describes how a drop resolved.
type Outcome string

const (
	// OutcomePersisted means a new key was computed and durably stored.
	OutcomePersisted Outcome = "persisted"
	// OutcomeNoop means the record was dropped onto its own position.
	OutcomeNoop Outcome = "noop"
	// OutcomeCrossSubset means dragged and target live in different staging
	// subsets; the drop is silently ignored.
	OutcomeCrossSubset Outcome = "cross_subset"
	// OutcomeNotFound means dragged or target vanished from the snapshot
	// between drag start and drop (e.g. concurrent deletion).
	OutcomeNotFound Outcome = "not_found"
)

// DropResult reports the resolution of a drop gesture. NewKey is set only
// when Outcome is OutcomePersisted.
type DropResult struct {
	GestureID uuid.UUID        `json:"gesture_id"`
	Outcome   Outcome          `json:"outcome"`
	Subset    staging.SubsetID `json:"subset"`
	NewKey    *float64         `json:"new_key,omitempty"`
}

// Planner is a per-gesture state machine. It holds no durable state of its
// own: the authoritative order lives in the persister, and the record
// snapshot is supplied fresh by the caller on every drop.
type Planner struct {
	persist   OrderPersister
	state     State
	gestureID uuid.UUID
	dragged   types.Record
}

// NewPlanner creates an idle planner backed by the given persister.
func NewPlanner(persist OrderPersister) *Planner {
	return &Planner{persist: persist, state: StateIdle}
}

// State returns the planner's current gesture state.
func (p *Planner) State() State {
	return p.state
}

// OnDragStart captures the dragged record and begins a gesture.
func (p *Planner) OnDragStart(rec types.Record) (uuid.UUID, error) {
	if p.state != StateIdle {
		return uuid.Nil, ErrGestureInProgress
	}
	p.state = StateDragging
	p.gestureID = uuid.New()
	p.dragged = rec
	return p.gestureID, nil
}

// OnDragOver reports whether candidate is a valid drop target for the
// current gesture. Cross-subset drops are disallowed, so a false return
// suppresses any drop-target indication. No state transition occurs.
func (p *Planner) OnDragOver(candidate types.Record) bool {
	if p.state != StateDragging {
		return false
	}
	return staging.Classify(p.dragged) == staging.Classify(candidate)
}

// Cancel aborts the gesture without persistence, e.g. when the record is
// dropped outside any valid target.
func (p *Planner) Cancel() {
	p.reset()
}

// OnDrop resolves the gesture against a fresh snapshot of all records.
// Whatever the outcome, the planner returns to idle.
//
// The persister is called exactly once, and only when a new key was
// computed. A persistence failure propagates to the caller; the planner does
// not speculatively mutate any local order ahead of the acknowledgment.
func (p *Planner) OnDrop(ctx context.Context, target types.Record, all []types.Record) (DropResult, error) {
	defer p.reset()

	if p.state != StateDragging {
		return DropResult{Outcome: OutcomeNoop}, fmt.Errorf("drop received while not dragging")
	}

	result := DropResult{GestureID: p.gestureID}

	subset := staging.Classify(p.dragged)
	result.Subset = subset
	if subset != staging.Classify(target) {
		result.Outcome = OutcomeCrossSubset
		return result, nil
	}

	sorted := staging.MembersOf(subset, all)
	dragIdx := staging.IndexOf(sorted, p.dragged)
	targetIdx := staging.IndexOf(sorted, target)
	if dragIdx < 0 || targetIdx < 0 {
		result.Outcome = OutcomeNotFound
		return result, nil
	}

	// Dropping a record onto its own position is a no-op.
	if dragIdx == targetIdx {
		result.Outcome = OutcomeNoop
		return result, nil
	}

	var newKey float64
	if targetIdx == 0 {
		key, err := ordering.TopBump(sorted)
		if err != nil {
			return result, err
		}
		newKey = key
	} else {
		newKey = p.bodyKey(sorted, dragIdx, targetIdx)
	}

	if err := p.persist.PersistOrder(ctx, p.dragged.JobNumber, p.dragged.ReleaseNumber, newKey); err != nil {
		return result, fmt.Errorf("persist order for %s: %w", p.dragged.Identity(), err)
	}

	result.Outcome = OutcomePersisted
	result.NewKey = &newKey
	return result, nil
}

// bodyKey computes the key for a drop into the body of the subset.
// Moving downward onto a regular-keyed target inserts after the target;
// moving upward, or onto an urgent-keyed target, inserts before it.
func (p *Planner) bodyKey(sorted []types.Record, dragIdx, targetIdx int) float64 {
	others := make([]types.Record, 0, len(sorted)-1)
	for i, rec := range sorted {
		if i != dragIdx {
			others = append(others, rec)
		}
	}

	insertIdx := staging.IndexOf(others, sorted[targetIdx])
	targetKey := sorted[targetIdx].FabOrder
	if dragIdx < targetIdx && targetKey != nil && types.IsRegularKey(*targetKey) {
		insertIdx++
	}

	return ordering.InsertAt(others, insertIdx)
}

func (p *Planner) reset() {
	p.state = StateIdle
	p.gestureID = uuid.Nil
	p.dragged = types.Record{}
}
