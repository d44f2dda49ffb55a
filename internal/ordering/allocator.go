// Package ordering computes fab-order position keys for reordered records.
//
// The key space is split in two: integer keys >= 1 are regular sequential
// positions, and keys in (0, 1) are urgent positions produced by repeated
// halving so a record can be slotted above the nominal #1 position without
// renumbering the rest of the list.
package ordering

import (
	"errors"
	"math"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// keyPrecision is the number of decimal places urgent keys are rounded to.
const keyPrecision = 4

// ErrKeyUnderflow is returned by TopBump when halving the smallest urgent key
// can no longer produce a distinct smaller key at the configured precision.
// After roughly 13 consecutive top bumps without an intervening regular
// insert the halving sequence collides with itself; the caller must surface
// this rather than persist a duplicate or zero key.
var ErrKeyUnderflow = errors.New("urgent key space exhausted: halving no longer produces a distinct key")

// TopBump computes the key for a record moved above the current first
// position of its subset.
//
// An empty subset, or a subset whose current first key is a regular integer,
// establishes the first urgent slot at 0.5. Otherwise the new key is half the
// smallest strictly-positive key present, rounded to four decimal places,
// which yields a monotonically shrinking sequence of urgent keys.
func TopBump(members []types.Record) (float64, error) {
	if len(members) == 0 {
		return 0.5, nil
	}

	if first := members[0].FabOrder; first != nil && types.IsRegularKey(*first) {
		return 0.5, nil
	}

	minPositive := minPositiveKey(members)
	key := roundKey(minPositive / 2)

	if key <= 0 || key >= minPositive {
		return 0, ErrKeyUnderflow
	}
	return key, nil
}

// InsertAt computes the key for a record moved into the body of its subset.
// members must already exclude the dragged record; insertIndex is the slot
// the record lands in within that list.
//
// The result is 1 + the number of regular-keyed members strictly before the
// slot. Urgent keys preceding the slot are not counted: they live outside the
// renumbered region. Only the dragged record's key is persisted, so other
// regular records keep their old integers; a transient duplicate integer is
// tolerated until a later full renumber.
func InsertAt(members []types.Record, insertIndex int) float64 {
	regular := 0
	for i := 0; i < insertIndex && i < len(members); i++ {
		if key := members[i].FabOrder; key != nil && types.IsRegularKey(*key) {
			regular++
		}
	}
	return float64(regular + 1)
}

// minPositiveKey returns the smallest strictly-positive key in members,
// defaulting to 1 when no positive key exists.
func minPositiveKey(members []types.Record) float64 {
	min := math.Inf(1)
	for _, rec := range members {
		if rec.FabOrder != nil && *rec.FabOrder > 0 && *rec.FabOrder < min {
			min = *rec.FabOrder
		}
	}
	if math.IsInf(min, 1) {
		return 1
	}
	return min
}

// roundKey rounds to keyPrecision decimal places.
func roundKey(key float64) float64 {
	shift := math.Pow(10, keyPrecision)
	return math.Round(key*shift) / shift
}
