// Package staging classifies records into staging subsets and produces the
// sorted per-subset views the reorder planner operates on.
package staging

import (
	"sort"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// SubsetID names one of the fixed staging subsets a record can belong to.
type SubsetID string

const (
	SubsetFab         SubsetID = "fab"
	SubsetReadyToShip SubsetID = "ready_to_ship"
	SubsetJobOrder    SubsetID = "job_order" // catch-all for unclassified stage groups
)

// Classify maps a record's stage group to its staging subset. It is total:
// any stage group without an explicit mapping lands in the job-order subset.
func Classify(rec types.Record) SubsetID {
	switch rec.StageGroup {
	case types.StageFabrication:
		return SubsetFab
	case types.StageReadyToShip:
		return SubsetReadyToShip
	default:
		return SubsetJobOrder
	}
}

// MembersOf returns the records belonging to the given subset, sorted
// ascending by fab order with nil keys last. The sort is stable, so records
// with equal keys keep their original collection order.
func MembersOf(subset SubsetID, all []types.Record) []types.Record {
	members := make([]types.Record, 0, len(all))
	for _, rec := range all {
		if Classify(rec) == subset {
			members = append(members, rec)
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].SortKey() < members[j].SortKey()
	})

	return members
}

// IndexOf locates a record within members by identity. Returns -1 when the
// record is not present (e.g. deleted since the snapshot was taken).
func IndexOf(members []types.Record, rec types.Record) int {
	for i := range members {
		if members[i].SameIdentity(rec) {
			return i
		}
	}
	return -1
}
