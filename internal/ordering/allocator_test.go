package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

func keyed(keys ...float64) []types.Record {
	records := make([]types.Record, len(keys))
	for i, k := range keys {
		records[i] = types.Record{
			JobNumber:     100 + i,
			ReleaseNumber: "A",
			StageGroup:    types.StageFabrication,
			FabOrder:      types.FabOrderOf(k),
		}
	}
	return records
}

func TestTopBump_EmptySubset(t *testing.T) {
	key, err := TopBump(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, key)
}

func TestTopBump_FirstKeyIsRegular(t *testing.T) {
	// A subset that has never been bumped starts its urgent sequence at 0.5.
	key, err := TopBump(keyed(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 0.5, key)
}

func TestTopBump_HalvesSmallestPositiveKey(t *testing.T) {
	key, err := TopBump(keyed(0.5, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 0.25, key)
}

func TestTopBump_DefaultsToOneWhenNoPositiveKeys(t *testing.T) {
	members := []types.Record{
		{JobNumber: 1, ReleaseNumber: "A", StageGroup: types.StageFabrication},
		{JobNumber: 2, ReleaseNumber: "A", StageGroup: types.StageFabrication},
	}
	key, err := TopBump(members)
	require.NoError(t, err)
	assert.Equal(t, 0.5, key)
}

func TestTopBump_MonotonicShrink(t *testing.T) {
	// Repeated top bumps must produce a strictly shrinking sequence of urgent
	// keys below 1, until the 4-decimal precision is exhausted and the
	// allocator refuses to hand out a duplicate or zero key.
	members := keyed(1, 2, 3)
	prev := 1.0

	bumps := 0
	for ; bumps < 30; bumps++ {
		key, err := TopBump(members)
		if err != nil {
			assert.ErrorIs(t, err, ErrKeyUnderflow)
			break
		}
		assert.Greater(t, key, 0.0)
		assert.Less(t, key, 1.0)
		assert.Less(t, key, prev)

		prev = key
		bumped := types.Record{
			JobNumber:     200 + bumps,
			ReleaseNumber: "A",
			StageGroup:    types.StageFabrication,
			FabOrder:      types.FabOrderOf(key),
		}
		members = append([]types.Record{bumped}, members...)
	}

	// The sequence bottoms out somewhere near 13 bumps; it must not run
	// forever and must not end for any reason other than underflow.
	assert.Greater(t, bumps, 10)
	assert.Less(t, bumps, 20)
}

func TestInsertAt_CountsOnlyRegularKeys(t *testing.T) {
	tests := []struct {
		name        string
		members     []types.Record
		insertIndex int
		want        float64
	}{
		{"empty list", nil, 0, 1},
		{"top of regular list", keyed(1, 2, 3), 0, 1},
		{"middle of regular list", keyed(1, 2, 3), 2, 3},
		{"end of regular list", keyed(2, 3), 2, 3},
		{"urgent keys before slot are skipped", keyed(0.25, 0.5, 1, 2), 3, 2},
		{"all urgent before slot", keyed(0.25, 0.5), 2, 1},
		{"index beyond list is clamped", keyed(1, 2), 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertAt(tt.members, tt.insertIndex))
		})
	}
}

func TestInsertAt_SkipsNilKeys(t *testing.T) {
	members := []types.Record{
		{JobNumber: 1, ReleaseNumber: "A", StageGroup: types.StageFabrication, FabOrder: types.FabOrderOf(1)},
		{JobNumber: 2, ReleaseNumber: "A", StageGroup: types.StageFabrication},
		{JobNumber: 3, ReleaseNumber: "A", StageGroup: types.StageFabrication, FabOrder: types.FabOrderOf(2)},
	}
	// The nil-keyed record does not count toward the regular region.
	assert.Equal(t, float64(3), InsertAt(members, 3))
}

func TestInsertAt_AlwaysRegular(t *testing.T) {
	members := keyed(0.5, 1, 2, 3)
	for idx := 0; idx <= len(members); idx++ {
		key := InsertAt(members, idx)
		assert.True(t, types.IsRegularKey(key), "InsertAt(%d) = %v must be a regular key", idx, key)
	}
}
