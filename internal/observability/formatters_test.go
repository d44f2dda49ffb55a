package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/reorder"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/staging"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

func fabRecord(job int, release string, key *float64) types.Record {
	return types.Record{
		JobNumber:     job,
		ReleaseNumber: release,
		StageGroup:    types.StageFabrication,
		FabOrder:      key,
	}
}

func TestPrintSubset(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	all := []types.Record{
		fabRecord(4713, "A", types.FabOrderOf(2)),
		fabRecord(4712, "A", types.FabOrderOf(0.5)),
		fabRecord(4714, "B", nil),
		{JobNumber: 4715, ReleaseNumber: "A", StageGroup: types.StageReadyToShip},
	}

	p.PrintSubset(staging.SubsetFab, all)
	output := buf.String()

	assert.Contains(t, output, "SUBSET FAB")
	assert.Contains(t, output, "Members: 3")
	assert.Contains(t, output, "4712-A")
	assert.Contains(t, output, "0.5000 (urgent)")
	assert.Contains(t, output, "unkeyed")
	assert.NotContains(t, output, "4715-A")

	// Urgent key sorts ahead of regular keys.
	assert.Less(t, strings.Index(output, "4712-A"), strings.Index(output, "4713-A"))
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	all := []types.Record{
		fabRecord(4712, "A", types.FabOrderOf(0.25)),
		fabRecord(4713, "A", types.FabOrderOf(1)),
		fabRecord(4714, "B", nil),
		{JobNumber: 4715, ReleaseNumber: "A", StageGroup: "PAINT_SHOP"},
	}

	p.PrintSnapshot(all)
	output := buf.String()

	assert.Contains(t, output, "RECORD SNAPSHOT")
	assert.Contains(t, output, "Total records: 4")
	assert.Contains(t, output, "Urgent keys:   1")
	assert.Contains(t, output, "Unkeyed:       2")
}

func TestPrintDropResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	newKey := 3.0
	dragged := fabRecord(4712, "A", types.FabOrderOf(1))
	result := reorder.DropResult{
		GestureID: uuid.New(),
		Outcome:   reorder.OutcomePersisted,
		Subset:    staging.SubsetFab,
		NewKey:    &newKey,
	}

	p.PrintDropResult(dragged, result)
	output := buf.String()

	assert.Contains(t, output, "DROP RESULT")
	assert.Contains(t, output, "4712-A")
	assert.Contains(t, output, "persisted")
	assert.Contains(t, output, "New key:  3")
}

func TestPrintDropResult_NoKey(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	dragged := fabRecord(4712, "A", types.FabOrderOf(1))
	result := reorder.DropResult{
		GestureID: uuid.New(),
		Outcome:   reorder.OutcomeCrossSubset,
		Subset:    staging.SubsetFab,
	}

	p.PrintDropResult(dragged, result)
	output := buf.String()

	assert.Contains(t, output, "cross_subset")
	assert.NotContains(t, output, "New key")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintError(errors.New("urgent key space exhausted"))

	assert.Contains(t, buf.String(), "GESTURE FAILED")
	assert.Contains(t, buf.String(), "urgent key space exhausted")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintError(errors.New(strings.Repeat("a very long error message ", 10)))
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "..."))
}
