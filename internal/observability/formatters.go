// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/reorder"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/staging"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of records to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// formatKey renders a fab-order key, marking urgent keys and unkeyed records.
func formatKey(key *float64) string {
	if key == nil {
		return "unkeyed"
	}
	if types.IsUrgentKey(*key) {
		return fmt.Sprintf("%.4f (urgent)", *key)
	}
	return fmt.Sprintf("%g", *key)
}

// PrintSubset outputs the ordered members of one staging subset.
func (p *Printer) PrintSubset(subset staging.SubsetID, all []types.Record) {
	members := staging.MembersOf(subset, all)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Members: %d\n", len(members)))
	if len(members) > 0 {
		sb.WriteString("\n")
	}

	count := min(len(members), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := members[i]
		sb.WriteString(fmt.Sprintf("%2d. %-12s %s\n", i+1, rec.Identity(), formatKey(rec.FabOrder)))
	}
	if len(members) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(members)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("SUBSET %s", strings.ToUpper(string(subset))), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSnapshot outputs a per-subset summary of the full record collection.
func (p *Printer) PrintSnapshot(all []types.Record) {
	counts := map[staging.SubsetID]int{}
	urgent := 0
	unkeyed := 0
	for _, rec := range all {
		counts[staging.Classify(rec)]++
		switch {
		case rec.FabOrder == nil:
			unkeyed++
		case types.IsUrgentKey(*rec.FabOrder):
			urgent++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total records: %d\n\n", len(all)))
	for _, subset := range []staging.SubsetID{staging.SubsetFab, staging.SubsetReadyToShip, staging.SubsetJobOrder} {
		sb.WriteString(fmt.Sprintf("%-15s %d\n", subset, counts[subset]))
	}
	sb.WriteString(fmt.Sprintf("\nUrgent keys:   %d\n", urgent))
	sb.WriteString(fmt.Sprintf("Unkeyed:       %d", unkeyed))

	p.printBox("RECORD SNAPSHOT", sb.String())
}

// PrintDropResult outputs the resolution of a simulated drop gesture.
func (p *Printer) PrintDropResult(dragged types.Record, result reorder.DropResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Gesture:  %s\n", result.GestureID))
	sb.WriteString(fmt.Sprintf("Dragged:  %s\n", dragged.Identity()))
	sb.WriteString(fmt.Sprintf("Subset:   %s\n", result.Subset))
	sb.WriteString(fmt.Sprintf("Outcome:  %s", result.Outcome))
	if result.NewKey != nil {
		sb.WriteString(fmt.Sprintf("\nNew key:  %s", formatKey(result.NewKey)))
	}

	p.printBox("DROP RESULT", sb.String())
}

// PrintError outputs a failed gesture in the same boxed style.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintError(err error) {
	p.printBox("GESTURE FAILED", err.Error())
}
