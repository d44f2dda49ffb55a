package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/observability"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/reorder"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/schemas"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/staging"
	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

var (
	simulateDragged string
	simulateTarget  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <snapshot.json>",
	Short: "Replay a drop gesture against a record snapshot",
	Long: `Load a records snapshot from a JSON file and resolve a single drag-and-drop
gesture against it without touching the database. The snapshot uses the same
format as the /records/sync payload. Prints the affected subset before and
after the drop.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateDragged, "dragged", "", "Dragged record identity, e.g. 4712-A (required)")
	simulateCmd.Flags().StringVar(&simulateTarget, "target", "", "Target record identity, e.g. 4714-B (required)")
	_ = simulateCmd.MarkFlagRequired("dragged")
	_ = simulateCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(simulateCmd)
}

// capturePersister records the key a drop would have written.
type capturePersister struct {
	jobNumber     int
	releaseNumber string
	fabOrder      float64
	called        bool
}

func (c *capturePersister) PersistOrder(_ context.Context, jobNumber int, releaseNumber string, fabOrder float64) error {
	c.jobNumber = jobNumber
	c.releaseNumber = releaseNumber
	c.fabOrder = fabOrder
	c.called = true
	return nil
}

// parseIdentity splits a "job-release" identity into its parts.
func parseIdentity(identity string) (int, string, error) {
	job, release, ok := strings.Cut(identity, "-")
	if !ok {
		return 0, "", fmt.Errorf("invalid identity %q: expected job-release", identity)
	}
	jobNumber, err := strconv.Atoi(job)
	if err != nil {
		return 0, "", fmt.Errorf("invalid job number in %q: %v", identity, err)
	}
	return jobNumber, release, nil
}

func runSimulate(_ *cobra.Command, args []string) error {
	body, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := schemas.ValidateRecordsSnapshot(string(body)); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	var req types.SyncRecordsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	all := make([]types.Record, 0, len(req.Records))
	for _, payload := range req.Records {
		all = append(all, payload.ToRecord())
	}

	draggedJob, draggedRelease, err := parseIdentity(simulateDragged)
	if err != nil {
		return err
	}
	targetJob, targetRelease, err := parseIdentity(simulateTarget)
	if err != nil {
		return err
	}

	var dragged, target types.Record
	var haveDragged, haveTarget bool
	for _, rec := range all {
		if rec.JobNumber == draggedJob && rec.ReleaseNumber == draggedRelease {
			dragged, haveDragged = rec, true
		}
		if rec.JobNumber == targetJob && rec.ReleaseNumber == targetRelease {
			target, haveTarget = rec, true
		}
	}
	if !haveDragged {
		return fmt.Errorf("dragged record %s not in snapshot", simulateDragged)
	}
	if !haveTarget {
		return fmt.Errorf("target record %s not in snapshot", simulateTarget)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSnapshot(all)

	subset := staging.Classify(dragged)
	printer.PrintSubset(subset, all)

	persister := &capturePersister{}
	planner := reorder.NewPlanner(persister)
	if _, err := planner.OnDragStart(dragged); err != nil {
		return err
	}

	result, err := planner.OnDrop(context.Background(), target, all)
	if err != nil {
		printer.PrintError(err)
		return err
	}

	printer.PrintDropResult(dragged, result)

	if persister.called {
		for i := range all {
			if all[i].SameIdentity(dragged) {
				all[i].FabOrder = types.FabOrderOf(persister.fabOrder)
			}
		}
		printer.PrintSubset(subset, all)
	}

	return nil
}
