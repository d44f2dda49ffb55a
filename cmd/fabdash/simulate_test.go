package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name        string
		identity    string
		wantJob     int
		wantRelease string
		wantErr     bool
	}{
		{name: "valid", identity: "4712-A", wantJob: 4712, wantRelease: "A"},
		{name: "release with dash", identity: "4712-A-2", wantJob: 4712, wantRelease: "A-2"},
		{name: "no separator", identity: "4712", wantErr: true},
		{name: "non-numeric job", identity: "abc-A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, release, err := parseIdentity(tt.identity)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantJob, job)
			assert.Equal(t, tt.wantRelease, release)
		})
	}
}

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunSimulate(t *testing.T) {
	snapshot := writeSnapshot(t, `{
		"records": [
			{"job_number": 4712, "release_number": "A", "stage_group": "FABRICATION", "fab_order": 1},
			{"job_number": 4713, "release_number": "A", "stage_group": "FABRICATION", "fab_order": 2},
			{"job_number": 4714, "release_number": "A", "stage_group": "FABRICATION", "fab_order": 3}
		]
	}`)

	simulateDragged = "4712-A"
	simulateTarget = "4714-A"

	err := runSimulate(simulateCmd, []string{snapshot})
	assert.NoError(t, err)
}

func TestRunSimulate_UnknownDragged(t *testing.T) {
	snapshot := writeSnapshot(t, `{
		"records": [
			{"job_number": 4712, "release_number": "A", "stage_group": "FABRICATION", "fab_order": 1}
		]
	}`)

	simulateDragged = "9999-Z"
	simulateTarget = "4712-A"

	err := runSimulate(simulateCmd, []string{snapshot})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in snapshot")
}

func TestRunSimulate_InvalidSnapshot(t *testing.T) {
	snapshot := writeSnapshot(t, `{"records": []}`)

	simulateDragged = "4712-A"
	simulateTarget = "4713-A"

	err := runSimulate(simulateCmd, []string{snapshot})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid snapshot")
}

func TestRunSimulate_MissingFile(t *testing.T) {
	simulateDragged = "4712-A"
	simulateTarget = "4713-A"

	err := runSimulate(simulateCmd, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
