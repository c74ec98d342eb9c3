// Package datasetfile is a minimal file-based dataset provider: it reads
// a JSON array of team records from disk. This is demo glue for the CLI,
// not part of the orchestration core — a real deployment's dataset
// provider (scouting database, spreadsheet import, etc.) lives outside
// this module entirely.
package datasetfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/frcscout/picklist/team"
)

// Load reads path as a JSON array of team.TeamRecord.
func Load(path string) ([]team.TeamRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datasetfile: read %s: %w", path, err)
	}

	var records []team.TeamRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("datasetfile: parse %s: %w", path, err)
	}
	return records, nil
}
