package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gitrdm/campsched/pkg/scheduler"
)

// wireBunk mirrors scheduler.Bunk's exported construction inputs; Bunk's
// numericSuffix field is derived, not stored, so the wire format only
// carries what NewBunk needs.
type wireBunk struct {
	Name     string `json:"name"`
	Division string `json:"division"`
	Size     int    `json:"size"`
}

// wireSnapshot is the on-disk JSON shape accepted by solve/repair/validate.
// It mirrors scheduler.Snapshot field-for-field except the function-valued
// GlobalFieldLocks and CanBlockFit, which it does not carry, and Oracle,
// which has no JSON representation of its own: RotationHistory + Today build a
// scheduler.HistoryOracle instead (spec.md §6.1 treats the oracle as
// externally supplied; this is this CLI's concrete supplier).
type wireSnapshot struct {
	Divisions       map[string]scheduler.Division `json:"divisions"`
	Bunks           map[string]wireBunk            `json:"bunks"`
	Blocks          []scheduler.Block              `json:"blocks"`
	Fields          map[string]scheduler.Field      `json:"fields"`
	Activities      map[string]scheduler.Activity   `json:"activities"`
	DisabledFields  []string                        `json:"disabledFields"`
	Locks           []scheduler.Lock                `json:"locks"`
	Skeleton        scheduler.SkeletonOutline        `json:"skeleton"`
	RotationHistory map[string]map[string][]int      `json:"rotationHistory"`
	Today           int                              `json:"today"`
}

// loadSnapshot decodes path into a scheduler.Snapshot, building a
// HistoryOracle from the wire format's rotationHistory/today fields.
func loadSnapshot(path string) (scheduler.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scheduler.Snapshot{}, fmt.Errorf("reading snapshot %q: %w", path, err)
	}

	var w wireSnapshot
	if err := json.Unmarshal(raw, &w); err != nil {
		return scheduler.Snapshot{}, fmt.Errorf("decoding snapshot %q: %w", path, err)
	}

	bunks := make(map[string]scheduler.Bunk, len(w.Bunks))
	for name, b := range w.Bunks {
		bunks[name] = scheduler.NewBunk(b.Name, b.Division, b.Size)
	}

	oracle := scheduler.NewHistoryOracle(w.RotationHistory, w.Today, scheduler.DefaultHistoryOracleConfig())

	return scheduler.Snapshot{
		Divisions:      w.Divisions,
		Bunks:          bunks,
		Blocks:         w.Blocks,
		Fields:         w.Fields,
		Activities:     w.Activities,
		DisabledFields: w.DisabledFields,
		Oracle:         oracle,
		Locks:          w.Locks,
		Skeleton:       w.Skeleton,
	}, nil
}

// writeResult encodes result as indented JSON to path, or stdout if path
// is empty.
func writeResult(path string, result scheduler.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	out = append(out, '\n')

	if path == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
