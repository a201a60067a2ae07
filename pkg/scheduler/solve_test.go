package scheduler

import (
	"testing"

	"github.com/gitrdm/campsched/internal/logx"
	"github.com/gitrdm/campsched/pkg/scheduler/config"
)

func smallSnapshot() Snapshot {
	divisions := map[string]Division{
		"Juniors": {
			Name:  "Juniors",
			Bunks: []string{"Cabin1", "Cabin2"},
			Slots: []TimeSlot{{StartMin: 540, EndMin: 600}},
		},
	}
	bunks := map[string]Bunk{
		"Cabin1": NewBunk("Cabin1", "Juniors", 10),
		"Cabin2": NewBunk("Cabin2", "Juniors", 10),
	}
	blocks := []Block{
		{DivName: "Juniors", Bunk: "Cabin1", Slots: []int{0}, StartMin: 540, EndMin: 600},
		{DivName: "Juniors", Bunk: "Cabin2", Slots: []int{0}, StartMin: 540, EndMin: 600},
	}
	fields := map[string]Field{
		"Lake":  {Name: "Lake", Capacity: 2, Sharing: All, Activities: map[string]bool{"Swim": true}},
		"Court": {Name: "Court", Capacity: 1, Sharing: NotSharable, Activities: map[string]bool{"Basketball": true}},
	}
	activities := map[string]Activity{
		"swim":       {Name: "Swim", MinPlayers: 1, MaxPlayers: 20},
		"basketball": {Name: "Basketball", MinPlayers: 1, MaxPlayers: 10},
	}

	return Snapshot{
		Divisions:  divisions,
		Bunks:      bunks,
		Blocks:     blocks,
		Fields:     fields,
		Activities: activities,
		Oracle:     NewHistoryOracle(nil, 1, DefaultHistoryOracleConfig()),
	}
}

func TestSolveProducesOneAssignmentPerBlock(t *testing.T) {
	snap := smallSnapshot()

	result, err := Solve(snap, config.DefaultSolverConfig(), logx.Nop())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(result.Assignments) != len(snap.Blocks) {
		t.Fatalf("expected %d assignments, got %d", len(snap.Blocks), len(result.Assignments))
	}
	for i, a := range result.Assignments {
		if a.BlockIdx != i {
			t.Fatalf("assignment %d has BlockIdx %d, want index-aligned with Blocks", i, a.BlockIdx)
		}
	}
}

func TestSolveNotSharableFieldNeverDoubleBooked(t *testing.T) {
	snap := smallSnapshot()
	// Force both bunks to want the single-capacity Court at once by
	// disabling Lake, so the engine must arbitrate the NotSharable field.
	snap.DisabledFields = []string{"Lake"}

	result, err := Solve(snap, config.DefaultSolverConfig(), logx.Nop())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	courtHolders := 0
	for _, a := range result.Assignments {
		if normalizeName(a.Pick.Field) == normalizeName("Court") {
			courtHolders++
		}
	}
	if courtHolders > 1 {
		t.Fatalf("Court is NotSharable but %d bunks were assigned it concurrently", courtHolders)
	}
}

func TestSolveWithNilConfigAndLoggerUsesDefaults(t *testing.T) {
	snap := smallSnapshot()

	result, err := Solve(snap, nil, nil)
	if err != nil {
		t.Fatalf("Solve with nil cfg/log returned error: %v", err)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(result.Assignments))
	}
}

func TestSolveDropsBlocksWithUnknownDivision(t *testing.T) {
	snap := smallSnapshot()
	snap.Blocks = append(snap.Blocks, Block{DivName: "Ghosts", Bunk: "Nobody", Slots: []int{0}, StartMin: 540, EndMin: 600})

	result, err := Solve(snap, config.DefaultSolverConfig(), logx.Nop())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("expected the invalid block to be dropped, leaving 2 assignments, got %d", len(result.Assignments))
	}
}

func TestSolveReportHasOnePassScorePerPass(t *testing.T) {
	snap := smallSnapshot()
	cfg := config.DefaultSolverConfig()
	cfg.MaxPasses = 2

	result, err := Solve(snap, cfg, logx.Nop())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(result.Report.Passes) != 2 {
		t.Fatalf("expected 2 pass scores for MaxPasses=2, got %d", len(result.Report.Passes))
	}
}
