package scheduler

import "testing"

func TestRunPostEditRepairReassignsDisplacedConflict(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())

	var cabin1Idx, cabin2Idx int
	for i, blk := range sc.Blocks {
		switch blk.Bunk {
		case "Cabin1":
			cabin1Idx = i
		case "Cabin2":
			cabin2Idx = i
		}
	}

	sc.Apply(cabin1Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)
	sc.Apply(cabin2Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)

	req := RepairRequest{
		PinnedBunk:     "Cabin2",
		PinnedSlots:    []int{0},
		PinnedField:    "Court",
		PinnedActivity: "Basketball",
		PinnedDivName:  "Juniors",
		PinnedStartMin: 540,
		PinnedEndMin:   600,
		Conflicts: []ConflictEntry{
			{Bunk: "Cabin1", Slots: []int{0}, OriginalActivity: "Basketball"},
		},
	}

	result := RunPostEditRepair(sc, req)

	if len(result.Failed) != 0 {
		t.Fatalf("expected no failed reassignments, got %v", result.Failed)
	}
	if len(result.Reassigned) != 1 || result.Reassigned[0] != cabin1Idx {
		t.Fatalf("expected Cabin1's block (%d) reassigned, got %v", cabin1Idx, result.Reassigned)
	}

	got := sc.Assignments[cabin1Idx].Pick
	if normalizeName(got.Field) == normalizeName("Court") {
		t.Fatalf("expected Cabin1 to be moved off the pinned field, still on %q", got.Field)
	}
	if got.IsFree() {
		t.Fatalf("expected Cabin1 to land on Lake/Swim, got Free")
	}

	if result.PinnedLock.Field != "Court" || result.PinnedLock.AllowedDivName != "Juniors" {
		t.Fatalf("expected pinned lock on Court for Juniors, got %+v", result.PinnedLock)
	}
}

func TestRunPostEditRepairOrdersConflictsNumerically(t *testing.T) {
	divisions := map[string]Division{
		"Juniors": {
			Name:  "Juniors",
			Bunks: []string{"Cabin2", "Cabin3", "Cabin10"},
			Slots: []TimeSlot{{StartMin: 540, EndMin: 600}},
		},
	}
	bunks := map[string]Bunk{
		"Cabin2":  NewBunk("Cabin2", "Juniors", 10),
		"Cabin3":  NewBunk("Cabin3", "Juniors", 10),
		"Cabin10": NewBunk("Cabin10", "Juniors", 10),
	}
	blocks := []Block{
		{DivName: "Juniors", Bunk: "Cabin2", Slots: []int{0}, StartMin: 540, EndMin: 600},
		{DivName: "Juniors", Bunk: "Cabin3", Slots: []int{0}, StartMin: 540, EndMin: 600},
		{DivName: "Juniors", Bunk: "Cabin10", Slots: []int{0}, StartMin: 540, EndMin: 600},
	}
	fields := map[string]Field{
		"Lake":  {Name: "Lake", Capacity: 30, Sharing: All, Activities: map[string]bool{"Swim": true}},
		"Court": {Name: "Court", Capacity: 30, Sharing: All, Activities: map[string]bool{"Basketball": true}},
	}
	activities := map[string]Activity{
		"swim":       {Name: "Swim", MinPlayers: 1, MaxPlayers: 30},
		"basketball": {Name: "Basketball", MinPlayers: 1, MaxPlayers: 30},
	}
	snap := Snapshot{
		Divisions:  divisions,
		Bunks:      bunks,
		Blocks:     blocks,
		Fields:     fields,
		Activities: activities,
		Oracle:     NewHistoryOracle(nil, 1, DefaultHistoryOracleConfig()),
	}
	sc := newTestContext(t, snap)

	idxOf := make(map[string]int, 3)
	for i, blk := range sc.Blocks {
		idxOf[blk.Bunk] = i
		sc.Apply(i, Pick{Field: "Court", Activity: "Basketball"}, 100)
	}

	req := RepairRequest{
		PinnedBunk:     "Cabin1",
		PinnedSlots:    []int{0},
		PinnedField:    "Court",
		PinnedActivity: "Basketball",
		PinnedDivName:  "Juniors",
		PinnedStartMin: 540,
		PinnedEndMin:   600,
		// Listed out of both lexicographic and numeric order on purpose.
		Conflicts: []ConflictEntry{
			{Bunk: "Cabin10", Slots: []int{0}, OriginalActivity: "Basketball"},
			{Bunk: "Cabin3", Slots: []int{0}, OriginalActivity: "Basketball"},
			{Bunk: "Cabin2", Slots: []int{0}, OriginalActivity: "Basketball"},
		},
	}

	result := RunPostEditRepair(sc, req)

	want := []int{idxOf["Cabin2"], idxOf["Cabin3"], idxOf["Cabin10"]}
	if len(result.Reassigned) != len(want) {
		t.Fatalf("expected %d reassignments, got %v", len(want), result.Reassigned)
	}
	for i, idx := range want {
		if result.Reassigned[i] != idx {
			t.Fatalf("expected numeric-order reassignment %v, got %v", want, result.Reassigned)
		}
	}
}

func TestRunPostEditRepairMarksUnresolvableConflictFailed(t *testing.T) {
	snap := smallSnapshot()
	// Disable Lake so Cabin1 has nowhere else to go once Court is pinned away.
	snap.DisabledFields = []string{"Lake"}
	sc := newTestContext(t, snap)

	var cabin1Idx, cabin2Idx int
	for i, blk := range sc.Blocks {
		switch blk.Bunk {
		case "Cabin1":
			cabin1Idx = i
		case "Cabin2":
			cabin2Idx = i
		}
	}
	sc.Apply(cabin1Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)
	sc.Apply(cabin2Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)

	req := RepairRequest{
		PinnedBunk:     "Cabin2",
		PinnedSlots:    []int{0},
		PinnedField:    "Court",
		PinnedActivity: "Basketball",
		PinnedDivName:  "Juniors",
		PinnedStartMin: 540,
		PinnedEndMin:   600,
		Conflicts: []ConflictEntry{
			{Bunk: "Cabin1", Slots: []int{0}, OriginalActivity: "Basketball"},
		},
	}

	result := RunPostEditRepair(sc, req)

	if len(result.Reassigned) != 0 {
		t.Fatalf("expected no successful reassignment with Lake disabled, got %v", result.Reassigned)
	}
	if len(result.Failed) != 1 || result.Failed[0] != cabin1Idx {
		t.Fatalf("expected Cabin1's block (%d) marked failed, got %v", cabin1Idx, result.Failed)
	}
	if !sc.Assignments[cabin1Idx].Pick.IsFree() {
		t.Fatalf("expected Cabin1 to fall back to Free, got %+v", sc.Assignments[cabin1Idx].Pick)
	}
}
