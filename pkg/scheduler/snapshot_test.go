package scheduler

import "testing"

func TestValidateSnapshotFlagsUnknownDivisionAndBunk(t *testing.T) {
	snap := smallSnapshot()
	snap.Blocks = append(snap.Blocks,
		Block{DivName: "Ghosts", Bunk: "Cabin1", Slots: []int{0}, StartMin: 540, EndMin: 600},
		Block{DivName: "Juniors", Bunk: "Nobody", Slots: []int{0}, StartMin: 540, EndMin: 600},
	)

	warnings := ValidateSnapshot(snap)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %+v", len(warnings), warnings)
	}
	if warnings[0].BlockIdx != 2 {
		t.Fatalf("expected first warning on block 2 (unknown division), got block %d", warnings[0].BlockIdx)
	}
	if warnings[1].BlockIdx != 3 {
		t.Fatalf("expected second warning on block 3 (unknown bunk), got block %d", warnings[1].BlockIdx)
	}
}

func TestValidateSnapshotCleanSnapshotHasNoWarnings(t *testing.T) {
	warnings := ValidateSnapshot(smallSnapshot())
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for a clean snapshot, got %+v", warnings)
	}
}
