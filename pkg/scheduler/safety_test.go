package scheduler

import "testing"

func twoDivisionSnapshot() Snapshot {
	snap := smallSnapshot()
	snap.Divisions["Seniors"] = Division{
		Name:  "Seniors",
		Bunks: []string{"Cabin3"},
		Slots: []TimeSlot{{StartMin: 540, EndMin: 600}},
	}
	snap.Bunks["Cabin3"] = NewBunk("Cabin3", "Seniors", 10)
	snap.Blocks = append(snap.Blocks, Block{
		DivName: "Seniors", Bunk: "Cabin3", Slots: []int{0}, StartMin: 540, EndMin: 600,
	})
	return snap
}

func TestCrossDivisionSweepUndoesCrossDivisionOverlap(t *testing.T) {
	sc := newTestContext(t, twoDivisionSnapshot())

	var cabin1Idx, cabin3Idx int
	for i, blk := range sc.Blocks {
		switch blk.Bunk {
		case "Cabin1":
			cabin1Idx = i
		case "Cabin3":
			cabin3Idx = i
		}
	}
	sc.Apply(cabin1Idx, Pick{Field: "Lake", Activity: "Swim"}, 100)
	sc.Apply(cabin3Idx, Pick{Field: "Lake", Activity: "Swim"}, 200)

	undone := crossDivisionSweep(sc)
	if !undone {
		t.Fatalf("expected crossDivisionSweep to report an undo")
	}
	if sc.Assignments[cabin1Idx].Pick.IsFree() {
		t.Fatalf("expected the first member (Cabin1) to survive")
	}
	if !sc.Assignments[cabin3Idx].Pick.IsFree() {
		t.Fatalf("expected the second cross-division member (Cabin3) to be undone")
	}
}

func TestCrossDivisionSweepLeavesSingleDivisionAlone(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())

	var cabin1Idx int
	for i, blk := range sc.Blocks {
		if blk.Bunk == "Cabin1" {
			cabin1Idx = i
		}
	}
	sc.Apply(cabin1Idx, Pick{Field: "Lake", Activity: "Swim"}, 100)

	if undone := crossDivisionSweep(sc); undone {
		t.Fatalf("expected no undo for a single-division commit")
	}
	if sc.Assignments[cabin1Idx].Pick.IsFree() {
		t.Fatalf("expected Cabin1's assignment to survive untouched")
	}
}

func TestSameDayDuplicateSweepKeepsCheaperCommit(t *testing.T) {
	snap := smallSnapshot()
	snap.Blocks = append(snap.Blocks, Block{
		DivName: "Juniors", Bunk: "Cabin1", Slots: []int{1}, StartMin: 600, EndMin: 660,
	})
	sc := newTestContext(t, snap)

	var firstIdx, secondIdx int
	found := 0
	for i, blk := range sc.Blocks {
		if blk.Bunk == "Cabin1" {
			if found == 0 {
				firstIdx = i
			} else {
				secondIdx = i
			}
			found++
		}
	}
	sc.Apply(firstIdx, Pick{Field: "Lake", Activity: "Swim"}, 300)
	sc.Apply(secondIdx, Pick{Field: "Lake", Activity: "Swim"}, 100)

	undone := sameDayDuplicateSweep(sc)
	if !undone {
		t.Fatalf("expected sameDayDuplicateSweep to report an undo")
	}
	if sc.Assignments[firstIdx].Pick.IsFree() != true {
		t.Fatalf("expected the costlier duplicate (firstIdx, cost 300) to be undone")
	}
	if sc.Assignments[secondIdx].Pick.IsFree() {
		t.Fatalf("expected the cheaper duplicate (secondIdx, cost 100) to survive")
	}
}
