package scheduler

import "testing"

func TestRunBackjumpSolverAssignsAllPendingBlocksByMRV(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())
	domains := BuildDomains(sc)

	RunBackjumpSolver(sc, domains)

	for i, a := range sc.Assignments {
		if a.Pick.IsFree() {
			t.Fatalf("expected block %d to be assigned, got Free", i)
		}
	}
}

// When a block's domain is empty going into the backjump pass (simulating
// over-eager upstream pruning), lastChanceRescan must recover a viable pick
// from the full candidate catalog rather than giving up to Free.
func TestRunBackjumpSolverRecoversEmptyDomainViaLastChanceRescan(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())
	domains := BuildDomains(sc)

	cabin1Idx := findBunkBlockIdx(sc, "Cabin1")
	domains.SetBlock(cabin1Idx, nil)

	RunBackjumpSolver(sc, domains)

	if sc.Assignments[cabin1Idx].Pick.IsFree() {
		t.Fatalf("expected lastChanceRescan to recover a pick for Cabin1, got Free")
	}
}

// A commit must prune overlapping neighbors' domains of the not_sharable
// field it just took, so the neighbor can't also land on it.
func TestRunBackjumpSolverPropagatesNotSharablePrune(t *testing.T) {
	sc := newTestContext(t, singleNotSharableFieldSnapshot())
	domains := BuildDomains(sc)

	RunBackjumpSolver(sc, domains)

	cabin1 := sc.Assignments[findBunkBlockIdx(sc, "Cabin1")]
	cabin2 := sc.Assignments[findBunkBlockIdx(sc, "Cabin2")]

	courtHolders := 0
	for _, a := range []Assignment{cabin1, cabin2} {
		if !a.Pick.IsFree() && normalizeName(a.Pick.Field) == normalizeName("Court") {
			courtHolders++
		}
	}
	if courtHolders != 1 {
		t.Fatalf("expected exactly 1 bunk seated on the not_sharable Court, got %d", courtHolders)
	}
}
