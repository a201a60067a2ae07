package scheduler

import "testing"

func TestRunAC3CommitsSingletonDomains(t *testing.T) {
	sc := newTestContext(t, singleNotSharableFieldSnapshot())
	domains := BuildDomains(sc)

	RunAC3(sc, domains)

	cabin1 := sc.Assignments[findBunkBlockIdx(sc, "Cabin1")]
	cabin2 := sc.Assignments[findBunkBlockIdx(sc, "Cabin2")]

	courtHolders := 0
	for _, a := range []Assignment{cabin1, cabin2} {
		if !a.Pick.IsFree() && normalizeName(a.Pick.Field) == normalizeName("Court") {
			courtHolders++
		}
	}
	if courtHolders != 1 {
		t.Fatalf("expected exactly 1 singleton-domain commit to Court, got %d", courtHolders)
	}
}

func TestRunAC3PrunesNeighborDomainAfterNotSharableCommit(t *testing.T) {
	sc := newTestContext(t, singleNotSharableFieldSnapshot())
	domains := BuildDomains(sc)

	RunAC3(sc, domains)

	cabin1Idx := findBunkBlockIdx(sc, "Cabin1")
	cabin2Idx := findBunkBlockIdx(sc, "Cabin2")
	var committedIdx, prunedIdx int
	if sc.Assignments[cabin1Idx].Pick.IsFree() {
		committedIdx, prunedIdx = cabin2Idx, cabin1Idx
	} else {
		committedIdx, prunedIdx = cabin1Idx, cabin2Idx
	}
	_ = committedIdx

	if len(domains.Block(prunedIdx)) != 0 {
		t.Fatalf("expected the uncommitted sibling's domain pruned to empty, got %v", domains.Block(prunedIdx))
	}
}

func TestRunAC3DoesNotOverPruneIndependentFields(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())
	domains := BuildDomains(sc)

	RunAC3(sc, domains)

	// Both blocks hold two candidates (Lake/Swim, Court/Basketball), so AC-3
	// commits nothing and has no committed neighbor to prune against: every
	// domain must come through whole.
	for i := range sc.Assignments {
		if len(domains.Block(i)) != 2 {
			t.Fatalf("block %d domain pruned to %v although nothing was committed", i, domains.Block(i))
		}
	}
}
