package scheduler

import "testing"

func TestRunDeepFreeResolverFreshScanFillsAFreeBlock(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())
	cabin1Idx := findBunkBlockIdx(sc, "Cabin1")
	sc.AssignFree(cabin1Idx)

	RunDeepFreeResolver(sc)

	if sc.Assignments[cabin1Idx].Pick.IsFree() {
		t.Fatalf("expected freshScan to fill Cabin1's block, got Free")
	}
}

// When freshScan alone cannot find a viable pick because the only field the
// bunk can use is held by a same-division neighbor, attemptDisplacement must
// relocate the neighbor and retry rather than leaving the block Free.
func TestRunDeepFreeResolverDisplacesNeighborWhenFreshScanFails(t *testing.T) {
	sc := newTestContext(t, rotationForbidsSwapSnapshot())

	cabin1Idx := findBunkBlockIdx(sc, "Cabin1")
	cabin2Idx := findBunkBlockIdx(sc, "Cabin2")
	sc.Apply(cabin1Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)
	sc.AssignFree(cabin2Idx)

	RunDeepFreeResolver(sc)

	if sc.Assignments[cabin2Idx].Pick.IsFree() {
		t.Fatalf("expected Cabin2 to be seated via displacement, got Free")
	}
	if normalizeName(sc.Assignments[cabin2Idx].Pick.Field) != normalizeName("Court") {
		t.Fatalf("expected Cabin2 on Court after displacement, got %+v", sc.Assignments[cabin2Idx].Pick)
	}
	if normalizeName(sc.Assignments[cabin1Idx].Pick.Field) != normalizeName("Lake") {
		t.Fatalf("expected Cabin1 displaced to Lake, got %+v", sc.Assignments[cabin1Idx].Pick)
	}
}
