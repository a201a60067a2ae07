package scheduler

import "testing"

func TestRunLocalSearchPassAFillsFreeBlocksWithNoContention(t *testing.T) {
	sc := newTestContext(t, smallSnapshot())
	domains := BuildDomains(sc)

	RunLocalSearch(sc, domains)

	for i, a := range sc.Assignments {
		if a.Pick.IsFree() {
			t.Fatalf("expected block %d filled by local search Pass A, got Free", i)
		}
	}
}

// rotationForbidsSwapSnapshot forbids Cabin2 from Swim today, so Cabin2's
// only viable candidate is Court/Basketball; Cabin1 can do either. With
// Cabin1 already committed to Court, Pass B should relocate Cabin1 to Lake
// and hand Court to Cabin2 rather than leaving Cabin2 Free.
func rotationForbidsSwapSnapshot() Snapshot {
	snap := twoFieldContestedSnapshot()
	snap.Oracle = NewHistoryOracle(
		map[string]map[string][]int{"Cabin2": {"Swim": {5}}},
		5,
		DefaultHistoryOracleConfig(),
	)
	return snap
}

func TestRunLocalSearchPassBSwapsHolderToFreeTheDesiredField(t *testing.T) {
	sc := newTestContext(t, rotationForbidsSwapSnapshot())
	domains := BuildDomains(sc)

	cabin1Idx := findBunkBlockIdx(sc, "Cabin1")
	cabin2Idx := findBunkBlockIdx(sc, "Cabin2")
	sc.Apply(cabin1Idx, Pick{Field: "Court", Activity: "Basketball"}, 100)

	RunLocalSearch(sc, domains)

	if sc.Assignments[cabin2Idx].Pick.IsFree() {
		t.Fatalf("expected Cabin2 to be seated after the Pass B swap, got Free")
	}
	if normalizeName(sc.Assignments[cabin2Idx].Pick.Field) != normalizeName("Court") {
		t.Fatalf("expected Cabin2 on Court after the swap, got %+v", sc.Assignments[cabin2Idx].Pick)
	}
	if normalizeName(sc.Assignments[cabin1Idx].Pick.Field) != normalizeName("Lake") {
		t.Fatalf("expected Cabin1 relocated to Lake after the swap, got %+v", sc.Assignments[cabin1Idx].Pick)
	}
}
