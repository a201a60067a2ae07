package scheduler

import "sort"

// RunDeepFreeResolver is C12 (spec.md §4.13): for each still-Free block, in
// order of descending Free-block count in the block's division, tries a
// fresh global scan and, failing that, a one-hop displacement of a
// same-division neighbor.
func RunDeepFreeResolver(sc *SolverContext) {
	freeByDiv := make(map[string]int)
	var freeIdx []int
	for idx, a := range sc.Assignments {
		if sc.Blocks[idx].IsLeague {
			continue
		}
		if a.Pick.IsFree() {
			freeIdx = append(freeIdx, idx)
			freeByDiv[sc.Blocks[idx].DivName]++
		}
	}

	sort.Slice(freeIdx, func(i, j int) bool {
		di, dj := freeByDiv[sc.Blocks[freeIdx[i]].DivName], freeByDiv[sc.Blocks[freeIdx[j]].DivName]
		if di != dj {
			return di > dj
		}
		return freeIdx[i] < freeIdx[j]
	})

	for _, idx := range freeIdx {
		if !sc.Assignments[idx].Pick.IsFree() {
			continue
		}
		if pick, cost, ok := freshScan(sc, idx); ok {
			sc.Apply(idx, pick, cost)
			continue
		}
		attemptDisplacement(sc, idx)
	}
}

// freshScan re-enumerates the full candidate set under the live schedule
// (today-cache purged first) and returns the first candidate under the
// viable cost ceiling — spec.md §4.13 does not ask for cheapest-of-all
// here, only the first viable one, unlike C9/C10's best-of-domain scoring.
func freshScan(sc *SolverContext, idx int) (Pick, int, bool) {
	blk := sc.Blocks[idx]
	sc.invalidateToday(blk.Bunk)
	for _, c := range sc.Candidates.All() {
		pick := Pick{Field: c.Field, Activity: c.Activity, Kind: c.Kind}
		result := PenaltyCost(sc, idx, pick)
		if !result.Hard && result.Cost < sc.Config.ViableCostCeiling {
			return pick, result.Cost, true
		}
	}
	return Pick{}, 0, false
}

// attemptDisplacement implements the §4.13 displacement step: scan
// same-division blocks overlapping idx's interval whose current activity
// idx's bunk has not done today; try relocating each to an alternative
// field, then re-run the fresh scan for idx.
func attemptDisplacement(sc *SolverContext, idx int) {
	blk := sc.Blocks[idx]
	if !blk.HasKnownTime() {
		return
	}
	iv := blk.interval()

	for nIdx, a := range sc.Assignments {
		if nIdx == idx || a.Pick.IsFree() {
			continue
		}
		neighbor := sc.Blocks[nIdx]
		if neighbor.IsLeague {
			continue
		}
		if neighbor.DivName != blk.DivName || !neighbor.HasKnownTime() || !neighbor.interval().Overlaps(iv) {
			continue
		}
		if sc.HasDoneToday(blk.Bunk, a.Pick.Activity) {
			continue
		}

		origPick := a.Pick
		origCost := a.Cost
		altPick, altCost, ok := findDisplacementAlt(sc, nIdx, origPick)
		if !ok {
			continue
		}

		sc.invalidateToday(neighbor.Bunk)
		sc.Undo(nIdx)
		sc.Apply(nIdx, altPick, altCost)

		if pick, cost, ok := freshScan(sc, idx); ok {
			sc.Apply(idx, pick, cost)
			return
		}

		sc.invalidateToday(neighbor.Bunk)
		sc.Undo(nIdx)
		sc.Apply(nIdx, origPick, origCost)
	}
}

// findDisplacementAlt searches neighborIdx's candidate set for a field
// other than its current one that validates against the live schedule and
// does not collide with the neighbor bunk's today-history.
func findDisplacementAlt(sc *SolverContext, neighborIdx int, currentPick Pick) (Pick, int, bool) {
	blk := sc.Blocks[neighborIdx]
	for _, c := range sc.Candidates.All() {
		if normalizeName(c.Field) == normalizeName(currentPick.Field) {
			continue
		}
		if sc.HasDoneToday(blk.Bunk, c.Activity) {
			continue
		}
		pick := Pick{Field: c.Field, Activity: c.Activity, Kind: c.Kind}
		result := PenaltyCost(sc, neighborIdx, pick)
		if !result.Hard && result.Cost < sc.Config.ViableCostCeiling {
			return pick, result.Cost, true
		}
	}
	return Pick{}, 0, false
}
