package scheduler

// RunLocalSearch is C11 (spec.md §4.11): Pass A re-scores every Free block
// against the now-committed schedule; Pass B attempts capped two-block swap
// chains for whatever Free blocks remain.
func RunLocalSearch(sc *SolverContext, domains *Domains) {
	runLocalSearchPassA(sc, domains)
	runLocalSearchPassB(sc, domains)
}

// runLocalSearchPassA is Pass A: direct Free-block improvement.
func runLocalSearchPassA(sc *SolverContext, domains *Domains) {
	candidates := sc.Candidates.All()
	for idx, a := range sc.Assignments {
		if sc.Blocks[idx].IsLeague {
			continue
		}
		if !a.Pick.IsFree() {
			continue
		}
		domain := domains.Block(idx)
		if len(domain) == 0 {
			continue
		}
		pick, cost, found := bestDomainPick(sc, idx, domain, candidates)
		if !found {
			continue
		}
		sc.Undo(idx)
		sc.Apply(idx, pick, cost)
	}
}

// runLocalSearchPassB is Pass B: two-block swap chains (spec.md §4.11).
// For each remaining Free block F with a desired candidate D, find a
// committed block H holding D's field; if H has an alternative field free
// at its own interval, relocate H there and give F the freed field.
func runLocalSearchPassB(sc *SolverContext, domains *Domains) {
	cap := sc.Config.SwapChainAttemptCap
	if cap <= 0 {
		cap = 500
	}
	candidates := sc.Candidates.All()

	attempts := 0
	for idx, a := range sc.Assignments {
		if attempts >= cap {
			break
		}
		if sc.Blocks[idx].IsLeague {
			continue
		}
		if !a.Pick.IsFree() {
			continue
		}
		domain := domains.Block(idx)
		if len(domain) == 0 {
			continue
		}
		blk := sc.Blocks[idx]
		if !blk.HasKnownTime() {
			continue
		}

		for _, ci := range domain {
			if attempts >= cap {
				break
			}
			desired := candidates[ci]
			holderIdx, ok := findFieldHolder(sc, desired.Field, blk)
			if !ok {
				continue
			}
			attempts++
			if trySwap(sc, domains, idx, holderIdx, desired) {
				break
			}
		}
	}
}

// findFieldHolder locates a currently-committed block (different bunk,
// overlapping interval) holding fieldName.
func findFieldHolder(sc *SolverContext, fieldName string, blk Block) (int, bool) {
	iv := blk.interval()
	for idx, a := range sc.Assignments {
		if a.Pick.IsFree() || a.Bunk == blk.Bunk {
			continue
		}
		if normalizeName(a.Pick.Field) != normalizeName(fieldName) {
			continue
		}
		other := sc.Blocks[idx]
		if other.IsLeague {
			continue
		}
		if !other.HasKnownTime() || !other.interval().Overlaps(iv) {
			continue
		}
		return idx, true
	}
	return 0, false
}

// trySwap attempts to relocate holderIdx to an alternative field and then
// give freeIdx the field holderIdx vacated. Both bunks' same-day history is
// re-verified with a fresh today-cache before the swap commits.
func trySwap(sc *SolverContext, domains *Domains, freeIdx, holderIdx int, desired Candidate) bool {
	holderBlk := sc.Blocks[holderIdx]
	holderPick := sc.Assignments[holderIdx].Pick
	holderCost := sc.Assignments[holderIdx].Cost
	candidates := sc.Candidates.All()

	for _, ci := range domains.Block(holderIdx) {
		alt := candidates[ci]
		if normalizeName(alt.Field) == normalizeName(holderPick.Field) {
			continue
		}

		sc.invalidateToday(holderBlk.Bunk)
		if sc.HasDoneToday(holderBlk.Bunk, alt.Activity) {
			continue
		}
		altPick := Pick{Field: alt.Field, Activity: alt.Activity, Kind: alt.Kind}
		altResult := PenaltyCost(sc, holderIdx, altPick)
		if altResult.Hard || altResult.Cost >= sc.Config.ViableCostCeiling {
			continue
		}

		sc.Undo(holderIdx)
		sc.Apply(holderIdx, altPick, altResult.Cost)

		freeBlk := sc.Blocks[freeIdx]
		sc.invalidateToday(freeBlk.Bunk)
		if sc.HasDoneToday(freeBlk.Bunk, desired.Activity) {
			sc.Undo(holderIdx)
			sc.Apply(holderIdx, holderPick, holderCost)
			continue
		}
		desiredPick := Pick{Field: desired.Field, Activity: desired.Activity, Kind: desired.Kind}
		desiredResult := PenaltyCost(sc, freeIdx, desiredPick)
		if desiredResult.Hard || desiredResult.Cost >= sc.Config.ViableCostCeiling {
			sc.Undo(holderIdx)
			sc.Apply(holderIdx, holderPick, holderCost)
			continue
		}

		sc.Undo(freeIdx)
		sc.Apply(freeIdx, desiredPick, desiredResult.Cost)
		return true
	}
	return false
}
