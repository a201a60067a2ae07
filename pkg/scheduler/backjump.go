package scheduler

import "sort"

// RunBackjumpSolver is C10: MRV-ordered assignment of every block C8/C9
// left unassigned (spec.md §4.10). Each commit propagates to overlapping
// unassigned blocks by pruning their domains of newly-conflicting
// candidates, same as C8.
func RunBackjumpSolver(sc *SolverContext, domains *Domains) {
	adj := buildOverlapGraph(sc, domains)
	candidates := sc.Candidates.All()

	var pending []int
	for idx, blk := range sc.Blocks {
		if !blk.IsLeague && !sc.IsAssigned(idx) {
			pending = append(pending, idx)
		}
	}

	cap := sc.Config.BackjumpIterationCap
	if cap <= 0 {
		cap = 50000
	}

	iterations := 0
	for len(pending) > 0 && iterations < cap {
		sort.Slice(pending, func(i, j int) bool {
			return len(domains.Block(pending[i])) < len(domains.Block(pending[j]))
		})
		idx := pending[0]
		pending = pending[1:]
		iterations++

		if sc.IsAssigned(idx) {
			continue
		}
		blk := sc.Blocks[idx]

		// The cache is invalidated after every commit, but cross-group
		// effects from C9 may not have touched this bunk; purge again here
		// before scoring (spec.md §4.10).
		sc.invalidateToday(blk.Bunk)

		domain := domains.Block(idx)
		if len(domain) == 0 {
			if pick, cost, ok := lastChanceRescan(sc, idx); ok {
				sc.Apply(idx, pick, cost)
				propagateBackjump(sc, domains, adj, idx, pick)
			} else {
				sc.AssignFree(idx)
			}
			continue
		}

		bestPick, bestCost, found := bestDomainPick(sc, idx, domain, candidates)
		if !found {
			sc.AssignFree(idx)
			continue
		}
		sc.Apply(idx, bestPick, bestCost)
		propagateBackjump(sc, domains, adj, idx, bestPick)
	}

	// Cap reached: anything still unassigned falls to Free, picked up by C11/C12.
	for _, idx := range pending {
		if !sc.IsAssigned(idx) {
			sc.AssignFree(idx)
		}
	}
}

// bestDomainPick scores every candidate in domain via PenaltyCost and
// returns the cheapest one under the viable ceiling.
func bestDomainPick(sc *SolverContext, idx int, domain []int, candidates []Candidate) (Pick, int, bool) {
	bestCost := sc.Config.ViableCostCeiling
	var bestPick Pick
	found := false
	for _, ci := range domain {
		c := candidates[ci]
		pick := Pick{Field: c.Field, Activity: c.Activity, Kind: c.Kind}
		result := PenaltyCost(sc, idx, pick)
		if result.Hard || result.Cost >= sc.Config.ViableCostCeiling {
			continue
		}
		if !found || result.Cost < bestCost {
			bestCost = result.Cost
			bestPick = pick
			found = true
		}
	}
	return bestPick, bestCost, found
}

// lastChanceRescan re-enumerates the full global candidate list against
// the live schedule when a block's domain was emptied by over-eager
// pruning (spec.md §4.10 "last-chance rescan").
func lastChanceRescan(sc *SolverContext, idx int) (Pick, int, bool) {
	blk := sc.Blocks[idx]
	best := sc.Config.ViableCostCeiling
	var bestPick Pick
	found := false
	for _, c := range sc.Candidates.All() {
		if sc.HasDoneToday(blk.Bunk, c.Activity) {
			continue
		}
		if blk.HasKnownTime() {
			iv := blk.interval()
			if sc.Locked(c.Field, iv, blk.DivName) {
				continue
			}
			if f, ok := sc.Fields[c.fieldNorm]; ok && !f.availableAt(iv) {
				continue
			}
		}
		pick := Pick{Field: c.Field, Activity: c.Activity, Kind: c.Kind}
		result := PenaltyCost(sc, idx, pick)
		if result.Hard || result.Cost >= sc.Config.ViableCostCeiling {
			continue
		}
		if !found || result.Cost < best {
			best = result.Cost
			bestPick = pick
			found = true
		}
	}
	return bestPick, best, found
}

// propagateBackjump prunes newly-committed pick's overlap neighbors'
// domains, same contract as C8's cascade.
func propagateBackjump(sc *SolverContext, domains *Domains, adj map[int][]int, idx int, pick Pick) {
	if pick.IsFree() {
		return
	}
	blk := sc.Blocks[idx]
	for _, nIdx := range adj[idx] {
		if sc.IsAssigned(nIdx) {
			continue
		}
		pruneDomain(sc, domains, nIdx, blk, pick)
	}
}
