package scheduler

import "sort"

// buildOverlapGraph returns, for every known-time non-league block, the set
// of other blocks whose wall-clock interval can overlap it: every other
// member of its C7 group (intra-group), plus cross-group edges found by
// sweeping groups sorted by StartMin (spec.md §4.8 "Builds an overlap
// graph").
func buildOverlapGraph(sc *SolverContext, domains *Domains) map[int][]int {
	adj := make(map[int][]int)

	addEdge := func(a, b int) {
		if a == b {
			return
		}
		adj[a] = append(adj[a], b)
	}

	// Intra-group: every pair in the same group is adjacent.
	for _, members := range domains.Groups() {
		for i := range members {
			for j := range members {
				if i != j {
					addEdge(members[i], members[j])
				}
			}
		}
	}

	// Cross-group: sort groups by start, sweep for start-before-end overlaps.
	type groupInfo struct {
		key     GroupKey
		members []int
	}
	var groups []groupInfo
	for k, m := range domains.Groups() {
		groups = append(groups, groupInfo{key: k, members: m})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key.StartMin < groups[j].key.StartMin })

	for a := 0; a < len(groups); a++ {
		for b := a + 1; b < len(groups); b++ {
			if groups[b].key.StartMin >= groups[a].key.EndMin {
				break
			}
			for _, bi := range groups[a].members {
				for _, bj := range groups[b].members {
					addEdge(bi, bj)
					addEdge(bj, bi)
				}
			}
		}
	}

	return adj
}

// RunAC3 is C8: arc consistency with singleton auto-assignment and cascade
// (spec.md §4.8). It mutates domains in place and commits singleton/forced
// picks through sc.Apply.
func RunAC3(sc *SolverContext, domains *Domains) {
	adj := buildOverlapGraph(sc, domains)
	candidates := sc.Candidates.All()

	queue := make([]int, 0, len(sc.Blocks))
	queued := make(map[int]bool)
	enqueue := func(idx int) {
		if !queued[idx] {
			queue = append(queue, idx)
			queued[idx] = true
		}
	}
	for idx, blk := range sc.Blocks {
		if !blk.IsLeague {
			enqueue(idx)
		}
	}

	cap := sc.Config.AC3IterationMultiplier * len(sc.Blocks)
	if cap <= 0 {
		cap = len(sc.Blocks) * 10
	}

	iterations := 0
	for len(queue) > 0 && iterations < cap {
		iterations++
		idx := queue[0]
		queue = queue[1:]
		queued[idx] = false

		if sc.IsAssigned(idx) {
			continue
		}
		blk := sc.Blocks[idx]
		domain := domains.Block(idx)

		switch {
		case len(domain) == 0:
			// Leave unassigned; C10 or the Free fallback handles it.
		case len(domain) == 1:
			cand := candidates[domain[0]]
			pick := Pick{Field: cand.Field, Activity: cand.Activity, Kind: cand.Kind}
			if blk.HasKnownTime() {
				if _, conflict := sc.TimeIndex.CrossDivConflict(cand.Field, blk.DivName, blk.interval(), blk.Bunk); conflict {
					sc.AssignFree(idx)
					break
				}
			}
			sc.Apply(idx, pick, sc.Rotation.Score(blk.Bunk, cand.Activity))
			for _, nIdx := range adj[idx] {
				if sc.IsAssigned(nIdx) {
					continue
				}
				if pruneDomain(sc, domains, nIdx, blk, pick) {
					enqueue(nIdx)
				}
			}
		default:
			changed := false
			for _, nIdx := range adj[idx] {
				if !sc.IsAssigned(nIdx) {
					continue
				}
				nBlk := sc.Blocks[nIdx]
				nPick := sc.Assignments[nIdx].Pick
				if pruneDomain(sc, domains, idx, nBlk, nPick) {
					changed = true
				}
			}
			if changed {
				enqueue(idx)
			}
		}
	}
}

// pruneDomain removes from domains.Block(blockIdx) every candidate that
// would conflict with an assigned neighbor's (assignedBlock, assignedPick).
// Returns whether the domain changed.
func pruneDomain(sc *SolverContext, domains *Domains, blockIdx int, assignedBlock Block, assignedPick Pick) bool {
	if assignedPick.IsFree() {
		return false
	}
	candidates := sc.Candidates.All()
	domain := domains.Block(blockIdx)
	blk := sc.Blocks[blockIdx]

	out := domain[:0:0]
	changed := false
	for _, ci := range domain {
		if sc.WouldConflict(assignedBlock, assignedPick, blk, candidates[ci]) {
			changed = true
			continue
		}
		out = append(out, ci)
	}
	if changed {
		domains.SetBlock(blockIdx, out)
	}
	return changed
}
