package scheduler

import "sort"

// wish is one ranked entry in a bunk's Phase A wish list (spec.md §4.6).
type wish struct {
	Activity     string
	Need         int
	NeedsSharing bool
}

// plannerGroupKey mirrors C7's (startMin, endMin, division) group key, but is
// computed independently since the planner (C6) runs before the domain
// builder (C7) in each pass.
type plannerGroupKey struct {
	StartMin int
	EndMin   int
	DivName  string
}

// RunActivityFirstPlanner is C6: for each (division, time-window) group, it
// builds wish lists, allocates activities against a finite per-window
// supply, and writes sc.Plan/sc.Scarcity steering hints consumed by the
// penalty function used in C9-C12 (spec.md §4.6); the C7 domain builder
// does not read them.
func RunActivityFirstPlanner(sc *SolverContext) {
	groups := groupBlocksForPlanner(sc.Blocks)

	keys := make([]plannerGroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StartMin != keys[j].StartMin {
			return keys[i].StartMin < keys[j].StartMin
		}
		if keys[i].DivName != keys[j].DivName {
			return keys[i].DivName < keys[j].DivName
		}
		return keys[i].EndMin < keys[j].EndMin
	})

	for _, key := range keys {
		planGroup(sc, key, groups[key])
	}
}

func groupBlocksForPlanner(blocks []Block) map[plannerGroupKey][]int {
	groups := make(map[plannerGroupKey][]int)
	for i, b := range blocks {
		if b.IsLeague || !b.HasKnownTime() {
			continue
		}
		key := plannerGroupKey{StartMin: b.StartMin, EndMin: b.EndMin, DivName: b.DivName}
		groups[key] = append(groups[key], i)
	}
	return groups
}

func planGroup(sc *SolverContext, key plannerGroupKey, blockIdxs []int) {
	// Phase A: wish lists, one per block (== one per bunk in this group).
	wishLists := make(map[int][]wish, len(blockIdxs))
	for _, idx := range blockIdxs {
		blk := sc.Blocks[idx]
		wishLists[idx] = buildWishList(sc, blk)
	}

	// Phase B.1: supply per activity = unique-host count.
	supply := make(map[string]int)
	demand := make(map[string]int)
	for _, idx := range blockIdxs {
		for _, w := range wishLists[idx] {
			if _, seen := supply[w.Activity]; !seen {
				supply[w.Activity] = sc.Resources.UniqueFieldCount(w.Activity)
			}
		}
		if len(wishLists[idx]) > 0 {
			demand[wishLists[idx][0].Activity]++
		}
	}

	// Phase B.2: pair small-flagged bunks with nearest unpaired neighbor.
	partner := pairSmallBunks(sc, blockIdxs)

	// Phase B.3: sort bunks (blocks) by shortest wish list first.
	order := make([]int, len(blockIdxs))
	copy(order, blockIdxs)
	sort.Slice(order, func(i, j int) bool {
		li, lj := len(wishLists[order[i]]), len(wishLists[order[j]])
		if li != lj {
			return li < lj
		}
		return order[i] < order[j]
	})

	allocated := make(map[int]wish, len(blockIdxs))

	for _, idx := range order {
		if _, done := allocated[idx]; done {
			continue
		}
		blk := sc.Blocks[idx]
		for wi, w := range wishLists[idx] {
			if supply[w.Activity] <= 0 {
				continue
			}
			if w.NeedsSharing {
				partnerIdx, hasPartner := partner[idx]
				if !hasPartner {
					continue
				}
				if _, partnerDone := allocated[partnerIdx]; partnerDone {
					continue
				}
				combined := sc.Bunks[blk.Bunk].Size + sc.Bunks[sc.Blocks[partnerIdx].Bunk].Size
				if act, ok := sc.Activities[normalizeName(w.Activity)]; ok && combined < act.MinPlayers {
					continue
				}
			}
			if projectedOverCapacity(sc, w.Activity, blockIdxs, allocated, blk.Bunk) {
				continue
			}
			allocated[idx] = w
			supply[w.Activity]--
			if wi > 0 {
				sc.Debt[debtKey{Bunk: blk.Bunk, Activity: wishLists[idx][0].Activity}] += sc.Config.Weights.DebtOffWishPenalty
			}
			if partnerIdx, hasPartner := partner[idx]; hasPartner && w.NeedsSharing {
				if _, done := allocated[partnerIdx]; !done && supply[w.Activity] >= 0 {
					if partnerWishMatches(wishLists[partnerIdx], w.Activity) {
						allocated[partnerIdx] = w
					}
				}
			}
			break
		}
	}

	// Phase C: write plan + scarcity.
	for idx, w := range allocated {
		sc.Plan[idx] = planEntry{Activity: w.Activity, Steering: sc.Config.Weights.PlanSteeringWeight}
	}
	for activity, d := range demand {
		s := sc.Resources.UniqueFieldCount(activity) // original supply before decrements
		if s <= 0 {
			continue
		}
		if float64(d) > float64(s) {
			sc.Scarcity[scarcityKey{Activity: activity, StartMin: key.StartMin}] = float64(d) / float64(s)
		}
	}
}

func countAllocated(allocated map[int]wish, activity string) int {
	n := 0
	for _, w := range allocated {
		if w.Activity == activity {
			n++
		}
	}
	return n
}

func partnerWishMatches(list []wish, activity string) bool {
	for _, w := range list {
		if w.Activity == activity {
			return true
		}
	}
	return false
}

// projectedOverCapacity reports whether allocating activity to an
// additional bunk (on top of whatever's already allocated this group plus
// joiningBunk) would push the projected player count above
// 1.3*maxPlayers (spec.md §4.6 Phase B.4.c).
func projectedOverCapacity(sc *SolverContext, activity string, blockIdxs []int, allocated map[int]wish, joiningBunk string) bool {
	act, ok := sc.Activities[normalizeName(activity)]
	if !ok || act.MaxPlayers <= 0 {
		return false
	}
	projected := sc.Bunks[joiningBunk].Size
	for idx, w := range allocated {
		if w.Activity == activity {
			projected += sc.Bunks[sc.Blocks[idx].Bunk].Size
		}
	}
	return float64(projected) > sc.Config.Weights.OversizeFillRatio*float64(act.MaxPlayers)
}

// buildWishList runs Phase A for one block/bunk.
func buildWishList(sc *SolverContext, blk Block) []wish {
	b := sc.Bunks[blk.Bunk]
	var list []wish
	for _, activity := range sc.Candidates.Activities() {
		if sc.HasDoneToday(blk.Bunk, activity) {
			continue
		}
		score := sc.Rotation.Score(blk.Bunk, activity)
		if score >= PosInf {
			continue
		}
		need := score + sc.Debt[debtKey{Bunk: blk.Bunk, Activity: activity}] + sc.Resources.TimeConstrainedBoost(activity)
		needsSharing := soloCheckHard(sc, b, activity)
		list = append(list, wish{Activity: activity, Need: need, NeedsSharing: needsSharing})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Need != list[j].Need {
			return list[i].Need < list[j].Need
		}
		return list[i].Activity < list[j].Activity
	})
	return list
}

// soloCheckHard reports whether bunk b cannot legally run activity alone
// (spec.md §4.6 "solo-player check fails with hard severity").
func soloCheckHard(sc *SolverContext, b Bunk, activity string) bool {
	act, ok := sc.Activities[normalizeName(activity)]
	if !ok || act.MinPlayers <= 0 {
		return false
	}
	return b.Size < act.MinPlayers
}

// pairSmallBunks pairs each small-flagged bunk in the group with its
// nearest unpaired neighbor by parsed numeric suffix (spec.md §4.6 Phase
// B.2). Returns a symmetric blockIdx -> partner blockIdx map.
func pairSmallBunks(sc *SolverContext, blockIdxs []int) map[int]int {
	type cand struct {
		idx    int
		suffix int
	}
	var small []cand
	for _, idx := range blockIdxs {
		b := sc.Bunks[sc.Blocks[idx].Bunk]
		if sc.Resources.IsSmallBunk(b.Name) {
			small = append(small, cand{idx: idx, suffix: b.NumericSuffix()})
		}
	}
	sort.Slice(small, func(i, j int) bool { return small[i].suffix < small[j].suffix })

	pairs := make(map[int]int)
	used := make(map[int]bool)
	for i := 0; i < len(small); i++ {
		if used[small[i].idx] {
			continue
		}
		best := -1
		bestDist := 1 << 30
		for j := 0; j < len(small); j++ {
			if i == j || used[small[j].idx] {
				continue
			}
			d := abs(small[i].suffix - small[j].suffix)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best == -1 {
			continue
		}
		pairs[small[i].idx] = small[best].idx
		pairs[small[best].idx] = small[i].idx
		used[small[i].idx] = true
		used[small[best].idx] = true
	}
	return pairs
}
