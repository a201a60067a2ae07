package scheduler

import "sort"

// scoredOption is one viable (field,activity) choice for a block, pre-
// scored against the live schedule at the moment the group started.
type scoredOption struct {
	pick Pick
	cost int
}

// RunGroupMatcher is C9: bipartite matching per time-equivalence group with
// augmenting-path rebalancing (spec.md §4.9). Groups are processed smallest
// first to expose forced picks early; within a group, blocks are ordered
// MRV (domain size ascending, ties by blockIdx).
func RunGroupMatcher(sc *SolverContext, domains *Domains) {
	type groupEntry struct {
		key     GroupKey
		members []int
	}
	var groups []groupEntry
	for k, m := range domains.Groups() {
		groups = append(groups, groupEntry{key: k, members: m})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) < len(groups[j].members)
		}
		if groups[i].key.StartMin != groups[j].key.StartMin {
			return groups[i].key.StartMin < groups[j].key.StartMin
		}
		return groups[i].key.DivName < groups[j].key.DivName
	})

	for _, g := range groups {
		runGroup(sc, domains, g.members)
	}
}

func runGroup(sc *SolverContext, domains *Domains, members []int) {
	var unassigned []int
	for _, idx := range members {
		if !sc.IsAssigned(idx) {
			unassigned = append(unassigned, idx)
		}
	}
	if len(unassigned) == 0 {
		return
	}

	options := make(map[int][]scoredOption, len(unassigned))
	reservedActivity := make(map[string]map[string]bool) // bunk -> activity -> reserved in-group

	for _, idx := range unassigned {
		options[idx] = scoreOptions(sc, domains, idx, reservedActivity)
	}

	sort.Slice(unassigned, func(i, j int) bool {
		li, lj := len(domains.Block(unassigned[i])), len(domains.Block(unassigned[j]))
		if li != lj {
			return li < lj
		}
		return unassigned[i] < unassigned[j]
	})

	holder := make(map[string]int) // normalized field name -> blockIdx currently holding it in-group

	for _, idx := range unassigned {
		if sc.IsAssigned(idx) {
			continue
		}
		assignBestOrAugment(sc, domains, idx, options, holder, reservedActivity)
	}
}

// scoreOptions enumerates idx's current domain, filters out activities
// already reserved in-group or done today, scores the rest, and returns
// them sorted ascending by cost, keeping only sub-ceiling options.
func scoreOptions(sc *SolverContext, domains *Domains, idx int, reserved map[string]map[string]bool) []scoredOption {
	blk := sc.Blocks[idx]
	candidates := sc.Candidates.All()
	var out []scoredOption
	for _, ci := range domains.Block(idx) {
		c := candidates[ci]
		if reserved[blk.Bunk][c.activityNorm] {
			continue
		}
		if sc.HasDoneToday(blk.Bunk, c.Activity) {
			continue
		}
		pick := Pick{Field: c.Field, Activity: c.Activity, Kind: c.Kind}
		result := PenaltyCost(sc, idx, pick)
		if result.Hard || result.Cost >= sc.Config.ViableCostCeiling {
			continue
		}
		out = append(out, scoredOption{pick: pick, cost: result.Cost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].cost < out[j].cost })
	return out
}

func commitOption(sc *SolverContext, idx int, opt scoredOption, holder map[string]int, reserved map[string]map[string]bool) {
	blk := sc.Blocks[idx]
	sc.Apply(idx, opt.pick, opt.cost)
	holder[normalizeName(opt.pick.Field)] = idx
	if reserved[blk.Bunk] == nil {
		reserved[blk.Bunk] = make(map[string]bool)
	}
	reserved[blk.Bunk][normalizeName(opt.pick.Activity)] = true
}

// fits reports whether opt is currently committable: room on the field,
// no cross-division conflict, no activity mismatch.
func fits(sc *SolverContext, idx int, opt scoredOption) bool {
	blk := sc.Blocks[idx]
	if !blk.HasKnownTime() {
		return true
	}
	iv := blk.interval()
	if _, conflict := sc.TimeIndex.CrossDivConflict(opt.pick.Field, blk.DivName, iv, blk.Bunk); conflict {
		return false
	}
	if _, mismatch := sc.TimeIndex.ActivityMismatch(opt.pick.Field, iv, opt.pick.Activity, blk.Bunk); mismatch {
		return false
	}
	return sc.CapacityOK(opt.pick.Field, blk.DivName, iv, blk.Bunk)
}

// assignBestOrAugment implements step 3 of spec.md §4.9: commit the
// cheapest option that fits, else attempt a 1-level augmenting path, else
// record Free.
func assignBestOrAugment(sc *SolverContext, domains *Domains, idx int, options map[int][]scoredOption, holder map[string]int, reserved map[string]map[string]bool) {
	for _, opt := range options[idx] {
		if fits(sc, idx, opt) {
			commitOption(sc, idx, opt, holder, reserved)
			return
		}
	}

	if len(options[idx]) > 0 {
		top := options[idx][0]
		props, ok := sc.FieldProps.lookup(top.pick.Field)
		if ok && props.Sharing == NotSharable {
			if holderIdx, atCapacity := holder[normalizeName(top.pick.Field)]; atCapacity {
				if augment(sc, domains, idx, holderIdx, options, holder, reserved) {
					return
				}
			}
		}
	}

	sc.AssignFree(idx)
}

// augment tries to free top's field for idx by relocating holderIdx to an
// alternative field from its own option list (spec.md §4.9 "1-level
// augmenting path").
func augment(sc *SolverContext, domains *Domains, idx, holderIdx int, options map[int][]scoredOption, holder map[string]int, reserved map[string]map[string]bool) bool {
	origAssignment := sc.Assignments[holderIdx]
	holderField := origAssignment.Pick.Field

	// Find idx's option on the holder's field before mutating anything, so
	// a miss costs nothing.
	topIdx := -1
	for i, o := range options[idx] {
		if normalizeName(o.pick.Field) == normalizeName(holderField) {
			topIdx = i
			break
		}
	}
	if topIdx == -1 {
		return false
	}
	target := options[idx][topIdx]

	for _, alt := range options[holderIdx] {
		if normalizeName(alt.pick.Field) == normalizeName(holderField) {
			continue
		}
		if !fits(sc, holderIdx, alt) {
			continue
		}

		sc.Undo(holderIdx)
		sc.Apply(holderIdx, alt.pick, alt.cost)

		if !fits(sc, idx, target) {
			sc.Undo(holderIdx)
			sc.Apply(holderIdx, origAssignment.Pick, origAssignment.Cost)
			continue
		}

		holder[normalizeName(alt.pick.Field)] = holderIdx
		if reserved[sc.Blocks[holderIdx].Bunk] == nil {
			reserved[sc.Blocks[holderIdx].Bunk] = make(map[string]bool)
		}
		reserved[sc.Blocks[holderIdx].Bunk][normalizeName(alt.pick.Activity)] = true

		commitOption(sc, idx, target, holder, reserved)
		return true
	}
	return false
}
