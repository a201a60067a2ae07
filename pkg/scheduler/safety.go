package scheduler

// RunSafetySweeps is C15 (spec.md §4.16): final cross-division and
// same-day-duplicate scans over every commit. Any undo triggers one more
// Deep Free Resolver pass over the newly-Free blocks.
func RunSafetySweeps(sc *SolverContext) {
	undone := false
	if crossDivisionSweep(sc) {
		undone = true
	}
	if sameDayDuplicateSweep(sc) {
		undone = true
	}
	if undone {
		RunDeepFreeResolver(sc)
	}
}

// crossDivisionSweep groups commits by (field, startMin, endMin); any group
// spanning ≥2 divisions keeps only one member, and any group whose members
// disagree on activity keeps only the first (spec.md §4.16 step 1).
func crossDivisionSweep(sc *SolverContext) bool {
	type cellKey struct {
		Field    string
		StartMin int
		EndMin   int
	}
	groups := make(map[cellKey][]int)
	for idx, a := range sc.Assignments {
		blk := sc.Blocks[idx]
		if a.Pick.IsFree() || !blk.HasKnownTime() {
			continue
		}
		key := cellKey{Field: normalizeName(a.Pick.Field), StartMin: blk.StartMin, EndMin: blk.EndMin}
		groups[key] = append(groups[key], idx)
	}

	undone := false
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}

		divSeen := map[string]bool{}
		for _, idx := range members {
			divSeen[sc.Blocks[idx].DivName] = true
		}
		if len(divSeen) >= 2 {
			for _, idx := range members[1:] {
				sc.Undo(idx)
				undone = true
			}
			continue
		}

		firstActivity := normalizeName(sc.Assignments[members[0]].Pick.Activity)
		for _, idx := range members[1:] {
			if normalizeName(sc.Assignments[idx].Pick.Activity) != firstActivity {
				sc.Undo(idx)
				undone = true
			}
		}
	}
	return undone
}

// sameDayDuplicateSweep builds a bunk->activity->blockIdx map over every
// commit; on a duplicate, the higher-cost assignment is undone (spec.md
// §4.16 step 2).
func sameDayDuplicateSweep(sc *SolverContext) bool {
	seen := make(map[string]map[string]int) // bunk -> activity -> blockIdx
	undone := false

	for idx, a := range sc.Assignments {
		if a.Pick.IsFree() {
			continue
		}
		activity := normalizeName(a.Pick.Activity)
		byActivity, ok := seen[a.Bunk]
		if !ok {
			byActivity = make(map[string]int)
			seen[a.Bunk] = byActivity
		}
		prevIdx, dup := byActivity[activity]
		if !dup {
			byActivity[activity] = idx
			continue
		}
		if sc.Assignments[idx].Cost > sc.Assignments[prevIdx].Cost {
			sc.Undo(idx)
		} else {
			sc.Undo(prevIdx)
			byActivity[activity] = idx
		}
		undone = true
	}
	return undone
}
