package scheduler

import (
	"sort"

	"github.com/google/uuid"
)

// ConflictEntry is one bunk's displaced cell, supplied by the caller when
// invoking Post-Edit Repair (spec.md §4.15).
type ConflictEntry struct {
	Bunk             string
	Slots            []int
	OriginalActivity string
}

// RepairRequest is C14's entry contract (spec.md §4.15).
type RepairRequest struct {
	PinnedBunk     string
	PinnedSlots    []int
	PinnedField    string
	PinnedActivity string
	PinnedDivName  string
	PinnedStartMin int
	PinnedEndMin   int
	Conflicts      []ConflictEntry
	BypassMode     bool
}

// RepairResult is C14's return contract (spec.md §4.15). LockID identifies
// this repair's pin for correlation across the caller's audit log and
// storage layer; it has no bearing on the engine's own behavior.
type RepairResult struct {
	LockID     string
	Reassigned []int
	Failed     []int
	PinnedLock Lock
}

// RunPostEditRepair is C14 (spec.md §4.15): pins a single cell, then
// reassigns every displaced conflict bunk using §4.12 over the candidate
// set minus the pinned field. `bypassMode` only changes which conflicts
// the caller was permitted to submit; the engine's behavior is identical
// either way (spec.md §4.15).
func RunPostEditRepair(sc *SolverContext, req RepairRequest) RepairResult {
	lock := Lock{
		Field:          req.PinnedField,
		StartMin:       req.PinnedStartMin,
		EndMin:         req.PinnedEndMin,
		AllowedDivName: req.PinnedDivName,
	}
	sc.Locks = append(sc.Locks, lock)

	conflictBunks := make(map[string]bool, len(req.Conflicts))
	for _, c := range req.Conflicts {
		conflictBunks[c.Bunk] = true
	}

	rebuildTimeIndexExcluding(sc, conflictBunks, req)

	ordered := make([]string, 0, len(req.Conflicts))
	for _, c := range req.Conflicts {
		ordered = append(ordered, c.Bunk)
	}
	// Numeric order (spec.md §4.15 step 4), not lexicographic: "Cabin2" must
	// come before "Cabin10" when ranking who gets first pick of the scarce
	// candidate set.
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := sc.Bunks[ordered[i]].NumericSuffix(), sc.Bunks[ordered[j]].NumericSuffix()
		if si != sj {
			return si < sj
		}
		return ordered[i] < ordered[j]
	})

	result := RepairResult{LockID: uuid.NewString(), PinnedLock: lock}
	for _, bunkName := range ordered {
		idx, ok := blockForConflictBunk(sc, bunkName, req)
		if !ok {
			continue
		}
		pick, cost, found := bestAvoidingField(sc, idx, req.PinnedField)
		if found {
			sc.Apply(idx, pick, cost)
			result.Reassigned = append(result.Reassigned, idx)
		} else {
			sc.AssignFree(idx)
			result.Failed = append(result.Failed, idx)
		}
	}
	return result
}

// rebuildTimeIndexExcluding rebuilds sc.TimeIndex from the live schedule,
// skipping any entry belonging to a conflict bunk, then injects the pinned
// bunk's usage directly (spec.md §4.15 step 3).
func rebuildTimeIndexExcluding(sc *SolverContext, conflictBunks map[string]bool, req RepairRequest) {
	fresh := NewTimeIndex()
	for idx, a := range sc.Assignments {
		blk := sc.Blocks[idx]
		if a.Pick.IsFree() || conflictBunks[a.Bunk] || !blk.HasKnownTime() {
			continue
		}
		fresh.Insert(a.Pick.Field, blk.interval(), a.Bunk, a.DivName, a.Pick.Activity)
	}
	fresh.Insert(req.PinnedField, interval{Start: req.PinnedStartMin, End: req.PinnedEndMin}, req.PinnedBunk, req.PinnedDivName, req.PinnedActivity)
	sc.TimeIndex = fresh
	sc.todayCache = make(map[string]map[string]bool)
}

// blockForConflictBunk finds the block index for bunkName matching the
// conflict's slot set.
func blockForConflictBunk(sc *SolverContext, bunkName string, req RepairRequest) (int, bool) {
	for i, blk := range sc.Blocks {
		if blk.Bunk != bunkName {
			continue
		}
		for _, c := range req.Conflicts {
			if c.Bunk == bunkName && slotsEqual(c.Slots, blk.Slots) {
				return i, true
			}
		}
	}
	return 0, false
}

func slotsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// bestAvoidingField scores the full candidate set minus avoidField via
// §4.12 and returns the cheapest viable pick; the caller commits it.
func bestAvoidingField(sc *SolverContext, idx int, avoidField string) (Pick, int, bool) {
	best := sc.Config.ViableCostCeiling
	var bestPick Pick
	found := false
	for _, c := range sc.Candidates.All() {
		if normalizeName(c.Field) == normalizeName(avoidField) {
			continue
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
