package scheduler

// Locked reports whether fieldName is forbidden during iv for divName,
// checking both the explicit Lock list (upstream league placement and
// repair pins, spec.md §3 "Lock") and the caller-supplied GlobalLocks hook
// (spec.md §6.1 "globalFieldLocks").
func (sc *SolverContext) Locked(fieldName string, iv interval, divName string) bool {
	for _, l := range sc.Locks {
		if normalizeName(l.Field) == normalizeName(fieldName) && l.covers(divName, iv) {
			return true
		}
	}
	if sc.GlobalLocks != nil {
		return sc.GlobalLocks(fieldName, iv, divName)
	}
	return false
}

// ExclusiveExcludes reports whether fieldName's exclusive preference list
// excludes divName (spec.md §4.7 step 2, §4.12 hard gate "Exclusive
// preference excludes this division").
func (sc *SolverContext) ExclusiveExcludes(fieldName, divName string) bool {
	props, ok := sc.FieldProps.lookup(fieldName)
	if !ok || !props.Preferences.Enabled || !props.Preferences.Exclusive {
		return false
	}
	return props.Preferences.rank(divName) == -1
}

// CapacityOK reports whether assigning fieldName to divName during iv
// (excluding excludeBunk, e.g. the bunk being re-scored) stays within
// capacity, per the sharing-mode capacity rule of spec.md §4.7 step 2:
// not_sharable counts the whole index; every other mode counts only
// same-division usage.
func (sc *SolverContext) CapacityOK(fieldName, divName string, iv interval, excludeBunk string) bool {
	props, ok := sc.FieldProps.lookup(fieldName)
	if !ok {
		props = fieldProps{Capacity: 1, Sharing: NotSharable}
	}
	if props.Sharing == NotSharable {
		return sc.TimeIndex.Usage(fieldName, iv, excludeBunk) < props.Capacity
	}
	return sc.TimeIndex.SameDivUsage(fieldName, divName, iv, excludeBunk) < props.Capacity
}

// WouldConflict is the C8 conflict predicate (spec.md §4.8): given the
// already-committed (aBlock, aPick) and a candidate (bBlock, bCand), reports
// whether committing bCand to bBlock would violate sharing rules relative
// to aPick (used for the neighbor-vs-neighbor pairwise pruning inside
// AC-3). The live time index is consulted only for the same-division
// capacity count on sharable fields.
func (sc *SolverContext) WouldConflict(aBlock Block, aPick Pick, bBlock Block, bCand Candidate) bool {
	if normalizeName(aPick.Field) != bCand.fieldNorm {
		return false
	}
	if !aBlock.HasKnownTime() || !bBlock.HasKnownTime() {
		return false
	}
	if !aBlock.interval().Overlaps(bBlock.interval()) {
		return false
	}
	props, ok := sc.FieldProps.lookup(aPick.Field)
	if !ok {
		props = fieldProps{Capacity: 1, Sharing: NotSharable}
	}
	switch props.Sharing {
	case NotSharable:
		return true
	default:
		if aBlock.DivName != bBlock.DivName {
			return true
		}
		overlap := interval{
			Start: maxInt(aBlock.StartMin, bBlock.StartMin),
			End:   minInt(aBlock.EndMin, bBlock.EndMin),
		}
		return sc.TimeIndex.SameDivUsage(aPick.Field, aBlock.DivName, overlap, "") >= props.Capacity
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RotationForbidden reports whether the oracle forbids bunk from doing
// activity (PosInf score), per spec.md §4.12's hard gate.
func (sc *SolverContext) RotationForbidden(bunk, activity string) bool {
	return sc.Rotation.Score(bunk, activity) >= PosInf
}

// MaxUsageMet reports whether bunk has already reached activity's or the
// hosting field's per-season maxUsage cap (spec.md §4.12 hard gate). The
// engine only has the live in-solve schedule to count against; a season-
// long cap is necessarily approximated by counting uses within this
// solve's block set, which is the correct behavior for a single-day solve
// (spec.md §1 "a solve is a single-threaded batch over a point-in-time
// snapshot") since cross-day usage already folded into the Rotation Oracle.
func (sc *SolverContext) MaxUsageMet(bunk, fieldName, activityName string) bool {
	count := func(matchActivity bool) int {
		n := 0
		for _, a := range sc.Assignments {
			if a.Bunk != bunk || a.Pick.IsFree() {
				continue
			}
			if matchActivity && normalizeName(a.Pick.Activity) == normalizeName(activityName) {
				n++
			}
			if !matchActivity && normalizeName(a.Pick.Field) == normalizeName(fieldName) {
				n++
			}
		}
		return n
	}
	if act, ok := sc.Activities[normalizeName(activityName)]; ok && act.MaxUsage.Enabled {
		if count(true) >= act.MaxUsage.Max {
			return true
		}
	}
	if f, ok := sc.Fields[normalizeName(fieldName)]; ok && f.MaxUsage.Enabled {
		if count(false) >= f.MaxUsage.Max {
			return true
		}
	}
	return false
}
