package scheduler

// Apply commits pick to block blockIdx: records the assignment, inserts a
// time-index entry when the block's wall-clock interval is known and the
// pick is non-Free, and invalidates the bunk's today-cache. Every component
// (C8-C15) commits single picks through Apply/Undo so the round-trip law
// of spec.md §8 holds by construction; the only other writes are the
// wholesale resets resetLiveSchedule (solve.go) and
// rebuildTimeIndexExcluding (repair.go), which also clear the today-cache.
func (sc *SolverContext) Apply(blockIdx int, pick Pick, cost int) {
	blk := sc.Blocks[blockIdx]
	sc.Assignments[blockIdx] = Assignment{
		BlockIdx: blockIdx,
		Bunk:     blk.Bunk,
		DivName:  blk.DivName,
		Slots:    blk.Slots,
		Pick:     pick,
		Cost:     cost,
	}
	if !pick.IsFree() && blk.HasKnownTime() {
		sc.TimeIndex.Insert(pick.Field, blk.interval(), blk.Bunk, blk.DivName, pick.Activity)
	}
	sc.invalidateToday(blk.Bunk)
}

// Undo reverts block blockIdx to Free, removing its time-index entry (if
// any) and invalidating the bunk's today-cache. apply(b,p); undo(b,p)
// leaves the live schedule and time index byte-identical to their
// pre-apply state (spec.md §8 round-trip law), since Undo recomputes the
// interval/field/activity from the assignment being replaced rather than
// trusting caller-supplied values.
func (sc *SolverContext) Undo(blockIdx int) {
	blk := sc.Blocks[blockIdx]
	prev := sc.Assignments[blockIdx]
	if !prev.Pick.IsFree() && blk.HasKnownTime() {
		sc.TimeIndex.Remove(prev.Pick.Field, blk.interval(), blk.Bunk)
	}
	sc.Assignments[blockIdx] = Assignment{
		BlockIdx: blockIdx,
		Bunk:     blk.Bunk,
		DivName:  blk.DivName,
		Slots:    blk.Slots,
		Pick:     FreePick,
		Cost:     FreeCost,
	}
	sc.invalidateToday(blk.Bunk)
}

// AssignFree commits the Free sentinel to blockIdx (a thin Apply wrapper
// for call sites that want to be explicit about the sentinel).
func (sc *SolverContext) AssignFree(blockIdx int) {
	sc.Apply(blockIdx, FreePick, FreeCost)
}

// IsAssigned reports whether blockIdx currently holds a non-Free pick.
func (sc *SolverContext) IsAssigned(blockIdx int) bool {
	return !sc.Assignments[blockIdx].Pick.IsFree()
}
