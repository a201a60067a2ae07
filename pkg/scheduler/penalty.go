package scheduler

// CostResult is the explicit result-enum spec.md §9 calls for ("Exception-
// style early returns → explicit result enums"): the penalty function
// returns either a hard-gate tag or a soft i32 cost. Callers branch on
// Hard, never on a sentinel cost value.
type CostResult struct {
	Hard   bool
	Reason string
	Cost   int
}

// PenaltyCost computes §4.12's cost for assigning pick to blockIdx against
// the *current* live schedule (sc.Assignments/sc.TimeIndex at the moment of
// the call). A Free pick short-circuits to the Free penalty; every other
// pick runs the hard gates first, then sums every soft term.
func PenaltyCost(sc *SolverContext, blockIdx int, pick Pick) CostResult {
	if pick.IsFree() {
		return CostResult{Cost: sc.Config.FreeCost}
	}

	blk := sc.Blocks[blockIdx]
	bunk := sc.Bunks[blk.Bunk]
	w := sc.Config.Weights

	if hard, reason := hardGates(sc, blk, pick); hard {
		return CostResult{Hard: true, Reason: reason, Cost: sc.Config.HardGateCost}
	}

	cost := sc.Rotation.Score(blk.Bunk, pick.Activity)

	cost += typeBalanceTerm(sc, blk, pick, w.TypeBalanceMin, w.TypeBalanceMax)

	if act, ok := sc.Activities[normalizeName(pick.Activity)]; ok && act.MaxPlayers > 0 && bunk.Size > act.MaxPlayers {
		cost += w.OversizeBunkPenalty
	}

	cost += divisionPreferenceTerm(sc, blk, pick, w.DivisionPreferenceBase, w.DivisionPreferenceStep, w.DivisionNotListedPenalty)

	cost += sharingIncentiveTerm(sc, blk, pick, w.SharingEmptyBonus, w.SharingSameActivity, w.SharingDifferentActivity)

	cost += fillToCapacityTerm(sc, blk, pick, w.FillBase, w.FillSlope, w.EmptySharableBonus)

	cost += adjacentBunkTerm(sc, blk, pick, w.AdjacentDistance1, w.AdjacentDistance3, w.AdjacentOther)

	if plan, ok := sc.Plan[blockIdx]; ok {
		if normalizeName(plan.Activity) == normalizeName(pick.Activity) {
			cost += plan.Steering
		} else {
			cost += w.PlanMismatchPenalty
		}
	}

	if ratio, ok := sc.Scarcity[scarcityKey{Activity: normalizeName(pick.Activity), StartMin: blk.StartMin}]; ok {
		if ratio > 2 {
			cost += w.ScarcityOver2
		}
		if ratio > 3 {
			cost += w.ScarcityOver3
		}
	}

	cost += skeletonTerm(sc, blockIdx, pick, w.SkeletonInterleaveBonus, w.SkeletonSameTypePenalty)

	cost += uniqueResourceTerm(sc, pick, w.UniqueResourcePenalty)

	cost += zoneContinuityTerm(sc, blk, pick, w.ZoneContinuityBonus, w.ZoneChangePenalty)

	cost -= sc.Resources.TimeConstrainedBoost(pick.Field)

	cost += sc.Debt[debtKey{Bunk: blk.Bunk, Activity: pick.Activity}]

	cost += sc.TieBreakNoise()

	return CostResult{Cost: cost}
}

// hardGates runs every §4.12 hard gate in spec order, short-circuiting on
// the first violation.
func hardGates(sc *SolverContext, blk Block, pick Pick) (bool, string) {
	if sc.HasDoneToday(blk.Bunk, pick.Activity) {
		return true, "same-day repeat"
	}
	if blk.HasKnownTime() {
		iv := blk.interval()
		if _, conflict := sc.TimeIndex.CrossDivConflict(pick.Field, blk.DivName, iv, blk.Bunk); conflict {
			return true, "cross-division conflict"
		}
		if _, mismatch := sc.TimeIndex.ActivityMismatch(pick.Field, iv, pick.Activity, blk.Bunk); mismatch {
			return true, "activity mismatch on shared field"
		}
		if !sc.CapacityOK(pick.Field, blk.DivName, iv, blk.Bunk) {
			return true, "capacity exceeded"
		}
	}
	if sc.ExclusiveExcludes(pick.Field, blk.DivName) {
		return true, "exclusive preference excludes division"
	}
	if sc.RotationForbidden(blk.Bunk, pick.Activity) {
		return true, "rotation oracle forbids"
	}
	if sc.MaxUsageMet(blk.Bunk, pick.Field, pick.Activity) {
		return true, "max usage met"
	}
	return false, ""
}

// typeBalanceTerm pushes "General Activity Slot" events toward an even
// sports/specials split for the bunk (spec.md §4.12).
func typeBalanceTerm(sc *SolverContext, blk Block, pick Pick, bonus, penalty int) int {
	if blk.Event != "General Activity Slot" {
		return 0
	}
	sports, specials := 0, 0
	for _, a := range sc.Assignments {
		if a.Bunk != blk.Bunk || a.Pick.IsFree() {
			continue
		}
		if a.Pick.Kind == KindSport {
			sports++
		} else {
			specials++
		}
	}
	switch {
	case sports > specials:
		if pick.Kind == KindSport {
			return penalty
		}
		return -bonus
	case specials > sports:
		if pick.Kind == KindSpecial {
			return penalty
		}
		return -bonus
	default:
		return 0
	}
}

func divisionPreferenceTerm(sc *SolverContext, blk Block, pick Pick, base, step, notListedPenalty int) int {
	props, ok := sc.FieldProps.lookup(pick.Field)
	if !ok || !props.Preferences.Enabled {
		return notListedPenalty
	}
	rank := props.Preferences.rank(blk.DivName)
	if rank == -1 {
		return notListedPenalty
	}
	return -(base - rank*step)
}

func sharingIncentiveTerm(sc *SolverContext, blk Block, pick Pick, emptyBonus, sameActivity, differentActivity int) int {
	if !blk.HasKnownTime() {
		return emptyBonus
	}
	iv := blk.interval()
	if sc.TimeIndex.Usage(pick.Field, iv, blk.Bunk) == 0 {
		return emptyBonus
	}
	if _, mismatch := sc.TimeIndex.ActivityMismatch(pick.Field, iv, pick.Activity, blk.Bunk); mismatch {
		return differentActivity
	}
	return sameActivity
}

func fillToCapacityTerm(sc *SolverContext, blk Block, pick Pick, base, slope, emptyBonus int) int {
	props, ok := sc.FieldProps.lookup(pick.Field)
	if !ok || props.Sharing == NotSharable || !blk.HasKnownTime() {
		return 0
	}
	iv := blk.interval()
	sameDivCount := sc.TimeIndex.SameDivUsage(pick.Field, blk.DivName, iv, blk.Bunk)
	if sameDivCount == 0 {
		return emptyBonus
	}
	if _, mismatch := sc.TimeIndex.ActivityMismatch(pick.Field, iv, pick.Activity, blk.Bunk); mismatch {
		return 0
	}
	denom := props.Capacity - 1
	if denom <= 0 {
		denom = 1
	}
	fillRatio := float64(sameDivCount) / float64(denom)
	return -(base + int(float64(slope)*fillRatio))
}

func adjacentBunkTerm(sc *SolverContext, blk Block, pick Pick, d1, d3, otherwise int) int {
	if !blk.HasKnownTime() {
		return 0
	}
	entries := sc.TimeIndex.Entries(pick.Field)
	self := sc.Bunks[blk.Bunk].NumericSuffix()
	if self == -1 {
		return 0
	}
	best := -1
	for _, e := range entries {
		if e.Bunk == blk.Bunk || !e.interval().Overlaps(blk.interval()) {
			continue
		}
		neighbor := sc.Bunks[e.Bunk]
		if neighbor.NumericSuffix() == -1 {
			continue
		}
		d := abs(self - neighbor.NumericSuffix())
		if best == -1 || d < best {
			best = d
		}
	}
	switch {
	case best == -1:
		return 0
	case best == 1:
		return d1
	case best <= 3:
		return d3
	default:
		return otherwise
	}
}

func skeletonTerm(sc *SolverContext, blockIdx int, pick Pick, interleaveBonus, sameTypePenalty int) int {
	ctx := sc.Resources.Skeleton(blockIdx)
	highEnergy := func(k SkeletonKind) bool { return k == SkeletonSport || k == SkeletonGeneral }
	term := 0
	for _, neighbor := range []SkeletonKind{ctx.Prev, ctx.Next} {
		if !highEnergy(neighbor) {
			continue
		}
		if pick.Kind == KindSport {
			term += sameTypePenalty
		} else {
			term += interleaveBonus
		}
	}
	return term
}

func uniqueResourceTerm(sc *SolverContext, pick Pick, penalty int) int {
	if sc.Resources.UniqueFieldCount(pick.Activity) <= 1 {
		return 0
	}
	f, ok := sc.Fields[normalizeName(pick.Field)]
	if !ok {
		return 0
	}
	for otherActivity := range f.Activities {
		if normalizeName(otherActivity) == normalizeName(pick.Activity) {
			continue
		}
		if sc.Resources.UniqueFieldCount(otherActivity) == 1 {
			return penalty
		}
	}
	return 0
}

func zoneContinuityTerm(sc *SolverContext, blk Block, pick Pick, continuityBonus, changePenalty int) int {
	props, ok := sc.FieldProps.lookup(pick.Field)
	if !ok || props.Zone == "" {
		return 0
	}
	prevField := ""
	prevEnd := -1
	for _, a := range sc.Assignments {
		if a.Bunk != blk.Bunk || a.Pick.IsFree() {
			continue
		}
		other := sc.Blocks[a.BlockIdx]
		if !other.HasKnownTime() || other.EndMin > blk.StartMin {
			continue
		}
		if other.EndMin > prevEnd {
			prevEnd = other.EndMin
			prevField = a.Pick.Field
		}
	}
	if prevField == "" {
		return 0
	}
	prevProps, ok := sc.FieldProps.lookup(prevField)
	if !ok || prevProps.Zone == "" {
		return 0
	}
	if prevProps.Zone == props.Zone {
		return continuityBonus
	}
	return changePenalty
}
