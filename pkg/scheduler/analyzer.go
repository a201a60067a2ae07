package scheduler

// PassScore is C13's per-pass analyzer output (spec.md §4.14).
type PassScore struct {
	FreeBlocks       int
	YesterdayRepeats int
	HardViolations   int
	SoftViolations   int
	Score            int
}

// PassReport is the SPEC_FULL-added serializable summary a CLI caller can
// surface across a solve's up-to-three passes (SPEC_FULL.md §6.3). ID
// identifies one Solve call's report for correlation in logs/storage and is
// stamped by the driver, not by AnalyzePass itself.
type PassReport struct {
	ID     string      `json:"id"`
	Passes []PassScore `json:"passes"`
}

// YesterdayRepeatFunc reports whether bunk already did activity yesterday
// (spec.md §4.14 "yesterdayRepeats"); supplied by the caller since the
// engine has no calendar of its own.
type YesterdayRepeatFunc func(bunk, activity string) bool

// AnalyzePass is C13 (spec.md §4.14): scores the just-completed pass and
// returns both the score and the per-(bunk,activity) debt delta to apply
// before the next pass. Debt itself is not mutated here; the driver calls
// ApplyDebtAdjustment once it decides to keep the pass's debt contribution.
func AnalyzePass(sc *SolverContext, yesterdayRepeat YesterdayRepeatFunc) (PassScore, map[debtKey]int) {
	w := sc.Config.Weights
	score := PassScore{}
	delta := make(map[debtKey]int)

	costSum := 0
	for idx, a := range sc.Assignments {
		blk := sc.Blocks[idx]
		if blk.IsLeague {
			continue
		}
		if a.Pick.IsFree() {
			score.FreeBlocks++
			delta[debtKey{Bunk: a.Bunk}] += w.DebtFreeBlockPenalty
			continue
		}
		if yesterdayRepeat != nil && yesterdayRepeat(a.Bunk, a.Pick.Activity) {
			score.YesterdayRepeats++
			delta[debtKey{Bunk: a.Bunk, Activity: a.Pick.Activity}] += w.DebtYesterdayRepeat
		}
		if hard, soft := playerViolation(sc, blk, a.Pick); hard {
			score.HardViolations++
			delta[debtKey{Bunk: a.Bunk, Activity: a.Pick.Activity}] += w.DebtHardPlayerViolation
		} else if soft {
			score.SoftViolations++
		}
		cap := w.AnalyzerCostCap
		if cap <= 0 {
			cap = 50000
		}
		cost := a.Cost
		if cost > cap {
			cost = cap
		}
		if cost > 0 {
			costSum += cost
		}
	}

	score.Score = w.AnalyzerFreeBlockWeight*score.FreeBlocks +
		w.AnalyzerYesterdayWeight*score.YesterdayRepeats +
		w.AnalyzerHardViolationWeight*score.HardViolations +
		w.AnalyzerSoftViolationWeight*score.SoftViolations +
		costSum

	return score, delta
}

// playerViolation reports whether pick's combined player count (the sum of
// bunk sizes sharing its field during blk's interval) violates the
// activity's min/max-player rules: hard when under minPlayers (the
// activity cannot run at all), soft when over maxPlayers.
func playerViolation(sc *SolverContext, blk Block, pick Pick) (hard bool, soft bool) {
	if pick.IsFree() || !blk.HasKnownTime() {
		return false, false
	}
	act, ok := sc.Activities[normalizeName(pick.Activity)]
	if !ok {
		return false, false
	}
	iv := blk.interval()
	combined := 0
	seen := make(map[string]bool)
	for _, e := range sc.TimeIndex.Entries(pick.Field) {
		if !e.interval().Overlaps(iv) || seen[e.Bunk] {
			continue
		}
		seen[e.Bunk] = true
		if b, ok := sc.Bunks[e.Bunk]; ok {
			combined += b.Size
		}
	}
	if act.MinPlayers > 0 && combined < act.MinPlayers {
		return true, false
	}
	if act.MaxPlayers > 0 && combined > act.MaxPlayers {
		return false, true
	}
	return false, false
}

// ApplyDebtAdjustment folds delta into sc.Debt (spec.md §4.14: "Debt
// persists across passes within a solve").
func ApplyDebtAdjustment(sc *SolverContext, delta map[debtKey]int) {
	for k, v := range delta {
		sc.Debt[k] += v
	}
}
