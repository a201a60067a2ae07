package scheduler

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitrdm/campsched/internal/logx"
	"github.com/gitrdm/campsched/pkg/scheduler/config"
)

// Solve is the package's public entry point: it runs up to cfg.MaxPasses
// of the C6→C7→C8→C9→C10→C11→C12 pipeline, scoring each with C13, and
// commits only the final pass before running C15's safety sweeps (spec.md
// §2, §5). It never returns an error for solver-internal infeasibility —
// unresolved blocks degrade to Free — only for a malformed snapshot that
// makes the engine impossible to construct (missing oracle, etc).
func Solve(snap Snapshot, cfg *config.SolverConfig, log *logx.Logger) (Result, error) {
	if cfg == nil {
		cfg = config.DefaultSolverConfig()
	}
	if log == nil {
		log = logx.Nop()
	}

	warnings := ValidateSnapshot(snap)
	if len(warnings) > 0 {
		filtered := dropInvalidBlocks(snap, warnings)
		snap = filtered
		for _, w := range warnings {
			log.Warn("dropping invalid block", zap.Int("blockIdx", w.BlockIdx), zap.String("reason", w.Message))
		}
	}

	sc, err := NewSolverContext(snap, cfg, log)
	if err != nil {
		return Result{}, err
	}

	var yesterdayFn YesterdayRepeatFunc
	if yc, ok := sc.Oracle.(YesterdayChecker); ok {
		yesterdayFn = yc.PlayedYesterday
	}

	passes := cfg.MaxPasses
	if passes <= 0 {
		passes = 1
	}

	report := PassReport{ID: uuid.NewString()}
	for i := 0; i < passes; i++ {
		final := i == passes-1

		var working *SolverContext
		if final {
			working = sc
		} else {
			working = sc.Clone()
		}
		resetLiveSchedule(working)
		working.ResetForPass()

		RunActivityFirstPlanner(working)
		domains := BuildDomains(working)
		RunAC3(working, domains)
		RunGroupMatcher(working, domains)
		RunBackjumpSolver(working, domains)
		RunLocalSearch(working, domains)
		RunDeepFreeResolver(working)

		score, delta := AnalyzePass(working, yesterdayFn)
		report.Passes = append(report.Passes, score)
		ApplyDebtAdjustment(sc, delta)

		if final {
			sc = working
		}

		log.Debug("pass complete", zap.Int("pass", i+1), zap.Int("score", score.Score), zap.Int("free", score.FreeBlocks))
	}

	RunSafetySweeps(sc)

	return Result{Assignments: sc.Assignments, Report: report}, nil
}

// resetLiveSchedule clears working's assignments and time index back to an
// all-Free state before a fresh C6 re-plan (spec.md §5 "Across passes: ...
// all other engine-local maps are rebuilt").
func resetLiveSchedule(sc *SolverContext) {
	for i, blk := range sc.Blocks {
		sc.Assignments[i] = Assignment{BlockIdx: i, Bunk: blk.Bunk, DivName: blk.DivName, Slots: blk.Slots, Pick: FreePick, Cost: FreeCost}
	}
	sc.TimeIndex = NewTimeIndex()
	sc.todayCache = make(map[string]map[string]bool)
}

// dropInvalidBlocks removes every block flagged by warnings from snap,
// returning a copy with Blocks trimmed (spec.md §7 "skip the block and
// surface a warning").
func dropInvalidBlocks(snap Snapshot, warnings []Warning) Snapshot {
	bad := make(map[int]bool, len(warnings))
	for _, w := range warnings {
		bad[w.BlockIdx] = true
	}
	out := snap
	out.Blocks = make([]Block, 0, len(snap.Blocks))
	for i := range snap.Blocks {
		if !bad[i] {
			out.Blocks = append(out.Blocks, snap.Blocks[i])
		}
	}
	return out
}
