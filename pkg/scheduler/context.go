// Package scheduler: SolverContext gathers every piece of mutable and
// read-only state the pipeline needs, replacing the source system's module
// globals (window.scheduleAssignments, window.fieldUsageBySlot, ad-hoc
// caches) with one struct owned by the solve call (spec.md §9 "Globals →
// a Solver context struct"). Nothing here is process-wide; a SolverContext
// is created fresh per Solve call and never shared across goroutines
// (spec.md §5).
package scheduler

import (
	"math/rand"

	"github.com/gitrdm/campsched/internal/logx"
	"github.com/gitrdm/campsched/pkg/scheduler/config"
)

// GlobalFieldLocksFunc reports whether fieldName is locked for divName
// during iv (spec.md §6.1 "globalFieldLocks").
type GlobalFieldLocksFunc func(fieldName string, iv interval, divName string) bool

// BlockFitPredicate is the structural "canBlockFit" extensibility hook from
// spec.md §4.7 step 2. A nil predicate accepts everything.
type BlockFitPredicate func(block Block, cand Candidate) bool

// debtKey is the typed (bunk, activity) key for the Debt map, replacing the
// source's "bunk|activity" string keys (spec.md §9).
type debtKey struct {
	Bunk     string
	Activity string
}

// planEntry is C6's per-block activity hint (spec.md §3 "Plan").
type planEntry struct {
	Activity  string
	Steering  int
}

// scarcityKey is the typed (activity, startMin) key for the Scarcity map.
type scarcityKey struct {
	Activity string
	StartMin int
}

// SolverContext is the only mutable state a solve mutates. It is built
// once by the driver from a Snapshot, threaded by reference through
// C6→C12, and either committed (final pass) or discarded (pencil pass).
type SolverContext struct {
	// --- read-only snapshot views (spec.md §5 "Shared-resource policy") ---
	Divisions      map[string]Division
	Bunks          map[string]Bunk
	Fields         map[string]Field
	Activities     map[string]Activity
	Blocks         []Block
	Locks          []Lock
	Oracle         RotationOracle
	GlobalLocks    GlobalFieldLocksFunc
	CanBlockFit    BlockFitPredicate
	Skeleton       SkeletonOutline

	// --- built once per solve (C1-C5) ---
	FieldProps *fieldPropertyCache
	Candidates *CandidateSet
	Resources  *resourceMaps
	Rotation   *rotationCache

	// --- mutated by C6-C15, reset between passes except Debt ---
	Assignments []Assignment       // live schedule, index-aligned with Blocks
	TimeIndex   *TimeIndex
	Debt        map[debtKey]int
	Plan        map[int]planEntry
	Scarcity    map[scarcityKey]float64

	// todayCache[bunk][activity] memoizes "has bunk done activity today" and
	// must be invalidated on every write to the live schedule (spec.md §9
	// "Cache staleness": "invalidate on every apply/undo, keep the cache,
	// remove the rescan" is the discipline this rewrite picked).
	todayCache map[string]map[string]bool

	Config *config.SolverConfig
	Log    *logx.Logger
	rng    *rand.Rand
}

// NewSolverContext builds C1-C5 from snap and returns a SolverContext ready
// for the C6->C12 pipeline. Debt starts empty; it is cleared once per
// solve, not per pass (spec.md §4.14).
func NewSolverContext(snap Snapshot, cfg *config.SolverConfig, log *logx.Logger) (*SolverContext, error) {
	if cfg == nil {
		cfg = config.DefaultSolverConfig()
	}
	if log == nil {
		log = logx.Nop()
	}
	if snap.Oracle == nil {
		return nil, ErrNoOracle
	}

	disabled := make(map[string]bool, len(snap.DisabledFields))
	for _, f := range snap.DisabledFields {
		disabled[normalizeName(f)] = true
	}

	candidates := buildCandidateSet(snap.Fields, snap.Activities, disabled)
	fieldProps := buildFieldPropertyCache(snap.Fields, snap.Activities)

	bunkNames := make([]string, 0, len(snap.Bunks))
	for name := range snap.Bunks {
		bunkNames = append(bunkNames, name)
	}
	rotation := newRotationCache(snap.Oracle, bunkNames, candidates.Activities())

	resources := buildResourceMaps(snap.Blocks, snap.Fields, snap.Activities, snap.Bunks, candidates, snap.Skeleton, timeConstrainedConfig{
		CapMinutes: cfg.Weights.TimeConstrainedCapMinutes,
		BoostScale: cfg.Weights.TimeConstrainedBoostScale,
	})

	sc := &SolverContext{
		Divisions:   snap.Divisions,
		Bunks:       snap.Bunks,
		Fields:      snap.Fields,
		Activities:  snap.Activities,
		Blocks:      snap.Blocks,
		Locks:       snap.Locks,
		Oracle:      snap.Oracle,
		GlobalLocks: snap.GlobalFieldLocks,
		CanBlockFit: snap.CanBlockFit,
		Skeleton:    snap.Skeleton,

		FieldProps: fieldProps,
		Candidates: candidates,
		Resources:  resources,
		Rotation:   rotation,

		Assignments: make([]Assignment, len(snap.Blocks)),
		TimeIndex:   NewTimeIndex(),
		Debt:        make(map[debtKey]int),
		Plan:        make(map[int]planEntry),
		Scarcity:    make(map[scarcityKey]float64),
		todayCache:  make(map[string]map[string]bool),

		Config: cfg,
		Log:    log,
		rng:    rand.New(rand.NewSource(1)),
	}

	for i, b := range snap.Blocks {
		sc.Assignments[i] = Assignment{BlockIdx: i, Bunk: b.Bunk, DivName: b.DivName, Slots: b.Slots, Pick: FreePick, Cost: FreeCost}
	}

	return sc, nil
}

// Clone returns a pencil-pass snapshot: an independent copy of the mutable
// state (Assignments, TimeIndex, Plan, Scarcity, Debt, todayCache) with
// every read-only field shared (spec.md §9 "pencil/ink"). Mutating the
// clone never affects sc; the debt a pencil pass earns reaches sc only
// when the driver applies it through ApplyDebtAdjustment.
func (sc *SolverContext) Clone() *SolverContext {
	cp := *sc
	cp.Assignments = make([]Assignment, len(sc.Assignments))
	copy(cp.Assignments, sc.Assignments)
	cp.TimeIndex = sc.TimeIndex.Clone()
	cp.Plan = make(map[int]planEntry, len(sc.Plan))
	for k, v := range sc.Plan {
		cp.Plan[k] = v
	}
	cp.Scarcity = make(map[scarcityKey]float64, len(sc.Scarcity))
	for k, v := range sc.Scarcity {
		cp.Scarcity[k] = v
	}
	cp.Debt = make(map[debtKey]int, len(sc.Debt))
	for k, v := range sc.Debt {
		cp.Debt[k] = v
	}
	cp.todayCache = make(map[string]map[string]bool, len(sc.todayCache))
	for b, acts := range sc.todayCache {
		m := make(map[string]bool, len(acts))
		for a, v := range acts {
			m[a] = v
		}
		cp.todayCache[b] = m
	}
	return &cp
}

// invalidateToday clears the memoized today-cache entry for bunk. Called
// after every apply/undo (spec.md §9 cache-staleness discipline).
func (sc *SolverContext) invalidateToday(bunk string) {
	delete(sc.todayCache, bunk)
}

// HasDoneToday reports whether activity appears anywhere in bunk's live
// schedule for today, using (and populating) the memoized cache.
func (sc *SolverContext) HasDoneToday(bunk, activity string) bool {
	cache, ok := sc.todayCache[bunk]
	if !ok {
		cache = sc.scanToday(bunk)
		sc.todayCache[bunk] = cache
	}
	return cache[normalizeName(activity)]
}

// scanToday performs the direct live-schedule scan that seeds the
// today-cache for bunk.
func (sc *SolverContext) scanToday(bunk string) map[string]bool {
	out := make(map[string]bool)
	for _, a := range sc.Assignments {
		if a.Bunk == bunk && !a.Pick.IsFree() {
			out[normalizeName(a.Pick.Activity)] = true
		}
	}
	return out
}

// ResetForPass clears everything that must be rebuilt between passes
// (spec.md §5: "Across passes: Debt flows forward; all other engine-local
// maps are rebuilt"). The live schedule itself is left untouched; the
// all-Free reset between passes is resetLiveSchedule in solve.go.
func (sc *SolverContext) ResetForPass() {
	sc.Plan = make(map[int]planEntry)
	sc.Scarcity = make(map[scarcityKey]float64)
}

// TieBreakNoise returns a deterministic pseudo-random value in
// [0, cfg.Weights.TieBreakNoiseMax) for the penalty function's tie-break
// term (spec.md §4.12).
func (sc *SolverContext) TieBreakNoise() int {
	max := sc.Config.Weights.TieBreakNoiseMax
	if max <= 0 {
		return 0
	}
	return sc.rng.Intn(max)
}
