package scheduler

import "math"

// PosInf is the rotation-score sentinel meaning "forbidden" (spec.md §3:
// "Rotation Score ... in ℤ∪{+∞}"). Represented as math.MaxInt32 rather than
// an actual floating-point infinity so scores stay in ordinary integer
// arithmetic everywhere else in the engine.
const PosInf = math.MaxInt32

// RotationOracle is the externally-provided contract of spec.md §4.3: a
// pure function of (bunk, activity, live-schedule-prefix) that the engine
// never inspects the internals of. Implementations must honor:
//   - same-day repeat ⇒ PosInf
//   - monotone non-increasing penalty as days-since-last grows
//   - a never-done bonus (negative score)
//   - a frequency component relative to peer bunks
//
// beforeSlotIndex selects which point in the live schedule the score is
// computed against; the engine always calls with beforeSlotIndex = 0, both
// when precomputing the dense per-solve cache (spec.md §4.3) and on a cache
// miss.
type RotationOracle interface {
	Score(bunk, activity string, beforeSlotIndex int) int
}

// YesterdayChecker is an optional capability a RotationOracle may
// implement: oracles that track day-level history can report whether a
// bunk already played an activity exactly one day before today, feeding
// C13's "yesterdayRepeats" metric (spec.md §4.14). An oracle that doesn't
// implement it simply opts the engine out of that term.
type YesterdayChecker interface {
	PlayedYesterday(bunk, activity string) bool
}

// RotationOracleFunc adapts a plain function to RotationOracle.
type RotationOracleFunc func(bunk, activity string, beforeSlotIndex int) int

func (f RotationOracleFunc) Score(bunk, activity string, beforeSlotIndex int) int {
	return f(bunk, activity, beforeSlotIndex)
}

// rotationKey is the typed (bunk, activity) key used for the dense
// precomputed cache, replacing the source's "bunk|activity" string
// concatenation keys (spec.md §9).
type rotationKey struct {
	Bunk     string
	Activity string
}

// rotationCache is the dense map the engine precomputes once per solve by
// calling the oracle at beforeSlotIndex=0 for every (bunk, activity) pair
// over the solve's block set and candidate set (spec.md §4.3).
type rotationCache struct {
	oracle RotationOracle
	scores map[rotationKey]int
}

func newRotationCache(oracle RotationOracle, bunks []string, activities []string) *rotationCache {
	rc := &rotationCache{oracle: oracle, scores: make(map[rotationKey]int, len(bunks)*len(activities))}
	for _, b := range bunks {
		for _, a := range activities {
			rc.scores[rotationKey{Bunk: b, Activity: a}] = oracle.Score(b, a, 0)
		}
	}
	return rc
}

// Score returns the precomputed score, falling back to a live oracle call
// for any (bunk, activity) pair that wasn't present in the solve's block
// or candidate set at precompute time (e.g. queried later by repair with a
// bunk/activity combination outside the original snapshot).
func (rc *rotationCache) Score(bunk, activity string) int {
	if v, ok := rc.scores[rotationKey{Bunk: bunk, Activity: activity}]; ok {
		return v
	}
	return rc.oracle.Score(bunk, activity, 0)
}

// AssertMonotoneByRecency is the startup sample-test recommended by
// spec.md §9 ("Open question — rotation-oracle monotonicity"): rather than
// trust the externalized oracle's additive recency/frequency/variety terms
// to compose monotonically, sample it directly. scoresByDaysSince holds the
// oracle's scores sampled at increasing days-since-last-played values;
// AssertMonotoneByRecency reports the index of the first sample where the
// score increased over the previous one, or ok=true if none did.
//
// This is a diagnostic helper, not a gate: spec.md notes the real engine
// can only be sampled, not proven, so callers decide whether a violation
// is fatal.
func AssertMonotoneByRecency(scoresByDaysSince []int) (violationIndex int, ok bool) {
	for i := 1; i < len(scoresByDaysSince); i++ {
		if scoresByDaysSince[i] > scoresByDaysSince[i-1] {
			return i, false
		}
	}
	return -1, true
}
