package scheduler

import "math"

// SkeletonKind classifies a neighboring scheduled event for C5's skeleton
// context and the penalty function's interleaving term (spec.md §4.5.4,
// §4.12).
type SkeletonKind int

const (
	SkeletonOther SkeletonKind = iota
	SkeletonSport
	SkeletonSpecial
	SkeletonBreak
	SkeletonGeneral
)

// SkeletonOutline is the externally-provided manual outline C5 consults to
// classify the previous/next scheduled event around a block on a bunk's
// division timeline (spec.md §4.5.4). One entry per division, sorted by
// StartMin.
type SkeletonOutline map[string][]SkeletonEntry

// SkeletonEntry is one labeled event on a division's timeline.
type SkeletonEntry struct {
	StartMin int
	EndMin   int
	Kind     SkeletonKind
}

// skeletonContext is the prev/next classification for one block.
type skeletonContext struct {
	Prev SkeletonKind
	Next SkeletonKind
}

// resourceMaps bundles C5's four precomputations (spec.md §4.5).
type resourceMaps struct {
	// uniqueFieldCount[activity] = count of distinct fields hosting it.
	uniqueFieldCount map[string]int
	// timeConstrainedBoost[field] = precomputed subtractive boost.
	timeConstrainedBoost map[string]int
	// smallBunk[bunk] = true iff bunk.Size is below the median minPlayers.
	smallBunk map[string]bool
	// skeleton[blockIdx] = prev/next classification.
	skeleton map[int]skeletonContext
}

// buildResourceMaps runs all four C5 precomputations over the solve's
// block set and catalog.
func buildResourceMaps(blocks []Block, fields map[string]Field, activities map[string]Activity, bunks map[string]Bunk, cs *CandidateSet, outline SkeletonOutline, cfg timeConstrainedConfig) *resourceMaps {
	rm := &resourceMaps{
		uniqueFieldCount:     map[string]int{},
		timeConstrainedBoost: map[string]int{},
		smallBunk:            map[string]bool{},
		skeleton:             map[int]skeletonContext{},
	}

	// 1. Unique-field map.
	for _, a := range cs.Activities() {
		rm.uniqueFieldCount[a] = len(cs.FieldsHosting(a))
	}

	// 2. Time-constrained boost: fields whose available windows sum < 4h.
	for name, f := range fields {
		if len(f.TimeRules) == 0 {
			continue
		}
		mins := f.windowMinutes()
		if mins >= 4*60 {
			continue
		}
		boost := int(math.Round(float64(cfg.BoostScale) * (1 - float64(mins)/float64(cfg.CapMinutes))))
		rm.timeConstrainedBoost[normalizeName(name)] = boost
	}

	// 3. Small-bunk flags: median of all activities' minPlayers.
	var minPlayersList []int
	for _, a := range activities {
		if a.MinPlayers > 0 {
			minPlayersList = append(minPlayersList, a.MinPlayers)
		}
	}
	med := median(minPlayersList)
	for name, b := range bunks {
		rm.smallBunk[name] = float64(b.Size) < med
	}

	// 4. Skeleton context: prev/next scheduled event per block.
	for idx, blk := range blocks {
		entries := outline[blk.DivName]
		rm.skeleton[idx] = classifySkeleton(entries, blk.StartMin, blk.EndMin)
	}

	return rm
}

// timeConstrainedConfig is the tunable portion of the C5.2 boost formula,
// threaded in from config.ScoreWeights so the literal 480/3000 constants
// from spec.md §4.5.2 stay overridable.
type timeConstrainedConfig struct {
	CapMinutes int
	BoostScale int
}

// classifySkeleton finds the entry immediately before and after [start,end)
// in a division's sorted outline.
func classifySkeleton(entries []SkeletonEntry, start, end int) skeletonContext {
	ctx := skeletonContext{Prev: SkeletonOther, Next: SkeletonOther}
	for _, e := range entries {
		if e.EndMin <= start {
			ctx.Prev = e.Kind
		}
		if e.StartMin >= end && ctx.Next == SkeletonOther {
			ctx.Next = e.Kind
			break
		}
	}
	return ctx
}

func (rm *resourceMaps) TimeConstrainedBoost(fieldName string) int {
	return rm.timeConstrainedBoost[normalizeName(fieldName)]
}

func (rm *resourceMaps) IsSmallBunk(bunk string) bool { return rm.smallBunk[bunk] }

func (rm *resourceMaps) UniqueFieldCount(activity string) int {
	return rm.uniqueFieldCount[normalizeName(activity)]
}

func (rm *resourceMaps) Skeleton(blockIdx int) skeletonContext { return rm.skeleton[blockIdx] }
