package scheduler

// Snapshot is the inbound, point-in-time view of the camp the solver
// consumes (spec.md §6.1). It is opaque to any storage concern; building
// one from persisted state is the caller's job.
//
// Map key conventions: Divisions and Bunks are keyed by their exact Name as
// it appears on Block.DivName/Block.Bunk. Fields and Activities are keyed
// by their normalized (lower-cased, trimmed) name, matching spec.md §3's
// "field-normalized name is the key" rule for the Field Time Index.
type Snapshot struct {
	Divisions        map[string]Division
	Bunks            map[string]Bunk
	Blocks           []Block
	Fields           map[string]Field
	Activities       map[string]Activity
	DisabledFields   []string
	Oracle           RotationOracle
	GlobalFieldLocks GlobalFieldLocksFunc
	CanBlockFit      BlockFitPredicate
	Locks            []Lock
	Skeleton         SkeletonOutline
}

// Result is the outbound payload: one entry per block that passed
// ValidateSnapshot, in input order, including league blocks passed through
// untouched (spec.md §6.2). Blocks flagged by ValidateSnapshot are dropped.
type Result struct {
	Assignments []Assignment
	Report      PassReport
}

// Warning is a non-fatal finding surfaced by ValidateSnapshot (spec.md §7
// "Snapshot inconsistency").
type Warning struct {
	BlockIdx int
	Message  string
}

// ValidateSnapshot checks every block against the division/bunk catalog
// and returns warnings for anything unresolvable, without mutating snap.
// Unlike NewSolverContext, it never returns an error: per spec.md §7 a
// malformed block is skipped and reported, not treated as fatal (this is
// the pre-solve companion to that rule; Solve calls it internally and
// drops invalid blocks from the working set before building C1-C5).
func ValidateSnapshot(snap Snapshot) []Warning {
	var warnings []Warning
	for i, b := range snap.Blocks {
		if _, ok := snap.Divisions[b.DivName]; !ok {
			warnings = append(warnings, Warning{BlockIdx: i, Message: "unknown division: " + b.DivName})
			continue
		}
		if _, ok := snap.Bunks[b.Bunk]; !ok {
			warnings = append(warnings, Warning{BlockIdx: i, Message: "unknown bunk: " + b.Bunk})
		}
	}
	return warnings
}
