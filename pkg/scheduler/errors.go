package scheduler

import "errors"

// Errors at the snapshot-validation boundary only (spec.md §3.2 of
// SPEC_FULL): the solving pipeline itself never returns an error for an
// over-constrained or unsatisfiable block — Free is that value. These are
// reserved for a caller handing the engine a structurally broken snapshot.
var (
	ErrNoOracle        = errors.New("scheduler: snapshot has no rotation oracle")
	ErrUnknownBunk     = errors.New("scheduler: block refers to unknown bunk")
	ErrUnknownDivision = errors.New("scheduler: block refers to unknown division")
	ErrEmptyBlockList  = errors.New("scheduler: snapshot has no blocks")
)
