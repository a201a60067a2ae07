package scheduler

// GroupKey is C7's (startMin, endMin, division) time-equivalence key
// (spec.md §4.7). Blocks sharing a GroupKey are processed together by C9.
type GroupKey struct {
	StartMin int
	EndMin   int
	DivName  string
}

// Domains holds the fused output of C7: per-block candidate domains and
// the time-equivalence groups they belong to.
type Domains struct {
	byBlock map[int][]int // blockIdx -> candidate indices into sc.Candidates.All()
	groups  map[GroupKey][]int
}

func (d *Domains) Block(blockIdx int) []int { return d.byBlock[blockIdx] }
func (d *Domains) SetBlock(blockIdx int, cands []int) {
	if d.byBlock == nil {
		d.byBlock = make(map[int][]int)
	}
	d.byBlock[blockIdx] = cands
}
func (d *Domains) Groups() map[GroupKey][]int { return d.groups }

// BuildDomains is the fused C7 pass: one sweep over all blocks producing
// per-block candidate domains and groups (spec.md §4.7). Ties are left
// unbroken; domains are unordered sets represented as slices for
// determinism of iteration only, not for priority.
func BuildDomains(sc *SolverContext) *Domains {
	d := &Domains{byBlock: make(map[int][]int), groups: make(map[GroupKey][]int)}
	candidates := sc.Candidates.All()

	for idx, blk := range sc.Blocks {
		if blk.IsLeague {
			continue
		}
		if blk.HasKnownTime() {
			key := GroupKey{StartMin: blk.StartMin, EndMin: blk.EndMin, DivName: blk.DivName}
			d.groups[key] = append(d.groups[key], idx)
		}

		var domain []int
		for ci, c := range candidates {
			if !domainAdmits(sc, blk, c) {
				continue
			}
			domain = append(domain, ci)
		}
		d.byBlock[idx] = domain
	}
	return d
}

// domainAdmits runs every C7 filter for one (block, candidate) pair.
func domainAdmits(sc *SolverContext, blk Block, c Candidate) bool {
	if blk.HasKnownTime() {
		iv := blk.interval()
		if sc.Locked(c.Field, iv, blk.DivName) {
			return false
		}
	}
	if sc.ExclusiveExcludes(c.Field, blk.DivName) {
		return false
	}
	if sc.CanBlockFit != nil && !sc.CanBlockFit(blk, c) {
		return false
	}
	if blk.HasKnownTime() {
		iv := blk.interval()
		if f, ok := sc.Fields[c.fieldNorm]; ok && !f.availableAt(iv) {
			return false
		}
		if _, conflict := sc.TimeIndex.CrossDivConflict(c.Field, blk.DivName, iv, blk.Bunk); conflict {
			return false
		}
		if !sc.CapacityOK(c.Field, blk.DivName, iv, blk.Bunk) {
			return false
		}
	}
	if sc.RotationForbidden(blk.Bunk, c.Activity) {
		return false
	}
	return true
}
