package scheduler

// CandidateSet is the global, deduplicated list of (field, activity)
// options (C4, spec.md §4.4), emitted once per solve from master field
// records and master special-activity records. fieldsBySport is the
// activity-to-fields inverse map built from those candidates; no separate
// sport-to-field map is read as an input.
type CandidateSet struct {
	all           []Candidate
	byFieldActivity map[[2]string]int // (fieldNorm, activityNorm) -> index into all
	fieldsBySport   map[string][]string
}

// buildCandidateSet deduplicates by (field, activity) key and pre-normalizes
// names on each Candidate to avoid rehashing in hot loops.
func buildCandidateSet(fields map[string]Field, activities map[string]Activity, disabledFields map[string]bool) *CandidateSet {
	cs := &CandidateSet{
		byFieldActivity: make(map[[2]string]int),
		fieldsBySport:   make(map[string][]string),
	}

	add := func(fieldName, activityName string, kind CandidateKind) {
		fn, an := normalizeName(fieldName), normalizeName(activityName)
		if disabledFields[fn] {
			return
		}
		key := [2]string{fn, an}
		if _, exists := cs.byFieldActivity[key]; exists {
			return
		}
		cs.byFieldActivity[key] = len(cs.all)
		cs.all = append(cs.all, Candidate{Field: fieldName, Activity: activityName, Kind: kind, fieldNorm: fn, activityNorm: an})
		cs.fieldsBySport[an] = append(cs.fieldsBySport[an], fieldName)
	}

	// (i) master field records with sanctioned activities.
	for fieldName, f := range fields {
		for activityName := range f.Activities {
			kind := KindSport
			if act, ok := activities[normalizeName(activityName)]; ok && act.IsSpecial {
				kind = KindSpecial
			}
			add(fieldName, activityName, kind)
		}
	}
	// (ii) master special-activity records self-host.
	for _, act := range activities {
		if act.IsSpecial {
			add(act.Name, act.Name, KindSpecial)
		}
	}
	return cs
}

// All returns every candidate in the set.
func (cs *CandidateSet) All() []Candidate { return cs.all }

// Lookup returns the candidate for (field, activity), if sanctioned.
func (cs *CandidateSet) Lookup(fieldName, activityName string) (Candidate, bool) {
	idx, ok := cs.byFieldActivity[[2]string{normalizeName(fieldName), normalizeName(activityName)}]
	if !ok {
		return Candidate{}, false
	}
	return cs.all[idx], true
}

// FieldsHosting returns every field that sanctions activityName, the
// fieldsBySport inverse map from spec.md §4.4.
func (cs *CandidateSet) FieldsHosting(activityName string) []string {
	return cs.fieldsBySport[normalizeName(activityName)]
}

// Activities returns the distinct set of activity names across all candidates.
func (cs *CandidateSet) Activities() []string {
	out := make([]string, 0, len(cs.fieldsBySport))
	for a := range cs.fieldsBySport {
		out = append(out, a)
	}
	return out
}
