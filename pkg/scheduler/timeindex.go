package scheduler

import "sort"

// timeIndexEntry is one live occupancy record in the Field Time Index
// (spec.md §3 "Field Time Index", §4.1).
type timeIndexEntry struct {
	StartMin int
	EndMin   int
	Bunk     string
	DivName  string
	Activity string
}

func (e timeIndexEntry) interval() interval { return interval{Start: e.StartMin, End: e.EndMin} }

// TimeIndex is the per-field sorted interval index supporting O(log N)
// overlap queries (C1, spec.md §4.1). Field names are normalized
// (lower-cased, trimmed) before use as map keys.
//
// Entries for a single field are kept sorted by StartMin; Insert appends
// and re-sorts only when the append broke the ordering invariant, which in
// practice (solve time running forward) is rare.
type TimeIndex struct {
	byField map[string][]timeIndexEntry
}

// NewTimeIndex returns an empty index.
func NewTimeIndex() *TimeIndex {
	return &TimeIndex{byField: make(map[string][]timeIndexEntry)}
}

// Insert appends an occupancy entry for fieldName, re-sorting that field's
// entries if the append left them out of StartMin order.
func (ti *TimeIndex) Insert(fieldName string, iv interval, bunk, divName, activityName string) {
	key := normalizeFieldName(fieldName)
	entries := ti.byField[key]
	entry := timeIndexEntry{StartMin: iv.Start, EndMin: iv.End, Bunk: bunk, DivName: divName, Activity: activityName}
	entries = append(entries, entry)
	if len(entries) > 1 && entries[len(entries)-2].StartMin > entry.StartMin {
		sort.Slice(entries, func(i, j int) bool { return entries[i].StartMin < entries[j].StartMin })
	}
	ti.byField[key] = entries
}

// Remove locates an entry by (bunk, startMin, endMin) and erases it. A
// missing entry is a silent no-op (spec.md §4.1 "Error conditions": the
// index is best-effort; correctness relies on apply/undo symmetry).
func (ti *TimeIndex) Remove(fieldName string, iv interval, bunk string) {
	key := normalizeFieldName(fieldName)
	entries := ti.byField[key]
	for i, e := range entries {
		if e.Bunk == bunk && e.StartMin == iv.Start && e.EndMin == iv.End {
			ti.byField[key] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// upperBound returns the index of the first entry with StartMin >= end,
// via binary search over the StartMin-sorted slice.
func upperBound(entries []timeIndexEntry, end int) int {
	return sort.Search(len(entries), func(i int) bool { return entries[i].StartMin >= end })
}

// Usage counts entries overlapping iv, excluding any entry for excludeBunk
// (spec.md §4.1 "usage"). excludeBunk may be empty to exclude nothing.
func (ti *TimeIndex) Usage(fieldName string, iv interval, excludeBunk string) int {
	entries := ti.byField[normalizeFieldName(fieldName)]
	n := 0
	for i := 0; i < upperBound(entries, iv.End); i++ {
		e := entries[i]
		if e.EndMin <= iv.Start {
			continue
		}
		if excludeBunk != "" && e.Bunk == excludeBunk {
			continue
		}
		n++
	}
	return n
}

// ConflictInfo describes a conflicting occupancy found by a time-index query.
type ConflictInfo struct {
	Bunk     string
	DivName  string
	Activity string
	StartMin int
	EndMin   int
}

// CrossDivConflict returns the first entry whose division differs from
// divName and whose interval overlaps iv (spec.md §4.1 "crossDivConflict").
func (ti *TimeIndex) CrossDivConflict(fieldName, divName string, iv interval, excludeBunk string) (ConflictInfo, bool) {
	entries := ti.byField[normalizeFieldName(fieldName)]
	for i := 0; i < upperBound(entries, iv.End); i++ {
		e := entries[i]
		if e.EndMin <= iv.Start {
			continue
		}
		if excludeBunk != "" && e.Bunk == excludeBunk {
			continue
		}
		if e.DivName != divName {
			return ConflictInfo{Bunk: e.Bunk, DivName: e.DivName, Activity: e.Activity, StartMin: e.StartMin, EndMin: e.EndMin}, true
		}
	}
	return ConflictInfo{}, false
}

// SameDivUsage counts entries in divName overlapping iv, excluding excludeBunk.
func (ti *TimeIndex) SameDivUsage(fieldName, divName string, iv interval, excludeBunk string) int {
	entries := ti.byField[normalizeFieldName(fieldName)]
	n := 0
	for i := 0; i < upperBound(entries, iv.End); i++ {
		e := entries[i]
		if e.EndMin <= iv.Start || e.DivName != divName {
			continue
		}
		if excludeBunk != "" && e.Bunk == excludeBunk {
			continue
		}
		n++
	}
	return n
}

// ActivityMismatch returns the first overlapping entry whose Activity
// differs from activityName (spec.md §4.1 "activityMismatch").
func (ti *TimeIndex) ActivityMismatch(fieldName string, iv interval, activityName, excludeBunk string) (ConflictInfo, bool) {
	entries := ti.byField[normalizeFieldName(fieldName)]
	for i := 0; i < upperBound(entries, iv.End); i++ {
		e := entries[i]
		if e.EndMin <= iv.Start {
			continue
		}
		if excludeBunk != "" && e.Bunk == excludeBunk {
			continue
		}
		if e.Activity != activityName {
			return ConflictInfo{Bunk: e.Bunk, DivName: e.DivName, Activity: e.Activity, StartMin: e.StartMin, EndMin: e.EndMin}, true
		}
	}
	return ConflictInfo{}, false
}

// Entries returns a copy of the live entries for fieldName, for callers
// (the analyzer's player count, the penalty adjacency term) that need to
// enumerate rather than query.
func (ti *TimeIndex) Entries(fieldName string) []timeIndexEntry {
	src := ti.byField[normalizeFieldName(fieldName)]
	out := make([]timeIndexEntry, len(src))
	copy(out, src)
	return out
}

// Clone returns a deep-enough copy for pencil-pass snapshotting (spec.md §9):
// the per-field slices are copied so mutating the clone never affects ti.
func (ti *TimeIndex) Clone() *TimeIndex {
	out := &TimeIndex{byField: make(map[string][]timeIndexEntry, len(ti.byField))}
	for k, v := range ti.byField {
		cp := make([]timeIndexEntry, len(v))
		copy(cp, v)
		out.byField[k] = cp
	}
	return out
}

func normalizeFieldName(s string) string {
	return normalizeName(s)
}
