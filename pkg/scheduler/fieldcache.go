package scheduler

// fieldProps is the dense per-field record cached by the Field Property
// Cache (C2, spec.md §4.2): capacity, sharing mode, and merged preference
// info, resolved once per solve.
type fieldProps struct {
	Capacity    int
	Sharing     SharingMode
	Preferences FieldPreferences
	Zone        string
}

// fieldPropertyCache is built once per solve by walking the field catalog
// (not the candidate set), and is looked up by hash (O(1)) thereafter.
type fieldPropertyCache struct {
	props map[string]fieldProps
}

// buildFieldPropertyCache resolves capacity + sharing for every field in
// fields, falling back to {capacity=1, sharing=not_sharable} per spec.md
// §4.2 when no sharing info is present. Preference info is merged from the
// field entry, and — if absent there — from the matching activity entry
// (relevant for self-hosting specials, whose Activity record carries its
// own Preferences).
func buildFieldPropertyCache(fields map[string]Field, activities map[string]Activity) *fieldPropertyCache {
	cache := &fieldPropertyCache{props: make(map[string]fieldProps, len(fields))}
	for name, f := range fields {
		capacity := f.Capacity
		sharing := f.Sharing
		if capacity <= 0 {
			capacity = 1
			sharing = NotSharable
		}
		prefs := f.Preferences
		if !prefs.Enabled {
			if act, ok := activities[normalizeName(name)]; ok && act.IsSpecial {
				prefs = act.Preferences
			}
		}
		cache.props[normalizeName(name)] = fieldProps{
			Capacity:    capacity,
			Sharing:     sharing,
			Preferences: prefs,
			Zone:        f.Zone,
		}
	}
	return cache
}

func (c *fieldPropertyCache) lookup(fieldName string) (fieldProps, bool) {
	p, ok := c.props[normalizeName(fieldName)]
	return p, ok
}
