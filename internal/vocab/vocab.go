// Package vocab holds the user-curated tag vocabulary and the stores that
// persist it between sessions.
package vocab

// TagEntry is one canonical tag and the alternate spellings that resolve to it.
type TagEntry struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// HasAlias reports whether s is one of the entry's aliases.
func (e TagEntry) HasAlias(s string) bool {
	for _, a := range e.Aliases {
		if a == s {
			return true
		}
	}
	return false
}

// Vocabulary is the ordered list of known tags. Order is significant: it is
// the registration order and decides fuzzy-match tie-breaks.
type Vocabulary struct {
	Tags []TagEntry `json:"tags"`
}

// New returns an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{Tags: []TagEntry{}}
}

// Len returns the number of canonical tags.
func (v *Vocabulary) Len() int { return len(v.Tags) }

// AddTag appends a new canonical tag without aliases and returns its index.
func (v *Vocabulary) AddTag(name string) int {
	v.Tags = append(v.Tags, TagEntry{Name: name, Aliases: []string{}})
	return len(v.Tags) - 1
}

// AddAlias appends alias to the entry at index i.
func (v *Vocabulary) AddAlias(i int, alias string) {
	v.Tags[i].Aliases = append(v.Tags[i].Aliases, alias)
}

// Clone returns a deep copy.
func (v *Vocabulary) Clone() *Vocabulary {
	out := &Vocabulary{Tags: make([]TagEntry, len(v.Tags))}
	for i, e := range v.Tags {
		out.Tags[i] = TagEntry{Name: e.Name, Aliases: append([]string{}, e.Aliases...)}
	}
	return out
}

// normalize replaces nil slices so serialization is stable ("aliases": []).
func (v *Vocabulary) normalize() *Vocabulary {
	if v.Tags == nil {
		v.Tags = []TagEntry{}
	}
	for i := range v.Tags {
		if v.Tags[i].Aliases == nil {
			v.Tags[i].Aliases = []string{}
		}
	}
	return v
}
