// Package resolver maps free-text tag strings onto the canonical tags of a
// vocabulary: exact name or alias match first, then typo candidates by edit
// distance, then registration of a new tag.
package resolver

import "github.com/starford/smarttags/internal/vocab"

// MaxDistance is the largest edit distance at which a canonical name is
// offered as a typo correction.
const MaxDistance = 3

// MatchKind classifies how an input relates to the vocabulary.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchCanonical
	MatchAlias
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchCanonical:
		return "known"
	case MatchAlias:
		return "alias"
	case MatchFuzzy:
		return "suggest"
	default:
		return "unknown"
	}
}

// Candidate is a canonical tag within MaxDistance of an input.
type Candidate struct {
	Index    int    `json:"-"`
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// Match is the read-only classification of one input.
type Match struct {
	Input      string      `json:"input"`
	Kind       MatchKind   `json:"-"`
	Status     string      `json:"status"`
	Index      int         `json:"-"`
	Canonical  string      `json:"canonical,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Best returns the first candidate in vocabulary order. It is the alias
// target offered for a fuzzy match, whatever its distance.
func (m Match) Best() (Candidate, bool) {
	if len(m.Candidates) == 0 {
		return Candidate{}, false
	}
	return m.Candidates[0], true
}

// Lookup classifies input against v without prompting or mutating anything.
//
// The first entry whose name or one of whose aliases equals input is an
// exact match. Otherwise every entry whose canonical name (aliases are not
// considered) is within MaxDistance becomes a candidate, in vocabulary order.
func Lookup(v *vocab.Vocabulary, input string) Match {
	m := Match{Input: input, Index: -1}
	for i, e := range v.Tags {
		if e.Name == input {
			m.Kind, m.Index, m.Canonical = MatchCanonical, i, e.Name
			m.Status = m.Kind.String()
			return m
		}
		if e.HasAlias(input) {
			m.Kind, m.Index, m.Canonical = MatchAlias, i, e.Name
			m.Status = m.Kind.String()
			return m
		}
	}

	for i, e := range v.Tags {
		if d := Distance(e.Name, input); d <= MaxDistance {
			m.Candidates = append(m.Candidates, Candidate{Index: i, Name: e.Name, Distance: d})
		}
	}
	if len(m.Candidates) > 0 {
		m.Kind = MatchFuzzy
	}
	m.Status = m.Kind.String()
	return m
}
