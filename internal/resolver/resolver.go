package resolver

import (
	"fmt"
	"log/slog"

	"github.com/starford/smarttags/internal/vocab"
)

// Chooser asks the user to settle an ambiguous input. Both calls block until
// answered.
type Chooser interface {
	// ChooseOne returns the index of the selected option.
	ChooseOne(prompt string, options []string, defaultIndex int) (int, error)
	// Confirm returns the user's yes/no answer.
	Confirm(prompt string, def bool) (bool, error)
}

// Outcome records which path produced a Result.
type Outcome int

const (
	OutcomeExact        Outcome = iota // input is a canonical name
	OutcomeAlias                       // input is a known alias
	OutcomeCorrected                   // one-time typo substitution
	OutcomeAliased                     // input learnt as a new alias
	OutcomeCreated                     // input registered as a new tag
	OutcomeUnregistered                // input used as-is, not remembered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExact:
		return "exact"
	case OutcomeAlias:
		return "alias"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeAliased:
		return "aliased"
	case OutcomeCreated:
		return "created"
	case OutcomeUnregistered:
		return "unregistered"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the resolution of one input.
type Result struct {
	Input             string
	Canonical         string
	VocabularyChanged bool
	Outcome           Outcome
}

// Resolver resolves inputs against a vocabulary, consulting a Chooser for
// anything that is not an exact match.
type Resolver struct {
	chooser Chooser
	logger  *slog.Logger
}

// New creates a Resolver. A nil logger discards log output.
func New(chooser Chooser, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{chooser: chooser, logger: logger}
}

// Resolve maps input to exactly one canonical tag. v is mutated when the
// user chooses to learn an alias or register a new tag; VocabularyChanged
// reports exactly that.
func (r *Resolver) Resolve(v *vocab.Vocabulary, input string) (Result, error) {
	m := Lookup(v, input)

	switch m.Kind {
	case MatchCanonical:
		return Result{Input: input, Canonical: m.Canonical, Outcome: OutcomeExact}, nil
	case MatchAlias:
		r.logger.Debug("resolver: alias match", slog.String("input", input), slog.String("canonical", m.Canonical))
		return Result{Input: input, Canonical: m.Canonical, Outcome: OutcomeAlias}, nil
	case MatchFuzzy:
		res, settled, err := r.disambiguate(v, m)
		if err != nil || settled {
			return res, err
		}
	}

	return r.register(v, input)
}

// disambiguate offers the fuzzy candidates. settled is false when the user
// chose to create a new tag instead.
func (r *Resolver) disambiguate(v *vocab.Vocabulary, m Match) (Result, bool, error) {
	best, _ := m.Best()

	options := make([]string, 0, len(m.Candidates)+2)
	for _, c := range m.Candidates {
		options = append(options, fmt.Sprintf("Use existing '%s' (Typo correction)", c.Name))
	}
	aliasOption := len(options)
	options = append(options, fmt.Sprintf("Register '%s' as alias for '%s'", m.Input, best.Name))
	createOption := len(options)
	options = append(options, fmt.Sprintf("Create new tag '%s'", m.Input))

	choice, err := r.chooser.ChooseOne(fmt.Sprintf("Tag '%s' is unknown. How to handle this?", m.Input), options, 0)
	if err != nil {
		return Result{}, false, fmt.Errorf("resolve %q: %w", m.Input, err)
	}

	switch {
	case choice >= 0 && choice < aliasOption:
		c := m.Candidates[choice]
		r.logger.Debug("resolver: typo corrected", slog.String("input", m.Input), slog.String("canonical", c.Name))
		return Result{Input: m.Input, Canonical: c.Name, Outcome: OutcomeCorrected}, true, nil
	case choice == aliasOption:
		v.AddAlias(best.Index, m.Input)
		r.logger.Debug("resolver: alias learnt", slog.String("alias", m.Input), slog.String("canonical", best.Name))
		return Result{Input: m.Input, Canonical: best.Name, VocabularyChanged: true, Outcome: OutcomeAliased}, true, nil
	case choice == createOption:
		return Result{}, false, nil
	default:
		return Result{}, false, fmt.Errorf("resolve %q: choice %d out of range [0,%d]", m.Input, choice, createOption)
	}
}

func (r *Resolver) register(v *vocab.Vocabulary, input string) (Result, error) {
	ok, err := r.chooser.Confirm(fmt.Sprintf("Register new tag '%s' to database?", input), true)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %q: %w", input, err)
	}
	if !ok {
		return Result{Input: input, Canonical: input, Outcome: OutcomeUnregistered}, nil
	}
	v.AddTag(input)
	r.logger.Debug("resolver: tag created", slog.String("tag", input))
	return Result{Input: input, Canonical: input, VocabularyChanged: true, Outcome: OutcomeCreated}, nil
}

// Session is the outcome of resolving every input of one invocation.
type Session struct {
	Results []Result
	Changed bool
}

// Tags returns the canonical tags in input order.
func (s Session) Tags() []string {
	out := make([]string, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Canonical
	}
	return out
}

// ResolveAll folds Resolve over inputs, threading v through every call so
// later inputs see aliases and tags learnt from earlier ones.
func (r *Resolver) ResolveAll(v *vocab.Vocabulary, inputs []string) (Session, error) {
	s := Session{Results: make([]Result, 0, len(inputs))}
	for _, in := range inputs {
		res, err := r.Resolve(v, in)
		if err != nil {
			return Session{}, err
		}
		s.Results = append(s.Results, res)
		s.Changed = s.Changed || res.VocabularyChanged
	}
	return s, nil
}
