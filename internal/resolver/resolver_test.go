package resolver

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/smarttags/internal/testutil"
)

func TestResolve_ExactNameNoPrompt(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project", "proj"))
	ch := &testutil.ScriptedChooser{}
	r := New(ch, nil)

	res, err := r.Resolve(v, "project")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Canonical != "project" || res.VocabularyChanged || res.Outcome != OutcomeExact {
		t.Errorf("result = %+v", res)
	}
	if len(ch.Prompts) != 0 {
		t.Errorf("unexpected prompts: %v", ch.Prompts)
	}
}

func TestResolve_AliasReturnsCanonical(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project", "proj"))
	ch := &testutil.ScriptedChooser{}
	res, err := New(ch, nil).Resolve(v, "proj")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Canonical != "project" || res.VocabularyChanged || res.Outcome != OutcomeAlias {
		t.Errorf("result = %+v", res)
	}
	if len(ch.Prompts) != 0 {
		t.Errorf("unexpected prompts: %v", ch.Prompts)
	}
	if len(v.Tags[0].Aliases) != 1 {
		t.Errorf("vocabulary mutated: %+v", v.Tags)
	}
}

func TestResolve_FuzzyMenu(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("protect"), testutil.Tag("project"))
	ch := &testutil.ScriptedChooser{Choices: []int{1}}

	res, err := New(ch, nil).Resolve(v, "projct")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		"Use existing 'protect' (Typo correction)",
		"Use existing 'project' (Typo correction)",
		"Register 'projct' as alias for 'protect'",
		"Create new tag 'projct'",
	}
	if len(ch.Menus) != 1 || strings.Join(ch.Menus[0], "|") != strings.Join(want, "|") {
		t.Errorf("menu = %q", ch.Menus)
	}
	if res.Canonical != "project" || res.VocabularyChanged || res.Outcome != OutcomeCorrected {
		t.Errorf("result = %+v", res)
	}
	if len(v.Tags[0].Aliases)+len(v.Tags[1].Aliases) != 0 {
		t.Errorf("one-time substitution mutated the vocabulary: %+v", v.Tags)
	}
}

func TestResolve_AliasGoesToFirstCandidate(t *testing.T) {
	// "project" is closer, but "protect" was registered first.
	v := testutil.Vocabulary(testutil.Tag("protect"), testutil.Tag("project"))
	ch := &testutil.ScriptedChooser{Choices: []int{2}}

	res, err := New(ch, nil).Resolve(v, "projct")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Canonical != "protect" || !res.VocabularyChanged || res.Outcome != OutcomeAliased {
		t.Errorf("result = %+v", res)
	}
	if !v.Tags[0].HasAlias("projct") {
		t.Errorf("alias not learnt: %+v", v.Tags)
	}
}

func TestResolve_AliasLearningThenExact(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project"))
	ch := &testutil.ScriptedChooser{Choices: []int{1}}

	s, err := New(ch, nil).ResolveAll(v, []string{"proj", "proj"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if !s.Changed {
		t.Error("expected session to report a change")
	}
	if got := s.Tags(); len(got) != 2 || got[0] != "project" || got[1] != "project" {
		t.Errorf("tags = %v", got)
	}
	if s.Results[1].Outcome != OutcomeAlias {
		t.Errorf("second outcome = %v, want alias", s.Results[1].Outcome)
	}
	if len(ch.Prompts) != 1 {
		t.Errorf("prompts = %v, want exactly one", ch.Prompts)
	}
}

func TestResolve_CreateNewFromMenu(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project"))
	ch := &testutil.ScriptedChooser{Choices: []int{2}, Confirms: []bool{true}}

	res, err := New(ch, nil).Resolve(v, "prjct")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Canonical != "prjct" || !res.VocabularyChanged || res.Outcome != OutcomeCreated {
		t.Errorf("result = %+v", res)
	}
	if v.Len() != 2 || v.Tags[1].Name != "prjct" || len(v.Tags[1].Aliases) != 0 {
		t.Errorf("vocabulary = %+v", v.Tags)
	}
	if last := ch.Prompts[len(ch.Prompts)-1]; last != "Register new tag 'prjct' to database?" {
		t.Errorf("confirm prompt = %q", last)
	}
}

func TestResolve_BeyondThresholdSkipsMenu(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project"))
	// No Choices scripted: a menu would fail with ErrScriptExhausted.
	ch := &testutil.ScriptedChooser{Confirms: []bool{true}}

	res, err := New(ch, nil).Resolve(v, "pabcdct")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Outcome != OutcomeCreated || len(ch.Menus) != 0 {
		t.Errorf("result = %+v, menus = %v", res, ch.Menus)
	}
}

func TestResolve_DeclinedRegistration(t *testing.T) {
	v := testutil.Vocabulary()
	ch := &testutil.ScriptedChooser{Confirms: []bool{false, false}}
	r := New(ch, nil)

	res, err := r.Resolve(v, "draft")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Canonical != "draft" || res.VocabularyChanged || res.Outcome != OutcomeUnregistered {
		t.Errorf("result = %+v", res)
	}
	if v.Len() != 0 {
		t.Errorf("vocabulary changed: %+v", v.Tags)
	}

	// Not remembered: the next session asks again.
	if _, err := r.Resolve(v, "draft"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ch.Prompts) != 2 {
		t.Errorf("prompts = %v, want two", ch.Prompts)
	}
}

func TestResolve_EmptyInputIsRegistrable(t *testing.T) {
	v := testutil.Vocabulary()
	ch := &testutil.ScriptedChooser{Confirms: []bool{true}}
	res, err := New(ch, nil).Resolve(v, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Outcome != OutcomeCreated || v.Len() != 1 || v.Tags[0].Name != "" {
		t.Errorf("result = %+v, vocabulary = %+v", res, v.Tags)
	}
}

func TestResolve_ChooserErrorPropagates(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project"))
	_, err := New(&testutil.ScriptedChooser{}, nil).Resolve(v, "projekt")
	if !errors.Is(err, testutil.ErrScriptExhausted) {
		t.Errorf("err = %v", err)
	}
}

func TestResolve_ChoiceOutOfRange(t *testing.T) {
	v := testutil.Vocabulary(testutil.Tag("project"))
	ch := &testutil.ScriptedChooser{Choices: []int{7}}
	if _, err := New(ch, nil).Resolve(v, "projekt"); err == nil {
		t.Error("expected error for out-of-range choice")
	}
}

func TestResolveAll_StopsOnError(t *testing.T) {
	v := testutil.Vocabulary()
	ch := &testutil.ScriptedChooser{Confirms: []bool{true}}
	_, err := New(ch, nil).ResolveAll(v, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error when the second prompt has no answer")
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeAliased.String() != "aliased" || Outcome(99).String() != "outcome(99)" {
		t.Errorf("unexpected strings: %s %s", OutcomeAliased, Outcome(99))
	}
}
