// Package render formats vocabulary, lookup and audit results for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/starford/smarttags/internal/resolver"
	"github.com/starford/smarttags/internal/tagservice"
	"github.com/starford/smarttags/internal/vocab"
)

// Table renders rows under headers with rounded borders.
func Table(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// Vocabulary writes one row per canonical tag.
func Vocabulary(w io.Writer, v *vocab.Vocabulary) error {
	if v.Len() == 0 {
		_, err := fmt.Fprintln(w, "Vocabulary is empty.")
		return err
	}
	rows := make([][]string, 0, v.Len())
	for _, e := range v.Tags {
		rows = append(rows, []string{quoteEmpty(e.Name), strings.Join(e.Aliases, ", ")})
	}
	_, err := fmt.Fprintln(w, Table([]string{"Tag", "Aliases"}, rows))
	return err
}

// Matches writes one row per looked-up input.
func Matches(w io.Writer, ms []resolver.Match) error {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{quoteEmpty(m.Input), m.Status, Resolution(m)})
	}
	_, err := fmt.Fprintln(w, Table([]string{"Input", "Status", "Resolves to"}, rows))
	return err
}

// Resolution describes where a match points: the canonical tag for exact
// matches, the candidates for fuzzy ones.
func Resolution(m resolver.Match) string {
	switch m.Kind {
	case resolver.MatchCanonical, resolver.MatchAlias:
		return m.Canonical
	case resolver.MatchFuzzy:
		names := make([]string, len(m.Candidates))
		for i, c := range m.Candidates {
			names[i] = fmt.Sprintf("%s (%d)", c.Name, c.Distance)
		}
		return strings.Join(names, ", ")
	default:
		return ""
	}
}

// Session writes the human-readable outcome of a tagging session.
func Session(w io.Writer, rep *tagservice.Report) error {
	for _, r := range rep.Results {
		var line string
		switch r.Outcome {
		case resolver.OutcomeAlias, resolver.OutcomeCorrected:
			line = fmt.Sprintf("   Mapping '%s' -> '%s'", r.Input, r.Canonical)
		case resolver.OutcomeAliased:
			line = fmt.Sprintf("   Alias '%s' -> '%s' registered", r.Input, r.Canonical)
		case resolver.OutcomeCreated:
			line = fmt.Sprintf("   New tag '%s' registered", r.Canonical)
		case resolver.OutcomeUnregistered:
			line = fmt.Sprintf("   Using '%s' without registering it", r.Canonical)
		default:
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if rep.VocabularyChanged {
		if _, err := fmt.Fprintf(w, "Tag database updated at %s\n", rep.StorePath); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Successfully added tags to %s: [%s]\n", rep.Document, strings.Join(rep.Tags, ", "))
	return err
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
