package frontmatter

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/starford/smarttags/internal/apperr"
)

// TagsField is the key holding the document's tags.
const TagsField = "tags"

// Merge adds tags to the document's tags field and returns the rewritten
// document. The field ends up as a sorted list of unique strings; a missing
// block is created, a scalar field is promoted to a list. Other fields are
// kept, and the body is copied byte for byte.
//
// A block that is not valid YAML is replaced by an empty mapping. A block
// that is valid YAML but not a mapping, or a tags field of any shape other
// than string, list or null, is an *apperr.StructuralError.
func Merge(data []byte, tags []string) ([]byte, error) {
	doc := Split(data)

	root, mapping, err := parseOrEmpty(doc.Block)
	if err != nil {
		return nil, err
	}

	existing, idx, err := fieldTags(mapping)
	if err != nil {
		return nil, err
	}

	merged := append(existing, tags...)
	slices.Sort(merged)
	merged = slices.Compact(merged)

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, t := range merged {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t})
	}

	if len(idx) == 0 {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: TagsField},
			seq,
		)
	} else {
		removed := make([]*yaml.Node, len(idx))
		for j, i := range idx {
			removed[j] = mapping.Content[i]
		}
		detachAnchors(root, removed...)

		old := mapping.Content[idx[0]]
		if old.Kind == yaml.SequenceNode {
			seq.Style = old.Style
		}
		seq.LineComment = old.LineComment
		mapping.Content[idx[0]] = seq

		// Later duplicates of the field were folded into the first one.
		for j := len(idx) - 1; j > 0; j-- {
			mapping.Content = slices.Delete(mapping.Content, idx[j]-1, idx[j]+1)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(Marker + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("frontmatter: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("frontmatter: encode: %w", err)
	}
	buf.WriteString(Marker + "\n")
	buf.Write(doc.Body)
	return buf.Bytes(), nil
}

// Tags returns the document's current tags, sorted and de-duplicated, read
// with the same rules Merge applies.
func Tags(data []byte) ([]string, error) {
	doc := Split(data)
	_, mapping, err := parseOrEmpty(doc.Block)
	if err != nil {
		return nil, err
	}
	tags, _, err := fieldTags(mapping)
	if err != nil {
		return nil, err
	}
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// parseOrEmpty parses a block into a YAML document whose root is a mapping.
// Unparsable or empty content yields a fresh empty mapping; a parsed root of
// any other kind is a structural error.
func parseOrEmpty(block []byte) (*yaml.Node, *yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil || doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return emptyDocument()
	}

	root := doc.Content[0]
	switch {
	case root.Kind == yaml.MappingNode:
		return &doc, root, nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return emptyDocument()
	default:
		return nil, nil, &apperr.StructuralError{Shape: describe(root), Want: "mapping"}
	}
}

func emptyDocument() (*yaml.Node, *yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}, mapping, nil
}

// fieldTags returns the string values of the tags field and the indexes of
// its value nodes in mapping.Content, in document order. A key that occurs
// more than once contributes the values of every occurrence.
func fieldTags(mapping *yaml.Node) ([]string, []int, error) {
	var (
		out []string
		idx []int
	)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if key.Kind != yaml.ScalarNode || key.Value != TagsField {
			continue
		}
		vals, err := valueTags(mapping.Content[i+1])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, vals...)
		idx = append(idx, i+1)
	}
	return out, idx, nil
}

func valueTags(val *yaml.Node) ([]string, error) {
	if val.Kind == yaml.AliasNode && val.Alias != nil {
		val = val.Alias
	}

	switch val.Kind {
	case yaml.ScalarNode:
		switch val.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!str":
			return []string{val.Value}, nil
		}
	case yaml.SequenceNode:
		var out []string
		for _, item := range val.Content {
			if item.Kind == yaml.AliasNode && item.Alias != nil {
				item = item.Alias
			}
			// Non-string items are dropped.
			if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!str" {
				out = append(out, item.Value)
			}
		}
		return out, nil
	}
	return nil, &apperr.StructuralError{Field: TagsField, Shape: describe(val), Want: "string or sequence"}
}

// detachAnchors prepares the removed nodes for removal from the tree under
// root. Every anchor defined inside them moves to the first remaining alias
// that refers to it, so the other fields keep their values and the output
// stays parsable.
func detachAnchors(root *yaml.Node, removed ...*yaml.Node) {
	anchored := make(map[*yaml.Node]bool)
	skip := make(map[*yaml.Node]bool, len(removed))
	for _, n := range removed {
		skip[n] = true
		collectAnchors(n, anchored)
	}
	if len(anchored) == 0 {
		return
	}

	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if skip[n] || len(anchored) == 0 {
			return
		}
		if n.Kind == yaml.AliasNode && anchored[n.Alias] {
			target := n.Alias
			head, line, foot := n.HeadComment, n.LineComment, n.FootComment
			*n = *target
			n.HeadComment, n.LineComment, n.FootComment = head, line, foot
			// The definition now lives here, including any anchors below it.
			moved := make(map[*yaml.Node]bool)
			collectAnchors(target, moved)
			for a := range moved {
				delete(anchored, a)
			}
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(root)
}

func collectAnchors(n *yaml.Node, into map[*yaml.Node]bool) {
	if n.Kind == yaml.AliasNode {
		return
	}
	if n.Anchor != "" {
		into[n] = true
	}
	for _, c := range n.Content {
		collectAnchors(c, into)
	}
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int":
			return "integer"
		case "!!float":
			return "float"
		case "!!bool":
			return "boolean"
		case "!!timestamp":
			return "timestamp"
		case "!!str":
			return "string"
		}
		return "scalar " + n.ShortTag()
	}
	return "node"
}
