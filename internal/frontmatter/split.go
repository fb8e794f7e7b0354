// Package frontmatter reads and rewrites the YAML metadata block at the top
// of a Markdown document.
//
// A block opens with a first line consisting solely of "---" and closes at
// the next such line. Everything after the closing line is the body, which
// is never modified.
package frontmatter

import "bytes"

// Marker delimits the metadata block.
const Marker = "---"

// Document is raw document text split at the metadata block.
type Document struct {
	Block    []byte // block content without the marker lines
	Body     []byte
	HasBlock bool
}

// Split separates the metadata block from the body. Without an opening
// marker on the first line, or without a closing marker, the whole input is
// body.
func Split(data []byte) Document {
	line, rest, ok := cutLine(data)
	if !ok || line != Marker {
		return Document{Body: data}
	}

	start := len(data) - len(rest)
	for len(rest) > 0 {
		pos := len(data) - len(rest)
		line, next, hasNL := cutLine(rest)
		if line == Marker {
			return Document{Block: data[start:pos], Body: next, HasBlock: true}
		}
		if !hasNL {
			break
		}
		rest = next
	}
	return Document{Body: data}
}

// cutLine returns the first line of b without its terminator (a trailing
// "\r" is dropped too), the remainder after the newline, and whether a
// newline was found.
func cutLine(b []byte) (string, []byte, bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return string(bytes.TrimSuffix(b, []byte("\r"))), nil, false
	}
	return string(bytes.TrimSuffix(b[:i], []byte("\r"))), b[i+1:], true
}
