// Package models defines the document types shared by storage and the audit.
package models

import "time"

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentTags is the set of tags declared in one document's front matter.
type DocumentTags struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}
