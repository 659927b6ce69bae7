package models

import "time"

// Metadata holds the best-effort page summary attached to a record.
// Any field may be empty when the destination page did not expose it.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Empty reports whether no metadata field was extracted.
func (m *Metadata) Empty() bool {
	return m == nil || (m.Title == "" && m.Description == "" && m.Image == "")
}

// Record represents a slug-to-destination mapping.
type Record struct {
	// Slug is the short path segment identifying the record. Immutable after creation.
	Slug string `json:"slug"`
	// URL is the normalized absolute destination.
	URL string `json:"url"`
	// Metadata is the optional page summary fetched at create/update time.
	Metadata *Metadata `json:"metadata,omitempty"`
	// Created is fixed at insert time.
	Created time.Time `json:"created"`
	// Updated is bumped on every mutation.
	Updated time.Time `json:"updated"`
}
