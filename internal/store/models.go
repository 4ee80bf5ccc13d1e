package store

import "time"

// IndexRecord is the persisted index entry for one source file. Path is the
// canonical file path relative to the indexed root and acts as the primary
// key; Content holds the LLM-generated repository map for the file.
type IndexRecord struct {
	Path        string
	Content     string
	Keywords    string // comma-separated tags, at most five
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecordSummary is a lightweight record view for listings and overview
// generation. Content is omitted because the map text can be large.
type RecordSummary struct {
	Path        string
	Keywords    string
	Description string
}
