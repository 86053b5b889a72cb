package models

import "time"

// Document is one JSON object in a collection, addressed by (collection, id).
type Document struct {
	Collection string
	ID         string
	Fields     map[string]any
	UpdatedAt  time.Time
}
