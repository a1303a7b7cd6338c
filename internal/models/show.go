package models

import "github.com/google/uuid"

// Entry is a single show stored in the registry together with its stable identity.
// Show holds the value exactly as it was submitted (any JSON value, or a
// string from a form body); nil means the payload carried no show.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Show     any       `json:"show"`
}

// ShowList is a point-in-time copy of the registry contents.
type ShowList struct {
	// Revision increases by one with every mutation of the registry.
	Revision uint64 `json:"revision"`
	Shows    []any  `json:"shows"`
}

// Len returns the number of shows in the list.
func (l ShowList) Len() int {
	return len(l.Shows)
}
