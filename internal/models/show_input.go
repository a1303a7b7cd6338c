package models

import "encoding/json"

// ShowInput is the decoded body of a create or update request.
type ShowInput struct {
	// Present is false when the body did not contain a "show" field at all.
	Present bool
	Show    any
}

// IsEmpty reports whether v is a value that does not occupy a registry slot:
// null, the empty string, false or zero.
func IsEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case bool:
		return !s
	case float64:
		return s == 0
	case int:
		return s == 0
	case json.Number:
		f, err := s.Float64()
		return err == nil && f == 0
	}
	return false
}
