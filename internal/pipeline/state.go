package pipeline

import (
	"fmt"
	"sort"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// Field names a value carried in the provisioning state
type Field string

// State holds the values produced by pipeline steps.
// It is populated incrementally and a field can only be set once.
type State struct {
	values map[Field]string
}

// NewState creates an empty provisioning state
func NewState() *State {
	return &State{values: make(map[Field]string)}
}

// Set stores a value for a field that has not been set yet.
// Empty values are allowed (an empty database password is valid).
func (s *State) Set(field Field, value string) error {
	if _, ok := s.values[field]; ok {
		return fmt.Errorf("%w: %s", wperrors.ErrFieldAlreadySet, field)
	}
	s.values[field] = value
	return nil
}

// Get returns the value of a field, or an empty string when it is unset
func (s *State) Get(field Field) string {
	return s.values[field]
}

// Lookup returns the value of a field and whether it was set
func (s *State) Lookup(field Field) (string, bool) {
	v, ok := s.values[field]
	return v, ok
}

// Has reports whether a field was set
func (s *State) Has(field Field) bool {
	_, ok := s.values[field]
	return ok
}

// Fields returns the names of all set fields in sorted order
func (s *State) Fields() []Field {
	fields := make([]Field, 0, len(s.values))
	for f := range s.values {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// missing returns the fields in want that are not set
func (s *State) missing(want []Field) []string {
	var out []string
	for _, f := range want {
		if !s.Has(f) {
			out = append(out, string(f))
		}
	}
	return out
}
