package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrMissingID   = errors.New("document entity is missing an id")
	ErrDuplicateID = errors.New("document contains a duplicate id")
)

// EncodePlan serializes the whole plan.
func EncodePlan(p *Plan) ([]byte, error) {
	if p == nil {
		p = NewPlan()
	}
	return json.Marshal(p)
}

// DecodePlan parses a plan document. Any malformed part fails the whole document:
// bad JSON, unknown category labels, missing or repeated identifiers.
func DecodePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Sections == nil {
		p.Sections = []Section{}
	}
	seen := make(map[uuid.UUID]struct{})
	check := func(id uuid.UUID) error {
		if id == uuid.Nil {
			return ErrMissingID
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for i := range p.Sections {
		s := &p.Sections[i]
		if err := check(s.ID); err != nil {
			return nil, err
		}
		if s.Workouts == nil {
			s.Workouts = []WorkoutEntry{}
		}
		for j := range s.Workouts {
			w := &s.Workouts[j]
			if err := check(w.ID); err != nil {
				return nil, err
			}
			if !w.Category.Valid() {
				return nil, fmt.Errorf("workout %s: unknown workout category %q", w.ID, string(w.Category))
			}
			if w.Detail != nil && *w.Detail == "" {
				w.Detail = nil
			}
		}
	}
	return &p, nil
}
