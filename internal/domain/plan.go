package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Image and description given to workouts that do not come from the catalog.
const (
	CustomWorkoutImageName   = "figure.strengthtraining.traditional"
	CustomWorkoutDescription = "Custom workout"
)

// WorkoutEntry is one workout placed in a section.
type WorkoutEntry struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    WorkoutCategory `json:"category"`
	Detail      *string         `json:"detail,omitempty"` // nil means no detail; never points at ""
	ImageName   string          `json:"imageName,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Section is a named, ordered group of workouts, e.g. "Monday" or "Upper Body".
type Section struct {
	ID       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	Workouts []WorkoutEntry `json:"workouts"`
}

// Plan is the root aggregate and the only persisted plan document.
type Plan struct {
	Sections []Section `json:"sections"`
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{Sections: []Section{}}
}

// NewWorkoutEntry builds a custom workout with a fresh identifier.
func NewWorkoutEntry(name string, category WorkoutCategory) WorkoutEntry {
	return WorkoutEntry{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		ImageName:   CustomWorkoutImageName,
		Description: CustomWorkoutDescription,
	}
}

// NewWorkoutEntryFromCatalog copies a catalog entry into a new workout.
// Every call yields a new identifier.
func NewWorkoutEntryFromCatalog(c CatalogEntry) WorkoutEntry {
	return WorkoutEntry{
		ID:          uuid.New(),
		Name:        c.Name,
		Category:    c.Category,
		ImageName:   c.ImageName,
		Description: c.Description,
	}
}

// DetailText returns the detail annotation, or "" when there is none.
func (w WorkoutEntry) DetailText() string {
	if w.Detail == nil {
		return ""
	}
	return *w.Detail
}

// HasDetail reports whether the workout carries an annotation.
func (w WorkoutEntry) HasDetail() bool {
	return w.Detail != nil
}

// SectionIndex returns the position of the section, or -1.
func (p *Plan) SectionIndex(id uuid.UUID) int {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with the given id. The pointer is only valid until the
// next structural change to the plan.
func (p *Plan) Section(id uuid.UUID) (*Section, bool) {
	i := p.SectionIndex(id)
	if i < 0 {
		return nil, false
	}
	return &p.Sections[i], true
}

// WorkoutIndex returns the position of the workout within the section, or -1.
func (s *Section) WorkoutIndex(id uuid.UUID) int {
	for i := range s.Workouts {
		if s.Workouts[i].ID == id {
			return i
		}
	}
	return -1
}

// Workout returns the workout in the given section. Same pointer caveat as Section.
func (p *Plan) Workout(sectionID, workoutID uuid.UUID) (*WorkoutEntry, bool) {
	s, ok := p.Section(sectionID)
	if !ok {
		return nil, false
	}
	i := s.WorkoutIndex(workoutID)
	if i < 0 {
		return nil, false
	}
	return &s.Workouts[i], true
}

// ContainsID reports whether any section or workout in the plan uses id.
func (p *Plan) ContainsID(id uuid.UUID) bool {
	for i := range p.Sections {
		if p.Sections[i].ID == id || p.Sections[i].WorkoutIndex(id) >= 0 {
			return true
		}
	}
	return false
}

// AddSection appends an empty section. Title validation is the caller's job.
func (p *Plan) AddSection(title string) Section {
	s := Section{ID: uuid.New(), Title: title, Workouts: []WorkoutEntry{}}
	p.Sections = append(p.Sections, s)
	return s
}

// RenameSection sets the title of a section. Unknown ids are ignored.
func (p *Plan) RenameSection(id uuid.UUID, title string) bool {
	s, ok := p.Section(id)
	if !ok {
		return false
	}
	s.Title = title
	return true
}

// DeleteSection removes a section together with its workouts.
func (p *Plan) DeleteSection(id uuid.UUID) bool {
	i := p.SectionIndex(id)
	if i < 0 {
		return false
	}
	p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
	return true
}

// ReorderSections moves the section at from so that it ends up at index to.
// Both indices must be in range; it panics otherwise.
func (p *Plan) ReorderSections(from, to int) {
	move(p.Sections, from, to)
}

// AddWorkout appends a workout to a section. Unknown sections are ignored.
func (p *Plan) AddWorkout(sectionID uuid.UUID, entry WorkoutEntry) bool {
	s, ok := p.Section(sectionID)
	if !ok {
		return false
	}
	s.Workouts = append(s.Workouts, entry)
	return true
}

// RenameWorkout sets a workout's name in place.
func (p *Plan) RenameWorkout(sectionID, workoutID uuid.UUID, name string) bool {
	w, ok := p.Workout(sectionID, workoutID)
	if !ok {
		return false
	}
	w.Name = name
	return true
}

// SetWorkoutDetail sets the annotation. A blank detail clears it.
func (p *Plan) SetWorkoutDetail(sectionID, workoutID uuid.UUID, detail string) bool {
	w, ok := p.Workout(sectionID, workoutID)
	if !ok {
		return false
	}
	if strings.TrimSpace(detail) == "" {
		w.Detail = nil
		return true
	}
	w.Detail = &detail
	return true
}

// DeleteWorkout removes a workout from its section.
func (p *Plan) DeleteWorkout(sectionID, workoutID uuid.UUID) bool {
	s, ok := p.Section(sectionID)
	if !ok {
		return false
	}
	i := s.WorkoutIndex(workoutID)
	if i < 0 {
		return false
	}
	s.Workouts = append(s.Workouts[:i], s.Workouts[i+1:]...)
	return true
}

// ReorderWorkouts moves a workout within its section. Indices must be in range.
func (p *Plan) ReorderWorkouts(sectionID uuid.UUID, from, to int) bool {
	s, ok := p.Section(sectionID)
	if !ok {
		return false
	}
	move(s.Workouts, from, to)
	return true
}

// Clone returns a deep copy that shares nothing with p.
func (p *Plan) Clone() *Plan {
	out := &Plan{Sections: make([]Section, len(p.Sections))}
	for i, s := range p.Sections {
		cs := Section{ID: s.ID, Title: s.Title, Workouts: make([]WorkoutEntry, len(s.Workouts))}
		for j, w := range s.Workouts {
			if w.Detail != nil {
				d := *w.Detail
				w.Detail = &d
			}
			cs.Workouts[j] = w
		}
		out.Sections[i] = cs
	}
	return out
}

// WorkoutCount returns the number of workouts across all sections.
func (p *Plan) WorkoutCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Workouts)
	}
	return n
}

func move[T any](s []T, from, to int) {
	if from == to {
		return
	}
	v := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = v
}
