package service

import (
	"context"
	"errors"
	"fitnote/planner/internal/domain"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrSectionNotFound     = errors.New("section not found")
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrUnknownCatalogEntry = errors.New("no catalog workout with that name")
	ErrInvalidCategory     = errors.New("unknown workout category")
	ErrDuplicateID         = errors.New("workout id already used in the plan")
)

// CatalogLookup finds catalog workouts by name.
type CatalogLookup interface {
	Find(name string) (domain.CatalogEntry, bool)
}

// PlanService owns the single plan of this process. Every edit runs under one lock,
// is saved in full, and is then announced to subscribers.
type PlanService interface {
	Snapshot() *domain.Plan
	Subscribe() (<-chan *domain.Plan, func())

	AddSection(ctx context.Context, title string) (domain.Section, error)
	RenameSection(ctx context.Context, sectionID uuid.UUID, title string) error
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error
	ReorderSections(ctx context.Context, from, to int) error

	AddWorkout(ctx context.Context, sectionID uuid.UUID, entry domain.WorkoutEntry) error
	AddCatalogWorkout(ctx context.Context, sectionID uuid.UUID, catalogName string) (domain.WorkoutEntry, error)
	AddCustomWorkout(ctx context.Context, sectionID uuid.UUID, name string, category domain.WorkoutCategory) (domain.WorkoutEntry, error)
	RenameWorkout(ctx context.Context, sectionID, workoutID uuid.UUID, name string) error
	SetWorkoutDetail(ctx context.Context, sectionID, workoutID uuid.UUID, detail string) error
	DeleteWorkout(ctx context.Context, sectionID, workoutID uuid.UUID) error
	ReorderWorkouts(ctx context.Context, sectionID uuid.UUID, from, to int) error

	Reset(ctx context.Context) error
}

// --- Service Implementation ---

type planService struct {
	store   *PlanStore
	catalog CatalogLookup

	mu   sync.Mutex
	plan *domain.Plan

	nextSub int
	subs    map[int]chan *domain.Plan
}

// NewPlanService loads the persisted plan and returns a service owning it.
func NewPlanService(ctx context.Context, store *PlanStore, catalog CatalogLookup) PlanService {
	plan := store.Load(ctx)
	log.Printf("INFO: Plan loaded: %d sections, %d workouts", len(plan.Sections), plan.WorkoutCount())
	return &planService{
		store:   store,
		catalog: catalog,
		plan:    plan,
		subs:    make(map[int]chan *domain.Plan),
	}
}

// Snapshot returns a deep copy of the current plan.
func (s *planService) Snapshot() *domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Subscribe returns a channel receiving a snapshot after every change. The channel
// holds one snapshot; a slow reader only sees the latest. Call cancel to stop.
func (s *planService) Subscribe() (<-chan *domain.Plan, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan *domain.Plan, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// mutate applies fn to the plan and, if fn succeeds, saves and publishes the result.
// Save failures are logged and swallowed: the in-memory plan stays authoritative and
// the next edit writes the whole document again.
func (s *planService) mutate(ctx context.Context, fn func(p *domain.Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Apply the edit; a rejected edit leaves the plan untouched
	if err := fn(s.plan); err != nil {
		return err
	}
	// 2. Save the whole document.
	// The edit already happened; a caller going away must not skip the save.
	if err := s.store.Save(context.WithoutCancel(ctx), s.plan); err != nil {
		log.Printf("ERROR: Failed to save plan: %v", err)
	}
	// 3. Notify subscribers in mutation order
	s.publishLocked()
	return nil
}

func (s *planService) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.plan.Clone()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot nobody has read yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}
	return nil
}

func (s *planService) AddSection(ctx context.Context, title string) (domain.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Section{}, ErrEmptyTitle
	}
	var added domain.Section
	err := s.mutate(ctx, func(p *domain.Plan) error {
		added = p.AddSection(title)
		return nil
	})
	return added, err
}

func (s *planService) RenameSection(ctx context.Context, sectionID uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	return s.mutate(ctx, func(p *domain.Plan) error {
		if !p.RenameSection(sectionID, title) {
			return ErrSectionNotFound
		}
		return nil
	})
}

func (s *planService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	return s.mutate(ctx, func(p *domain.Plan) error {
		if !p.DeleteSection(sectionID) {
			return ErrSectionNotFound
		}
		return nil
	})
}

func (s *planService) ReorderSections(ctx context.Context, from, to int) error {
	return s.mutate(ctx, func(p *domain.Plan) error {
		n := len(p.Sections)
		if err := checkIndex(from, n); err != nil {
			return err
		}
		if err := checkIndex(to, n); err != nil {
			return err
		}
		p.ReorderSections(from, to)
		return nil
	})
}

func (s *planService) AddWorkout(ctx context.Context, sectionID uuid.UUID, entry domain.WorkoutEntry) error {
	// 1. Validate the entry
	if strings.TrimSpace(entry.Name) == "" {
		return ErrEmptyName
	}
	if !entry.Category.Valid() {
		return ErrInvalidCategory
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	// 2. Append it under the lock
	return s.mutate(ctx, func(p *domain.Plan) error {
		// A repeated id would make the saved document undecodable on the next load.
		if p.ContainsID(entry.ID) {
			return ErrDuplicateID
		}
		if !p.AddWorkout(sectionID, entry) {
			return ErrSectionNotFound
		}
		return nil
	})
}

// AddCatalogWorkout adds a fresh copy of the named catalog workout.
func (s *planService) AddCatalogWorkout(ctx context.Context, sectionID uuid.UUID, catalogName string) (domain.WorkoutEntry, error) {
	c, ok := s.catalog.Find(catalogName)
	if !ok {
		return domain.WorkoutEntry{}, ErrUnknownCatalogEntry
	}
	entry := domain.NewWorkoutEntryFromCatalog(c)
	if err := s.AddWorkout(ctx, sectionID, entry); err != nil {
		return domain.WorkoutEntry{}, err
	}
	return entry, nil
}

// AddCustomWorkout adds a user-named workout.
func (s *planService) AddCustomWorkout(ctx context.Context, sectionID uuid.UUID, name string, category domain.WorkoutCategory) (domain.WorkoutEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.WorkoutEntry{}, ErrEmptyName
	}
	entry := domain.NewWorkoutEntry(name, category)
	if err := s.AddWorkout(ctx, sectionID, entry); err != nil {
		return domain.WorkoutEntry{}, err
	}
	return entry, nil
}

// findWorkout distinguishes a missing section from a missing workout.
func findWorkout(p *domain.Plan, sectionID, workoutID uuid.UUID) error {
	sec, ok := p.Section(sectionID)
	if !ok {
		return ErrSectionNotFound
	}
	if sec.WorkoutIndex(workoutID) < 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (s *planService) RenameWorkout(ctx context.Context, sectionID, workoutID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.mutate(ctx, func(p *domain.Plan) error {
		if err := findWorkout(p, sectionID, workoutID); err != nil {
			return err
		}
		p.RenameWorkout(sectionID, workoutID, name)
		return nil
	})
}

// SetWorkoutDetail stores the annotation; an empty detail clears it.
func (s *planService) SetWorkoutDetail(ctx context.Context, sectionID, workoutID uuid.UUID, detail string) error {
	detail = strings.TrimSpace(detail)
	return s.mutate(ctx, func(p *domain.Plan) error {
		if err := findWorkout(p, sectionID, workoutID); err != nil {
			return err
		}
		p.SetWorkoutDetail(sectionID, workoutID, detail)
		return nil
	})
}

func (s *planService) DeleteWorkout(ctx context.Context, sectionID, workoutID uuid.UUID) error {
	return s.mutate(ctx, func(p *domain.Plan) error {
		if err := findWorkout(p, sectionID, workoutID); err != nil {
			return err
		}
		p.DeleteWorkout(sectionID, workoutID)
		return nil
	})
}

func (s *planService) ReorderWorkouts(ctx context.Context, sectionID uuid.UUID, from, to int) error {
	return s.mutate(ctx, func(p *domain.Plan) error {
		sec, ok := p.Section(sectionID)
		if !ok {
			return ErrSectionNotFound
		}
		// Both positions must name existing workouts
		n := len(sec.Workouts)
		if err := checkIndex(from, n); err != nil {
			return err
		}
		if err := checkIndex(to, n); err != nil {
			return err
		}
		p.ReorderWorkouts(sectionID, from, to)
		return nil
	})
}

// Reset drops every section.
func (s *planService) Reset(ctx context.Context) error {
	return s.mutate(ctx, func(p *domain.Plan) error {
		p.Sections = []domain.Section{}
		return nil
	})
}
