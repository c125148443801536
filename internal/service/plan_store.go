package service

import (
	"context"
	"errors"
	"fitnote/planner/internal/domain"
	"fitnote/planner/internal/repository"
	"log"
	"time"
)

// DefaultStoreTimeout bounds a single load or save when the caller gives none.
const DefaultStoreTimeout = 5 * time.Second

// PlanStore loads and saves the whole plan document under repository.PlanKey.
type PlanStore struct {
	kv      repository.KeyValueStore
	timeout time.Duration
}

// NewPlanStore creates a PlanStore over kv. timeout <= 0 means DefaultStoreTimeout.
func NewPlanStore(kv repository.KeyValueStore, timeout time.Duration) *PlanStore {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &PlanStore{kv: kv, timeout: timeout}
}

// Load returns the persisted plan. A missing, unreadable or undecodable document
// yields an empty plan; Load never fails.
func (s *PlanStore) Load(ctx context.Context) *domain.Plan {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// 1. Fetch the raw document
	data, err := s.kv.Get(ctx, repository.PlanKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: Could not read plan, starting empty: %v", err)
		}
		return domain.NewPlan()
	}

	// 2. Decode and validate it
	plan, err := domain.DecodePlan(data)
	if err != nil {
		log.Printf("WARN: Stored plan is not decodable, starting empty: %v", err)
		return domain.NewPlan()
	}
	return plan
}

// Save writes the whole plan, replacing the previous document. If the plan cannot be
// encoded nothing is written.
func (s *PlanStore) Save(ctx context.Context, plan *domain.Plan) error {
	// Encode first so a bad plan never replaces a good document
	data, err := domain.EncodePlan(plan)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.kv.Put(ctx, repository.PlanKey, data)
}
