// Package cli implements the fitnote operator commands. They drive the same
// plan service as the HTTP server, against the same store.
package cli

import (
	"context"
	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/repository"
	"fitnote/planner/internal/service"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StoreOpener opens the configured key-value store. The returned func releases it.
type StoreOpener func() (repository.KeyValueStore, func() error, error)

type app struct {
	catalog *catalog.Catalog
	open    StoreOpener
	timeout time.Duration
}

// NewRootCommand builds the fitnote command tree.
func NewRootCommand(workoutCatalog *catalog.Catalog, open StoreOpener, storeTimeout time.Duration) *cobra.Command {
	a := &app{catalog: workoutCatalog, open: open, timeout: storeTimeout}

	root := &cobra.Command{
		Use:           "fitnote",
		Short:         "Browse the workout catalog and edit the workout plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(a.catalogCommand(), a.planCommand())
	return root
}

// withPlan opens the store, loads the plan service and runs fn against it.
// The store is released before returning.
func (a *app) withPlan(ctx context.Context, fn func(svc service.PlanService, store *service.PlanStore) error) (err error) {
	kv, closeStore, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); err == nil {
			err = cerr
		}
	}()
	store := service.NewPlanStore(kv, a.timeout)
	svc := service.NewPlanService(ctx, store, a.catalog)
	return fn(svc, store)
}

// withEdit runs an edit, then saves the plan once more and returns that save's error,
// since the service only logs failed saves and this process exits right after.
// The message returned by fn is printed only once the plan is stored.
func (a *app) withEdit(cmd *cobra.Command, fn func(svc service.PlanService) (string, error)) error {
	ctx := cmd.Context()
	return a.withPlan(ctx, func(svc service.PlanService, store *service.PlanStore) error {
		msg, err := fn(svc)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, svc.Snapshot()); err != nil {
			return fmt.Errorf("saving plan: %w", err)
		}
		if msg != "" {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
		return nil
	})
}
