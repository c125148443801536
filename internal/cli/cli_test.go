package cli

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/repository"
	"fitnote/planner/internal/repository/file"
	"fitnote/planner/internal/service"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`\[([0-9a-f-]{36})\]`)

func memOpener(t *testing.T) (StoreOpener, repository.KeyValueStore) {
	kv, err := file.NewFileKVRepository(afero.NewMemMapFs(), "/store")
	require.NoError(t, err)
	return func() (repository.KeyValueStore, func() error, error) {
		return kv, func() error { return nil }, nil
	}, kv
}

// readOnlyKV serves reads but refuses every write.
type readOnlyKV struct {
	repository.KeyValueStore
}

func (readOnlyKV) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func run(t *testing.T, open StoreOpener, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(catalog.Default(), open, time.Second)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func lastID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, m, out)
	return m[len(m)-1][1]
}

func TestCatalogCommand(t *testing.T) {
	open, _ := memOpener(t)

	out, err := run(t, open, "catalog", "bench")
	require.NoError(t, err)
	assert.Contains(t, out, "Bench Press")

	out, err = run(t, open, "catalog", "--category", "yoga")
	require.NoError(t, err)
	assert.NotContains(t, out, "Bench Press")
	assert.Contains(t, out, "Yoga")

	out, err = run(t, open, "catalog", "no such thing")
	require.NoError(t, err)
	assert.Contains(t, out, "no matching workouts")
}

func TestPlanCommandsPersist(t *testing.T) {
	open, kv := memOpener(t)

	out, err := run(t, open, "plan", "add-section", "Leg", "Day")
	require.NoError(t, err)
	sectionID := lastID(t, out)

	out, err = run(t, open, "plan", "add-workout", sectionID, "squat")
	require.NoError(t, err)
	workoutID := lastID(t, out)

	_, err = run(t, open, "plan", "add-workout", "--category", "strength", sectionID, "Sled", "Push")
	require.NoError(t, err)

	_, err = run(t, open, "plan", "detail", sectionID, workoutID, "3x10")
	require.NoError(t, err)

	out, err = run(t, open, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Leg Day")
	assert.Contains(t, out, "1. Squat (Strength)")
	assert.Contains(t, out, "2. Sled Push (Strength)")
	assert.Contains(t, out, "3x10")

	_, err = run(t, open, "plan", "move", "--section", sectionID, "1", "0")
	require.NoError(t, err)
	plan := service.NewPlanStore(kv, 0).Load(context.Background())
	assert.Equal(t, "Sled Push", plan.Sections[0].Workouts[0].Name)

	_, err = run(t, open, "plan", "reset")
	require.NoError(t, err)
	out, err = run(t, open, "plan", "show")
	require.NoError(t, err)
	assert.Equal(t, "plan is empty", strings.TrimSpace(out))
}

func TestPlanCommandErrors(t *testing.T) {
	open, _ := memOpener(t)

	_, err := run(t, open, "plan", "add-section", "  ")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)

	_, err = run(t, open, "plan", "add-workout", "not-a-uuid", "Squat")
	assert.ErrorContains(t, err, "invalid section id")

	out, err := run(t, open, "plan", "add-section", "A")
	require.NoError(t, err)
	sectionID := lastID(t, out)

	_, err = run(t, open, "plan", "add-workout", sectionID, "Moon", "Walk")
	assert.ErrorIs(t, err, service.ErrUnknownCatalogEntry)

	_, err = run(t, open, "plan", "add-workout", "-c", "Rowing", sectionID, "Erg")
	assert.ErrorIs(t, err, service.ErrInvalidCategory)

	_, err = run(t, open, "plan", "move", "0", "3")
	assert.ErrorIs(t, err, service.ErrIndexOutOfRange)
}

func TestEditFailsWhenPlanCannotBeSaved(t *testing.T) {
	_, kv := memOpener(t)
	open := func() (repository.KeyValueStore, func() error, error) {
		return readOnlyKV{kv}, func() error { return nil }, nil
	}

	out, err := run(t, open, "plan", "add-section", "Leg", "Day")
	assert.ErrorContains(t, err, "saving plan")
	assert.NotContains(t, out, "added section")

	out, err = run(t, open, "plan", "reset")
	assert.Error(t, err)
	assert.NotContains(t, out, "plan reset")

	// Reads still work against the same store.
	out, err = run(t, open, "plan", "show")
	require.NoError(t, err)
	assert.Equal(t, "plan is empty", strings.TrimSpace(out))
}
