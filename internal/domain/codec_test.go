package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *Plan {
	p := NewPlan()
	legs := p.AddSection("Leg Day")
	squat := NewWorkoutEntry("Squat", CategoryStrength)
	p.AddWorkout(legs.ID, squat)
	p.SetWorkoutDetail(legs.ID, squat.ID, "3x10")
	p.AddWorkout(legs.ID, NewWorkoutEntry("Band Walk", CategoryResistanceBand))

	yoga := p.AddSection("Yoga")
	p.AddWorkout(yoga.ID, NewWorkoutEntryFromCatalog(CatalogEntry{
		Name: "Tree Pose", Category: CategoryYoga, ImageName: "figure.yoga", Description: "Balance.",
	}))
	p.AddSection("Rest")
	return p
}

func TestPlanRoundTrip(t *testing.T) {
	p := samplePlan()

	data, err := EncodePlan(p)
	require.NoError(t, err)
	got, err := DecodePlan(data)
	require.NoError(t, err)

	assert.Equal(t, p, got)
}

func TestEncodedLayout(t *testing.T) {
	data, err := EncodePlan(samplePlan())
	require.NoError(t, err)

	var doc struct {
		Sections []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Workouts []map[string]any
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Sections, 3)
	first := doc.Sections[0].Workouts[0]
	assert.Equal(t, "Squat", first["name"])
	assert.Equal(t, "Strength", first["category"])
	assert.Equal(t, "3x10", first["detail"])
	assert.Equal(t, "Resistance Band", doc.Sections[0].Workouts[1]["category"])
	_, hasDetail := doc.Sections[0].Workouts[1]["detail"]
	assert.False(t, hasDetail)
}

func TestEmptyPlanRoundTrip(t *testing.T) {
	data, err := EncodePlan(NewPlan())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[]}`, string(data))

	got, err := DecodePlan(data)
	require.NoError(t, err)
	assert.Empty(t, got.Sections)
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{{`,
		"unknown category": `{"sections":[{"id":"6f1c2b8e-3a55-4a3e-9d61-0c8f0f6f2a10","title":"A","workouts":[{"id":"0b7d1f3e-8c1a-4d0e-a1f2-5e6f7a8b9c0d","name":"Row","category":"Rowing"}]}]}`,
		"missing category": `{"sections":[{"id":"6f1c2b8e-3a55-4a3e-9d61-0c8f0f6f2a10","title":"A","workouts":[{"id":"0b7d1f3e-8c1a-4d0e-a1f2-5e6f7a8b9c0d","name":"Row"}]}]}`,
		"missing id":       `{"sections":[{"title":"A","workouts":[]}]}`,
		"bad id":           `{"sections":[{"id":"nope","title":"A","workouts":[]}]}`,
		"duplicate id":     `{"sections":[{"id":"6f1c2b8e-3a55-4a3e-9d61-0c8f0f6f2a10","title":"A","workouts":[]},{"id":"6f1c2b8e-3a55-4a3e-9d61-0c8f0f6f2a10","title":"B","workouts":[]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePlan([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRejectsUnknownCategory(t *testing.T) {
	p := NewPlan()
	s := p.AddSection("A")
	p.AddWorkout(s.ID, NewWorkoutEntry("Row", WorkoutCategory("Rowing")))

	_, err := EncodePlan(p)
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Resistance Band")
	require.NoError(t, err)
	assert.Equal(t, CategoryResistanceBand, c)

	_, err = ParseCategory("resistance band")
	assert.Error(t, err)

	c, err = ParseCategoryFold(" resistance band ")
	require.NoError(t, err)
	assert.Equal(t, CategoryResistanceBand, c)

	assert.Len(t, AllCategories, 8)
}
