package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WorkoutCategory classifies catalog entries and workouts. It is serialized as its label.
type WorkoutCategory string

const (
	CategoryStrength       WorkoutCategory = "Strength"
	CategoryCalisthenics   WorkoutCategory = "Calisthenics"
	CategoryTRX            WorkoutCategory = "TRX"
	CategoryResistanceBand WorkoutCategory = "Resistance Band"
	CategoryYoga           WorkoutCategory = "Yoga"
	CategoryWarmup         WorkoutCategory = "Warmup"
	CategoryStretching     WorkoutCategory = "Stretching"
	CategoryMeditation     WorkoutCategory = "Meditation"
)

// AllCategories lists every category in declaration order.
var AllCategories = []WorkoutCategory{
	CategoryStrength,
	CategoryCalisthenics,
	CategoryTRX,
	CategoryResistanceBand,
	CategoryYoga,
	CategoryWarmup,
	CategoryStretching,
	CategoryMeditation,
}

// ParseCategory returns the category with the given label. Matching is exact.
func ParseCategory(label string) (WorkoutCategory, error) {
	for _, c := range AllCategories {
		if string(c) == label {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown workout category %q", label)
}

// ParseCategoryFold is ParseCategory ignoring case and surrounding space. Used for user input.
func ParseCategoryFold(label string) (WorkoutCategory, error) {
	label = strings.TrimSpace(label)
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), label) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown workout category %q", label)
}

// Valid reports whether c is one of the fixed labels.
func (c WorkoutCategory) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c WorkoutCategory) String() string {
	return string(c)
}

// MarshalJSON refuses to write a label that could not be read back.
func (c WorkoutCategory) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown workout category %q", string(c))
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON fails on unrecognized labels, which fails the whole enclosing document.
func (c *WorkoutCategory) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseCategory(label)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalText decodes a category label from text formats such as the YAML catalog asset.
func (c *WorkoutCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
