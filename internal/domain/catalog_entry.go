package domain

// CatalogEntry is one known workout in the fixed catalog. Values are never mutated after load.
type CatalogEntry struct {
	Name        string          `yaml:"name" json:"name"`
	Category    WorkoutCategory `yaml:"category" json:"category"`
	ImageName   string          `yaml:"image" json:"imageName"`
	Description string          `yaml:"description" json:"description"`
}
