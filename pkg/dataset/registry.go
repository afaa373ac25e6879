package dataset

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Registry maps chart identifiers to datasets. It is read-only after construction.
type Registry struct {
	sets map[ID]Dataset
}

// NewRegistry builds a registry from the given datasets after validating each.
func NewRegistry(sets map[ID]Dataset) (*Registry, error) {
	var errs []error

	owned := make(map[ID]Dataset, len(sets))

	for id, ds := range sets {
		if err := ds.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("dataset %s: %w", id, err))

			continue
		}

		owned[id] = ds.Clone()
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Registry{sets: owned}, nil
}

// Default returns the built-in survey results.
func Default() *Registry {
	reg, err := NewRegistry(builtin())
	if err != nil {
		panic("dataset: built-in data invalid: " + err.Error())
	}

	return reg
}

// Get returns a copy of the dataset for id.
func (r *Registry) Get(id ID) (Dataset, error) {
	ds, ok := r.sets[id]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrUnknownDataset, id)
	}

	return ds.Clone(), nil
}

// IDs returns all identifiers: charted ones in layout order, then the rest sorted.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.sets))

	for _, id := range Charted() {
		if _, ok := r.sets[id]; ok {
			ids = append(ids, id)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(r.sets)) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return ids
}

// Merge returns a new registry where datasets from override replace or extend r.
func (r *Registry) Merge(override map[ID]Dataset) (*Registry, error) {
	merged := maps.Clone(r.sets)
	maps.Copy(merged, override)

	return NewRegistry(merged)
}

func builtin() map[ID]Dataset {
	return map[ID]Dataset{
		Workspace: {
			Title:      "Workspace",
			Labels:     []string{"On-Site", "Remote", "Hybrid"},
			Values:     []float64{57, 24, 19},
			Proportion: true,
		},
		Languages: {
			Title: "Programming Languages",
			Labels: []string{
				"JavaScript", "Python", "PHP", "SQL", "TypeScript", "Java", "C#",
				"Dart", "C++", "Kotlin", "Bash", "Go", "Ruby",
			},
			Values: []float64{39, 23, 16, 15, 15, 13, 7, 5, 4, 3, 2, 2, 2},
		},
		FrontendFrameworks: {
			Title:  "Frontend Frameworks",
			Labels: []string{"React", "Angular", "Flutter", "Next", "React-Native", "Vue", "jQuery"},
			Values: []float64{30, 11, 9, 8, 5, 5, 3},
		},
		BackendFrameworks: {
			Title:  "Backend Frameworks",
			Labels: []string{"Laravel", "Spring", "Django", ".NET", "Nest", "Express"},
			Values: []float64{11, 9, 8, 7, 5, 4},
		},
		Databases: {
			Title:  "Databases",
			Labels: []string{"PostgreSQL", "MySQL", "Firebase", "MongoDB", "SQL-Server"},
			Values: []float64{27, 15, 9, 8, 7},
		},
		Styling: {
			Title:      "Styling",
			Labels:     []string{"CSS", "HTML", "Tailwind", "Bootstrap", "WordPress"},
			Values:     []float64{20, 18, 10, 5, 3},
			Proportion: true,
		},
		DevOps: {
			Title:  "DevOps & Cloud",
			Labels: []string{"Docker", "Odoo", "AWS", "Azure", "Kubernetes", "Jenkins", "Terraform", "Kafka"},
			Values: []float64{15, 10, 9, 7, 4, 3, 3, 2},
		},
	}
}
