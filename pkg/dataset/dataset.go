// Package dataset holds the survey results plotted on the dashboard.
package dataset

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ID identifies a chart and the dataset it plots.
type ID string

// Chart identifiers.
const (
	Workspace          ID = "workspace"
	Languages          ID = "languages"
	FrontendFrameworks ID = "frontendFrameworks"
	BackendFrameworks  ID = "backendFrameworks"
	Databases          ID = "databases"
	Styling            ID = "styling"
	DevOps             ID = "devops"
)

// proportionTotal is the sum a proportion dataset is expected to reach.
const proportionTotal = 100

// Sentinel errors.
var (
	ErrUnknownDataset  = errors.New("unknown dataset")
	ErrLengthMismatch  = errors.New("labels and values differ in length")
	ErrEmptyDataset    = errors.New("dataset has no entries")
	ErrNegativeValue   = errors.New("dataset value is negative")
	ErrProportionTotal = errors.New("proportion dataset does not total 100")
)

// Charted returns the identifiers of the charts on the dashboard, in layout order.
func Charted() []ID {
	return []ID{Workspace, Languages, FrontendFrameworks, BackendFrameworks, Databases, Styling}
}

// Dataset is one survey question: parallel labels and percentages.
type Dataset struct {
	Title      string    `json:"title"      yaml:"title"`
	Labels     []string  `json:"labels"     yaml:"labels"`
	Values     []float64 `json:"values"     yaml:"values"`
	Proportion bool      `json:"proportion" yaml:"proportion"`
}

// Len returns the number of entries.
func (d Dataset) Len() int {
	return len(d.Labels)
}

// Total returns the sum of all values.
func (d Dataset) Total() float64 {
	var sum float64

	for _, v := range d.Values {
		sum += v
	}

	return sum
}

// Validate checks the structural invariants of the dataset.
func (d Dataset) Validate() error {
	if len(d.Labels) != len(d.Values) {
		return fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(d.Labels), len(d.Values))
	}

	if len(d.Labels) == 0 {
		return ErrEmptyDataset
	}

	for i, v := range d.Values {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s = %v", ErrNegativeValue, d.Labels[i], v)
		}
	}

	return nil
}

// CheckProportion reports whether a proportion dataset sums to 100.
// Non-proportion datasets always pass.
func (d Dataset) CheckProportion() error {
	if !d.Proportion {
		return nil
	}

	if total := d.Total(); math.Abs(total-proportionTotal) > 1e-9 {
		return fmt.Errorf("%w: got %v", ErrProportionTotal, total)
	}

	return nil
}

// CheckProportions runs CheckProportion over sets in identifier order and
// joins the failures.
func CheckProportions(sets map[ID]Dataset) error {
	var errs []error

	for _, id := range slices.Sorted(maps.Keys(sets)) {
		if err := sets[id].CheckProportion(); err != nil {
			errs = append(errs, fmt.Errorf("dataset %s: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

// Clone returns a copy that shares no slices with d.
func (d Dataset) Clone() Dataset {
	d.Labels = slices.Clone(d.Labels)
	d.Values = slices.Clone(d.Values)

	return d
}
