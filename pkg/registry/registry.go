// Package registry tracks the single live chart instance per chart id.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
)

// ErrInstanceDestroyed is returned when a destroyed instance is used again.
var ErrInstanceDestroyed = errors.New("chart instance already destroyed")

// Instance is a live rendered chart widget.
type Instance interface {
	// ID is unique per created instance.
	ID() string
	// ChartID is the chart the instance renders.
	ChartID() dataset.ID
	// Destroy releases the widget's resources and its mount.
	Destroy() error
}

// Registry maps chart ids to their live instance.
type Registry struct {
	mu        sync.Mutex
	instances map[dataset.ID]Instance
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{instances: make(map[dataset.ID]Instance)}
}

// Replace installs inst for its chart id, destroying the previous instance
// first. The new instance is tracked even when the old one fails to destroy.
func (r *Registry) Replace(inst Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error

	if old, ok := r.instances[inst.ChartID()]; ok && old.ID() != inst.ID() {
		if destroyErr := old.Destroy(); destroyErr != nil {
			err = fmt.Errorf("destroy %s instance %s: %w", old.ChartID(), old.ID(), destroyErr)
		}
	}

	r.instances[inst.ChartID()] = inst

	return err
}

// Remove destroys and forgets the instance of id. Absent ids are a no-op.
func (r *Registry) Remove(id dataset.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(id)
}

// DestroyAll destroys every tracked instance and empties the registry.
func (r *Registry) DestroyAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]dataset.ID, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	var errs []error

	for _, id := range ids {
		if err := r.removeLocked(id); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) removeLocked(id dataset.ID) error {
	inst, ok := r.instances[id]
	if !ok {
		return nil
	}

	delete(r.instances, id)

	if err := inst.Destroy(); err != nil {
		return fmt.Errorf("destroy %s instance %s: %w", id, inst.ID(), err)
	}

	return nil
}

// Get returns the live instance of id.
func (r *Registry) Get(id dataset.ID) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]

	return inst, ok
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.instances)
}
