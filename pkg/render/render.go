// Package render holds what the chart backends share: the backend contract
// and the instance handle that owns a mount until destroyed.
package render

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// Backend turns a chart configuration into a live widget drawn in a mount.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Create draws the chart into mount and returns the instance owning it.
	Create(ctx context.Context, mount *surface.Mount, cfg chartconfig.Config) (registry.Instance, error)
}

// Instance is the handle a backend returns for a drawn chart.
type Instance struct {
	id      string
	chartID dataset.ID
	mount   *surface.Mount

	mu        sync.Mutex
	destroyed bool
}

// NewInstance allocates a handle with a fresh identifier for chartID on mount.
func NewInstance(chartID dataset.ID, mount *surface.Mount) *Instance {
	return &Instance{
		id:      uuid.NewString(),
		chartID: chartID,
		mount:   mount,
	}
}

// ID returns the unique instance identifier.
func (i *Instance) ID() string {
	return i.id
}

// ElementID returns the identifier in a form usable as a DOM id and a
// JavaScript identifier.
func (i *Instance) ElementID() string {
	return string(i.chartID) + "_" + strings.ReplaceAll(i.id, "-", "")
}

// ChartID returns the chart this instance renders.
func (i *Instance) ChartID() dataset.ID {
	return i.chartID
}

// Draw places content in the mount as this instance.
func (i *Instance) Draw(contentType string, data []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.destroyed {
		return registry.ErrInstanceDestroyed
	}

	return i.mount.Draw(i.id, contentType, data)
}

// Destroy clears the mount. A second call returns registry.ErrInstanceDestroyed.
func (i *Instance) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.destroyed {
		return registry.ErrInstanceDestroyed
	}

	i.destroyed = true

	return i.mount.Clear(i.id)
}
