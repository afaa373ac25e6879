// Package surface is the headless document the dashboard draws into: a page
// root carrying the active theme, a theme toggle button and the chart
// mount points.
package surface

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
)

// Sentinel errors.
var (
	ErrMountNotFound = errors.New("mount point not found")
	ErrMountBusy     = errors.New("mount point owned by another instance")
	ErrNotOwner      = errors.New("mount point not owned by caller")
)

// Content types a backend may draw.
const (
	ContentHTML = "text/html"
	ContentPNG  = "image/png"
)

// ToggleButton is the theme switch shown in the page header.
type ToggleButton struct {
	mu    sync.RWMutex
	icon  string
	label string
}

// SetIcon replaces the button icon.
func (b *ToggleButton) SetIcon(icon string) {
	b.mu.Lock()
	b.icon = icon
	b.mu.Unlock()
}

// SetLabel replaces the button label.
func (b *ToggleButton) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	b.mu.Unlock()
}

// Icon returns the current icon.
func (b *ToggleButton) Icon() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.icon
}

// Label returns the current label.
func (b *ToggleButton) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.label
}

// Content is what an instance drew into a mount.
type Content struct {
	Owner       string
	ContentType string
	Data        []byte
}

// Mount is a drawing surface at most one live instance may own.
type Mount struct {
	id string

	mu      sync.Mutex
	content *Content
}

// ID returns the mount identifier.
func (m *Mount) ID() string {
	return m.id
}

// Draw places data in the mount on behalf of owner. An owner may redraw its
// own content; any other owner gets ErrMountBusy until the mount is cleared.
func (m *Mount) Draw(owner, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.content != nil && m.content.Owner != owner {
		return fmt.Errorf("%w: %s held by %s", ErrMountBusy, m.id, m.content.Owner)
	}

	m.content = &Content{
		Owner:       owner,
		ContentType: contentType,
		Data:        slices.Clone(data),
	}

	return nil
}

// Clear releases the mount. Only the current owner may clear it; clearing an
// empty mount is a no-op.
func (m *Mount) Clear(owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.content == nil {
		return nil
	}

	if m.content.Owner != owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, m.id)
	}

	m.content = nil

	return nil
}

// Content returns a copy of the drawn content and whether there is any.
func (m *Mount) Content() (Content, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.content == nil {
		return Content{}, false
	}

	c := *m.content
	c.Data = slices.Clone(c.Data)

	return c, true
}

// Occupied reports whether an instance currently owns the mount.
func (m *Mount) Occupied() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.content != nil
}

// Document is the page model: root theme attribute, toggle button and
// mounts in page order.
type Document struct {
	mu     sync.RWMutex
	theme  string
	button ToggleButton
	order  []string
	mounts map[string]*Mount
}

// NewDocument creates a document with the given mount ids in page order.
// Duplicate ids are collapsed.
func NewDocument(mountIDs ...string) *Document {
	doc := &Document{mounts: make(map[string]*Mount, len(mountIDs))}

	for _, id := range mountIDs {
		if _, ok := doc.mounts[id]; ok {
			continue
		}

		doc.order = append(doc.order, id)
		doc.mounts[id] = &Mount{id: id}
	}

	return doc
}

// Mount looks up a mount by id.
func (d *Document) Mount(id string) (*Mount, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	m, ok := d.mounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMountNotFound, id)
	}

	return m, nil
}

// Mounts returns the mounts in page order.
func (d *Document) Mounts() []*Mount {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Mount, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.mounts[id])
	}

	return out
}

// ThemeAttribute returns the raw page root theme attribute.
func (d *Document) ThemeAttribute() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.theme
}

// Theme parses the page root attribute. A missing or unknown attribute
// reads as the default theme.
func (d *Document) Theme() palette.Theme {
	theme, err := palette.ParseTheme(d.ThemeAttribute())
	if err != nil {
		return palette.DefaultTheme
	}

	return theme
}

// SetTheme writes the page root theme attribute.
func (d *Document) SetTheme(theme palette.Theme) {
	d.mu.Lock()
	d.theme = string(theme)
	d.mu.Unlock()
}

// Button returns the toggle button.
func (d *Document) Button() *ToggleButton {
	return &d.button
}
