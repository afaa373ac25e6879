package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/registry"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

func TestInstance_Lifecycle(t *testing.T) {
	t.Parallel()

	doc := surface.NewDocument("languagesChart")
	mount, err := doc.Mount("languagesChart")
	require.NoError(t, err)

	inst := render.NewInstance(dataset.Languages, mount)
	assert.NotEmpty(t, inst.ID())
	assert.Equal(t, dataset.Languages, inst.ChartID())
	assert.NotContains(t, inst.ElementID(), "-")

	require.NoError(t, inst.Draw(surface.ContentHTML, []byte("chart")))
	assert.True(t, mount.Occupied())

	other := render.NewInstance(dataset.Languages, mount)
	require.ErrorIs(t, other.Draw(surface.ContentHTML, nil), surface.ErrMountBusy)

	require.NoError(t, inst.Destroy())
	assert.False(t, mount.Occupied())
	require.ErrorIs(t, inst.Destroy(), registry.ErrInstanceDestroyed)
	require.ErrorIs(t, inst.Draw(surface.ContentHTML, nil), registry.ErrInstanceDestroyed)

	require.NoError(t, other.Draw(surface.ContentHTML, []byte("next")))
}

func TestInstance_UniqueIDs(t *testing.T) {
	t.Parallel()

	mount, err := surface.NewDocument("m").Mount("m")
	require.NoError(t, err)

	a := render.NewInstance(dataset.Styling, mount)
	b := render.NewInstance(dataset.Styling, mount)
	assert.NotEqual(t, a.ID(), b.ID())
}
