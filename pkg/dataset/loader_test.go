package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
)

const validFile = `datasets:
  workspace:
    title: Where people work
    labels: [Office, Remote]
    values: [70, 30]
    proportion: true
  databases:
    labels: [SQLite]
    values: [12.5]
`

func TestDecode_Valid(t *testing.T) {
	t.Parallel()

	sets, err := dataset.Decode(strings.NewReader(validFile))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	ws := sets[dataset.Workspace]
	assert.Equal(t, "Where people work", ws.Title)
	assert.Equal(t, []float64{70, 30}, ws.Values)
	assert.True(t, ws.Proportion)
	assert.InDelta(t, 12.5, sets[dataset.Databases].Values[0], 1e-9)
}

func TestDecode_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing datasets", doc: "charts: {}\n"},
		{name: "missing values", doc: "datasets:\n  a:\n    labels: [x]\n"},
		{name: "negative value", doc: "datasets:\n  a:\n    labels: [x]\n    values: [-4]\n"},
		{name: "string value", doc: "datasets:\n  a:\n    labels: [x]\n    values: [ten]\n"},
		{name: "unknown field", doc: "datasets:\n  a:\n    labels: [x]\n    values: [1]\n    color: red\n"},
		{name: "empty document", doc: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := dataset.Decode(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, dataset.ErrInvalidFile)
		})
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	t.Parallel()

	doc := "datasets:\n  a:\n    labels: [x, y]\n    values: [1]\n"

	_, err := dataset.Decode(strings.NewReader(doc))
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validFile), 0o600))

	sets, err := dataset.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, sets, 2)

	_, err = dataset.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEncode_DecodeAgain(t *testing.T) {
	t.Parallel()

	reg := dataset.Default()
	sets := make(map[dataset.ID]dataset.Dataset)

	for _, id := range reg.IDs() {
		ds, err := reg.Get(id)
		require.NoError(t, err)

		sets[id] = ds
	}

	var buf bytes.Buffer
	require.NoError(t, dataset.Encode(&buf, sets))

	decoded, err := dataset.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, sets, decoded)
}
