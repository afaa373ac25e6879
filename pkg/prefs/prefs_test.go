package prefs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/surveycharts/pkg/persist"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := prefs.NewMemoryStore()

	_, ok, err := store.Get(ctx, prefs.KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, prefs.KeyTheme, "dark"))

	value, ok, err := store.Get(ctx, prefs.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := prefs.NewMemoryStore()

	require.ErrorIs(t, store.Set(ctx, prefs.KeyTheme, "dark"), context.Canceled)

	_, _, err := store.Get(ctx, prefs.KeyTheme)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		file   string
	}{
		{format: "json", file: "preferences.json"},
		{format: "yml", file: "preferences.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			dir := t.TempDir()

			store, err := prefs.NewFileStore(dir, tt.format)
			require.NoError(t, err)

			_, ok, err := store.Get(ctx, prefs.KeyTheme)
			require.NoError(t, err)
			assert.False(t, ok, "missing file reads as empty")

			require.NoError(t, store.Set(ctx, prefs.KeyTheme, "dark"))
			require.NoError(t, store.Set(ctx, "other", "kept"))

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(data), "dark")

			reopened, err := prefs.NewFileStore(dir, tt.format)
			require.NoError(t, err)

			value, ok, err := reopened.Get(ctx, prefs.KeyTheme)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", value)

			other, _, err := reopened.Get(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, "kept", other)
		})
	}
}

func TestFileStore_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := prefs.NewFileStore(t.TempDir(), "toml")
	require.ErrorIs(t, err, persist.ErrUnknownFormat)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{{{"), 0o600))

	store, err := prefs.NewFileStore(dir, "json")
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), prefs.KeyTheme)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load preferences")
}

func TestFileStore_EmptyValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		file    string
		content string
	}{
		{name: "yaml empty map", format: "yaml", file: "preferences.yaml", content: "values: {}\n"},
		{name: "yaml no values", format: "yaml", file: "preferences.yaml", content: "{}\n"},
		{name: "json null values", format: "json", file: "preferences.json", content: `{"values": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o600))

			store, err := prefs.NewFileStore(dir, tt.format)
			require.NoError(t, err)

			_, ok, err := store.Get(ctx, prefs.KeyTheme)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, prefs.KeyTheme, "dark"))

			reopened, err := prefs.NewFileStore(dir, tt.format)
			require.NoError(t, err)

			value, ok, err := reopened.Get(ctx, prefs.KeyTheme)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", value)
		})
	}
}
