package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/surveycharts/cmd/surveycharts/commands"
)

// writeConfig writes a config file keeping preferences inside a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "surveycharts.yaml")

	content := "logging:\n  level: error\n" +
		"telemetry:\n  prometheus: false\n" +
		"preferences:\n  store: file\n  format: yaml\n  dir: " + filepath.Join(dir, "prefs") + "\n"

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := commands.NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"serve", "render", "theme", "gradient", "datasets", "export", "mcp", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "verbose", "quiet"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "surveycharts ")
	assert.Contains(t, out, "commit:")
}

func TestGradientCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "gradient", "--from", "#000000", "--to", "#ffffff", "--count", "3", "--theme", "dark")

	require.NoError(t, err)
	assert.Contains(t, out, "3 colors, dark theme")
	assert.Contains(t, out, "#000000")
	assert.Contains(t, out, "#ffffff")
	assert.Contains(t, out, "rgba(255, 255, 255, 0.85)")
}

func TestGradientCommand_Errors(t *testing.T) {
	t.Parallel()

	_, err := run(t, "gradient", "--from", "#000000")
	require.ErrorIs(t, err, commands.ErrGradientEndpoints)

	_, err = run(t, "gradient", "--from", "#000000", "--to", "#ffffff", "--count", "5000")
	require.ErrorIs(t, err, commands.ErrGradientCount)

	_, err = run(t, "gradient", "--from", "nope", "--to", "#ffffff")
	require.Error(t, err)

	_, err = run(t, "gradient", "--from", "#000000", "--to", "#ffffff", "--theme", "sepia")
	require.Error(t, err)
}

func TestThemeCommands(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "theme", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "light")

	out, err = run(t, "--config", cfg, "theme", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")
	assert.Contains(t, out, "Dark Mode")

	out, err = run(t, "--config", cfg, "theme", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")

	out, err = run(t, "--config", cfg, "theme", "set", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "Light Mode")

	_, err = run(t, "--config", cfg, "theme", "set", "sepia")
	require.Error(t, err)
}

func TestDatasetsCommand(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "Programming Languages")
	assert.Contains(t, out, "devops")

	out, err = run(t, "--config", cfg, "datasets", "--format", "json")
	require.NoError(t, err)

	var summaries []map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	assert.Len(t, summaries, 7)

	out, err = run(t, "--config", cfg, "datasets", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: workspace")

	_, err = run(t, "--config", cfg, "datasets", "--format", "xml")
	require.ErrorIs(t, err, commands.ErrUnknownFormat)
}

func TestDatasetsCommand_OverrideFile(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	dataPath := filepath.Join(cfgDir, "datasets.yaml")
	cfgPath := filepath.Join(cfgDir, "surveycharts.yaml")

	data := "datasets:\n  workspace:\n    title: Where We Work\n    labels: [Remote, Office]\n" +
		"    values: [60, 40]\n    proportion: true\n"
	require.NoError(t, os.WriteFile(dataPath, []byte(data), 0o600))

	cfg := "logging:\n  level: error\ncharts:\n  datasets_file: " + dataPath + "\n" +
		"preferences:\n  store: memory\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, err := run(t, "--config", cfgPath, "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "Where We Work")
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "render")
	require.ErrorIs(t, err, commands.ErrNoOutputDir)

	dir := t.TempDir()

	out, err := run(t, "--config", cfg, "render", "-o", dir, "--theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "index.html")

	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `data-theme="dark"`)
	assert.Contains(t, string(page), "--bg-primary: rgb(5, 16, 26)")
	assert.Contains(t, string(page), "Dark Mode")
	assert.NotContains(t, string(page), "rgb(248, 248, 248)")

	out, err = run(t, "--config", cfg, "theme", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "light", "--theme is not stored")

	pngDir := t.TempDir()

	_, err = run(t, "--config", cfg, "render", "-o", pngDir, "--png")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(pngDir, "workspaceChart.png"))
	assert.FileExists(t, filepath.Join(pngDir, "stylingChart.png"))
}

func TestRenderCommand_StoredTheme(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "theme", "set", "dark")
	require.NoError(t, err)

	dir := t.TempDir()

	out, err := run(t, "--config", cfg, "render", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered dark dashboard")

	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `data-theme="dark"`)
	assert.Contains(t, string(page), "--bg-primary: rgb(5, 16, 26)")
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "export")
	require.ErrorIs(t, err, commands.ErrNoOutputFile)

	path := filepath.Join(t.TempDir(), "survey.xlsx")

	out, err := run(t, "--config", cfg, "export", "-o", path, "--theme", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 7 datasets")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMCPCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := commands.NewMCPCommand(&commands.Global{})
	assert.Equal(t, "mcp", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	flag := cmd.Flags().Lookup("debug")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := commands.NewServeCommand(&commands.Global{})

	for _, name := range []string{"host", "port", "backend"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
