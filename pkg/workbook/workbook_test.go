package workbook_test

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/echarts"
	"github.com/Sumatoshi-tech/surveycharts/pkg/workbook"
)

func lightConfigs(t *testing.T) []chartconfig.Config {
	t.Helper()

	orch := dashboard.New(dashboard.NewDocument(dashboard.Plan()), echarts.NewBackend(echarts.DefaultStyle()), dashboard.Options{})

	configs, err := orch.Configs(palette.ThemeLight)
	require.NoError(t, err)

	return configs
}

func TestWrite_OneSheetPerDataset(t *testing.T) {
	t.Parallel()

	reg := dataset.Default()

	var buf bytes.Buffer

	n, err := workbook.Write(&buf, reg, lightConfigs(t))
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	want := make([]string, 0, len(reg.IDs()))
	for _, id := range reg.IDs() {
		want = append(want, string(id))
	}

	assert.Equal(t, want, f.GetSheetList())

	languages, err := reg.Get(dataset.Languages)
	require.NoError(t, err)

	rows, err := f.GetRows(string(dataset.Languages))
	require.NoError(t, err)
	require.Len(t, rows, languages.Len()+1)
	assert.Equal(t, []string{"Label", languages.Title}, rows[0])
	assert.Equal(t, languages.Labels[0], rows[1][0])
}

func TestWrite_ChartsOnlyForConfiguredDatasets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, err := workbook.Write(&buf, dataset.Default(), lightConfigs(t))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	charts := 0

	for _, file := range zr.File {
		if strings.HasPrefix(file.Name, "xl/charts/chart") && strings.HasSuffix(file.Name, ".xml") {
			charts++
		}
	}

	assert.Equal(t, len(dataset.Charted()), charts)
}

func TestSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "survey.xlsx")

	require.NoError(t, workbook.Save(path, dataset.Default(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	value, err := f.GetCellValue(string(dataset.Workspace), "A2")
	require.NoError(t, err)
	assert.NotEmpty(t, value)
}

func TestChartType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cfg  chartconfig.Config
		want excelize.ChartType
	}{
		{cfg: chartconfig.Config{Kind: chartconfig.KindDoughnut}, want: excelize.Doughnut},
		{cfg: chartconfig.Config{Kind: chartconfig.KindPie}, want: excelize.Pie},
		{cfg: chartconfig.Config{Kind: chartconfig.KindBar, Orientation: chartconfig.Horizontal}, want: excelize.Bar},
		{cfg: chartconfig.Config{Kind: chartconfig.KindBar, Orientation: chartconfig.Vertical}, want: excelize.Col},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, workbook.ChartType(tt.cfg), string(tt.cfg.Kind)+"/"+string(tt.cfg.Orientation))
	}
}
