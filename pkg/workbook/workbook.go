// Package workbook exports the survey datasets to an Excel workbook with one
// sheet per dataset and a native chart for every charted one.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Sumatoshi-tech/surveycharts/pkg/chartconfig"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
)

// ErrNoDatasets is returned when there is nothing to export.
var ErrNoDatasets = errors.New("no datasets to export")

const (
	defaultSheet  = "Sheet1"
	labelHeader   = "Label"
	chartCell     = "D2"
	labelColWidth = 28
	valueColWidth = 14
	defaultHole   = 50
	legendHidden  = "none"
	legendBottom  = "bottom"
	solidPattern  = 1
	firstDataRow  = 2
	percentSuffix = "%"
)

// Build creates a workbook from every dataset of reg. configs supplies the
// chart for each dataset that is on the dashboard; datasets without a
// config get a data sheet only.
func Build(reg *dataset.Registry, configs []chartconfig.Config) (*excelize.File, error) {
	ids := reg.IDs()
	if len(ids) == 0 {
		return nil, ErrNoDatasets
	}

	byID := make(map[dataset.ID]chartconfig.Config, len(configs))
	for _, cfg := range configs {
		byID[cfg.ChartID] = cfg
	}

	f := excelize.NewFile()

	for i, id := range ids {
		data, err := reg.Get(id)
		if err != nil {
			return nil, closeOnError(f, err)
		}

		sheet := string(id)

		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}

		if err != nil {
			return nil, closeOnError(f, fmt.Errorf("sheet %s: %w", sheet, err))
		}

		err = writeData(f, sheet, data)
		if err != nil {
			return nil, closeOnError(f, err)
		}

		cfg, ok := byID[id]
		if !ok {
			continue
		}

		err = f.AddChart(sheet, chartCell, chartFor(sheet, data, cfg))
		if err != nil {
			return nil, closeOnError(f, fmt.Errorf("chart %s: %w", sheet, err))
		}
	}

	f.SetActiveSheet(0)

	return f, nil
}

// Write builds the workbook and writes it to w, returning the bytes written.
func Write(w io.Writer, reg *dataset.Registry, configs []chartconfig.Config) (int64, error) {
	f, err := Build(reg, configs)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write workbook: %w", err)
	}

	return n, nil
}

// Save builds the workbook and stores it at path.
func Save(path string, reg *dataset.Registry, configs []chartconfig.Config) error {
	f, err := Build(reg, configs)
	if err != nil {
		return err
	}
	defer f.Close()

	err = f.SaveAs(path)
	if err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}

	return nil
}

func writeData(f *excelize.File, sheet string, data dataset.Dataset) error {
	header := []any{labelHeader, data.Title}

	err := f.SetSheetRow(sheet, "A1", &header)
	if err != nil {
		return fmt.Errorf("sheet %s header: %w", sheet, err)
	}

	for i, label := range data.Labels {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+firstDataRow)
		if cellErr != nil {
			return cellErr
		}

		row := []any{label, data.Values[i]}

		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+firstDataRow, err)
		}
	}

	err = f.SetColWidth(sheet, "A", "A", labelColWidth)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	err = f.SetColWidth(sheet, "B", "B", valueColWidth)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}

	return nil
}

func chartFor(sheet string, data dataset.Dataset, cfg chartconfig.Config) *excelize.Chart {
	last := data.Len() + firstDataRow - 1

	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$B$1", sheet),
		Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheet, firstDataRow, last),
		Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheet, firstDataRow, last),
	}

	if len(cfg.Dataset.BackgroundColors) > 0 {
		series.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.ToUpper(strings.TrimPrefix(cfg.ColorAt(0).Hex(), "#"))},
			Pattern: solidPattern,
		}
	}

	chart := &excelize.Chart{
		Type:   ChartType(cfg),
		Series: []excelize.ChartSeries{series},
		Title:  []excelize.RichTextRun{{Text: data.Title}},
		Legend: excelize.ChartLegend{Position: legendHidden},
	}

	if cfg.Legend.Display {
		chart.Legend.Position = legendBottom
	}

	if cfg.Kind == chartconfig.KindDoughnut {
		chart.HoleSize = holeSize(cfg.Dataset.Cutout)
	}

	return chart
}

// ChartType maps a chart configuration to the native workbook chart type.
func ChartType(cfg chartconfig.Config) excelize.ChartType {
	switch {
	case cfg.Kind == chartconfig.KindDoughnut:
		return excelize.Doughnut
	case cfg.Kind == chartconfig.KindPie:
		return excelize.Pie
	case cfg.Horizontal():
		return excelize.Bar
	default:
		return excelize.Col
	}
}

func holeSize(cutout string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(cutout, percentSuffix))
	if err != nil || n <= 0 {
		return defaultHole
	}

	return n
}

func closeOnError(f *excelize.File, err error) error {
	return errors.Join(err, f.Close())
}
