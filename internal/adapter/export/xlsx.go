// Package export writes the dashboard data as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	SheetSeries   = "Series"
	SheetForecast = "CO2 Forecast"
	SheetModel    = "Model"
)

var (
	seriesHeaders   = []string{"Year", "Temperature Anomaly (°C)", "CO2 (ppm)", "Sea Level (mm)"}
	forecastHeaders = []string{"Year", "CO2 (ppm)", "Type"}
)

// Workbook is the data exported in one download.
type Workbook struct {
	Records []domain.YearlyRecord
	Display []domain.DisplayRow
	Model   domain.LinearModel
}

// WriteXLSX streams wb to w as an .xlsx file.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSeries); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeaders(f, SheetSeries, seriesHeaders); err != nil {
		return err
	}
	for i, r := range wb.Records {
		if err := writeRow(f, SheetSeries, i+2, r.Year, r.TemperatureAnomaly, r.CO2PPM, r.SeaLevelMM); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetForecast); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeHeaders(f, SheetForecast, forecastHeaders); err != nil {
		return err
	}
	for i, r := range wb.Display {
		if err := writeRow(f, SheetForecast, i+2, r.Year, r.CO2PPM, string(r.Label)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetModel); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	model := [][]any{
		{"Origin Year", wb.Model.Origin},
		{"Slope (ppm/year)", wb.Model.Slope},
		{"Intercept (ppm)", wb.Model.Intercept},
	}
	for i, row := range model {
		if err := writeRow(f, SheetModel, i+1, row...); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header %s!%s: %w", sheet, cell, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
