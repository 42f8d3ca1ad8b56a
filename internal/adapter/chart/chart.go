// Package chart renders the dashboard's static PNG charts with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

const (
	width  = 8 * vg.Inch
	height = 4 * vg.Inch
)

var (
	temperatureColor = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	historicalColor  = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	predictedColor   = color.RGBA{R: 234, G: 88, B: 12, A: 255}
)

// TemperaturePNG draws the temperature anomaly line for records.
func TemperaturePNG(w io.Writer, records []domain.YearlyRecord) error {
	if len(records) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Global Temperature Anomaly %d-%d", records[0].Year, records[len(records)-1].Year)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Anomaly (°C)"

	points := make(plotter.XYs, len(records))
	for i, r := range records {
		points[i].X = float64(r.Year)
		points[i].Y = r.TemperatureAnomaly
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("temperature line: %w", err)
	}
	line.Color = temperatureColor
	line.Width = vg.Points(1.5)

	p.Add(line, plotter.NewGrid())
	return render(w, p)
}

// CO2ForecastPNG draws historical CO2 as a solid line and the forecast as a
// dashed line, as merged by domain.MergeForDisplay.
func CO2ForecastPNG(w io.Writer, rows []domain.DisplayRow) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	var historical, predicted plotter.XYs
	for _, r := range rows {
		xy := plotter.XY{X: float64(r.Year), Y: r.CO2PPM}
		if r.Label == domain.LabelPredicted {
			predicted = append(predicted, xy)
		} else {
			historical = append(historical, xy)
		}
	}

	p := plot.New()
	p.Title.Text = "Atmospheric CO2: Historical and Forecast"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "CO2 (ppm)"
	p.Add(plotter.NewGrid())

	if len(historical) > 0 {
		line, err := plotter.NewLine(historical)
		if err != nil {
			return fmt.Errorf("historical line: %w", err)
		}
		line.Color = historicalColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(string(domain.LabelHistorical), line)
	}
	if len(predicted) > 0 {
		line, err := plotter.NewLine(predicted)
		if err != nil {
			return fmt.Errorf("forecast line: %w", err)
		}
		line.Color = predictedColor
		line.Width = vg.Points(1.5)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
		p.Legend.Add(string(domain.LabelPredicted), line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return render(w, p)
}

func render(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
