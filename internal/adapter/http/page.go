package http

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/climate-canvas/internal/domain"
)

//go:embed dashboard.html
var dashboardHTML string

var pageTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type pageData struct {
	Params    domain.GeneratorParams
	From, To  int
	Latest    domain.YearlyRecord
	Forecast  []domain.ForecastPoint
	Slope     float64
	Warnings  []string
	Insights  []domain.Insight
	AIEnabled bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	defaults := s.dash.Defaults()
	data := pageData{Params: defaults.Params, AIEnabled: s.dash.AIEnabled()}

	records, err := s.dash.Series(defaults.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data.From, data.To, _ = domain.DefaultWindow(records)
	data.Latest = records[len(records)-1]

	if view, err := s.dash.Forecast(r.Context(), defaults.Params, defaults.Horizon, defaults.CutoffYear); err != nil {
		data.Warnings = append(data.Warnings, "CO2 forecast unavailable: "+err.Error())
	} else {
		data.Forecast, data.Slope = view.Points, view.Model.Slope
	}
	if !data.AIEnabled {
		data.Warnings = append(data.Warnings, "AI insights are disabled. Set HF_API_KEY to enable summaries and questions.")
	}
	if data.Insights, err = s.dash.Insights(r.Context(), 10); err != nil {
		s.logger.Warn("insights unavailable", "error", err)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
