package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/couchcryptid/climate-canvas/internal/adapter/chart"
	"github.com/couchcryptid/climate-canvas/internal/adapter/export"
	"github.com/couchcryptid/climate-canvas/internal/domain"
)

type seriesResponse struct {
	Params  domain.GeneratorParams `json:"params"`
	From    int                    `json:"from"`
	To      int                    `json:"to"`
	Records []domain.YearlyRecord  `json:"records"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := seriesParams(q, s.dash.Defaults().Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.dash.Series(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	from, to := p.StartYear, p.EndYear
	if q.Has("from") || q.Has("to") {
		if from, to, err = window(q, records); err != nil {
			s.writeError(w, r, err)
			return
		}
		records = domain.FilterYears(records, from, to)
	}
	if records == nil {
		records = []domain.YearlyRecord{}
	}
	writeJSON(w, http.StatusOK, seriesResponse{Params: p, From: from, To: to, Records: records})
}

// forecastRequest resolves series parameters, horizon and cutoff from the query.
func (s *Server) forecastRequest(r *http.Request) (domain.GeneratorParams, int, int, error) {
	q := r.URL.Query()
	defaults := s.dash.Defaults()
	p, err := seriesParams(q, defaults.Params)
	if err != nil {
		return p, 0, 0, err
	}
	horizon, err := intParam(q, "horizon", defaults.Horizon)
	if err != nil {
		return p, 0, 0, err
	}
	if horizon < 1 || horizon > domain.MaxForecastHorizon {
		return p, 0, 0, fmt.Errorf("%w: horizon must be between 1 and %d", errBadRequest, domain.MaxForecastHorizon)
	}
	cutoff, err := intParam(q, "cutoff", defaults.CutoffYear)
	if err != nil {
		return p, 0, 0, err
	}
	return p, horizon, cutoff, nil
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	p, horizon, cutoff, err := s.forecastRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.dash.Forecast(r.Context(), p, horizon, cutoff)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.dash.PublishForecast(r.Context(), p, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	view, err := s.dash.Regions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("X-Region-Source", view.Source)
	_, _ = w.Write(view.GeoJSON)
}

type summaryRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := seriesParams(r.URL.Query(), s.dash.Defaults().Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	from, to := req.From, req.To
	if from == nil || to == nil {
		records, err := s.dash.Series(p)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		defFrom, defTo, _ := domain.DefaultWindow(records)
		if from == nil {
			from = &defFrom
		}
		if to == nil {
			to = &defTo
		}
	}

	in, err := s.dash.Summarize(r.Context(), p, *from, *to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := seriesParams(r.URL.Query(), s.dash.Defaults().Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.dash.Ask(r.Context(), p, req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	insights, err := s.dash.Insights(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleTemperatureChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := seriesParams(q, s.dash.Defaults().Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.dash.Series(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	from, to, err := window(q, records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.TemperaturePNG(&buf, domain.FilterYears(records, from, to)); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	writePNG(w, buf.Bytes())
}

func (s *Server) handleCO2Chart(w http.ResponseWriter, r *http.Request) {
	p, horizon, cutoff, err := s.forecastRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.dash.Forecast(r.Context(), p, horizon, cutoff)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.CO2ForecastPNG(&buf, view.Rows); err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, horizon, cutoff, err := s.forecastRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.dash.Series(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wb := export.Workbook{Records: records}
	// A series too short to fit still exports its records.
	if view, err := s.dash.Forecast(r.Context(), p, horizon, cutoff); err == nil {
		wb.Display, wb.Model = view.Rows, view.Model
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, wb); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="climate-%d-%d.xlsx"`, p.StartYear, p.EndYear))
	_, _ = w.Write(buf.Bytes())
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}
