package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/couchcryptid/climate-canvas/internal/domain"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 64 << 10

// seriesParams overlays start_year, end_year, seed and noise from q onto the
// configured defaults.
func seriesParams(q url.Values, defaults domain.GeneratorParams) (domain.GeneratorParams, error) {
	p := defaults
	var err error
	if p.StartYear, err = intParam(q, "start_year", p.StartYear); err != nil {
		return p, err
	}
	if p.EndYear, err = intParam(q, "end_year", p.EndYear); err != nil {
		return p, err
	}
	seed, err := intParam(q, "seed", int(p.Seed))
	if err != nil {
		return p, err
	}
	p.Seed = int64(seed)
	if s := q.Get("noise"); s != "" {
		if p.NoiseScale, err = strconv.ParseFloat(s, 64); err != nil {
			return p, fmt.Errorf("%w: noise must be a number", errBadRequest)
		}
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return n, nil
}

// window resolves the from/to year range, falling back to the default window
// of records when either bound is absent.
func window(q url.Values, records []domain.YearlyRecord) (from, to int, err error) {
	defFrom, defTo, _ := domain.DefaultWindow(records)
	if from, err = intParam(q, "from", defFrom); err != nil {
		return 0, 0, err
	}
	if to, err = intParam(q, "to", defTo); err != nil {
		return 0, 0, err
	}
	if from > to {
		return 0, 0, fmt.Errorf("%w: from %d after to %d", errBadRequest, from, to)
	}
	return from, to, nil
}

func decodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err)
	}
	return nil
}
