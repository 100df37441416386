package server

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gonum.org/v1/gonum/mat"

	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/pkg/plasmapause"
	"github.com/radiation-belts/rbamlib/pkg/responseformat"
	"github.com/radiation-belts/rbamlib/pkg/storms"
	"github.com/radiation-belts/rbamlib/pkg/timeseries"
	"github.com/radiation-belts/rbamlib/pkg/tsyganenko"
)

// windowPad is how much history is loaded before the requested start so
// trailing-window models have a full lookback at the first returned sample.
const windowPad = 48 * time.Hour

// Handlers contains all HTTP handlers for the REST server.
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance.
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// SeriesResponse is one time-indexed scalar series. Missing samples are
// encoded as null.
type SeriesResponse struct {
	Parameter string     `json:"parameter"`
	Times     []string   `json:"times"`
	Values    []*float64 `json:"values"`
}

// MatrixResponse is one time-indexed multi-channel series, one row per
// sample.
type MatrixResponse struct {
	Times []string     `json:"times"`
	Rows  [][]*float64 `json:"rows"`
}

// StormResponse is one detected storm interval.
type StormResponse struct {
	OnsetAt     string  `json:"onset_at"`
	MinimumAt   string  `json:"minimum_at"`
	MinimumDst  float64 `json:"minimum_dst"`
	SampleCount int     `json:"sample_count"`
}

func (h *Handlers) parseRange(req *http.Request) (time.Time, time.Time, error) {
	q := req.URL.Query()
	if q.Get("start") == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start parameter is required")
	}
	start, err := timeseries.ParseTimestamp(q.Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
	}
	end := time.Now().UTC()
	if q.Get("end") != "" {
		end, err = timeseries.ParseTimestamp(q.Get("end"))
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
		}
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end must be after start")
	}
	return start, end, nil
}

func nullableValues(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			val := v
			out[i] = &val
		}
	}
	return out
}

func formatTimes(times []time.Time) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.UTC().Format(time.RFC3339)
	}
	return out
}

// GetHealth reports liveness.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"}, nil)
}

// GetParameters lists the parameters present in the local archive.
func (h *Handlers) GetParameters(w http.ResponseWriter, req *http.Request) {
	names, err := h.controller.Archive.Parameters(req.Context())
	if err != nil {
		log.Errorf("listing parameters: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "archive error")
		return
	}
	h.formatter.WriteResponse(w, req, map[string][]string{"parameters": names}, nil)
}

// GetIndexSeries returns archived samples for one parameter.
func (h *Handlers) GetIndexSeries(w http.ResponseWriter, req *http.Request) {
	parameter := mux.Vars(req)["parameter"]
	start, end, err := h.parseRange(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.controller.Archive.Load(req.Context(), parameter, start, end)
	if err != nil {
		log.Errorf("loading %s: %v", parameter, err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "archive error")
		return
	}
	if len(s.Times) == 0 {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("no data for %s in range", parameter))
		return
	}

	h.formatter.WriteResponse(w, req, SeriesResponse{
		Parameter: parameter,
		Times:     formatTimes(s.Times),
		Values:    nullableValues(s.Values),
	}, nil)
}

// GetStorms returns the storms detected over the archived Dst series in
// the requested range.
func (h *Handlers) GetStorms(w http.ResponseWriter, req *http.Request) {
	start, end, err := h.parseRange(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.controller.Archive.Load(req.Context(), "Dst", start, end)
	if err != nil {
		log.Errorf("loading Dst: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "archive error")
		return
	}
	if len(s.Times) == 0 {
		h.formatter.WriteResponse(w, req, []StormResponse{}, nil)
		return
	}

	params := storms.Params{
		Threshold: h.controller.cfg.Storms.Threshold,
		Gap:       h.controller.cfg.Storms.Gap.Value(),
	}
	regions, err := storms.Detect(s.Times, s.Values, params)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	out := make([]StormResponse, 0, len(regions))
	for _, r := range regions {
		out = append(out, StormResponse{
			OnsetAt:     s.Times[r.Onset].UTC().Format(time.RFC3339),
			MinimumAt:   s.Times[r.Minimum].UTC().Format(time.RFC3339),
			MinimumDst:  s.Values[r.Minimum],
			SampleCount: len(r.Indices),
		})
	}
	h.formatter.WriteResponse(w, req, out, nil)
}

// GetPlasmapause computes a plasmapause position series from archived
// indices. Models: ca1992 and m2002 use Kp; obm2003 takes an index query
// parameter of kp, ae or dst.
func (h *Handlers) GetPlasmapause(w http.ResponseWriter, req *http.Request) {
	model := mux.Vars(req)["model"]
	start, end, err := h.parseRange(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	var (
		parameter string
		index     plasmapause.Index
	)
	switch model {
	case "ca1992", "m2002":
		parameter = "Kp"
	case "obm2003":
		switch req.URL.Query().Get("index") {
		case "kp", "":
			parameter, index = "Kp", plasmapause.IndexKp
		case "ae":
			parameter, index = "AE", plasmapause.IndexAE
		case "dst":
			parameter, index = "Dst", plasmapause.IndexDst
		default:
			h.formatter.WriteError(w, req, http.StatusBadRequest, "index must be kp, ae or dst")
			return
		}
	default:
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown model %q", model))
		return
	}

	s, err := h.controller.Archive.Load(req.Context(), parameter, start.Add(-windowPad), end)
	if err != nil {
		log.Errorf("loading %s: %v", parameter, err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "archive error")
		return
	}
	if len(s.Times) == 0 {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("no %s data in range", parameter))
		return
	}

	// The archive stores Kp as Kp*10, the model inputs use the 0-9 scale.
	values := s.Values
	if parameter == "Kp" {
		values = scaleKp(values)
	}

	var lpp []float64
	switch model {
	case "ca1992":
		lpp, err = plasmapause.CarpenterAnderson1992(s.Times, values)
	case "m2002":
		lpp, err = plasmapause.Moldwin2002(s.Times, values)
	case "obm2003":
		lpp, err = plasmapause.OBrienMoldwin2003(s.Times, values, index)
	}
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	times, lpp := clipSeries(s.Times, lpp, start)
	h.formatter.WriteResponse(w, req, SeriesResponse{
		Parameter: model,
		Times:     formatTimes(times),
		Values:    nullableValues(lpp),
	}, nil)
}

// GetTS05Coefficients computes the six-channel storm-time coefficient series
// from archived solar wind parameters.
func (h *Handlers) GetTS05Coefficients(w http.ResponseWriter, req *http.Request) {
	start, end, err := h.parseRange(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	loadStart := start.Add(-windowPad)
	nsw, err := h.controller.Archive.Load(req.Context(), "N_p", loadStart, end)
	if err == nil {
		var vsw, bz, dst *timeseries.Series
		vsw, err = h.controller.Archive.Load(req.Context(), "V_flow", loadStart, end)
		if err == nil {
			bz, err = h.controller.Archive.Load(req.Context(), "Bz_GSM", loadStart, end)
		}
		if err == nil {
			dst, err = h.controller.Archive.Load(req.Context(), "Dst", loadStart, end)
		}
		if err == nil {
			h.writeTS05(w, req, start, nsw, vsw, bz, dst)
			return
		}
	}
	log.Errorf("loading solar wind parameters: %v", err)
	h.formatter.WriteError(w, req, http.StatusInternalServerError, "archive error")
}

func (h *Handlers) writeTS05(w http.ResponseWriter, req *http.Request, start time.Time, nsw, vsw, bz, dst *timeseries.Series) {
	if len(nsw.Times) == 0 {
		h.formatter.WriteError(w, req, http.StatusNotFound, "no solar wind data in range")
		return
	}
	if !sameTimes(nsw.Times, vsw.Times) || !sameTimes(nsw.Times, bz.Times) || !sameTimes(nsw.Times, dst.Times) {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, "archived parameters are not on a common time base")
		return
	}

	source, err := tsyganenko.SourceChannels(nsw.Values, vsw.Values, bz.Values)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	params := storms.Params{
		Threshold: h.controller.cfg.Storms.Threshold,
		Gap:       h.controller.cfg.Storms.Gap.Value(),
	}
	regions, err := storms.Detect(dst.Times, dst.Values, params)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	coeffs, err := tsyganenko.Coefficients(nsw.Times, source, storms.Onsets(regions))
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.formatter.WriteResponse(w, req, matrixResponse(nsw.Times, coeffs, start), nil)
}

func matrixResponse(times []time.Time, m *mat.Dense, start time.Time) MatrixResponse {
	n, k := m.Dims()
	resp := MatrixResponse{}
	for i := 0; i < n; i++ {
		if times[i].Before(start) {
			continue
		}
		row := make([]*float64, k)
		for j := 0; j < k; j++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				val := v
				row[j] = &val
			}
		}
		resp.Times = append(resp.Times, times[i].UTC().Format(time.RFC3339))
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

func scaleKp(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / 10
	}
	return out
}

func clipSeries(times []time.Time, values []float64, start time.Time) ([]time.Time, []float64) {
	lo := 0
	for lo < len(times) && times[lo].Before(start) {
		lo++
	}
	return times[lo:], values[lo:]
}

func sameTimes(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
