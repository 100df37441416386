// Package omniweb retrieves hourly solar wind and geomagnetic index data
// from the NASA/GSFC OMNIWeb service.
package omniweb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

const defaultBaseURL = "https://omniweb.gsfc.nasa.gov/cgi/nx1.cgi"

// Fill values the OMNI archive uses for missing data. Any sample whose
// absolute value matches one of these is replaced with NaN on parse.
var omniFills = []float64{99.9, 999, 999.9, 9999, 99999, 999.99, 9999.99, 9999999}

// Result holds one fetched block of hourly data. Columns are ordered the
// same way the parameters were requested.
type Result struct {
	Times   []time.Time
	Names   []string
	Columns [][]float64
}

// Series extracts one named column as a timeseries.
func (r *Result) Series(name string) (*timeseries.Series, error) {
	for i, n := range r.Names {
		if n == name {
			s, err := timeseries.New(r.Times, r.Columns[i])
			if err != nil {
				return nil, err
			}
			return &s, nil
		}
	}
	return nil, fmt.Errorf("omniweb: parameter %q not in result", name)
}

// Client fetches hourly OMNI2 data over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithURL is used by tests to point the client at a local server.
func NewClientWithURL(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// Fetch retrieves the named parameters for the half-open range
// [start, end). Rows outside the range (OMNIWeb rounds requests to whole
// days) are dropped before returning.
func (c *Client) Fetch(ctx context.Context, start, end time.Time, names []string) (*Result, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("omniweb: end %v not after start %v", end, start)
	}
	vars, err := ResolveParams(names)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("activity", "retrieve")
	q.Set("res", "hour")
	q.Set("spacecraft", "omni2")
	q.Set("start_date", start.UTC().Format("20060102"))
	q.Set("end_date", end.UTC().Add(-time.Hour).Format("20060102"))
	q.Set("maxdays", "31")
	for _, v := range vars {
		q.Add("vars", strconv.Itoa(v))
	}

	reqURL := c.baseURL + "?" + q.Encode()
	log.Debugf("fetching OMNI data: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("omniweb: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omniweb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omniweb: unexpected status %s", resp.Status)
	}

	result, err := parseResponse(resp.Body, names)
	if err != nil {
		return nil, err
	}
	result.clip(start, end)
	log.Debugf("fetched %d rows for %d parameters", len(result.Times), len(result.Names))
	return result, nil
}

var headerRe = regexp.MustCompile(`^\s*YEAR\s+DOY\s+HR\b`)

// parseResponse scans the HTML body the retrieval CGI returns, locates the
// fixed-width data table by its YEAR DOY HR header and reads numeric rows
// until the first non-numeric line.
func parseResponse(body io.Reader, names []string) (*Result, error) {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inTable := false
	result := &Result{
		Names:   append([]string(nil), names...),
		Columns: make([][]float64, len(names)),
	}
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !inTable {
			if headerRe.MatchString(line) {
				inTable = true
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3+len(names) {
			break
		}
		year, err1 := strconv.Atoi(fields[0])
		doy, err2 := strconv.Atoi(fields[1])
		hour, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			break
		}
		t := time.Date(year, 1, 1, hour, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
		result.Times = append(result.Times, t)
		for i := 0; i < len(names); i++ {
			v, err := strconv.ParseFloat(fields[3+i], 64)
			if err != nil {
				v = math.NaN()
			}
			result.Columns[i] = append(result.Columns[i], scrubFill(v))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("omniweb: reading response: %w", err)
	}
	if !inTable {
		return nil, fmt.Errorf("omniweb: no data table in response")
	}
	if len(result.Times) == 0 {
		return nil, fmt.Errorf("omniweb: data table is empty")
	}
	return result, nil
}

func scrubFill(v float64) float64 {
	for _, fill := range omniFills {
		if v == fill {
			return math.NaN()
		}
	}
	return v
}

// clip drops rows outside [start, end).
func (r *Result) clip(start, end time.Time) {
	lo, hi := 0, len(r.Times)
	for lo < hi && r.Times[lo].Before(start) {
		lo++
	}
	for hi > lo && !r.Times[hi-1].Before(end) {
		hi--
	}
	r.Times = r.Times[lo:hi]
	for i := range r.Columns {
		r.Columns[i] = r.Columns[i][lo:hi]
	}
}
