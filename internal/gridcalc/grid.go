// Package gridcalc evaluates tidal stresses over a regular
// latitude/longitude/time lattice and a range of NSR periods.
package gridcalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.ngs.io/satstress/internal/adapter/nvf"
	"go.ngs.io/satstress/internal/domain"
)

// ErrMissingDimension is returned when a grid definition leaves out the
// range of one of its dimensions.
var ErrMissingDimension = errors.New("missing grid dimension")

// DimensionError names the dimension a grid definition failed to specify.
type DimensionError struct {
	Dimension string
	Err       error
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dimension, e.Err)
}

func (e *DimensionError) Unwrap() error { return e.Err }

// Range is an inclusive interval sampled at Num points.
type Range struct {
	Min, Max float64
	Num      int
}

// Grid defines the extent and resolution of a grid calculation.
type Grid struct {
	ID string

	Lat Range // Degrees north.
	Lon Range // Degrees east.

	// Time is in seconds after periapse. When the definition used ORBIT_*
	// instead, Orbit holds that range in degrees after periapse
	// and Time the equivalent seconds.
	Time  Range
	Orbit *Range

	NSRPeriod Range // Seconds, sampled logarithmically.
}

// ReadGrid parses the grid definition file at path. The body supplies the
// orbit period when the temporal range is given as orbital position.
func ReadGrid(path string, b domain.Body) (Grid, error) {
	params, err := nvf.ReadFile(path)
	if err != nil {
		return Grid{}, err
	}
	g, err := NewGrid(params, b)
	if err != nil {
		return Grid{}, fmt.Errorf("invalid grid %s: %w", path, err)
	}
	return g, nil
}

// NewGrid builds a Grid from name/value pairs.
func NewGrid(params map[string]string, b domain.Body) (Grid, error) {
	g := Grid{ID: strings.TrimSpace(params["GRID_ID"])}

	var err error
	if g.Lat, err = readRange(params, "LAT", "latitude"); err != nil {
		return Grid{}, err
	}
	if g.Lon, err = readRange(params, "LON", "longitude"); err != nil {
		return Grid{}, err
	}

	if hasRange(params, "TIME") {
		if g.Time, err = readRange(params, "TIME", "time"); err != nil {
			return Grid{}, err
		}
	} else if hasRange(params, "ORBIT") {
		orbit, err := readRange(params, "ORBIT", "orbital position")
		if err != nil {
			return Grid{}, err
		}
		period := b.OrbitPeriod()
		g.Orbit = &orbit
		g.Time = Range{
			Min: period * orbit.Min / 360.0,
			Max: period * orbit.Max / 360.0,
			Num: orbit.Num,
		}
	} else {
		return Grid{}, &DimensionError{Dimension: "time/orbital position", Err: ErrMissingDimension}
	}

	if g.NSRPeriod, err = readRange(params, "NSR_PERIOD", "NSR period"); err != nil {
		return Grid{}, err
	}
	if !(g.NSRPeriod.Min > 0) || !(g.NSRPeriod.Max > 0) {
		return Grid{}, &DimensionError{Dimension: "NSR period", Err: fmt.Errorf("bounds must be positive for logarithmic spacing")}
	}
	return g, nil
}

func hasRange(params map[string]string, prefix string) bool {
	_, ok := params[prefix+"_MIN"]
	return ok
}

// readRange reads <prefix>_MIN, <prefix>_MAX and <prefix>_NUM.
func readRange(params map[string]string, prefix, dimension string) (Range, error) {
	rawMin, okMin := params[prefix+"_MIN"]
	rawMax, okMax := params[prefix+"_MAX"]
	rawNum, okNum := params[prefix+"_NUM"]
	if !okMin || !okMax || !okNum {
		return Range{}, &DimensionError{Dimension: dimension, Err: ErrMissingDimension}
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(rawMin), 64)
	if err != nil || math.IsNaN(lo) || math.IsInf(lo, 0) {
		return Range{}, &DimensionError{Dimension: dimension, Err: fmt.Errorf("invalid %s_MIN %q", prefix, rawMin)}
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(rawMax), 64)
	if err != nil || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return Range{}, &DimensionError{Dimension: dimension, Err: fmt.Errorf("invalid %s_MAX %q", prefix, rawMax)}
	}
	num, err := strconv.Atoi(strings.TrimSpace(rawNum))
	if err != nil || num < 1 {
		return Range{}, &DimensionError{Dimension: dimension, Err: fmt.Errorf("%s_NUM must be an integer >= 1, got %q", prefix, rawNum)}
	}
	return Range{Min: lo, Max: hi, Num: num}, nil
}

// Latitudes returns the latitude axis.
func (g Grid) Latitudes() []float64 { return Linspace(g.Lat.Min, g.Lat.Max, g.Lat.Num) }

// Longitudes returns the longitude axis.
func (g Grid) Longitudes() []float64 { return Linspace(g.Lon.Min, g.Lon.Max, g.Lon.Num) }

// Times returns the time axis in seconds.
func (g Grid) Times() []float64 { return Linspace(g.Time.Min, g.Time.Max, g.Time.Num) }

// NSRPeriods returns the logarithmically spaced NSR periods in seconds.
func (g Grid) NSRPeriods() []float64 {
	return Logspace(g.NSRPeriod.Min, g.NSRPeriod.Max, g.NSRPeriod.Num)
}

// Pairs returns the grid definition as name/value pairs. Only one of the
// TIME_* and ORBIT_* ranges is emitted.
func (g Grid) Pairs() []nvf.Pair {
	pairs := []nvf.Pair{{Name: "GRID_ID", Value: g.ID}}
	pairs = appendRange(pairs, "LAT", g.Lat)
	pairs = appendRange(pairs, "LON", g.Lon)
	if g.Orbit != nil {
		pairs = appendRange(pairs, "ORBIT", *g.Orbit)
	} else {
		pairs = appendRange(pairs, "TIME", g.Time)
	}
	return appendRange(pairs, "NSR_PERIOD", g.NSRPeriod)
}

func appendRange(pairs []nvf.Pair, prefix string, r Range) []nvf.Pair {
	return append(pairs,
		nvf.Pair{Name: prefix + "_MIN", Value: strconv.FormatFloat(r.Min, 'g', -1, 64)},
		nvf.Pair{Name: prefix + "_MAX", Value: strconv.FormatFloat(r.Max, 'g', -1, 64)},
		nvf.Pair{Name: prefix + "_NUM", Value: strconv.Itoa(r.Num)},
	)
}

// String returns a grid definition file equivalent to g.
func (g Grid) String() string {
	var sb strings.Builder
	sb.WriteString("# Grid definition file.\n")
	// Writing to a strings.Builder cannot fail.
	_ = nvf.Write(&sb, g.Pairs())
	return sb.String()
}

// Linspace returns num evenly spaced values over [lo, hi]. A single value
// is lo.
func Linspace(lo, hi float64, num int) []float64 {
	if num < 1 {
		return nil
	}
	out := make([]float64, num)
	if num == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(num-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[num-1] = hi
	return out
}

// Logspace returns num values evenly spaced in log10 over [lo, hi]. Both
// bounds must be positive.
func Logspace(lo, hi float64, num int) []float64 {
	exps := Linspace(math.Log10(lo), math.Log10(hi), num)
	out := make([]float64, len(exps))
	for i, e := range exps {
		out[i] = math.Pow(10, e)
	}
	if num > 1 {
		out[0], out[num-1] = lo, hi
	} else if num == 1 {
		out[0] = lo
	}
	return out
}
