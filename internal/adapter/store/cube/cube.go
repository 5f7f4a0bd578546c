// Package cube stores gridded stress calculations as NetCDF files.
//
// A cube holds the Diurnal stresses on a (time, latitude, longitude) lattice
// and the NSR stresses on a (nsr_period, latitude, longitude) lattice, with
// the satellite and grid definitions recorded as global attributes.
package cube

import (
	"fmt"

	"go.ngs.io/satstress/internal/adapter/interp"
	"go.ngs.io/satstress/internal/domain"
)

// Dimension and coordinate variable names.
const (
	DimLatitude  = "latitude"
	DimLongitude = "longitude"
	DimTime      = "time"
	DimNSRPeriod = "nsr_period"
)

// Component holds one tensor component over a whole lattice, flattened in
// row-major (outer, latitude, longitude) order.
type Component []float32

// Components are the three tensor components of one forcing.
type Components struct {
	Ttt, Tpt, Tpp Component
}

// Metadata identifies how a cube was produced.
type Metadata struct {
	RunID       string
	GridID      string
	SystemID    string
	Description string
	History     string
	Body        domain.Body // Written out in full; OpenCube restores only SystemID.
}

// Cube is a complete grid calculation.
type Cube struct {
	Meta Metadata

	Latitude  []float64 // Degrees north.
	Longitude []float64 // Degrees east.
	Time      []float64 // Seconds after periapse.
	NSRPeriod []float64 // Seconds.

	Diurnal Components // [time][latitude][longitude].
	NSR     Components // [nsr_period][latitude][longitude].
}

// New allocates a cube for the given axes with zeroed components.
func New(meta Metadata, lat, lon, times, nsrPeriods []float64) *Cube {
	slice := len(lat) * len(lon)
	alloc := func(outer int) Components {
		return Components{
			Ttt: make(Component, outer*slice),
			Tpt: make(Component, outer*slice),
			Tpp: make(Component, outer*slice),
		}
	}
	return &Cube{
		Meta:      meta,
		Latitude:  lat,
		Longitude: lon,
		Time:      times,
		NSRPeriod: nsrPeriods,
		Diurnal:   alloc(len(times)),
		NSR:       alloc(len(nsrPeriods)),
	}
}

// Index returns the flat offset of (outer, lat, lon).
func (c *Cube) Index(outer, lat, lon int) int {
	return (outer*len(c.Latitude)+lat)*len(c.Longitude) + lon
}

// Set stores a tensor for the given forcing at (outer, lat, lon).
func (c *Cube) Set(kind domain.ForcingKind, outer, lat, lon int, s domain.StressTensor) {
	comps := c.components(kind)
	i := c.Index(outer, lat, lon)
	comps.Ttt[i] = float32(s.Ttt)
	comps.Tpt[i] = float32(s.Tpt)
	comps.Tpp[i] = float32(s.Tpp)
}

// At returns the stored tensor for the given forcing at (outer, lat, lon).
func (c *Cube) At(kind domain.ForcingKind, outer, lat, lon int) domain.StressTensor {
	comps := c.components(kind)
	i := c.Index(outer, lat, lon)
	return domain.StressTensor{
		Ttt: float64(comps.Ttt[i]),
		Tpt: float64(comps.Tpt[i]),
		Tpp: float64(comps.Tpp[i]),
	}
}

func (c *Cube) components(kind domain.ForcingKind) *Components {
	if kind == domain.ForcingNSR {
		return &c.NSR
	}
	return &c.Diurnal
}

// OuterAxis returns the time axis for Diurnal and the NSR period axis for NSR.
func (c *Cube) OuterAxis(kind domain.ForcingKind) []float64 {
	if kind == domain.ForcingNSR {
		return c.NSRPeriod
	}
	return c.Time
}

// Slice returns the latitude/longitude slice of one forcing at outer index
// outer, ready for interpolation.
func (c *Cube) Slice(kind domain.ForcingKind, outer int) (interp.TensorGrid, error) {
	if n := len(c.OuterAxis(kind)); outer < 0 || outer >= n {
		return interp.TensorGrid{}, fmt.Errorf("%s index %d out of range [0, %d)", kind, outer, n)
	}
	comps := c.components(kind)
	grid := func(comp Component) *interp.Grid {
		values := make([][]float64, len(c.Latitude))
		for i := range c.Latitude {
			values[i] = make([]float64, len(c.Longitude))
			for j := range c.Longitude {
				values[i][j] = float64(comp[c.Index(outer, i, j)])
			}
		}
		return &interp.Grid{Lon: c.Longitude, Lat: c.Latitude, Values: values}
	}
	return interp.TensorGrid{
		Ttt: grid(comps.Ttt),
		Tpt: grid(comps.Tpt),
		Tpp: grid(comps.Tpp),
	}, nil
}

// VarName returns the NetCDF variable name of a component, e.g. Ttt_Diurnal.
func VarName(component string, kind domain.ForcingKind) string {
	return component + "_" + kind.String()
}
