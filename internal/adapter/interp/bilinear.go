// Package interp samples gridded stress fields between lattice points.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// Cell is one rectangle of a regular lon/lat lattice with its corner values.
type Cell struct {
	Lon0, Lon1 float64
	Lat0, Lat1 float64

	// V00 at (Lon0, Lat0), V10 at (Lon1, Lat0), V01 at (Lon0, Lat1),
	// V11 at (Lon1, Lat1).
	V00, V10, V01, V11 float64
}

// Bilinear interpolates within a cell:
//
//	f ≈ (1-t)(1-u)V00 + t(1-u)V10 + (1-t)u V01 + tu V11
//
// with t = (lon - Lon0)/(Lon1 - Lon0) and u = (lat - Lat0)/(Lat1 - Lat0).
func Bilinear(c Cell, lon, lat float64) (float64, error) {
	if c.Lon1 <= c.Lon0 {
		return 0, fmt.Errorf("invalid cell: Lon1 must be > Lon0")
	}
	if c.Lat1 <= c.Lat0 {
		return 0, fmt.Errorf("invalid cell: Lat1 must be > Lat0")
	}

	const epsilon = 1e-9
	if lon < c.Lon0-epsilon || lon > c.Lon1+epsilon {
		return 0, fmt.Errorf("longitude %.6f is outside cell [%.6f, %.6f]", lon, c.Lon0, c.Lon1)
	}
	if lat < c.Lat0-epsilon || lat > c.Lat1+epsilon {
		return 0, fmt.Errorf("latitude %.6f is outside cell [%.6f, %.6f]", lat, c.Lat0, c.Lat1)
	}

	t := clamp01((lon - c.Lon0) / (c.Lon1 - c.Lon0))
	u := clamp01((lat - c.Lat0) / (c.Lat1 - c.Lat0))

	return (1-t)*(1-u)*c.V00 +
		t*(1-u)*c.V10 +
		(1-t)*u*c.V01 +
		t*u*c.V11, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Grid is a scalar field on a regular lattice. Values[i][j] is the value at
// (Lon[j], Lat[i]).
type Grid struct {
	Lon    []float64 // Degrees east, strictly increasing.
	Lat    []float64 // Degrees north, strictly increasing.
	Values [][]float64
}

// Validate checks the lattice shape and ordering.
func (g *Grid) Validate() error {
	if len(g.Lon) < 2 {
		return fmt.Errorf("grid must have at least 2 longitudes")
	}
	if len(g.Lat) < 2 {
		return fmt.Errorf("grid must have at least 2 latitudes")
	}
	if len(g.Values) != len(g.Lat) {
		return fmt.Errorf("number of value rows (%d) must match latitudes (%d)", len(g.Values), len(g.Lat))
	}
	for i, row := range g.Values {
		if len(row) != len(g.Lon) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.Lon))
		}
	}
	if !strictlyIncreasing(g.Lon) {
		return fmt.Errorf("longitudes must be strictly increasing")
	}
	if !strictlyIncreasing(g.Lat) {
		return fmt.Errorf("latitudes must be strictly increasing")
	}
	return nil
}

func strictlyIncreasing(axis []float64) bool {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return false
		}
	}
	return true
}

// At interpolates the grid at (lon, lat).
func (g *Grid) At(lon, lat float64) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("invalid grid: %w", err)
	}

	j, ok := cellIndex(g.Lon, lon)
	if !ok {
		return 0, fmt.Errorf("longitude %.6f is outside grid range [%.6f, %.6f]", lon, g.Lon[0], g.Lon[len(g.Lon)-1])
	}
	i, ok := cellIndex(g.Lat, lat)
	if !ok {
		return 0, fmt.Errorf("latitude %.6f is outside grid range [%.6f, %.6f]", lat, g.Lat[0], g.Lat[len(g.Lat)-1])
	}

	return Bilinear(Cell{
		Lon0: g.Lon[j], Lon1: g.Lon[j+1],
		Lat0: g.Lat[i], Lat1: g.Lat[i+1],
		V00: g.Values[i][j], V10: g.Values[i][j+1],
		V01: g.Values[i+1][j], V11: g.Values[i+1][j+1],
	}, lon, lat)
}

// cellIndex returns k such that axis[k] <= v <= axis[k+1].
func cellIndex(axis []float64, v float64) (int, bool) {
	n := len(axis)
	if v < axis[0] || v > axis[n-1] {
		return 0, false
	}
	k := sort.SearchFloat64s(axis, v) - 1
	return min(max(k, 0), n-2), true
}

// WrapLongitude maps lon into [lonMin, lonMin + 360).
func WrapLongitude(lon, lonMin float64) float64 {
	lon = math.Mod(lon-lonMin, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon + lonMin
}
