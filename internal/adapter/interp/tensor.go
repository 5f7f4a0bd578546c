package interp

import (
	"fmt"

	"go.ngs.io/satstress/internal/domain"
)

// TensorGrid holds the three stress components on a shared lattice.
type TensorGrid struct {
	Ttt, Tpt, Tpp *Grid
}

// Sample returns the stress tensor at (lat, lon) in degrees. Longitudes
// outside the lattice are wrapped by whole turns before sampling.
func (tg TensorGrid) Sample(lat, lon float64) (domain.StressTensor, error) {
	if tg.Ttt == nil || tg.Tpt == nil || tg.Tpp == nil {
		return domain.StressTensor{}, fmt.Errorf("tensor grid is incomplete")
	}
	if len(tg.Ttt.Lon) > 0 {
		lonMin := tg.Ttt.Lon[0]
		lonMax := tg.Ttt.Lon[len(tg.Ttt.Lon)-1]
		if lon < lonMin || lon > lonMax {
			lon = WrapLongitude(lon, lonMin)
		}
	}

	var s domain.StressTensor
	components := []struct {
		name string
		grid *Grid
		dst  *float64
	}{
		{"Ttt", tg.Ttt, &s.Ttt},
		{"Tpt", tg.Tpt, &s.Tpt},
		{"Tpp", tg.Tpp, &s.Tpp},
	}
	for _, c := range components {
		v, err := c.grid.At(lon, lat)
		if err != nil {
			return domain.StressTensor{}, fmt.Errorf("failed to interpolate %s at (%.4f, %.4f): %w", c.name, lat, lon, err)
		}
		*c.dst = v
	}
	return s, nil
}
