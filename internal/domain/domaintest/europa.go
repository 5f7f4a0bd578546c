// Package domaintest provides reference satellites and Love numbers for tests.
package domaintest

import (
	"context"
	"strconv"

	"go.ngs.io/satstress/internal/domain"
)

// Europa returns a four layer Europa-like satellite with a thin, stiff
// upper ice layer over a warm, convecting lower ice layer.
func Europa() domain.Body {
	return domain.Body{
		SystemID:           "JupiterEuropa",
		PlanetMass:         1.8987e27,
		OrbitEccentricity:  0.0094,
		OrbitSemimajorAxis: 6.709e8,
		NSRPeriod:          3.1556926e12,
		Layers: [domain.NumLayers]domain.Layer{
			{ID: domain.LayerIDCore, Density: 3490, LameMu: 4.0e10, LameLambda: 5.0e10, Thickness: 1.4e6, Viscosity: 1e20, TensileStrength: 1e6},
			{ID: domain.LayerIDOcean, Density: 1000, LameMu: 0, LameLambda: 2.25e9, Thickness: 1.23e5, Viscosity: 0, TensileStrength: 0},
			{ID: domain.LayerIDIceLower, Density: 930, LameMu: 3.5e9, LameLambda: 3.4e9, Thickness: 1.5e4, Viscosity: 1e14, TensileStrength: 1e6},
			{ID: domain.LayerIDIceUpper, Density: 920, LameMu: 3.5e9, LameLambda: 3.4e9, Thickness: 3e3, Viscosity: 1e22, TensileStrength: 1e6},
		},
	}
}

// Params returns b as the name/value pairs of a satellite definition file.
func Params(b domain.Body) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	params := map[string]string{
		domain.ParamSystemID:           b.SystemID,
		domain.ParamPlanetMass:         f(b.PlanetMass),
		domain.ParamOrbitEccentricity:  f(b.OrbitEccentricity),
		domain.ParamOrbitSemimajorAxis: f(b.OrbitSemimajorAxis),
		domain.ParamNSRPeriod:          f(b.NSRPeriod),
	}
	for n, l := range b.Layers {
		i := "_" + strconv.Itoa(n)
		params["LAYER_ID"+i] = l.ID
		params["DENSITY"+i] = f(l.Density)
		params["LAME_MU"+i] = f(l.LameMu)
		params["LAME_LAMBDA"+i] = f(l.LameLambda)
		params["THICKNESS"+i] = f(l.Thickness)
		params["VISCOSITY"+i] = f(l.Viscosity)
		params["TENSILE_STR"+i] = f(l.TensileStrength)
	}
	return params
}

// Love returns plausible Maxwell Love numbers for a body with a subsurface
// ocean.
func Love() domain.LoveNumbers {
	return domain.LoveNumbers{
		H2: complex(1.19, -0.012),
		K2: complex(0.25, -0.003),
		L2: complex(0.31, -0.004),
	}
}

// Solver answers every request with fixed Love numbers and counts calls.
type Solver struct {
	Love     domain.LoveNumbers
	Err      error
	Calls    int
	Requests []domain.LoveRequest
}

// SolveLove implements domain.LoveSolver.
func (s *Solver) SolveLove(_ context.Context, req domain.LoveRequest) (domain.LoveNumbers, error) {
	s.Calls++
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return domain.LoveNumbers{}, s.Err
	}
	return s.Love, nil
}
