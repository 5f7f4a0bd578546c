package domain

import (
	"fmt"
	"math"
	"strings"
)

// Satellite parameter names used in satellite definition files.
const (
	ParamSystemID           = "SYSTEM_ID"
	ParamPlanetMass         = "PLANET_MASS"
	ParamOrbitEccentricity  = "ORBIT_ECCENTRICITY"
	ParamOrbitSemimajorAxis = "ORBIT_SEMIMAJOR_AXIS"
	ParamNSRPeriod          = "NSR_PERIOD"
)

// Body describes the physical structure and orbital context of a satellite:
// four concentric homogeneous layers plus the orbit around its planet.
//
// Body is a value type. Forcing models keep their own copy, so a Body can be
// shared freely once constructed.
type Body struct {
	SystemID           string
	PlanetMass         float64 // Mass of the parent planet [kg].
	OrbitEccentricity  float64
	OrbitSemimajorAxis float64 // [m].
	NSRPeriod          float64 // Shell rotation period [s]; +Inf disables NSR stresses.

	// Layers are ordered from the centre outward: Layers[0] is the core and
	// Layers[NumLayers-1] is the surface.
	Layers [NumLayers]Layer
}

// NewBody builds a Body from the name/value pairs of a satellite definition
// file and checks its physical validity.
//
// Schema problems are reported as described by ValidateParams. Physical
// problems are reported one at a time, in this order: per-layer ranges and
// density ordering (layer by layer, from the core outward), planet mass
// ratio, semi-major axis, eccentricity, NSR period.
func NewBody(params map[string]string) (Body, error) {
	if err := ValidateParams(params); err != nil {
		return Body{}, err
	}

	// Every numeric parameter is known to parse at this point.
	num := func(name string) float64 {
		v, _ := parseNumber(params[name])
		return v
	}

	b := Body{
		SystemID:           strings.TrimSpace(params[ParamSystemID]),
		PlanetMass:         num(ParamPlanetMass),
		OrbitEccentricity:  num(ParamOrbitEccentricity),
		OrbitSemimajorAxis: num(ParamOrbitSemimajorAxis),
		NSRPeriod:          num(ParamNSRPeriod),
	}
	for n := 0; n < NumLayers; n++ {
		b.Layers[n] = Layer{
			ID:              strings.TrimSpace(params[layerParamName(paramLayerID, n)]),
			Density:         num(layerParamName(paramDensity, n)),
			LameMu:          num(layerParamName(paramLameMu, n)),
			LameLambda:      num(layerParamName(paramLameLambda, n)),
			Thickness:       num(layerParamName(paramThickness, n)),
			Viscosity:       num(layerParamName(paramViscosity, n)),
			TensileStrength: num(layerParamName(paramTensileStr, n)),
		}
	}

	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// Validate checks the physical validity of the body.
func (b Body) Validate() error {
	for n := range b.Layers {
		if err := b.Layers[n].validate(n); err != nil {
			return err
		}
		// Denser material sitting on top of lighter material is
		// gravitationally unstable, and the Love number code blows up.
		if n > 0 && b.Layers[n].Density > b.Layers[n-1].Density {
			return &ValidationError{
				Kind:  ErrGravitationallyUnstable,
				Param: layerParamName(paramDensity, n),
				Layer: n,
				Value: b.Layers[n].Density,
				Detail: fmt.Sprintf("layer %d (%s) is denser than layer %d (%s) = %g kg m^-3 beneath it",
					n, b.Layers[n].ID, n-1, b.Layers[n-1].ID, b.Layers[n-1].Density),
			}
		}
	}

	if mass := b.Mass(); !(b.PlanetMass >= MinPlanetMassRatio*mass) {
		return &ValidationError{
			Kind:   ErrExcessivePlanetMassRatio,
			Param:  ParamPlanetMass,
			Layer:  noLayer,
			Value:  b.PlanetMass,
			Detail: fmt.Sprintf("must be at least %g times the satellite mass %g kg", MinPlanetMassRatio, mass),
		}
	}
	if !(b.OrbitSemimajorAxis > 0) {
		return &ValidationError{Kind: ErrInvalidOrbit, Param: ParamOrbitSemimajorAxis, Layer: noLayer, Value: b.OrbitSemimajorAxis, Detail: "must be positive"}
	}
	if b.OrbitEccentricity < 0 {
		return &ValidationError{Kind: ErrInvalidOrbit, Param: ParamOrbitEccentricity, Layer: noLayer, Value: b.OrbitEccentricity, Detail: "must not be negative"}
	}
	if !(b.OrbitEccentricity <= MaxEccentricity) {
		return &ValidationError{
			Kind:   ErrEccentricityTooLarge,
			Param:  ParamOrbitEccentricity,
			Layer:  noLayer,
			Value:  b.OrbitEccentricity,
			Detail: fmt.Sprintf("the stress model requires e <= %g", MaxEccentricity),
		}
	}
	if !(b.NSRPeriod >= 0) {
		return &ValidationError{Kind: ErrNegativeNSRPeriod, Param: ParamNSRPeriod, Layer: noLayer, Value: b.NSRPeriod}
	}
	return nil
}

// WithNSRPeriod returns a validated copy of b with a different NSR period.
func (b Body) WithNSRPeriod(period float64) (Body, error) {
	b.NSRPeriod = period
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// withCoreShearScaled returns a copy of b whose core shear modulus is
// multiplied by scale. The receiver is left untouched.
func (b Body) withCoreShearScaled(scale float64) Body {
	b.Layers[LayerCore].LameMu *= scale
	return b
}

// Mass returns the satellite mass [kg], the sum of the spherical shell masses.
func (b Body) Mass() float64 {
	mass := 0.0
	radius := 0.0
	for _, l := range b.Layers {
		outer := radius + l.Thickness
		mass += (4.0 / 3.0) * math.Pi * (outer*outer*outer - radius*radius*radius) * l.Density
		radius = outer
	}
	return mass
}

// Radius returns the satellite radius [m], the sum of the layer thicknesses.
func (b Body) Radius() float64 {
	radius := 0.0
	for _, l := range b.Layers {
		radius += l.Thickness
	}
	return radius
}

// Density returns the satellite mean density [kg m^-3].
func (b Body) Density() float64 {
	r := b.Radius()
	return b.Mass() / ((4.0 / 3.0) * math.Pi * r * r * r)
}

// SurfaceGravity returns the surface gravitational acceleration [m s^-2].
func (b Body) SurfaceGravity() float64 {
	r := b.Radius()
	return G * b.Mass() / (r * r)
}

// OrbitPeriod returns the Keplerian orbital period [s].
func (b Body) OrbitPeriod() float64 {
	a := b.OrbitSemimajorAxis
	return 2.0 * math.Pi * math.Sqrt(a*a*a/(G*b.PlanetMass))
}

// MeanMotion returns the orbital mean motion [rad s^-1].
func (b Body) MeanMotion() float64 {
	return 2.0 * math.Pi / b.OrbitPeriod()
}

// Surface returns the outermost layer.
func (b Body) Surface() Layer {
	return b.Layers[LayerSurface]
}

// String returns a satellite definition file equivalent to b. Derived
// quantities are written as comments.
func (b Body) String() string {
	var sb strings.Builder

	sb.WriteString(`#
# Satellite system definition file.
# All quantities are in SI (meters, kilograms, seconds) units.

############################################################
# Basic Satellite parameters:
############################################################

# Satellite system name
`)
	writePair(&sb, ParamSystemID, b.SystemID)
	sb.WriteString("\n# System orbital parameters:\n")
	writeFloat(&sb, ParamPlanetMass, b.PlanetMass)
	writeFloat(&sb, ParamOrbitEccentricity, b.OrbitEccentricity)
	writeFloat(&sb, ParamOrbitSemimajorAxis, b.OrbitSemimajorAxis)
	sb.WriteString("\n# Additional parameters required to calculate Love numbers:\n")
	fmt.Fprintf(&sb, "%s = %s # seconds (== %g yr)\n", ParamNSRPeriod, formatFloat(b.NSRPeriod), b.NSRPeriod/SecondsPerYear)

	sb.WriteString(`
############################################################
# Derived properties of the Satellite:
############################################################

`)
	writeDerived(&sb, "RADIUS", b.Radius())
	writeDerived(&sb, "MASS", b.Mass())
	writeDerived(&sb, "DENSITY", b.Density())
	writeDerived(&sb, "SURFACE_GRAVITY", b.SurfaceGravity())
	writeDerived(&sb, "ORBIT_PERIOD", b.OrbitPeriod())
	writeDerived(&sb, "MEAN_MOTION", b.MeanMotion())

	sb.WriteString(`
############################################################
# Layering structure of the Satellite:
############################################################
`)
	for n, l := range b.Layers {
		sb.WriteString(l.OrderedString(n))
	}
	return sb.String()
}
