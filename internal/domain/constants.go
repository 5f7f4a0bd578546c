package domain

import "math"

// Physical constants and model limits.
const (
	// G is Newton's gravitational constant [m^3 kg^-1 s^-2].
	G = 6.67428e-11

	// NumLayers is the only layer count the Love number code supports.
	NumLayers = 4

	// MinLayerDensity is the lower (exclusive) bound on a layer density [kg m^-3].
	MinLayerDensity = 100.0
	// MinLayerThickness is the lower (exclusive) bound on a layer thickness [m].
	MinLayerThickness = 100.0
	// MinPlanetMassRatio is the smallest allowed planet mass / satellite mass ratio.
	MinPlanetMassRatio = 10.0
	// MaxEccentricity is the largest orbital eccentricity the stress model accepts.
	MaxEccentricity = 0.25
	// MaxDelta is the largest Δ = μ/(ωη) the Love number code is reliable for.
	MaxDelta = 1e9

	// NSRCoreShearScale softens the core during NSR Love number solves so the
	// core relaxes nearly as a fluid.
	NSRCoreShearScale = 1.0 / 1000.0

	// SecondsPerDay is the length of the day unit used by the Love number code.
	SecondsPerDay = 86400.0
	// SecondsPerYear is a tropical year, used for human readable NSR periods.
	SecondsPerYear = 31556926.0
)

// Layer positions, counted from the centre of the satellite outward.
const (
	LayerCore     = 0
	LayerOcean    = 1
	LayerIceLower = 2
	LayerIceUpper = 3

	// LayerSurface is the outermost layer.
	LayerSurface = LayerIceUpper
)

// Conventional layer identifiers. Any non-empty identifier is accepted.
const (
	LayerIDCore     = "CORE"
	LayerIDOcean    = "OCEAN"
	LayerIDIceLower = "ICE_LOWER"
	LayerIDIceUpper = "ICE_UPPER"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ColatitudeFromLatitude converts a north-positive latitude in degrees to a
// co-latitude in radians.
func ColatitudeFromLatitude(latDeg float64) float64 {
	return Deg2Rad(90.0 - latDeg)
}
