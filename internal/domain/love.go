package domain

import (
	"context"
	"fmt"
	"math"
)

// LoveNumbers holds the complex, frequency dependent degree-2 Love numbers.
type LoveNumbers struct {
	H2 complex128 // Radial displacement.
	K2 complex128 // Potential.
	L2 complex128 // Tangential displacement.
}

// Check verifies that the Love numbers are plausible for a Maxwell body:
// for h2 and l2 the real part must be non-negative, the imaginary part must
// be non-positive, and the real part must dominate the imaginary part.
func (l LoveNumbers) Check() error {
	for _, v := range []complex128{l.H2, l.L2} {
		re, im := real(v), imag(v)
		if math.Abs(re) < math.Abs(im) || re < 0 || im > 0 || math.IsNaN(re) || math.IsNaN(im) {
			return ErrImplausibleLoveNumbers
		}
	}
	return nil
}

// String returns a human readable representation of the Love numbers.
func (l LoveNumbers) String() string {
	return fmt.Sprintf("h2 = %v\nk2 = %v\nl2 = %v", l.H2, l.K2, l.L2)
}

// ElasticProps are the elastic properties of a solid layer as the Love number
// code expects them.
type ElasticProps struct {
	YoungsModulus float64 // [Pa].
	PoissonsRatio float64
	Density       float64 // [g cm^-3].
}

// OceanProps describe the decoupling fluid layer.
type OceanProps struct {
	Thickness     float64 // [km].
	Density       float64 // [g cm^-3].
	PWaveVelocity float64 // [km s^-1].
}

// LoveRequest is the input to a Love number solver, in the solver's units:
// densities in g/cm^3, lengths in km, the forcing period in days.
type LoveRequest struct {
	MeanDensity       float64 // [g cm^-3].
	ForcingPeriodDays float64
	Radius            float64 // [km].

	UpperIceViscosity float64 // [Pa s].
	LowerIceViscosity float64 // [Pa s].
	UpperIceThickness float64 // [km].
	LowerIceThickness float64 // [km].

	Core  ElasticProps
	Ice   ElasticProps // Taken from the surface layer.
	Ocean OceanProps
}

// NewLoveRequest converts a body and a forcing frequency into solver units.
func NewLoveRequest(b Body, omega float64) LoveRequest {
	const (
		kgm3ToGcm3 = 1.0 / 1000.0
		mToKm      = 1.0 / 1000.0
	)
	elastic := func(l Layer) ElasticProps {
		return ElasticProps{
			YoungsModulus: l.YoungsModulus(),
			PoissonsRatio: l.PoissonsRatio(),
			Density:       l.Density * kgm3ToGcm3,
		}
	}
	core := b.Layers[LayerCore]
	ocean := b.Layers[LayerOcean]
	lower := b.Layers[LayerIceLower]
	upper := b.Layers[LayerIceUpper]

	return LoveRequest{
		MeanDensity:       b.Density() * kgm3ToGcm3,
		ForcingPeriodDays: forcingPeriod(omega) / SecondsPerDay,
		Radius:            b.Radius() * mToKm,
		UpperIceViscosity: upper.Viscosity,
		LowerIceViscosity: lower.Viscosity,
		UpperIceThickness: upper.Thickness * mToKm,
		LowerIceThickness: lower.Thickness * mToKm,
		Core:              elastic(core),
		Ice:               elastic(upper),
		Ocean: OceanProps{
			Thickness:     ocean.Thickness * mToKm,
			Density:       ocean.Density * kgm3ToGcm3,
			PWaveVelocity: ocean.PWaveVelocity() * mToKm,
		},
	}
}

// LoveSolver computes Love numbers for a layered body. Implementations may be
// slow (an external process or a numerical routine); ctx bounds the call.
type LoveSolver interface {
	SolveLove(ctx context.Context, req LoveRequest) (LoveNumbers, error)
}

// forcingPeriod returns 2π/ω, or +Inf for ω = 0.
func forcingPeriod(omega float64) float64 {
	if omega == 0 {
		return math.Inf(1)
	}
	return 2.0 * math.Pi / omega
}
