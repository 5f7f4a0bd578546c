package domain

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// ForcingKind selects one of the supported tidal forcings.
type ForcingKind int

const (
	// ForcingDiurnal is the eccentricity forcing, at the orbital frequency.
	ForcingDiurnal ForcingKind = iota
	// ForcingNSR is non-synchronous rotation of a decoupled ice shell.
	ForcingNSR
)

// String returns the forcing name used in output files.
func (k ForcingKind) String() string {
	switch k {
	case ForcingDiurnal:
		return "Diurnal"
	case ForcingNSR:
		return "NSR"
	default:
		return fmt.Sprintf("ForcingKind(%d)", int(k))
	}
}

// ParseForcingKind parses a forcing name case-insensitively.
func ParseForcingKind(name string) (ForcingKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diurnal":
		return ForcingDiurnal, nil
	case "nsr":
		return ForcingNSR, nil
	default:
		return 0, fmt.Errorf("unknown forcing %q (use diurnal or nsr)", name)
	}
}

// Forcing is a tidal stress field on a particular satellite. It is built once,
// solving for its Love numbers during construction, and is read-only
// afterwards, so a Forcing may be evaluated from many goroutines.
type Forcing struct {
	kind  ForcingKind
	body  Body
	omega float64
	love  LoveNumbers

	coef  Coefficients
	z     float64 // Z.
	scale float64 // Z/(gR).
}

// NewDiurnal builds the eccentricity forcing for b. The forcing frequency is
// the orbital mean motion.
func NewDiurnal(ctx context.Context, b Body, solver LoveSolver) (*Forcing, error) {
	return newForcing(ctx, ForcingDiurnal, b, b.MeanMotion(), b, solver)
}

// NewNSR builds the non-synchronous rotation forcing for b.
//
// The field is degree 2, so a point on the shell sees a full stress cycle
// every half rotation: ω = 4π/P_nsr. The core stays synchronous and relaxes,
// which is modelled by solving the Love numbers against a copy of b whose core
// shear modulus is scaled by NSRCoreShearScale. b itself is never modified.
// An infinite period yields a zero field; a zero period is rejected.
func NewNSR(ctx context.Context, b Body, solver LoveSolver) (*Forcing, error) {
	if b.NSRPeriod == 0 {
		return nil, &ForcingError{Forcing: ForcingNSR, Kind: ErrZeroForcingPeriod, Layer: noLayer}
	}
	omega := 0.0
	if !math.IsInf(b.NSRPeriod, 1) && b.NSRPeriod > 0 {
		omega = 4.0 * math.Pi / b.NSRPeriod
	}
	return newForcing(ctx, ForcingNSR, b, omega, b.withCoreShearScaled(NSRCoreShearScale), solver)
}

// NewForcing builds the forcing of the given kind.
func NewForcing(ctx context.Context, kind ForcingKind, b Body, solver LoveSolver) (*Forcing, error) {
	switch kind {
	case ForcingDiurnal:
		return NewDiurnal(ctx, b, solver)
	case ForcingNSR:
		return NewNSR(ctx, b, solver)
	default:
		return nil, fmt.Errorf("unsupported forcing %v", kind)
	}
}

// newForcing solves Love numbers against loveBody and evaluates stresses on b.
func newForcing(ctx context.Context, kind ForcingKind, b Body, omega float64, loveBody Body, solver LoveSolver) (*Forcing, error) {
	love, err := solveLove(ctx, kind, loveBody, omega, solver)
	if err != nil {
		return nil, err
	}

	f := &Forcing{
		kind:  kind,
		body:  b,
		omega: omega,
		love:  love,
		z:     Z(b),
	}
	f.scale = f.z / (b.SurfaceGravity() * b.Radius())
	if omega != 0 {
		f.coef = NewCoefficients(b.Surface(), omega, love)
	}
	return f, nil
}

// solveLove obtains Love numbers for b at frequency ω.
//
// An infinite forcing period (ω = 0) yields zero Love numbers without calling
// the solver: every stress relaxes away and the field vanishes. Otherwise
// both ice layers must have Δ <= MaxDelta, and the solver output must pass
// LoveNumbers.Check.
func solveLove(ctx context.Context, kind ForcingKind, b Body, omega float64, solver LoveSolver) (LoveNumbers, error) {
	if omega == 0 {
		return LoveNumbers{}, nil
	}

	for _, n := range []int{LayerIceUpper, LayerIceLower} {
		if d := Delta(b.Layers[n], omega); !(d <= MaxDelta) {
			return LoveNumbers{}, &ForcingError{Forcing: kind, Kind: ErrExcessiveDelta, Layer: n, Delta: d}
		}
	}

	if solver == nil {
		return LoveNumbers{}, &ForcingError{Forcing: kind, Kind: ErrSolverFailure, Layer: noLayer, Err: fmt.Errorf("no Love number solver configured")}
	}
	love, err := solver.SolveLove(ctx, NewLoveRequest(b, omega))
	if err != nil {
		return LoveNumbers{}, &ForcingError{Forcing: kind, Kind: ErrSolverFailure, Layer: noLayer, Err: err}
	}
	if err := love.Check(); err != nil {
		return LoveNumbers{}, &ForcingError{Forcing: kind, Kind: ErrImplausibleLoveNumbers, Layer: noLayer, Love: &love}
	}
	return love, nil
}

// Kind returns the forcing kind.
func (f *Forcing) Kind() ForcingKind { return f.kind }

// Name returns the forcing name, e.g. "Diurnal".
func (f *Forcing) Name() string { return f.kind.String() }

// Body returns the satellite the forcing acts on.
func (f *Forcing) Body() Body { return f.body }

// Omega returns the forcing angular frequency [rad s^-1].
func (f *Forcing) Omega() float64 { return f.omega }

// ForcingPeriod returns 2π/ω [s], +Inf when ω = 0.
func (f *Forcing) ForcingPeriod() float64 { return forcingPeriod(f.omega) }

// Love returns the Love numbers solved at construction.
func (f *Forcing) Love() LoveNumbers { return f.love }

// Coefficients returns the surface layer coefficients; zero when ω = 0.
func (f *Forcing) Coefficients() Coefficients { return f.coef }

// SurfaceDelta returns Δ for the surface layer.
func (f *Forcing) SurfaceDelta() float64 { return Delta(f.body.Surface(), f.omega) }

// Evaluate returns the stress tensor at co-latitude theta, longitude phi and
// time t.
func (f *Forcing) Evaluate(theta, phi, t float64) StressTensor {
	return StressTensor{
		Ttt: f.Ttt(theta, phi, t),
		Tpt: f.Tpt(theta, phi, t),
		Tpp: f.Tpp(theta, phi, t),
	}
}

// Ttt returns the north-south component τθθ [Pa].
func (f *Forcing) Ttt(theta, phi, t float64) float64 {
	if f.omega == 0 {
		return 0
	}
	switch f.kind {
	case ForcingDiurnal:
		return f.diurnalNormal(f.coef.Beta1, f.coef.Gamma1, theta, phi, t)
	default:
		return f.nsrNormal(f.coef.Beta1, f.coef.Gamma1, theta, phi, t)
	}
}

// Tpp returns the east-west component τφφ [Pa].
func (f *Forcing) Tpp(theta, phi, t float64) float64 {
	if f.omega == 0 {
		return 0
	}
	switch f.kind {
	case ForcingDiurnal:
		return f.diurnalNormal(f.coef.Beta2, f.coef.Gamma2, theta, phi, t)
	default:
		return f.nsrNormal(f.coef.Beta2, f.coef.Gamma2, theta, phi, t)
	}
}

// Tpt returns the shear component τφθ = τθφ [Pa].
func (f *Forcing) Tpt(theta, phi, t float64) float64 {
	if f.omega == 0 {
		return 0
	}
	gamma := f.coef.Gamma
	cosTheta := complex(math.Cos(theta), 0)

	switch f.kind {
	case ForcingDiurnal:
		e := cmplx.Exp(complex(0, f.omega*t))
		cos2p := complex(math.Cos(2*phi), 0)
		sin2p := complex(math.Sin(2*phi), 0)
		v := -4*gamma*1i*e*cosTheta*cos2p - 3*gamma*e*cosTheta*sin2p
		return real(v) * 2 * f.body.OrbitEccentricity * f.scale
	default:
		e := cmplx.Exp(complex(0, 2*phi+f.omega*t))
		v := gamma * 1i * e * cosTheta
		return real(v) * 2 * f.scale
	}
}

// diurnalNormal evaluates the shared form of τθθ (β̃1, γ̃1) and τφφ (β̃2, γ̃2)
// for the eccentricity forcing:
//
//	e Z/(2gR) Re[3(β − γcos2θ)e^{iωt}cos2φ − (β + 3γcos2θ)e^{iωt} − 4i(β − γcos2θ)e^{iωt}sin2φ]
func (f *Forcing) diurnalNormal(beta, gamma complex128, theta, phi, t float64) float64 {
	e := cmplx.Exp(complex(0, f.omega*t))
	cos2t := complex(math.Cos(2*theta), 0)
	cos2p := complex(math.Cos(2*phi), 0)
	sin2p := complex(math.Sin(2*phi), 0)

	v := 3*(beta-gamma*cos2t)*e*cos2p -
		(beta+3*gamma*cos2t)*e -
		4*(beta-gamma*cos2t)*1i*e*sin2p
	return real(v) * f.body.OrbitEccentricity * f.scale / 2
}

// nsrNormal evaluates the shared form of τθθ and τφφ for NSR:
//
//	Z/(2gR) Re[(β − γcos2θ)e^{i(2φ + ωt)}]
func (f *Forcing) nsrNormal(beta, gamma complex128, theta, phi, t float64) float64 {
	e := cmplx.Exp(complex(0, 2*phi+f.omega*t))
	cos2t := complex(math.Cos(2*theta), 0)
	v := (beta - gamma*cos2t) * e
	return real(v) * f.scale / 2
}

// String returns the frequency dependent parameters of the forcing as
// name/value text.
func (f *Forcing) String() string {
	mu := MuTilde(f.body.Surface(), f.omega)
	lambda := LambdaTilde(f.body.Surface(), f.omega)
	name := f.Name()

	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s_SURFACE_DELTA  = %g\n", name, f.SurfaceDelta())
	fmt.Fprintf(&sb, "%s_OMEGA          = %g\n", name, f.omega)
	fmt.Fprintf(&sb, "%s_FORCING_PERIOD = %g\n", name, f.ForcingPeriod())
	fmt.Fprintf(&sb, "%s_MU_TWIDDLE     = %g + %gj\n", name, real(mu), imag(mu))
	fmt.Fprintf(&sb, "%s_LAMBDA_TWIDDLE = %g + %gj\n", name, real(lambda), imag(lambda))
	fmt.Fprintf(&sb, "%s_LOVE_H2        = %v\n", name, f.love.H2)
	fmt.Fprintf(&sb, "%s_LOVE_K2        = %v\n", name, f.love.K2)
	fmt.Fprintf(&sb, "%s_LOVE_L2        = %v\n", name, f.love.L2)
	return sb.String()
}
