package domain

// Frequency dependent coefficients of the Wahr et al. (2009) surface stress
// expressions. All of them are pure functions of a layer, the forcing
// frequency ω and, where noted, the Love numbers.

// Delta returns Δ = μ/(ωη) = 1/(ωτ), where τ = η/μ is the Maxwell time of
// layer l.
func Delta(l Layer, omega float64) float64 {
	return l.LameMu / (omega * l.Viscosity)
}

// MuTilde returns the complex Maxwell shear modulus μ/(1 − iΔ).
func MuTilde(l Layer, omega float64) complex128 {
	d := complex(Delta(l, omega), 0)
	return complex(l.LameMu, 0) * (1.0 / (1 - 1i*d))
}

// LambdaTilde returns the complex Maxwell Lamé parameter
// λ(1 − iΔ(2μ + 3λ)/(3λ))/(1 − iΔ), evaluated as
// (λ − iΔ(2μ + 3λ)/3)/(1 − iΔ) so that it stays finite for λ = 0.
func LambdaTilde(l Layer, omega float64) complex128 {
	d := complex(Delta(l, omega), 0)
	lambda := complex(l.LameLambda, 0)
	mu := complex(l.LameMu, 0)

	numerator := lambda - 1i*d*(2*mu+3*lambda)/3
	denominator := 1 - 1i*d
	return numerator / denominator
}

// Z returns 3GMR²/(2a³), the constant in front of the tidal potential terms.
func Z(b Body) float64 {
	r := b.Radius()
	a := b.OrbitSemimajorAxis
	return 3.0 * G * b.PlanetMass * r * r / (2.0 * a * a * a)
}

// Coefficients are the surface layer coefficients shared by every forcing.
type Coefficients struct {
	MuTilde     complex128 // μ̃
	LambdaTilde complex128 // λ̃
	Alpha       complex128 // α̃ = (3λ̃ + 2μ̃)/(λ̃ + 2μ̃)
	Gamma       complex128 // Γ̃ = μ̃ l2
	Beta1       complex128 // β̃1 = μ̃(α̃(h2 − 3l2) + 3l2)
	Gamma1      complex128 // γ̃1 = μ̃(α̃(h2 − 3l2) − l2)
	Beta2       complex128 // β̃2 = μ̃(α̃(h2 − 3l2) − 3l2)
	Gamma2      complex128 // γ̃2 = μ̃(α̃(h2 − 3l2) + l2)
}

// NewCoefficients evaluates the coefficients for layer l at frequency ω with
// the given Love numbers.
func NewCoefficients(l Layer, omega float64, love LoveNumbers) Coefficients {
	mu := MuTilde(l, omega)
	lambda := LambdaTilde(l, omega)
	// A surface with no rigidity carries no stress.
	var alpha complex128
	if den := lambda + 2*mu; den != 0 {
		alpha = (3*lambda + 2*mu) / den
	}
	common := alpha * (love.H2 - 3*love.L2)

	return Coefficients{
		MuTilde:     mu,
		LambdaTilde: lambda,
		Alpha:       alpha,
		Gamma:       mu * love.L2,
		Beta1:       mu * (common + 3*love.L2),
		Gamma1:      mu * (common - love.L2),
		Beta2:       mu * (common - 3*love.L2),
		Gamma2:      mu * (common + love.L2),
	}
}
