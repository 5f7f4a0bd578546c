package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Layer is a homogeneous spherical shell within a satellite.
//
// A layer does not know where it sits inside the satellite; that information
// lives in the ordering of Body.Layers.
type Layer struct {
	ID              string  // E.g., "CORE", "OCEAN", "ICE_LOWER", "ICE_UPPER".
	Density         float64 // Density at zero pressure [kg m^-3].
	LameMu          float64 // Shear modulus μ [Pa].
	LameLambda      float64 // Lamé parameter λ [Pa].
	Thickness       float64 // Radial thickness [m].
	Viscosity       float64 // Viscosity η [Pa s].
	TensileStrength float64 // Tensile failure strength [Pa].
}

// Layer parameter name prefixes used in satellite definition files. The layer
// index is appended, e.g. DENSITY_0.
const (
	paramLayerID     = "LAYER_ID"
	paramDensity     = "DENSITY"
	paramLameMu      = "LAME_MU"
	paramLameLambda  = "LAME_LAMBDA"
	paramThickness   = "THICKNESS"
	paramViscosity   = "VISCOSITY"
	paramTensileStr  = "TENSILE_STR"
	layerParamSuffix = "_"
)

// NewLayer validates l and returns it.
func NewLayer(l Layer) (Layer, error) {
	if err := l.Validate(); err != nil {
		return Layer{}, err
	}
	return l, nil
}

// Validate checks that the layer has nominally reasonable values.
func (l Layer) Validate() error {
	return l.validate(noLayer)
}

func (l Layer) validate(n int) error {
	invalid := func(param string, v float64, detail string) error {
		return &ValidationError{
			Kind:   ErrInvalidLayerParameter,
			Param:  layerParamName(param, n),
			Layer:  n,
			Value:  v,
			Detail: detail,
		}
	}

	if strings.TrimSpace(l.ID) == "" {
		return &ValidationError{Kind: ErrInvalidLayerParameter, Param: layerParamName(paramLayerID, n), Layer: n, Raw: l.ID, Detail: "layer id must not be empty"}
	}
	if !(l.Density > MinLayerDensity) {
		return invalid(paramDensity, l.Density, fmt.Sprintf("must exceed %g kg m^-3 (SI units)", MinLayerDensity))
	}
	if !(l.Thickness > MinLayerThickness) {
		return invalid(paramThickness, l.Thickness, fmt.Sprintf("must exceed %g m (SI units)", MinLayerThickness))
	}

	nonNegative := []struct {
		param string
		value float64
	}{
		{paramLameMu, l.LameMu},
		{paramLameLambda, l.LameLambda},
		{paramViscosity, l.Viscosity},
		{paramTensileStr, l.TensileStrength},
	}
	for _, p := range nonNegative {
		if !(p.value >= 0) {
			return invalid(p.param, p.value, "must not be negative")
		}
	}
	return nil
}

// layerParamName returns the file parameter name for a layer field; n < 0
// yields the bare name.
func layerParamName(param string, n int) string {
	if n < 0 {
		return param
	}
	return param + layerParamSuffix + strconv.Itoa(n)
}

// MaxwellTime returns the Maxwell relaxation time η/μ [s], or zero when
// either the viscosity or the shear modulus is zero.
func (l Layer) MaxwellTime() float64 {
	if l.Viscosity == 0 || l.LameMu == 0 {
		return 0
	}
	return l.Viscosity / l.LameMu
}

// BulkModulus returns κ = λ + 2μ/3 [Pa].
func (l Layer) BulkModulus() float64 {
	return l.LameLambda + (2.0/3.0)*l.LameMu
}

// YoungsModulus returns E = μ(3λ + 2μ)/(λ + μ) [Pa], or zero when λ = μ = 0.
func (l Layer) YoungsModulus() float64 {
	if l.LameLambda+l.LameMu == 0 {
		return 0
	}
	return l.LameMu * (3.0*l.LameLambda + 2.0*l.LameMu) / (l.LameLambda + l.LameMu)
}

// PoissonsRatio returns ν = λ/(2(λ + μ)). A layer with λ = μ = 0 takes the
// fluid limit ν = 1/2.
func (l Layer) PoissonsRatio() float64 {
	if l.LameLambda+l.LameMu == 0 {
		return 0.5
	}
	return l.LameLambda / (2.0 * (l.LameLambda + l.LameMu))
}

// PWaveVelocity returns the compressional wave speed sqrt(κ/ρ) [m s^-1].
func (l Layer) PWaveVelocity() float64 {
	return math.Sqrt(l.BulkModulus() / l.Density)
}

// String returns the layer as name/value text without ordering information.
func (l Layer) String() string {
	return l.OrderedString(noLayer)
}

// OrderedString returns the layer as name/value text, suffixing every name
// with the layer index n (n < 0 omits the suffix). Derived quantities are
// written as comments so they are never read back in.
func (l Layer) OrderedString(n int) string {
	var sb strings.Builder
	name := func(param string) string { return layerParamName(param, n) }

	sb.WriteString("\n")
	writePair(&sb, name(paramLayerID), l.ID)
	writeFloat(&sb, name(paramDensity), l.Density)
	writeFloat(&sb, name(paramLameMu), l.LameMu)
	writeFloat(&sb, name(paramLameLambda), l.LameLambda)
	writeFloat(&sb, name(paramThickness), l.Thickness)
	writeFloat(&sb, name(paramViscosity), l.Viscosity)
	writeFloat(&sb, name(paramTensileStr), l.TensileStrength)
	writeDerived(&sb, name("MAXWELL_TIME"), l.MaxwellTime())
	writeDerived(&sb, name("BULK_MODULUS"), l.BulkModulus())
	writeDerived(&sb, name("YOUNGS_MODULUS"), l.YoungsModulus())
	writeDerived(&sb, name("POISSONS_RATIO"), l.PoissonsRatio())
	writeDerived(&sb, name("P_WAVE_VELOCITY"), l.PWaveVelocity())
	return sb.String()
}

// formatFloat renders v so that strconv.ParseFloat recovers it exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writePair(sb *strings.Builder, name, value string) {
	fmt.Fprintf(sb, "%s = %s\n", name, value)
}

func writeFloat(sb *strings.Builder, name string, v float64) {
	writePair(sb, name, formatFloat(v))
}

func writeDerived(sb *strings.Builder, name string, v float64) {
	fmt.Fprintf(sb, "# %s = %g\n", name, v)
}
