package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// Configuration errors.
	ErrMissingParameter    = errors.New("missing parameter")
	ErrNonNumericParameter = errors.New("non-numeric parameter")

	// Physical validity errors.
	ErrInvalidLayerParameter    = errors.New("invalid layer parameter")
	ErrUnsupportedLayerCount    = errors.New("unsupported layer count")
	ErrGravitationallyUnstable  = errors.New("gravitationally unstable configuration")
	ErrExcessivePlanetMassRatio = errors.New("planet mass too small relative to satellite mass")
	ErrInvalidOrbit             = errors.New("invalid orbit")
	ErrEccentricityTooLarge     = errors.New("orbital eccentricity too large")
	ErrNegativeNSRPeriod        = errors.New("negative NSR period")

	// Solver boundary errors.
	ErrExcessiveDelta         = errors.New("excessive viscoelastic delta")
	ErrZeroForcingPeriod      = errors.New("zero forcing period")
	ErrImplausibleLoveNumbers = errors.New("implausible Love numbers")
	ErrSolverFailure          = errors.New("love number solver failed")
)

// noLayer marks errors that are not tied to a particular layer.
const noLayer = -1

// ValidationError describes a rejected satellite or layer parameter.
type ValidationError struct {
	Kind   error   // One of the Err* kinds above.
	Param  string  // Parameter name as it appears in the definition file, if any.
	Layer  int     // Layer index, or -1.
	Value  float64 // Offending value, when numeric.
	Raw    string  // Offending raw text, when the value could not be parsed.
	Detail string  // Extra context (limits, comparison values).
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Kind.Error()
	if e.Param != "" {
		msg += " " + e.Param
	}
	if e.Layer != noLayer {
		msg += fmt.Sprintf(" (layer %d)", e.Layer)
	}
	switch {
	case e.Raw != "":
		msg += fmt.Sprintf(": %q", e.Raw)
	case e.Kind != ErrMissingParameter:
		msg += fmt.Sprintf(": %g", e.Value)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the error kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ForcingError is returned when a forcing model cannot be constructed.
type ForcingError struct {
	Forcing ForcingKind
	Kind    error        // One of the solver boundary kinds above.
	Layer   int          // Layer index for delta failures, or -1.
	Delta   float64      // Offending delta for ErrExcessiveDelta.
	Love    *LoveNumbers // Rejected Love numbers for ErrImplausibleLoveNumbers.
	Err     error        // Underlying solver error, if any.
}

// Error implements the error interface.
func (e *ForcingError) Error() string {
	msg := fmt.Sprintf("%s forcing: %s", e.Forcing, e.Kind)
	switch {
	case e.Kind == ErrExcessiveDelta:
		msg += fmt.Sprintf(": delta = %g in layer %d exceeds %g", e.Delta, e.Layer, MaxDelta)
	case e.Love != nil:
		msg += fmt.Sprintf(": h2 = %v, k2 = %v, l2 = %v", e.Love.H2, e.Love.K2, e.Love.L2)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the error kind and the underlying solver error.
func (e *ForcingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
