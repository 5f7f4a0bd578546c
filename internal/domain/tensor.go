package domain

import "math"

// StressTensor is the symmetric 2x2 surface membrane stress tensor at a point,
// in Pa, tension positive:
//
//	| Ttt  Tpt |
//	| Tpt  Tpp |
type StressTensor struct {
	Ttt float64 `json:"ttt"` // North-south (θθ).
	Tpt float64 `json:"tpt"` // Shear (φθ).
	Tpp float64 `json:"tpp"` // East-west (φφ).
}

// Ttp returns the θφ shear component, equal to Tpt.
func (s StressTensor) Ttp() float64 { return s.Tpt }

// Matrix returns the tensor as a row-major 2x2 matrix.
func (s StressTensor) Matrix() [2][2]float64 {
	return [2][2]float64{
		{s.Ttt, s.Tpt},
		{s.Ttp(), s.Tpp},
	}
}

// Add returns the element-wise sum of s and o.
func (s StressTensor) Add(o StressTensor) StressTensor {
	return StressTensor{
		Ttt: s.Ttt + o.Ttt,
		Tpt: s.Tpt + o.Tpt,
		Tpp: s.Tpp + o.Tpp,
	}
}

// PrincipalStresses are the eigenvalues of a StressTensor.
type PrincipalStresses struct {
	Max float64 `json:"max"` // Most tensile principal stress [Pa].
	Min float64 `json:"min"` // Most compressive principal stress [Pa].
	// Angle is the direction of Max, measured from the θ (southward) axis
	// toward the φ (eastward) axis [rad], in (-π/2, π/2].
	Angle float64 `json:"angle"`
}

// Principal returns the principal stresses of s.
func (s StressTensor) Principal() PrincipalStresses {
	mean := (s.Ttt + s.Tpp) / 2
	radius := math.Hypot((s.Ttt-s.Tpp)/2, s.Tpt)
	return PrincipalStresses{
		Max:   mean + radius,
		Min:   mean - radius,
		Angle: 0.5 * math.Atan2(2*s.Tpt, s.Ttt-s.Tpp),
	}
}

// StressField is anything that yields a surface stress tensor at a point.
//
// theta is the co-latitude [rad], phi the east-positive longitude measured
// from the sub-planet meridian [rad], and t the time since periapse [s].
type StressField interface {
	Evaluate(theta, phi, t float64) StressTensor
}

// TensorSum superposes the stresses of several fields.
type TensorSum struct {
	fields []StressField
}

// NewTensorSum returns the sum of the given fields, evaluated in order.
func NewTensorSum(fields ...StressField) *TensorSum {
	return &TensorSum{fields: append([]StressField(nil), fields...)}
}

// Fields returns a copy of the summed fields.
func (ts *TensorSum) Fields() []StressField {
	return append([]StressField(nil), ts.fields...)
}

// Evaluate returns the element-wise sum of every field's tensor at
// (theta, phi, t). An empty sum yields the zero tensor.
func (ts *TensorSum) Evaluate(theta, phi, t float64) StressTensor {
	var sum StressTensor
	for _, f := range ts.fields {
		sum = sum.Add(f.Evaluate(theta, phi, t))
	}
	return sum
}
