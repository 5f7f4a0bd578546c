package domain_test

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/domain/domaintest"
)

func TestNewBody_Europa(t *testing.T) {
	want := domaintest.Europa()
	b, err := domain.NewBody(domaintest.Params(want))
	if err != nil {
		t.Fatalf("NewBody: unexpected error %v", err)
	}
	if b != want {
		t.Errorf("NewBody: expected %+v, got %+v", want, b)
	}

	if math.Abs(b.Radius()-1.541e6) > 1e-6 {
		t.Errorf("Radius: expected 1.541e6, got %.6f", b.Radius())
	}

	// Mean density of a shell body sits between its lightest and densest layer.
	if d := b.Density(); d < 920 || d > 3490 {
		t.Errorf("Density out of range: %g", d)
	}

	// Europa's orbital period is about 3.55 days.
	days := b.OrbitPeriod() / domain.SecondsPerDay
	if math.Abs(days-3.55) > 0.05 {
		t.Errorf("OrbitPeriod: expected ~3.55 days, got %.4f", days)
	}
	if math.Abs(b.MeanMotion()*b.OrbitPeriod()-2*math.Pi) > 1e-12 {
		t.Errorf("MeanMotion inconsistent with OrbitPeriod")
	}

	g := domain.G * b.Mass() / (b.Radius() * b.Radius())
	if math.Abs(b.SurfaceGravity()-g) > 1e-12 {
		t.Errorf("SurfaceGravity: expected %g, got %g", g, b.SurfaceGravity())
	}
	if b.Surface() != b.Layers[domain.LayerIceUpper] {
		t.Errorf("Surface: expected the upper ice layer, got %+v", b.Surface())
	}
}

func TestNewBody_GravitationallyUnstable(t *testing.T) {
	b := domaintest.Europa()
	for n, rho := range []float64{3000, 3500, 920, 910} {
		b.Layers[n].Density = rho
	}

	_, err := domain.NewBody(domaintest.Params(b))
	if !errors.Is(err, domain.ErrGravitationallyUnstable) {
		t.Fatalf("expected ErrGravitationallyUnstable, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Layer != 1 || verr.Param != "DENSITY_1" || verr.Value != 3500 {
		t.Errorf("expected layer 1 DENSITY_1 = 3500, got layer %d %s = %g", verr.Layer, verr.Param, verr.Value)
	}
}

func TestNewBody_PlanetMassRatio(t *testing.T) {
	b := domaintest.Europa()
	mass := b.Mass()

	tests := []struct {
		ratio   float64
		wantErr bool
	}{
		{5, true},
		{9.99, true},
		{10, false},
		{20, false},
	}
	for _, tt := range tests {
		b.PlanetMass = tt.ratio * mass
		_, err := domain.NewBody(domaintest.Params(b))
		if tt.wantErr && !errors.Is(err, domain.ErrExcessivePlanetMassRatio) {
			t.Errorf("ratio %g: expected ErrExcessivePlanetMassRatio, got %v", tt.ratio, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ratio %g: unexpected error %v", tt.ratio, err)
		}
	}
}

func TestNewBody_PhysicalLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Body)
		kind   error
		layer  int
		param  string
	}{
		{"eccentricity", func(b *domain.Body) { b.OrbitEccentricity = 0.3 }, domain.ErrEccentricityTooLarge, -1, "ORBIT_ECCENTRICITY"},
		{"negative eccentricity", func(b *domain.Body) { b.OrbitEccentricity = -0.01 }, domain.ErrInvalidOrbit, -1, "ORBIT_ECCENTRICITY"},
		{"zero semi-major axis", func(b *domain.Body) { b.OrbitSemimajorAxis = 0 }, domain.ErrInvalidOrbit, -1, "ORBIT_SEMIMAJOR_AXIS"},
		{"negative semi-major axis", func(b *domain.Body) { b.OrbitSemimajorAxis = -6.7e8 }, domain.ErrInvalidOrbit, -1, "ORBIT_SEMIMAJOR_AXIS"},
		{"negative nsr", func(b *domain.Body) { b.NSRPeriod = -1 }, domain.ErrNegativeNSRPeriod, -1, "NSR_PERIOD"},
		{"light layer", func(b *domain.Body) { b.Layers[2].Density = 50 }, domain.ErrInvalidLayerParameter, 2, "DENSITY_2"},
		{"thin layer", func(b *domain.Body) { b.Layers[3].Thickness = 100 }, domain.ErrInvalidLayerParameter, 3, "THICKNESS_3"},
		{"negative mu", func(b *domain.Body) { b.Layers[0].LameMu = -1 }, domain.ErrInvalidLayerParameter, 0, "LAME_MU_0"},
		{"negative viscosity", func(b *domain.Body) { b.Layers[2].Viscosity = -1e14 }, domain.ErrInvalidLayerParameter, 2, "VISCOSITY_2"},
		{"empty id", func(b *domain.Body) { b.Layers[1].ID = " " }, domain.ErrInvalidLayerParameter, 1, "LAYER_ID_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := domaintest.Europa()
			tt.mutate(&b)

			err := b.Validate()
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Layer != tt.layer {
				t.Errorf("Layer: expected %d, got %d", tt.layer, verr.Layer)
			}
			if verr.Param != tt.param {
				t.Errorf("Param: expected %s, got %s", tt.param, verr.Param)
			}
			if !strings.Contains(err.Error(), tt.param) {
				t.Errorf("message %q does not name %s", err.Error(), tt.param)
			}
		})
	}
}

func TestNewBody_InfiniteNSRPeriod(t *testing.T) {
	params := domaintest.Params(domaintest.Europa())
	params[domain.ParamNSRPeriod] = "inf"

	b, err := domain.NewBody(params)
	if err != nil {
		t.Fatalf("NewBody: unexpected error %v", err)
	}
	if !math.IsInf(b.NSRPeriod, 1) {
		t.Errorf("NSRPeriod: expected +Inf, got %g", b.NSRPeriod)
	}
}

func TestValidateParams_AggregatesErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(map[string]string)
		names []string
	}{
		{
			name: "system",
			edit: func(p map[string]string) {
				delete(p, domain.ParamPlanetMass)
				p[domain.ParamOrbitEccentricity] = "NaN"
			},
			names: []string{"ORBIT_ECCENTRICITY", "PLANET_MASS"},
		},
		{
			name: "layers",
			edit: func(p map[string]string) {
				delete(p, "VISCOSITY_2")
				p["DENSITY_0"] = "dense"
				p["THICKNESS_3"] = " "
			},
			names: []string{"DENSITY_0", "VISCOSITY_2", "THICKNESS_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := domaintest.Params(domaintest.Europa())
			tt.edit(params)

			err := domain.ValidateParams(params)
			joined, ok := err.(interface{ Unwrap() []error })
			if !ok {
				t.Fatalf("expected a joined error, got %v", err)
			}
			errs := joined.Unwrap()
			if len(errs) != len(tt.names) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.names), len(errs), err)
			}
			// Errors come out in schema order.
			for i, name := range tt.names {
				var verr *domain.ValidationError
				if !errors.As(errs[i], &verr) || verr.Param != name {
					t.Errorf("error %d: expected %s, got %v", i, name, errs[i])
				}
			}

			if _, err := domain.NewBody(params); err == nil {
				t.Errorf("NewBody: expected an error")
			}
		})
	}
}

func TestValidateParams_Kinds(t *testing.T) {
	params := domaintest.Params(domaintest.Europa())
	delete(params, domain.ParamSystemID)
	params[domain.ParamNSRPeriod] = "forever"

	err := domain.ValidateParams(params)
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("expected ErrMissingParameter, got %v", err)
	}
	if !errors.Is(err, domain.ErrNonNumericParameter) {
		t.Errorf("expected ErrNonNumericParameter, got %v", err)
	}
	if !strings.Contains(err.Error(), `"forever"`) {
		t.Errorf("message %q does not quote the raw value", err.Error())
	}

	params = domaintest.Params(domaintest.Europa())
	params[domain.ParamNSRPeriod] = "Infinity"
	if err := domain.ValidateParams(params); err != nil {
		t.Errorf("Infinity: unexpected error %v", err)
	}
}

func TestValidateParams_LayerCount(t *testing.T) {
	params := domaintest.Params(domaintest.Europa())
	delete(params, "LAYER_ID_3")

	if err := domain.ValidateParams(params); !errors.Is(err, domain.ErrUnsupportedLayerCount) {
		t.Errorf("three layers: expected ErrUnsupportedLayerCount, got %v", err)
	}
	if n := domain.CountLayers(params); n != 3 {
		t.Errorf("CountLayers: expected 3, got %d", n)
	}

	params["LAYER_ID_3"] = "ICE_UPPER"
	params["LAYER_ID_4"] = "REGOLITH"
	if err := domain.ValidateParams(params); !errors.Is(err, domain.ErrUnsupportedLayerCount) {
		t.Errorf("five layers: expected ErrUnsupportedLayerCount, got %v", err)
	}
}

// Missing satellite wide parameters are reported before the layer count.
func TestValidateParams_SystemBeforeLayerCount(t *testing.T) {
	params := domaintest.Params(domaintest.Europa())
	delete(params, "LAYER_ID_3")
	delete(params, domain.ParamSystemID)

	err := domain.ValidateParams(params)
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if errors.Is(err, domain.ErrUnsupportedLayerCount) {
		t.Errorf("layer count reported before SYSTEM_ID: %v", err)
	}
	if !strings.Contains(err.Error(), domain.ParamSystemID) {
		t.Errorf("message %q does not name SYSTEM_ID", err.Error())
	}
}

func TestWithNSRPeriod(t *testing.T) {
	b := domaintest.Europa()

	c, err := b.WithNSRPeriod(1e10)
	if err != nil {
		t.Fatalf("WithNSRPeriod: unexpected error %v", err)
	}
	if c.NSRPeriod != 1e10 {
		t.Errorf("NSRPeriod: expected 1e10, got %g", c.NSRPeriod)
	}
	if b.NSRPeriod != 3.1556926e12 {
		t.Errorf("receiver modified: NSRPeriod = %g", b.NSRPeriod)
	}

	if _, err := b.WithNSRPeriod(-5); !errors.Is(err, domain.ErrNegativeNSRPeriod) {
		t.Errorf("expected ErrNegativeNSRPeriod, got %v", err)
	}
}

func TestBodyString(t *testing.T) {
	b := domaintest.Europa()
	text := b.String()

	for _, want := range []string{
		"SYSTEM_ID = JupiterEuropa\n",
		"PLANET_MASS = 1.8987e+27\n",
		"ORBIT_ECCENTRICITY = 0.0094\n",
		"# RADIUS = ",
		"# MEAN_MOTION = ",
		"LAYER_ID_0 = CORE\n",
		"TENSILE_STR_3 = 1e+06\n",
		"# P_WAVE_VELOCITY_1 = ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("String: missing %q", want)
		}
	}

	// Every value line must parse back without loss.
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "THICKNESS_3") {
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.SplitN(line, "=", 2)[1]), 64)
			if err != nil {
				t.Fatalf("THICKNESS_3: %v", err)
			}
			if v != b.Layers[3].Thickness {
				t.Errorf("THICKNESS_3: expected %g, got %g", b.Layers[3].Thickness, v)
			}
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &domain.ValidationError{Kind: domain.ErrNonNumericParameter, Param: "DENSITY_2", Layer: -1, Raw: "abc"}
	if got, want := err.Error(), `non-numeric parameter DENSITY_2: "abc"`; got != want {
		t.Errorf("Error: expected %q, got %q", want, got)
	}
	if !errors.Is(err, domain.ErrNonNumericParameter) {
		t.Errorf("errors.Is failed for ErrNonNumericParameter")
	}
}
