package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go.ngs.io/satstress/internal/adapter/store"
	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/logging"
)

// ErrInvalidRequest marks errors caused by the caller's input.
var ErrInvalidRequest = errors.New("invalid request")

// StressRequest asks for the surface stress at one place and time.
type StressRequest struct {
	Lat  float64 `validate:"gte=-90,lte=90"`   // Degrees north.
	Lon  float64 `validate:"gte=-360,lte=360"` // Degrees east.
	Time float64 // Seconds after periapse.

	// Forcings selects forcings by name (case-insensitive). Empty means all.
	Forcings []string
}

// StressResponse is the stress at one point, summed and per forcing.
type StressResponse struct {
	Lat       float64                   `json:"lat"`
	Lon       float64                   `json:"lon"`
	Time      float64                   `json:"time"`
	Total     TensorResponse            `json:"total"`
	ByForcing map[string]TensorResponse `json:"by_forcing"`
	Forcings  []string                  `json:"forcings"`
}

// TensorResponse is a stress tensor with its principal stresses.
type TensorResponse struct {
	Tensor    domain.StressTensor      `json:"tensor"`
	Principal domain.PrincipalStresses `json:"principal"`
}

func newTensorResponse(s domain.StressTensor) TensorResponse {
	return TensorResponse{Tensor: s, Principal: s.Principal()}
}

// Complex is a JSON friendly complex number.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func newComplex(v complex128) Complex { return Complex{Re: real(v), Im: imag(v)} }

// ForcingResponse describes a constructed forcing model. Quantities that are
// infinite when the forcing is disabled are null.
type ForcingResponse struct {
	Name          string   `json:"name"`
	Omega         float64  `json:"omega"`
	ForcingPeriod *float64 `json:"forcing_period"`
	SurfaceDelta  *float64 `json:"surface_delta"`
	MuTilde       Complex  `json:"mu_twiddle"`
	LambdaTilde   Complex  `json:"lambda_twiddle"`
	LoveH2        Complex  `json:"love_h2"`
	LoveK2        Complex  `json:"love_k2"`
	LoveL2        Complex  `json:"love_l2"`
}

// LayerResponse is one layer with its derived quantities.
type LayerResponse struct {
	ID              string  `json:"id"`
	Density         float64 `json:"density"`
	LameMu          float64 `json:"lame_mu"`
	LameLambda      float64 `json:"lame_lambda"`
	Thickness       float64 `json:"thickness"`
	Viscosity       float64 `json:"viscosity"`
	TensileStrength float64 `json:"tensile_strength"`
	MaxwellTime     float64 `json:"maxwell_time"`
	BulkModulus     float64 `json:"bulk_modulus"`
	YoungsModulus   float64 `json:"youngs_modulus"`
	PoissonsRatio   float64 `json:"poissons_ratio"`
	PWaveVelocity   float64 `json:"p_wave_velocity"`
}

// SatelliteResponse is the satellite definition with derived quantities.
type SatelliteResponse struct {
	SystemID           string          `json:"system_id"`
	PlanetMass         float64         `json:"planet_mass"`
	OrbitEccentricity  float64         `json:"orbit_eccentricity"`
	OrbitSemimajorAxis float64         `json:"orbit_semimajor_axis"`
	NSRPeriod          *float64        `json:"nsr_period"` // Null when infinite.
	Radius             float64         `json:"radius"`
	Mass               float64         `json:"mass"`
	Density            float64         `json:"density"`
	SurfaceGravity     float64         `json:"surface_gravity"`
	OrbitPeriod        float64         `json:"orbit_period"`
	MeanMotion         float64         `json:"mean_motion"`
	Layers             []LayerResponse `json:"layers"`
}

// StressUseCase evaluates tidal stresses on one satellite. Its forcings are
// built once and shared read-only, so it is safe for concurrent use.
type StressUseCase struct {
	body     domain.Body
	forcings []*domain.Forcing
	validate *validator.Validate
	logger   *zap.Logger
}

// NewStressUseCase builds the Diurnal and NSR forcings for body, one after the
// other.
func NewStressUseCase(ctx context.Context, body domain.Body, solver domain.LoveSolver, logger *zap.Logger) (*StressUseCase, error) {
	logger = logging.OrNop(logger)

	uc := &StressUseCase{
		body:     body,
		validate: validator.New(),
		logger:   logger,
	}
	for _, kind := range []domain.ForcingKind{domain.ForcingDiurnal, domain.ForcingNSR} {
		f, err := domain.NewForcing(ctx, kind, body, solver)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s forcing for %s: %w", kind, body.SystemID, err)
		}
		logger.Info("forcing ready",
			zap.String("system_id", body.SystemID),
			zap.String("forcing", f.Name()),
			zap.Float64("omega", f.Omega()),
			zap.Float64("surface_delta", f.SurfaceDelta()))
		uc.forcings = append(uc.forcings, f)
	}
	return uc, nil
}

// LoadStressUseCase loads the named satellite and builds its forcings.
func LoadStressUseCase(ctx context.Context, loader store.SatelliteLoader, name string, solver domain.LoveSolver, logger *zap.Logger) (*StressUseCase, error) {
	body, err := loader.LoadBody(name)
	if err != nil {
		return nil, err
	}
	return NewStressUseCase(ctx, body, solver, logger)
}

// Body returns the satellite.
func (uc *StressUseCase) Body() domain.Body { return uc.body }

// Forcing returns the forcing of the given kind.
func (uc *StressUseCase) Forcing(kind domain.ForcingKind) *domain.Forcing {
	for _, f := range uc.forcings {
		if f.Kind() == kind {
			return f
		}
	}
	return nil
}

// Validate checks a stress request.
func (uc *StressUseCase) Validate(req StressRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must be %s %s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if math.IsNaN(req.Time) || math.IsInf(req.Time, 0) {
		return fmt.Errorf("%w: time must be finite", ErrInvalidRequest)
	}
	return nil
}

// selectForcings resolves names to forcings, keeping construction order.
func (uc *StressUseCase) selectForcings(names []string) ([]*domain.Forcing, error) {
	if len(names) == 0 {
		return uc.forcings, nil
	}
	want := make(map[domain.ForcingKind]bool, len(names))
	for _, name := range names {
		kind, err := domain.ParseForcingKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		want[kind] = true
	}
	var selected []*domain.Forcing
	for _, f := range uc.forcings {
		if want[f.Kind()] {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

// Stress evaluates the selected forcings at the requested point.
func (uc *StressUseCase) Stress(req StressRequest) (*StressResponse, error) {
	if err := uc.Validate(req); err != nil {
		return nil, err
	}
	forcings, err := uc.selectForcings(req.Forcings)
	if err != nil {
		return nil, err
	}

	theta := domain.ColatitudeFromLatitude(req.Lat)
	phi := domain.Deg2Rad(req.Lon)

	fields := make([]domain.StressField, len(forcings))
	resp := &StressResponse{
		Lat:       req.Lat,
		Lon:       req.Lon,
		Time:      req.Time,
		ByForcing: make(map[string]TensorResponse, len(forcings)),
		Forcings:  make([]string, len(forcings)),
	}
	for i, f := range forcings {
		fields[i] = f
		resp.Forcings[i] = f.Name()
		resp.ByForcing[f.Name()] = newTensorResponse(f.Evaluate(theta, phi, req.Time))
	}
	resp.Total = newTensorResponse(domain.NewTensorSum(fields...).Evaluate(theta, phi, req.Time))
	return resp, nil
}

// Forcings describes every constructed forcing.
func (uc *StressUseCase) Forcings() []ForcingResponse {
	out := make([]ForcingResponse, len(uc.forcings))
	for i, f := range uc.forcings {
		surface := f.Body().Surface()
		love := f.Love()
		out[i] = ForcingResponse{
			Name:          f.Name(),
			Omega:         f.Omega(),
			ForcingPeriod: finite(f.ForcingPeriod()),
			SurfaceDelta:  finite(f.SurfaceDelta()),
			LoveH2:        newComplex(love.H2),
			LoveK2:        newComplex(love.K2),
			LoveL2:        newComplex(love.L2),
		}
		if f.Omega() != 0 {
			out[i].MuTilde = newComplex(domain.MuTilde(surface, f.Omega()))
			out[i].LambdaTilde = newComplex(domain.LambdaTilde(surface, f.Omega()))
		}
	}
	return out
}

// ForcingsText returns the name/value text of every forcing.
func (uc *StressUseCase) ForcingsText() string {
	var sb strings.Builder
	for _, f := range uc.forcings {
		sb.WriteString(f.String())
	}
	return sb.String()
}

// Satellite describes the satellite.
func (uc *StressUseCase) Satellite() SatelliteResponse {
	b := uc.body
	resp := SatelliteResponse{
		SystemID:           b.SystemID,
		PlanetMass:         b.PlanetMass,
		OrbitEccentricity:  b.OrbitEccentricity,
		OrbitSemimajorAxis: b.OrbitSemimajorAxis,
		NSRPeriod:          finite(b.NSRPeriod),
		Radius:             b.Radius(),
		Mass:               b.Mass(),
		Density:            b.Density(),
		SurfaceGravity:     b.SurfaceGravity(),
		OrbitPeriod:        b.OrbitPeriod(),
		MeanMotion:         b.MeanMotion(),
		Layers:             make([]LayerResponse, len(b.Layers)),
	}
	for i, l := range b.Layers {
		resp.Layers[i] = LayerResponse{
			ID:              l.ID,
			Density:         l.Density,
			LameMu:          l.LameMu,
			LameLambda:      l.LameLambda,
			Thickness:       l.Thickness,
			Viscosity:       l.Viscosity,
			TensileStrength: l.TensileStrength,
			MaxwellTime:     l.MaxwellTime(),
			BulkModulus:     l.BulkModulus(),
			YoungsModulus:   l.YoungsModulus(),
			PoissonsRatio:   l.PoissonsRatio(),
			PWaveVelocity:   l.PWaveVelocity(),
		}
	}
	return resp
}

// SatelliteText returns the satellite definition file text.
func (uc *StressUseCase) SatelliteText() string { return uc.body.String() }

// finite returns &v, or nil when v is infinite or NaN.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
