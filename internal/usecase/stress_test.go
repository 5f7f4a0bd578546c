package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/domain/domaintest"
)

func newUseCase(t *testing.T, b domain.Body) (*StressUseCase, *domaintest.Solver) {
	t.Helper()
	solver := &domaintest.Solver{Love: domaintest.Love()}
	uc, err := NewStressUseCase(context.Background(), b, solver, zaptest.NewLogger(t))
	require.NoError(t, err)
	return uc, solver
}

func TestNewStressUseCase(t *testing.T) {
	uc, solver := newUseCase(t, domaintest.Europa())

	assert.Equal(t, 2, solver.Calls)
	require.NotNil(t, uc.Forcing(domain.ForcingDiurnal))
	require.NotNil(t, uc.Forcing(domain.ForcingNSR))
	assert.Equal(t, "JupiterEuropa", uc.Body().SystemID)
}

func TestNewStressUseCase_SolverFailure(t *testing.T) {
	solver := &domaintest.Solver{Err: errors.New("boom")}
	_, err := NewStressUseCase(context.Background(), domaintest.Europa(), solver, nil)
	require.ErrorIs(t, err, domain.ErrSolverFailure)
	assert.Contains(t, err.Error(), "Diurnal")
}

func TestStress(t *testing.T) {
	uc, _ := newUseCase(t, domaintest.Europa())

	resp, err := uc.Stress(StressRequest{Lat: 30, Lon: 45, Time: 1e4})
	require.NoError(t, err)
	assert.Equal(t, []string{"Diurnal", "NSR"}, resp.Forcings)
	require.Len(t, resp.ByForcing, 2)

	sum := resp.ByForcing["Diurnal"].Tensor.Add(resp.ByForcing["NSR"].Tensor)
	assert.InDelta(t, sum.Ttt, resp.Total.Tensor.Ttt, 1e-6*(1+math.Abs(sum.Ttt)))
	assert.InDelta(t, sum.Tpt, resp.Total.Tensor.Tpt, 1e-6*(1+math.Abs(sum.Tpt)))
	assert.InDelta(t, sum.Tpp, resp.Total.Tensor.Tpp, 1e-6*(1+math.Abs(sum.Tpp)))
	assert.Equal(t, resp.Total.Tensor.Principal(), resp.Total.Principal)

	diurnal := uc.Forcing(domain.ForcingDiurnal)
	want := diurnal.Evaluate(domain.ColatitudeFromLatitude(30), domain.Deg2Rad(45), 1e4)
	assert.Equal(t, want, resp.ByForcing["Diurnal"].Tensor)
}

func TestStress_SelectForcings(t *testing.T) {
	uc, _ := newUseCase(t, domaintest.Europa())

	resp, err := uc.Stress(StressRequest{Lat: 0, Lon: 0, Forcings: []string{"nsr"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"NSR"}, resp.Forcings)
	assert.Equal(t, resp.ByForcing["NSR"].Tensor, resp.Total.Tensor)

	_, err = uc.Stress(StressRequest{Forcings: []string{"obliquity"}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStress_InvalidRequest(t *testing.T) {
	uc, _ := newUseCase(t, domaintest.Europa())

	tests := []struct {
		name string
		req  StressRequest
	}{
		{"latitude too large", StressRequest{Lat: 91}},
		{"latitude too small", StressRequest{Lat: -90.5}},
		{"longitude too large", StressRequest{Lon: 361}},
		{"longitude too small", StressRequest{Lon: -400}},
		{"nan latitude", StressRequest{Lat: math.NaN()}},
		{"infinite time", StressRequest{Time: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Stress(tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	_, err := uc.Stress(StressRequest{Lat: -90, Lon: 360})
	assert.NoError(t, err)
}

func TestForcings_InfiniteNSRPeriod(t *testing.T) {
	b := domaintest.Europa()
	b.NSRPeriod = math.Inf(1)
	uc, solver := newUseCase(t, b)
	assert.Equal(t, 1, solver.Calls)

	forcings := uc.Forcings()
	require.Len(t, forcings, 2)
	assert.Equal(t, "NSR", forcings[1].Name)
	assert.Nil(t, forcings[1].ForcingPeriod)
	assert.Equal(t, 0.0, forcings[1].Omega)
	require.NotNil(t, forcings[0].ForcingPeriod)
	assert.InDelta(t, b.OrbitPeriod(), *forcings[0].ForcingPeriod, 1e-6)
	assert.Equal(t, real(domaintest.Love().H2), forcings[0].LoveH2.Re)

	_, err := json.Marshal(forcings)
	assert.NoError(t, err)

	sat := uc.Satellite()
	assert.Nil(t, sat.NSRPeriod)
	_, err = json.Marshal(sat)
	assert.NoError(t, err)

	resp, err := uc.Stress(StressRequest{Lat: 10, Lon: 20, Forcings: []string{"NSR"}})
	require.NoError(t, err)
	assert.Equal(t, domain.StressTensor{}, resp.Total.Tensor)
}

func TestSatellite(t *testing.T) {
	b := domaintest.Europa()
	uc, _ := newUseCase(t, b)

	sat := uc.Satellite()
	assert.Equal(t, b.Radius(), sat.Radius)
	require.Len(t, sat.Layers, domain.NumLayers)
	assert.Equal(t, "ICE_UPPER", sat.Layers[3].ID)
	require.NotNil(t, sat.NSRPeriod)
	assert.Equal(t, b.NSRPeriod, *sat.NSRPeriod)
	assert.Equal(t, b.String(), uc.SatelliteText())
	assert.Contains(t, uc.ForcingsText(), "Diurnal_LOVE_H2")
	assert.Contains(t, uc.ForcingsText(), "NSR_OMEGA")
}

// Zero Lamé parameters are valid input and must still encode as JSON.
func TestZeroLameParameters_EncodeAsJSON(t *testing.T) {
	b := domaintest.Europa()
	b.Layers[domain.LayerOcean].LameLambda = 0
	b.Layers[domain.LayerIceLower].LameLambda = 0
	b.Layers[domain.LayerIceUpper].LameLambda = 0
	require.NoError(t, b.Validate())
	uc, _ := newUseCase(t, b)

	resp, err := uc.Stress(StressRequest{Lat: 30, Lon: 45, Time: 1000})
	require.NoError(t, err)
	_, err = json.Marshal(resp)
	require.NoError(t, err)

	sat := uc.Satellite()
	assert.Equal(t, 0.5, sat.Layers[domain.LayerOcean].PoissonsRatio)
	_, err = json.Marshal(sat)
	require.NoError(t, err)
}

type fakeLoader struct {
	body domain.Body
	err  error
}

func (f fakeLoader) LoadBody(string) (domain.Body, error) { return f.body, f.err }

func TestLoadStressUseCase(t *testing.T) {
	solver := &domaintest.Solver{Love: domaintest.Love()}
	uc, err := LoadStressUseCase(context.Background(), fakeLoader{body: domaintest.Europa()}, "europa", solver, nil)
	require.NoError(t, err)
	assert.Equal(t, "JupiterEuropa", uc.Body().SystemID)

	_, err = LoadStressUseCase(context.Background(), fakeLoader{err: errors.New("no such file")}, "x", solver, nil)
	assert.EqualError(t, err, "no such file")
}
