package gridcalc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/domain/domaintest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCalculator(t *testing.T, solver domain.LoveSolver) *Calculator {
	c := NewCalculator(solver, zaptest.NewLogger(t))
	c.Workers = 3
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestCalculator_Run(t *testing.T) {
	b := domaintest.Europa()
	g, err := NewGrid(gridParams(), b)
	require.NoError(t, err)

	solver := &domaintest.Solver{Love: domaintest.Love()}
	out, err := newCalculator(t, solver).Run(context.Background(), b, g)
	require.NoError(t, err)

	// One Diurnal model plus one NSR model per period.
	assert.Equal(t, 1+g.NSRPeriod.Num, solver.Calls)

	_, err = uuid.Parse(out.Meta.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "test_grid", out.Meta.GridID)
	assert.Equal(t, b.SystemID, out.Meta.SystemID)
	assert.Equal(t, "Created: 2026-01-02T03:04:05Z using satstress", out.Meta.History)
	assert.Equal(t, g.Times(), out.Time)
	assert.Equal(t, g.NSRPeriods(), out.NSRPeriod)

	diurnal, err := domain.NewDiurnal(context.Background(), b, solver)
	require.NoError(t, err)
	for k, tm := range out.Time {
		for i, lat := range out.Latitude {
			for j, lon := range out.Longitude {
				want := diurnal.Evaluate(domain.ColatitudeFromLatitude(lat), domain.Deg2Rad(lon), tm)
				got := out.At(domain.ForcingDiurnal, k, i, j)
				assert.InDelta(t, float32(want.Ttt), got.Ttt, 1e-3*(1+abs(want.Ttt)))
				assert.InDelta(t, float32(want.Tpt), got.Tpt, 1e-3*(1+abs(want.Tpt)))
				assert.InDelta(t, float32(want.Tpp), got.Tpp, 1e-3*(1+abs(want.Tpp)))
			}
		}
	}

	for k, p := range out.NSRPeriod {
		bp, err := b.WithNSRPeriod(p)
		require.NoError(t, err)
		nsr, err := domain.NewNSR(context.Background(), bp, solver)
		require.NoError(t, err)

		want := nsr.Evaluate(domain.ColatitudeFromLatitude(out.Latitude[1]), domain.Deg2Rad(out.Longitude[2]), 0)
		got := out.At(domain.ForcingNSR, k, 1, 2)
		assert.InDelta(t, float32(want.Ttt), got.Ttt, 1e-3*(1+abs(want.Ttt)))
	}
}

func TestCalculator_NSRIgnoresEccentricity(t *testing.T) {
	b := domaintest.Europa()
	circular := b
	circular.OrbitEccentricity = 0

	g, err := NewGrid(gridParams(), b)
	require.NoError(t, err)

	solver := &domaintest.Solver{Love: domaintest.Love()}
	calc := newCalculator(t, solver)
	eccentric, err := calc.Run(context.Background(), b, g)
	require.NoError(t, err)
	round, err := calc.Run(context.Background(), circular, g)
	require.NoError(t, err)

	assert.Equal(t, eccentric.NSR, round.NSR)
	assert.NotEqual(t, eccentric.Diurnal, round.Diurnal)
}

func TestCalculator_ModelFailure(t *testing.T) {
	b := domaintest.Europa()
	g, err := NewGrid(gridParams(), b)
	require.NoError(t, err)

	solver := &domaintest.Solver{Err: errors.New("no convergence")}
	_, err = newCalculator(t, solver).Run(context.Background(), b, g)
	require.ErrorIs(t, err, domain.ErrSolverFailure)
	assert.Contains(t, err.Error(), "diurnal")
	assert.Equal(t, 1, solver.Calls)
}

func TestCalculator_Cancelled(t *testing.T) {
	b := domaintest.Europa()
	g, err := NewGrid(gridParams(), b)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = newCalculator(t, &domaintest.Solver{Love: domaintest.Love()}).Run(ctx, b, g)
	require.ErrorIs(t, err, context.Canceled)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
