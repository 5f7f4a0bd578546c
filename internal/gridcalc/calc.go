package gridcalc

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/satstress/internal/adapter/store/cube"
	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/logging"
)

// Description is recorded in every cube produced by a Calculator.
const Description = "satstress calculation on a regular grid. All parameter units are SI (meters-kilograms-seconds)"

// Calculator runs grid calculations.
type Calculator struct {
	Solver  domain.LoveSolver
	Workers int // Concurrent slices; runtime.GOMAXPROCS(0) if <= 0.
	Logger  *zap.Logger

	now func() time.Time
}

// NewCalculator creates a calculator using solver for every forcing model.
func NewCalculator(solver domain.LoveSolver, logger *zap.Logger) *Calculator {
	return &Calculator{Solver: solver, Logger: logging.OrNop(logger)}
}

// Models are the forcing models of one grid calculation.
type Models struct {
	Diurnal *domain.Forcing
	NSR     []*domain.Forcing // One per NSR period, in axis order.
}

// BuildModels constructs the Diurnal model and one NSR model per period.
// Construction is sequential since every model may invoke the Love solver.
func (c *Calculator) BuildModels(ctx context.Context, b domain.Body, nsrPeriods []float64) (Models, error) {
	logger := logging.OrNop(c.Logger)

	diurnal, err := domain.NewDiurnal(ctx, b, c.Solver)
	if err != nil {
		return Models{}, fmt.Errorf("failed to build diurnal model: %w", err)
	}
	logger.Debug("built forcing model",
		zap.String("forcing", diurnal.Name()),
		zap.Float64("omega", diurnal.Omega()))

	models := Models{Diurnal: diurnal, NSR: make([]*domain.Forcing, 0, len(nsrPeriods))}
	for i, p := range nsrPeriods {
		bp, err := b.WithNSRPeriod(p)
		if err != nil {
			return Models{}, fmt.Errorf("nsr period %g: %w", p, err)
		}
		nsr, err := domain.NewNSR(ctx, bp, c.Solver)
		if err != nil {
			return Models{}, fmt.Errorf("failed to build NSR model %d (period %g s): %w", i, p, err)
		}
		logger.Debug("built forcing model",
			zap.String("forcing", nsr.Name()),
			zap.Float64("nsr_period", p),
			zap.Float64("omega", nsr.Omega()))
		models.NSR = append(models.NSR, nsr)
	}
	return models, nil
}

// Run evaluates b over g and returns the filled cube.
//
// The Diurnal stresses are evaluated at every time step. The NSR stresses
// are evaluated at t = 0 for every NSR period. Slices are evaluated in
// parallel once all models exist; cancelling ctx stops the evaluation.
func (c *Calculator) Run(ctx context.Context, b domain.Body, g Grid) (*cube.Cube, error) {
	logger := logging.OrNop(c.Logger)

	lat, lon := g.Latitudes(), g.Longitudes()
	times, periods := g.Times(), g.NSRPeriods()

	models, err := c.BuildModels(ctx, b, periods)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	meta := cube.Metadata{
		RunID:       uuid.NewString(),
		GridID:      g.ID,
		SystemID:    b.SystemID,
		Description: Description,
		History:     fmt.Sprintf("Created: %s using satstress", now().UTC().Format(time.RFC3339)),
		Body:        b,
	}
	out := cube.New(meta, lat, lon, times, periods)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, t := range times {
		eg.Go(func() error {
			return fillSlice(ctx, out, models.Diurnal, i, t)
		})
	}
	for i, nsr := range models.NSR {
		eg.Go(func() error {
			return fillSlice(ctx, out, nsr, i, 0)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("grid evaluation stopped: %w", err)
	}

	logger.Info("grid calculation complete",
		zap.String("run_id", meta.RunID),
		zap.String("grid_id", g.ID),
		zap.String("system_id", b.SystemID),
		zap.Int("points", len(lat)*len(lon)*(len(times)+len(periods))),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// fillSlice evaluates f over one latitude/longitude slice. Each slice owns a
// disjoint range of the cube, so slices may be filled concurrently.
func fillSlice(ctx context.Context, out *cube.Cube, f *domain.Forcing, outer int, t float64) error {
	for i, latDeg := range out.Latitude {
		if err := ctx.Err(); err != nil {
			return err
		}
		theta := domain.ColatitudeFromLatitude(latDeg)
		for j, lonDeg := range out.Longitude {
			out.Set(f.Kind(), outer, i, j, f.Evaluate(theta, domain.Deg2Rad(lonDeg), t))
		}
	}
	return nil
}
