package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.ngs.io/satstress/internal/adapter/store/cube"
	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/gridcalc"
	"go.ngs.io/satstress/internal/usecase"
)

var (
	tensorLat      float64
	tensorLon      float64
	tensorTime     float64
	tensorForcings []string

	sampleLat     float64
	sampleLon     float64
	sampleIndex   int
	sampleForcing string
)

// showCmd prints a satellite definition with its derived quantities.
var showCmd = &cobra.Command{
	Use:   "show <satfile>",
	Short: "Validate a satellite definition and print it with derived quantities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := loadBody(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), body.String())
		return err
	},
}

// loveCmd builds both forcings and prints their frequency dependent parameters.
var loveCmd = &cobra.Command{
	Use:   "love <satfile>",
	Short: "Solve the Love numbers of both forcings and print their parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, err := newStressUseCase(cmd, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), uc.ForcingsText())
		return err
	},
}

// tensorCmd evaluates the stress tensor at one point.
var tensorCmd = &cobra.Command{
	Use:   "tensor <satfile>",
	Short: "Evaluate the surface stress tensor at a point",
	Example: `  satstress tensor europa.satellite --lat 30 --lon 120 --time 3600
  satstress tensor europa.satellite --lat 30 --lon 120 --forcings nsr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, err := newStressUseCase(cmd, args[0])
		if err != nil {
			return err
		}
		resp, err := uc.Stress(usecase.StressRequest{
			Lat:      tensorLat,
			Lon:      tensorLon,
			Time:     tensorTime,
			Forcings: tensorForcings,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# lat = %g deg, lon = %g deg, t = %g s\n", resp.Lat, resp.Lon, resp.Time)
		for _, name := range resp.Forcings {
			writeTensor(out, name, resp.ByForcing[name].Tensor)
		}
		writeTensor(out, "TOTAL", resp.Total.Tensor)
		return nil
	},
}

// gridCmd runs a grid calculation and writes the stress cube.
var gridCmd = &cobra.Command{
	Use:   "grid <satfile> <gridfile> <outfile.nc>",
	Short: "Calculate stresses over a lat/lon/time grid and write a NetCDF cube",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := loadBody(args[0])
		if err != nil {
			return err
		}
		g, err := gridcalc.ReadGrid(args[1], body)
		if err != nil {
			return err
		}

		calc := gridcalc.NewCalculator(solver, logger)
		c, err := calc.Run(cmd.Context(), body, g)
		if err != nil {
			return err
		}
		if err := cube.Write(args[2], c); err != nil {
			return err
		}
		logger.Info("wrote stress cube",
			zap.String("path", args[2]),
			zap.String("run_id", c.Meta.RunID))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", c.Meta.RunID)
		return nil
	},
}

// sampleCmd interpolates a stored stress cube at one point.
var sampleCmd = &cobra.Command{
	Use:   "sample <cube.nc>",
	Short: "Bilinearly interpolate a stress cube at a point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseForcingKind(sampleForcing)
		if err != nil {
			return err
		}
		c, err := cube.OpenCube(args[0])
		if err != nil {
			return err
		}
		slice, err := c.Slice(kind, sampleIndex)
		if err != nil {
			return err
		}
		s, err := slice.Sample(sampleLat, sampleLon)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		axis := c.OuterAxis(kind)
		fmt.Fprintf(out, "# %s: lat = %g deg, lon = %g deg, %s = %g\n",
			c.Meta.SystemID, sampleLat, sampleLon, outerName(kind), axis[sampleIndex])
		writeTensor(out, kind.String(), s)
		return nil
	},
}

func outerName(kind domain.ForcingKind) string {
	if kind == domain.ForcingNSR {
		return cube.DimNSRPeriod
	}
	return cube.DimTime
}

func newStressUseCase(cmd *cobra.Command, path string) (*usecase.StressUseCase, error) {
	body, err := loadBody(path)
	if err != nil {
		return nil, err
	}
	return usecase.NewStressUseCase(cmd.Context(), body, solver, logger)
}

// writeTensor prints a tensor and its principal stresses on one line.
func writeTensor(w io.Writer, name string, s domain.StressTensor) {
	p := s.Principal()
	fmt.Fprintf(w, "%-8s Ttt = %.6e  Tpt = %.6e  Tpp = %.6e  max = %.6e  min = %.6e  azimuth = %.2f deg\n",
		name, s.Ttt, s.Tpt, s.Tpp, p.Max, p.Min, p.Angle*180/math.Pi)
}
