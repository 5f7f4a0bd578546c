// Package love connects the stress models to Love number solvers.
//
// The reference solver is John Wahr's four layer viscoelastic Love number
// program, which reads its parameters from in.love in the working directory
// and appends its results to out.love.
package love

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.ngs.io/satstress/internal/domain"
)

// Input and output file names used by the external program.
const (
	InputFile  = "in.love"
	OutputFile = "out.love"
)

// Fixed radial discretisation of the four layer program.
const (
	totalNodes     = 165
	discontinuities = 3
	innerBoundary  = 154
	secondBoundary = 161
	thirdBoundary  = 163
)

// WriteInput writes req in the in.love line format: one value per line
// followed by a tab separated description.
func WriteInput(w io.Writer, req domain.LoveRequest) error {
	lines := []struct {
		value string
		label string
	}{
		{g(req.MeanDensity), "Mean Density of Satellite (g/cm^3)"},
		{"1", "Rheology (1=Maxwell, 0=elastic)"},
		{g(req.ForcingPeriodDays), "Forcing period (earth days, 86400 seconds)"},
		{g(req.UpperIceViscosity), "Viscosity of upper ice layer (Pa sec)"},
		{g(req.LowerIceViscosity), "Viscosity of lower ice layer (Pa sec)"},
		{g(req.Core.YoungsModulus), "Young's modulus for the rocky core"},
		{g(req.Core.PoissonsRatio), "Poisson's ratio for the rocky core"},
		{g(req.Core.Density), "Density of the rocky core (g/cm^3)"},
		{g(req.Ice.YoungsModulus), "Young's modulus for ice"},
		{g(req.Ice.PoissonsRatio), "Poisson's ratio for ice"},
		{g(req.Ice.Density), "Density of ice"},
		{"1", "Decoupling fluid layer (e.g. global ocean)? (1=yes, 0=no)"},
		{g(req.Ocean.Thickness), "Thickness of fluid layer (km)"},
		{g(req.Ocean.Density), "Density of fluid layer (g/cm^3)"},
		{g(req.Ocean.PWaveVelocity), "P-wave velocity in fluid layer (km/sec)"},
		{g(req.Radius), "Total radius of satellite (km)"},
		{g(req.UpperIceThickness), "Thickness of upper (cold) ice layer (km)"},
		{g(req.LowerIceThickness), "Thickness of lower (warm) ice layer (km)"},
		{strconv.Itoa(totalNodes), "Total number of calculation nodes"},
		{strconv.Itoa(discontinuities), "Number of density discontinuities"},
		{strconv.Itoa(innerBoundary), "Node number of innermost boundary"},
		{strconv.Itoa(secondBoundary), "Node number of 2nd innermost boundary"},
		{strconv.Itoa(thirdBoundary), "Node number of 3rd innermost boundary"},
	}

	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintf(bw, "%s\t\t%s\n", l.value, l.label); err != nil {
			return fmt.Errorf("failed to write %s: %w", InputFile, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", InputFile, err)
	}
	return nil
}

func g(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseOutput reads the Love numbers from the last non-blank line of
// out.love. Fields 3 and 4 hold h2, 6 and 7 hold k2 and 9 and 10 hold l2
// (real and imaginary parts, counted from zero).
func ParseOutput(r io.Reader) (domain.LoveNumbers, error) {
	var last string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("failed to read %s: %w", OutputFile, err)
	}
	if last == "" {
		return domain.LoveNumbers{}, fmt.Errorf("%s is empty", OutputFile)
	}

	fields := strings.Fields(last)
	if len(fields) < 11 {
		return domain.LoveNumbers{}, fmt.Errorf("%s: expected at least 11 fields in last line, got %d", OutputFile, len(fields))
	}

	parse := func(reIdx, imIdx int) (complex128, error) {
		re, err := parseFortranFloat(fields[reIdx])
		if err != nil {
			return 0, fmt.Errorf("field %d: %w", reIdx, err)
		}
		im, err := parseFortranFloat(fields[imIdx])
		if err != nil {
			return 0, fmt.Errorf("field %d: %w", imIdx, err)
		}
		return complex(re, im), nil
	}

	var love domain.LoveNumbers
	var err error
	if love.H2, err = parse(3, 4); err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("invalid h2 in %s: %w", OutputFile, err)
	}
	if love.K2, err = parse(6, 7); err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("invalid k2 in %s: %w", OutputFile, err)
	}
	if love.L2, err = parse(9, 10); err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("invalid l2 in %s: %w", OutputFile, err)
	}
	return love, nil
}

// parseFortranFloat accepts Fortran D exponents (1.0D-03) as well as E.
func parseFortranFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}
