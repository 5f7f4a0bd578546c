package cube

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/satstress/internal/domain"
)

// Global attribute names read back by OpenCube.
const (
	AttrRunID    = "run_id"
	AttrGridID   = "grid_id"
	AttrSystemID = "system_id"
)

var componentNames = []string{"Ttt", "Tpt", "Tpp"}

var componentLongNames = map[string]string{
	"Ttt": "north-south stress",
	"Tpt": "shear stress",
	"Tpp": "east-west stress",
}

type axis struct {
	name     string
	values   []float64
	units    string
	longName string
}

// Write stores the cube at path, replacing any existing file.
func Write(path string, c *Cube) error {
	axes := []axis{
		{DimLatitude, c.Latitude, "degrees_north", "latitude"},
		{DimLongitude, c.Longitude, "degrees_east", "longitude"},
		{DimTime, c.Time, "seconds", "time after periapse"},
		{DimNSRPeriod, c.NSRPeriod, "seconds", "NSR period"},
	}
	for _, a := range axes {
		if len(a.values) == 0 {
			return fmt.Errorf("axis %s is empty", a.name)
		}
	}
	if err := c.checkShape(); err != nil {
		return err
	}

	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	dims := make(map[string]netcdf.Dim, len(axes))
	coords := make(map[string]netcdf.Var, len(axes))
	for _, a := range axes {
		dim, err := ds.AddDim(a.name, uint64(len(a.values)))
		if err != nil {
			return fmt.Errorf("failed to add dimension %s: %w", a.name, err)
		}
		v, err := ds.AddVar(a.name, netcdf.DOUBLE, []netcdf.Dim{dim})
		if err != nil {
			return fmt.Errorf("failed to add coordinate %s: %w", a.name, err)
		}
		if err := writeTextAttrs(v, "units", a.units, "long_name", a.longName); err != nil {
			return fmt.Errorf("failed to annotate %s: %w", a.name, err)
		}
		dims[a.name] = dim
		coords[a.name] = v
	}

	type dataVar struct {
		name string
		v    netcdf.Var
		data Component
	}
	var data []dataVar
	forcings := []struct {
		kind  domain.ForcingKind
		outer string
		comps Components
	}{
		{domain.ForcingDiurnal, DimTime, c.Diurnal},
		{domain.ForcingNSR, DimNSRPeriod, c.NSR},
	}
	for _, f := range forcings {
		shape := []netcdf.Dim{dims[f.outer], dims[DimLatitude], dims[DimLongitude]}
		for _, name := range componentNames {
			varName := VarName(name, f.kind)
			v, err := ds.AddVar(varName, netcdf.FLOAT, shape)
			if err != nil {
				return fmt.Errorf("failed to add variable %s: %w", varName, err)
			}
			long := fmt.Sprintf("%s %s", f.kind, componentLongNames[name])
			if err := writeTextAttrs(v, "units", "Pa", "long_name", long); err != nil {
				return fmt.Errorf("failed to annotate %s: %w", varName, err)
			}
			data = append(data, dataVar{varName, v, f.comps.component(name)})
		}
	}

	if err := writeGlobalAttrs(ds, c.Meta); err != nil {
		return err
	}

	if err := ds.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	for _, a := range axes {
		if err := coords[a.name].WriteFloat64s(a.values); err != nil {
			return fmt.Errorf("failed to write coordinate %s: %w", a.name, err)
		}
	}
	for _, d := range data {
		if err := d.v.WriteFloat32s(d.data); err != nil {
			return fmt.Errorf("failed to write variable %s: %w", d.name, err)
		}
	}
	return nil
}

func (c *Cube) checkShape() error {
	slice := len(c.Latitude) * len(c.Longitude)
	for _, f := range []struct {
		kind  domain.ForcingKind
		comps Components
	}{{domain.ForcingDiurnal, c.Diurnal}, {domain.ForcingNSR, c.NSR}} {
		want := len(c.OuterAxis(f.kind)) * slice
		for _, name := range componentNames {
			if got := len(f.comps.component(name)); got != want {
				return fmt.Errorf("%s has %d values, expected %d", VarName(name, f.kind), got, want)
			}
		}
	}
	return nil
}

func (cs Components) component(name string) Component {
	switch name {
	case "Ttt":
		return cs.Ttt
	case "Tpt":
		return cs.Tpt
	default:
		return cs.Tpp
	}
}

func (cs *Components) setComponent(name string, data Component) {
	switch name {
	case "Ttt":
		cs.Ttt = data
	case "Tpt":
		cs.Tpt = data
	default:
		cs.Tpp = data
	}
}

// writeGlobalAttrs records the provenance and the complete satellite
// definition so a cube can be traced back to its inputs.
func writeGlobalAttrs(ds netcdf.Dataset, meta Metadata) error {
	b := meta.Body
	text := []string{
		"description", meta.Description,
		"history", meta.History,
		"Conventions", "CF-1.0",
		AttrRunID, meta.RunID,
		AttrGridID, meta.GridID,
		AttrSystemID, b.SystemID,
	}
	for i := 0; i < len(text); i += 2 {
		if err := writeText(ds.Attr(text[i]), text[i+1]); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", text[i], err)
		}
	}

	type numeric struct {
		name  string
		value float64
	}
	values := []numeric{
		{"planet_mass", b.PlanetMass},
		{"orbit_eccentricity", b.OrbitEccentricity},
		{"orbit_semimajor_axis", b.OrbitSemimajorAxis},
		{"satellite_radius", b.Radius()},
		{"satellite_mass", b.Mass()},
		{"satellite_density", b.Density()},
		{"satellite_surface_gravity", b.SurfaceGravity()},
		{"satellite_orbit_period", b.OrbitPeriod()},
	}
	for n, l := range b.Layers {
		suffix := "_" + strconv.Itoa(n)
		if err := writeText(ds.Attr("layer_id"+suffix), l.ID); err != nil {
			return fmt.Errorf("failed to write attribute layer_id%s: %w", suffix, err)
		}
		values = append(values,
			numeric{"density" + suffix, l.Density},
			numeric{"lame_mu" + suffix, l.LameMu},
			numeric{"lame_lambda" + suffix, l.LameLambda},
			numeric{"thickness" + suffix, l.Thickness},
			numeric{"viscosity" + suffix, l.Viscosity},
			numeric{"tensile_str" + suffix, l.TensileStrength},
		)
	}
	for _, v := range values {
		if err := ds.Attr(v.name).WriteFloat64s([]float64{v.value}); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", v.name, err)
		}
	}
	return nil
}

func writeTextAttrs(v netcdf.Var, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := writeText(v.Attr(pairs[i]), pairs[i+1]); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", pairs[i], err)
		}
	}
	return nil
}

// writeText stores a text attribute. Empty values are not written.
func writeText(a netcdf.Attr, value string) error {
	if value == "" {
		return nil
	}
	return a.WriteBytes([]byte(value))
}

// OpenCube reads a cube written by Write.
func OpenCube(path string) (*Cube, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	c := &Cube{}
	for _, a := range []struct {
		name string
		dst  *[]float64
	}{
		{DimLatitude, &c.Latitude},
		{DimLongitude, &c.Longitude},
		{DimTime, &c.Time},
		{DimNSRPeriod, &c.NSRPeriod},
	} {
		values, err := readAxis(ds, a.name)
		if err != nil {
			return nil, err
		}
		*a.dst = values
	}

	for _, kind := range []domain.ForcingKind{domain.ForcingDiurnal, domain.ForcingNSR} {
		want := len(c.OuterAxis(kind)) * len(c.Latitude) * len(c.Longitude)
		comps := c.components(kind)
		for _, name := range componentNames {
			varName := VarName(name, kind)
			v, err := ds.Var(varName)
			if err != nil {
				return nil, fmt.Errorf("variable %s not found: %w", varName, err)
			}
			data := make(Component, want)
			if err := v.ReadFloat32s(data); err != nil {
				return nil, fmt.Errorf("failed to read variable %s: %w", varName, err)
			}
			comps.setComponent(name, data)
		}
	}

	for _, a := range []struct {
		name string
		dst  *string
	}{
		{AttrRunID, &c.Meta.RunID},
		{AttrGridID, &c.Meta.GridID},
		{AttrSystemID, &c.Meta.SystemID},
		{"description", &c.Meta.Description},
		{"history", &c.Meta.History},
	} {
		text, err := readText(ds.Attr(a.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %s: %w", a.name, err)
		}
		*a.dst = text
	}
	c.Meta.Body.SystemID = c.Meta.SystemID
	return c, nil
}

func readAxis(ds netcdf.Dataset, name string) ([]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %s: %w", name, err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D coordinate %s, got %dD", name, len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get length of %s: %w", name, err)
	}
	values := make([]float64, n)
	if err := v.ReadFloat64s(values); err != nil {
		return nil, fmt.Errorf("failed to read coordinate %s: %w", name, err)
	}
	return values, nil
}

// readText returns a text attribute; a missing attribute reads as empty.
func readText(a netcdf.Attr) (string, error) {
	n, err := a.Len()
	if err != nil {
		return "", nil
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}
