package cube

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/domain/domaintest"
)

// testCube fills a 2 x 3 x 4 cube where every value encodes its position.
func testCube() *Cube {
	meta := Metadata{
		RunID:       "3f1c2d4e-0000-4000-8000-000000000001",
		GridID:      "coarse",
		SystemID:    "JupiterEuropa",
		Description: "tidal stresses",
		Body:        domaintest.Europa(),
	}
	c := New(meta,
		[]float64{-45, 0, 45},
		[]float64{0, 90, 180, 270},
		[]float64{0, 1000},
		[]float64{1e10, 1e12},
	)
	for _, kind := range []domain.ForcingKind{domain.ForcingDiurnal, domain.ForcingNSR} {
		sign := 1.0
		if kind == domain.ForcingNSR {
			sign = -1.0
		}
		for k := range c.OuterAxis(kind) {
			for i := range c.Latitude {
				for j := range c.Longitude {
					base := sign * float64(100*k+10*i+j)
					c.Set(kind, k, i, j, domain.StressTensor{Ttt: base, Tpt: base + 0.5, Tpp: base + 0.25})
				}
			}
		}
	}
	return c
}

func TestWriteOpenCube(t *testing.T) {
	path := filepath.Join(t.TempDir(), "europa.nc")
	want := testCube()
	require.NoError(t, Write(path, want))

	got, err := OpenCube(path)
	require.NoError(t, err)

	assert.Equal(t, want.Latitude, got.Latitude)
	assert.Equal(t, want.Longitude, got.Longitude)
	assert.Equal(t, want.Time, got.Time)
	assert.Equal(t, want.NSRPeriod, got.NSRPeriod)
	assert.Equal(t, want.Diurnal, got.Diurnal)
	assert.Equal(t, want.NSR, got.NSR)

	assert.Equal(t, want.Meta.RunID, got.Meta.RunID)
	assert.Equal(t, "coarse", got.Meta.GridID)
	assert.Equal(t, "JupiterEuropa", got.Meta.SystemID)
	assert.Equal(t, "tidal stresses", got.Meta.Description)
	assert.Equal(t, "", got.Meta.History)

	s := got.At(domain.ForcingNSR, 1, 2, 3)
	assert.Equal(t, domain.StressTensor{Ttt: -123, Tpt: -122.5, Tpp: -122.75}, s)
}

func TestWrite_RecordsSatellite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "europa.nc")
	c := testCube()
	require.NoError(t, Write(path, c))

	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	require.NoError(t, err)
	defer func() { _ = ds.Close() }()

	readFloat := func(name string) float64 {
		buf := make([]float64, 1)
		require.NoError(t, ds.Attr(name).ReadFloat64s(buf), name)
		return buf[0]
	}
	b := c.Meta.Body
	assert.Equal(t, b.PlanetMass, readFloat("planet_mass"))
	assert.Equal(t, b.Layers[2].Viscosity, readFloat("viscosity_2"))
	assert.Equal(t, b.Layers[0].Density, readFloat("density_0"))
	if math.Abs(readFloat("satellite_radius")-b.Radius()) > 1e-6 {
		t.Errorf("satellite_radius mismatch")
	}

	layerID, err := readText(ds.Attr("layer_id_3"))
	require.NoError(t, err)
	assert.Equal(t, "ICE_UPPER", layerID)

	v, err := ds.Var("Ttt_Diurnal")
	require.NoError(t, err)
	units, err := readText(v.Attr("units"))
	require.NoError(t, err)
	assert.Equal(t, "Pa", units)

	dims, err := v.Dims()
	require.NoError(t, err)
	require.Len(t, dims, 3)
	name, err := dims[0].Name()
	require.NoError(t, err)
	assert.Equal(t, DimTime, name)
}

func TestWrite_RejectsBadShape(t *testing.T) {
	dir := t.TempDir()

	c := testCube()
	c.NSR.Tpt = c.NSR.Tpt[:5]
	assert.Error(t, Write(filepath.Join(dir, "short.nc"), c))

	c = testCube()
	c.Time = nil
	assert.Error(t, Write(filepath.Join(dir, "empty.nc"), c))
}

func TestOpenCube_Missing(t *testing.T) {
	_, err := OpenCube(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}

func TestCube_Slice(t *testing.T) {
	c := testCube()

	tg, err := c.Slice(domain.ForcingDiurnal, 1)
	require.NoError(t, err)

	// Halfway between lon 90 and 180 at lat 0: values 111 and 112.
	s, err := tg.Sample(0, 135)
	require.NoError(t, err)
	if math.Abs(s.Ttt-111.5) > 1e-6 {
		t.Errorf("Ttt: expected 111.5, got %g", s.Ttt)
	}
	if math.Abs(s.Tpt-112) > 1e-6 {
		t.Errorf("Tpt: expected 112, got %g", s.Tpt)
	}

	_, err = c.Slice(domain.ForcingNSR, 2)
	assert.Error(t, err)
	_, err = c.Slice(domain.ForcingDiurnal, -1)
	assert.Error(t, err)
}

func TestVarName(t *testing.T) {
	assert.Equal(t, "Ttt_Diurnal", VarName("Ttt", domain.ForcingDiurnal))
	assert.Equal(t, "Tpp_NSR", VarName("Tpp", domain.ForcingNSR))
}
