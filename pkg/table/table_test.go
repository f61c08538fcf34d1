package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/encoder"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
	"github.com/NVIDIA/tuning-tables/pkg/grouper"
	"github.com/NVIDIA/tuning-tables/pkg/selector"
)

func rec(precision, vendor, deviceType, arch, device, kernel string, time float64, params database.Parameters) database.Record {
	return database.Record{
		Family:       "copy",
		Precision:    precision,
		Vendor:       vendor,
		DeviceType:   deviceType,
		Architecture: database.NewArchitecture(arch),
		Device:       device,
		Kernel:       kernel,
		Results:      []database.Result{{Time: time, Parameters: params}},
	}
}

func mustPrecision(t *testing.T, code string) database.Precision {
	t.Helper()
	p, err := database.ParsePrecision(code)
	require.NoError(t, err)
	return p
}

func TestBuild_SingleDevice(t *testing.T) {
	records := []database.Record{
		rec("32", "AMD", "GPU", "Tahiti", "Radeon HD 7970", "Copy", 2.0, database.Parameters{"A": 4, "B": 8}),
		rec("32", "AMD", "GPU", "Tahiti", "Radeon HD 7970", "Copy", 1.0, database.Parameters{"A": 2, "B": 16}),
	}

	tbl, err := NewBuilder(nil).Build(records, "copy", mustPrecision(t, "32"))
	require.NoError(t, err)

	want := &Table{
		Family:    "copy",
		Precision: mustPrecision(t, "32"),
		Schema:    []string{"A", "B"},
		Vendors: []VendorBlock{{
			Vendor:     "AMD",
			DeviceType: "GPU",
			Architectures: []ArchitectureBlock{{
				Label: "Tahiti",
				Devices: []DeviceEntry{{
					Name:       "Radeon HD 7970",
					Parameters: []int{2, 16, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
				}},
			}},
		}},
	}
	if diff := cmp.Diff(want, tbl, cmp.AllowUnexported(database.Precision{})); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, tbl.Devices())
}

func TestBuild_KernelsConcatenate(t *testing.T) {
	records := []database.Record{
		rec("32", "NVIDIA", "GPU", "SM5.0", "GTX 750", "XgemmDirect", 1, database.Parameters{"WGD": 32}),
		rec("32", "NVIDIA", "GPU", "SM5.0", "GTX 750", "Xgemm", 1, database.Parameters{"KWG": 16, "MWG": 64}),
	}

	tbl, err := NewBuilder(nil).Build(records, "copy", mustPrecision(t, "32"))
	require.NoError(t, err)

	assert.Equal(t, []string{"KWG", "MWG", "WGD"}, tbl.Schema)
	params := tbl.Vendors[0].Architectures[0].Devices[0].Parameters
	assert.Equal(t, []int{16, 64, 32}, params[:3])
	assert.Len(t, params, 16)
}

func TestBuild_DefaultMarkers(t *testing.T) {
	records := []database.Record{
		rec("32", "AMD", "GPU", "", "default", "Copy", 1, database.Parameters{"A": 1}),
		rec("32", "default", "All", "", "default", "Copy", 1, database.Parameters{"A": 2}),
	}

	tbl, err := NewBuilder(nil).Build(records, "copy", mustPrecision(t, "32"))
	require.NoError(t, err)
	require.Len(t, tbl.Vendors, 2)

	assert.Equal(t, "AMD", tbl.Vendors[0].Vendor)
	assert.False(t, tbl.Vendors[0].Default)
	assert.Equal(t, "default", tbl.Vendors[0].Architectures[0].Label)
	assert.True(t, tbl.Vendors[0].Architectures[0].Devices[0].Default)

	assert.Equal(t, "default", tbl.Vendors[1].Vendor)
	assert.True(t, tbl.Vendors[1].Default)
}

func TestBuild_FallbackMatchesBaselineStructure(t *testing.T) {
	records := []database.Record{
		rec("32", "AMD", "GPU", "Tahiti", "Radeon HD 7970", "Copy", 1, database.Parameters{"A": 4}),
		rec("32", "default", "All", "", "default", "Copy", 1, database.Parameters{"A": 8}),
	}
	b := NewBuilder(nil)

	fallback, err := b.Build(records, "copy", mustPrecision(t, "16"))
	require.NoError(t, err)
	assert.True(t, fallback.Fallback)
	assert.Equal(t, "16", fallback.Precision.Code())

	// the baseline restricted to its default entries yields the same blocks
	baseline, err := b.Build(records[1:], "copy", mustPrecision(t, "32"))
	require.NoError(t, err)

	assert.Equal(t, baseline.Schema, fallback.Schema)
	assert.Equal(t, baseline.Vendors, fallback.Vendors)
	require.Len(t, fallback.Vendors, 1)
	assert.True(t, fallback.Vendors[0].Default)
	assert.Equal(t, 8, fallback.Vendors[0].Architectures[0].Devices[0].Parameters[0])
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []database.Record
		code    string
		check   func(t *testing.T, err error)
	}{
		{
			name: "missing baseline",
			records: []database.Record{
				rec("32", "AMD", "GPU", "", "x", "Copy", 1, database.Parameters{"A": 1}),
			},
			code: "64",
			check: func(t *testing.T, err error) {
				var target *grouper.MissingBaselineError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name: "inconsistent records",
			records: []database.Record{
				rec("32", "AMD", "GPU", "", "x", "Copy", 1, database.Parameters{"A": 1}),
				rec("32", "AMD", "GPU", "", "x", "Copy", 2, database.Parameters{"B": 1}),
			},
			code: "32",
			check: func(t *testing.T, err error) {
				var target *selector.InconsistentDatabaseError
				require.True(t, errors.As(err, &target))
				assert.Contains(t, err.Error(), `copy:32 AMD GPU "x"`)
			},
		},
		{
			name: "schema overflow",
			records: []database.Record{
				rec("32", "AMD", "GPU", "", "x", "Copy", 1, database.Parameters{"A": 1, "B": 2, "C": 3}),
			},
			code: "32",
			check: func(t *testing.T, err error) {
				var target *encoder.ParameterOverflowError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, 3, target.Count)
			},
		},
	}

	b := NewBuilder(config.NewConfig(config.WithParametersLength(2)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.records, "copy", mustPrecision(t, tt.code))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
