package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fermicfg/internal/tree"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in   string
		path string
		want any
	}{
		{"selection.emin=100", "selection.emin", int64(100)},
		{"selection.emax=1e5", "selection.emax", 1e5},
		{"selection.target=vela", "selection.target", "vela"},
		{"gtlike.edisp=false", "gtlike.edisp", false},
		{"selection.zmax=", "selection.zmax", nil},
		{"selection.filter=null", "selection.filter", nil},
		{"model.catalogs=3FGL,4FGL", "model.catalogs", []any{"3FGL", "4FGL"}},
		{"model.catalogs=[3FGL]", "model.catalogs", []any{"3FGL"}},
		{"plotting.loge_bounds=2,5", "plotting.loge_bounds", []any{int64(2), int64(5)}},
		{"gtlike.src_expscale.vela=1.1", "gtlike.src_expscale.vela", 1.1},
		{" selection.evtype = 3 ", "selection.evtype", int64(3)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseAssignment(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.path, a.Path)
			assert.Equal(t, tt.want, a.Value)
		})
	}
}

func TestParseAssignment_Errors(t *testing.T) {
	tests := []struct {
		in        string
		validates bool
	}{
		{"selection.emin", false},
		{"emin=100", false},
		{".emin=100", false},
		{"bogus.emin=1", true},
		{"selection.bogus=1", true},
		{"selection.emin.sub=1", true},
		{"components.a=1", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseAssignment(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.validates, isValidation(err), "ErrValidation match for %q", tt.in)
		})
	}
}

func isValidation(err error) bool {
	return len(ValidationErrors(err)) > 0
}

func TestKeywords(t *testing.T) {
	m, err := Keywords([]string{
		"selection.emin=100",
		"selection.emin=200",
		"binning.coordsys=GAL",
	})
	require.NoError(t, err)
	assert.Equal(t, tree.Mapping{
		"selection": tree.Mapping{"emin": int64(200)},
		"binning":   tree.Mapping{"coordsys": "GAL"},
	}, m)
}

func TestKeywords_CollectsErrors(t *testing.T) {
	_, err := Keywords([]string{"bogus.a=1", "selection.emin=1", "selection.nope=2"})
	require.Error(t, err)
	assert.Len(t, ValidationErrors(err), 2)
}
