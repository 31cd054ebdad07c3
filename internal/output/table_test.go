package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fermicfg/internal/analysis"
)

func TestComponentRows(t *testing.T) {
	a, err := analysis.New(twoComponents(t), nil)
	require.NoError(t, err)

	rows := ComponentRows(a)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"00", "_00", "100", "100000", "24", "0.1", "100", "CEL", "83.6000", "22.0000"}, rows[0][:10])
	assert.Equal(t, "0.2", rows[1][5])
	assert.Equal(t, "50", rows[1][6])
}

func TestWriteComponents(t *testing.T) {
	a, err := analysis.New(twoComponents(t), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteComponents(&buf, a))
	out := buf.String()
	assert.Contains(t, out, "ENUMBINS")
	assert.Contains(t, out, "_01")
	assert.Contains(t, out, "energy bins: 24")
	assert.Contains(t, out, "npix: 100")
}

func TestWriteFiles(t *testing.T) {
	a, err := analysis.New(twoComponents(t), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFiles(&buf, a))
	out := buf.String()
	if !strings.Contains(out, "ccube_01.fits") {
		t.Errorf("Output missing component ccube:\n%s", out)
	}
	if !strings.Contains(out, "srcmdl_00.xml") {
		t.Errorf("Output missing component srcmdl:\n%s", out)
	}
}
