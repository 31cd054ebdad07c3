package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/tree"
)

func resolveMapping(t *testing.T, m tree.Mapping) *resolve.Resolution {
	t.Helper()
	res, err := resolve.New(nil).Resolve(resolve.Request{Base: m})
	require.NoError(t, err)
	return res
}

func twoComponents(t *testing.T) *resolve.Resolution {
	return resolveMapping(t, tree.Mapping{
		"selection": tree.Mapping{"emin": 100.0, "emax": 1e5, "ra": 83.6, "dec": 22.0},
		"components": []any{
			tree.Mapping{"selection": tree.Mapping{"evtype": int64(4)}},
			tree.Mapping{"selection": tree.Mapping{"evtype": int64(8)}, "binning": tree.Mapping{"binsz": 0.2}},
		},
	})
}

func TestGetWriter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"yaml", false},
		{"yml", false},
		{"", false},
		{"json", false},
		{"toml", false},
		{"text", false},
		{"sarif", true},
	}
	for _, tt := range tests {
		_, err := GetWriter(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("GetWriter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

// Every loadable format must decode back to the same configuration.
func TestWriters_RoundTrip(t *testing.T) {
	res := resolveMapping(t, tree.Mapping{
		"selection": tree.Mapping{"emin": int64(100), "emax": 1e5, "target": "vela"},
		"model":     tree.Mapping{"catalogs": []any{"3FGL"}},
	})
	comp := res.Components[0]

	tests := []struct {
		name   string
		writer Writer
		format resolve.Format
		want   tree.Mapping
	}{
		{"yaml", &YAMLWriter{}, resolve.FormatYAML, comp.Config},
		{"toml", &TOMLWriter{}, resolve.FormatTOML, tree.PruneNil(comp.Config)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.writer.Write(&buf, []resolve.Resolved{comp}))

			decoded, err := resolve.Decode(buf.Bytes(), tt.format)
			require.NoError(t, err)
			got, err := resolve.Validate(decoded)
			require.NoError(t, err)
			assert.True(t, tree.Equal(tt.want, got), "round trip changed the configuration:\n%s", buf.String())
		})
	}
}

func TestYAMLWriter_MultipleComponents(t *testing.T) {
	res := twoComponents(t)
	var buf bytes.Buffer
	if err := (&YAMLWriter{}).Write(&buf, res.Components); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# component 00 (file suffix _00)") {
		t.Error("Output should name the first component")
	}
	if !strings.Contains(out, "# component 01 (file suffix _01)") {
		t.Error("Output should name the second component")
	}
	if strings.Count(out, "\n---\n") != 1 {
		t.Errorf("Expected one document separator, got:\n%s", out)
	}
	if strings.Contains(out, "components:") {
		t.Error("Component documents should not contain a components section")
	}
}

func TestJSONWriter(t *testing.T) {
	res := twoComponents(t)
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, res.Components); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed []struct {
		Name       string         `json:"name"`
		FileSuffix string         `json:"file_suffix"`
		Config     map[string]any `json:"config"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("Got %d components, want 2", len(parsed))
	}
	if parsed[1].FileSuffix != "_01" {
		t.Errorf("FileSuffix = %q, want %q", parsed[1].FileSuffix, "_01")
	}
	binning := parsed[1].Config["binning"].(map[string]any)
	if binning["binsz"] != 0.2 {
		t.Errorf("binsz = %v, want 0.2", binning["binsz"])
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("Output = %q, want []", got)
	}
}

func TestTextWriter(t *testing.T) {
	res := twoComponents(t)
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, res.Components); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Component 00", "Component 01", "[selection]", "evtype = 8", "emin = 100.0", "target = null"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"CEL", "CEL"},
		{true, "true"},
		{int64(8), "8"},
		{100.0, "100.0"},
		{0.1, "0.1"},
		{1e-10, "1e-10"},
		{[]any{int64(1), "a"}, "[1, a]"},
		{tree.Mapping{"b": 2.5, "a": nil}, "{a: null, b: 2.5}"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteDiff(t *testing.T) {
	a := tree.Mapping{"selection": tree.Mapping{"evtype": int64(4), "zmax": 90.0}}
	b := tree.Mapping{"selection": tree.Mapping{"evtype": int64(8), "filter": "DATA_QUAL>0"}}
	changes := tree.Diff(a, b)

	var buf bytes.Buffer
	if err := WriteDiff(&buf, changes, "00", "01", "text"); err != nil {
		t.Fatalf("WriteDiff error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"--- 00", "+++ 01",
		"- selection.evtype: 4", "+ selection.evtype: 8",
		"+ selection.filter: DATA_QUAL>0",
		"- selection.zmax: 90.0",
		"3 option(s) differ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteDiff(&buf, nil, "a", "b", "text"); err != nil {
		t.Fatalf("WriteDiff error: %v", err)
	}
	if !strings.Contains(buf.String(), "No differences.") {
		t.Error("Expected no differences message")
	}
}

func TestWriteDiff_JSON(t *testing.T) {
	changes := []tree.Change{{Path: "binning.binsz", Old: 0.1, New: 0.2}}
	var buf bytes.Buffer
	if err := WriteDiff(&buf, changes, "a", "b", "json"); err != nil {
		t.Fatalf("WriteDiff error: %v", err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(parsed) != 1 || parsed[0]["path"] != "binning.binsz" {
		t.Errorf("Parsed = %v", parsed)
	}
}

func TestWriteResolved(t *testing.T) {
	res := twoComponents(t)

	var buf bytes.Buffer
	require.NoError(t, WriteResolved(res.Components, "json", "", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "["))

	path := filepath.Join(t.TempDir(), "resolved.toml")
	require.NoError(t, WriteResolved(res.Components[:1], "toml", path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[selection]")

	assert.Error(t, WriteResolved(res.Components, "xml", "", &buf))
}
