package fileio

import (
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("FERMI_DATA", "/data/fermi")

	tests := []struct {
		name    string
		path    string
		workdir string
		want    string
	}{
		{"absolute kept", "/tmp/ft1.fits", "/work", "/tmp/ft1.fits"},
		{"relative joined", "ft1.fits", "/work", "/work/ft1.fits"},
		{"env expanded", "$FERMI_DATA/ft2.fits", "/work", "/data/fermi/ft2.fits"},
		{"braced env", "${FERMI_DATA}/ltcube.fits", "", "/data/fermi/ltcube.fits"},
		{"workdir env", "srcmdl.xml", "$FERMI_DATA", "/data/fermi/srcmdl.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.path, tt.workdir)
			if err != nil {
				t.Fatalf("ResolvePath(%q, %q) error: %v", tt.path, tt.workdir, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.path, tt.workdir, got, tt.want)
			}
		})
	}
}

func TestResolvePath_RelativeToCwd(t *testing.T) {
	got, err := ResolvePath("config.yaml", "")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ResolvePath(config.yaml, \"\") = %q, want absolute", got)
	}
}

func TestJoinStrings(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "", "b"}, "a_b"},
		{[]string{"", ""}, ""},
	}
	for _, tt := range tests {
		if got := JoinStrings(tt.parts, "_"); got != tt.want {
			t.Errorf("JoinStrings(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestFormatFilename(t *testing.T) {
	tests := []struct {
		name      string
		prefix    []string
		basename  string
		extension string
		want      string
	}{
		{"plain", nil, "ccube", "fits", "/out/ccube.fits"},
		{"dotted extension", nil, "srcmdl", ".xml", "/out/srcmdl.xml"},
		{"prefix", []string{"fit0"}, "sed", "npy", "/out/fit0_sed.npy"},
		{"empty prefix parts", []string{"", "vela", ""}, "tsmap", "fits", "/out/vela_tsmap.fits"},
		{"no extension", []string{"roi"}, "model", "", "/out/roi_model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFilename("/out", tt.basename, tt.prefix, tt.extension)
			if got != tt.want {
				t.Errorf("FormatFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripSuffix(t *testing.T) {
	tests := []struct {
		in       string
		suffixes []string
		want     string
	}{
		{"roi.fits.gz", []string{"gz", "fits"}, "roi"},
		{"roi.fits", []string{".fits"}, "roi"},
		{"roi.fits", []string{"gz"}, "roi.fits"},
		{"fits", []string{"fits"}, "fits"},
	}
	for _, tt := range tests {
		if got := StripSuffix(tt.in, tt.suffixes); got != tt.want {
			t.Errorf("StripSuffix(%q, %q) = %q, want %q", tt.in, tt.suffixes, got, tt.want)
		}
	}
}

func TestMatchRegexList(t *testing.T) {
	patterns, err := CompilePatterns([]string{`\.fits$|\.fit$`, `\.xml$`})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want bool
	}{
		{"ccube_00.fits", true},
		{"ft1.fit", true},
		{"srcmdl_00.xml", true},
		{"fit.png", false},
		{"fits.yaml", false},
	}
	for _, tt := range tests {
		if got := MatchRegexList(patterns, tt.name); got != tt.want {
			t.Errorf("MatchRegexList(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if MatchRegexList(nil, "anything") {
		t.Error("empty pattern list should not match")
	}
}

func TestCompilePatterns_Invalid(t *testing.T) {
	if _, err := CompilePatterns([]string{`\.fits$`, `([`}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
