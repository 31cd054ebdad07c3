package analysis

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/dshills/fermicfg/internal/resolve"
)

// Coordinate systems accepted by binning.coordsys.
const (
	CoordSysCEL = "CEL"
	CoordSysGAL = "GAL"
)

// FileSet holds the per-component data product paths inside the working
// directory.
type FileSet struct {
	FT1         string `json:"ft1" yaml:"ft1"`
	FT1Filtered string `json:"ft1_filtered" yaml:"ft1_filtered"`
	LTCube      string `json:"ltcube" yaml:"ltcube"`
	CCube       string `json:"ccube" yaml:"ccube"`
	MCube       string `json:"mcube" yaml:"mcube"`
	SrcMap      string `json:"srcmap" yaml:"srcmap"`
	BExpMap     string `json:"bexpmap" yaml:"bexpmap"`
	BExpMapROI  string `json:"bexpmap_roi" yaml:"bexpmap_roi"`
	SrcMdl      string `json:"srcmdl" yaml:"srcmdl"`
}

// NewFileSet names the data products of a component with the given file
// suffix.
func NewFileSet(workdir, suffix string) FileSet {
	fits := func(base string) string {
		return filepath.Join(workdir, base+suffix+".fits")
	}
	return FileSet{
		FT1:         fits("ft1"),
		FT1Filtered: fits("ft1_filtered"),
		LTCube:      fits("ltcube"),
		CCube:       fits("ccube"),
		MCube:       fits("mcube"),
		SrcMap:      fits("srcmap"),
		BExpMap:     fits("bexpmap"),
		BExpMapROI:  fits("bexpmap_roi"),
		SrcMdl:      filepath.Join(workdir, "srcmdl"+suffix+".xml"),
	}
}

// Component is one binned analysis component with the quantities derived
// from its configuration.
type Component struct {
	Name       string
	FileSuffix string
	Config     Config

	// EMin and EMax bound the analysis energy range in MeV.
	EMin, EMax float64
	// Energies are the log10(E/MeV) bin edges; there are EnumBins+1 of them.
	Energies []float64
	EnumBins int
	NPix     int
	// Radius is the data selection radius in degrees.
	Radius float64
	// XRef and YRef locate the ROI center in the binning coordinate system.
	// They are nil when the center is only known by target name.
	XRef, YRef *float64
}

// NewComponent decodes a resolved component and derives its binning.
func NewComponent(r resolve.Resolved) (*Component, error) {
	cfg, err := Decode(r.Config)
	if err != nil {
		var ve *resolve.ValidationError
		if errors.As(err, &ve) {
			ve.Component = r.Name
			return nil, ve
		}
		return nil, fmt.Errorf("component %s: %w", r.Name, err)
	}
	c := &Component{Name: r.Name, FileSuffix: r.FileSuffix, Config: cfg}
	if err := c.derive(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) invalid(section, key, reason string) error {
	return &resolve.ValidationError{Component: c.Name, Section: section, Key: key, Reason: reason}
}

func (c *Component) derive() error {
	sel := &c.Config.Selection
	bin := c.Config.Binning

	emin, emax, err := energyRange(sel)
	if err != nil {
		return c.invalid("selection", "emin", err.Error())
	}
	c.EMin, c.EMax = emin, emax
	logemin, logemax := math.Log10(emin), math.Log10(emax)
	sel.EMin, sel.EMax = &emin, &emax
	sel.LogEMin, sel.LogEMax = &logemin, &logemax

	if bin.EnumBins != nil {
		c.EnumBins = *bin.EnumBins
	} else {
		c.EnumBins = int(math.RoundToEven(bin.BinsPerDec * (logemax - logemin)))
	}
	if c.EnumBins < 1 {
		return c.invalid("binning", "enumbins", fmt.Sprintf("energy range yields %d bins", c.EnumBins))
	}
	c.Energies = linspace(logemin, logemax, c.EnumBins+1)

	if bin.BinSz <= 0 {
		return c.invalid("binning", "binsz", "must be positive")
	}
	if bin.NPix != nil {
		c.NPix = *bin.NPix
	} else {
		c.NPix = int(math.RoundToEven(bin.ROIWidth / bin.BinSz))
	}

	if sel.Radius != nil {
		c.Radius = *sel.Radius
	} else {
		c.Radius = math.Sqrt2*0.5*float64(c.NPix)*bin.BinSz + 0.5
		sel.Radius = &c.Radius
	}

	switch bin.CoordSys {
	case CoordSysCEL:
		c.XRef, c.YRef = celestialCenter(*sel)
	case CoordSysGAL:
		c.XRef, c.YRef = galacticCenter(*sel)
	default:
		return c.invalid("binning", "coordsys", fmt.Sprintf("unrecognized coordinate system %q", bin.CoordSys))
	}
	return nil
}

// ROIWidth is the width of the binned region in degrees.
func (c *Component) ROIWidth() float64 {
	return float64(c.NPix) * c.Config.Binning.BinSz
}

// Files names the component's data products inside workdir.
func (c *Component) Files(workdir string) FileSet {
	return NewFileSet(workdir, c.FileSuffix)
}

// energyRange returns emin and emax in MeV, filling either pair from the
// other.
func energyRange(sel *SelectionConfig) (float64, float64, error) {
	pick := func(lin, log *float64) (float64, bool) {
		if lin != nil {
			return *lin, true
		}
		if log != nil {
			return math.Pow(10, *log), true
		}
		return 0, false
	}
	emin, okMin := pick(sel.EMin, sel.LogEMin)
	emax, okMax := pick(sel.EMax, sel.LogEMax)
	switch {
	case !okMin || !okMax:
		return 0, 0, fmt.Errorf("energy range is required (emin/emax or logemin/logemax)")
	case emin <= 0:
		return 0, 0, fmt.Errorf("emin must be positive, got %g", emin)
	case emax <= emin:
		return 0, 0, fmt.Errorf("emax (%g) must exceed emin (%g)", emax, emin)
	}
	return emin, emax, nil
}

func celestialCenter(sel SelectionConfig) (*float64, *float64) {
	switch {
	case sel.RA != nil && sel.Dec != nil:
		ra, dec := *sel.RA, *sel.Dec
		return &ra, &dec
	case sel.GLon != nil && sel.GLat != nil:
		ra, dec := Gal2Eq(*sel.GLon, *sel.GLat)
		return &ra, &dec
	}
	return nil, nil
}

func galacticCenter(sel SelectionConfig) (*float64, *float64) {
	switch {
	case sel.GLon != nil && sel.GLat != nil:
		l, b := *sel.GLon, *sel.GLat
		return &l, &b
	case sel.RA != nil && sel.Dec != nil:
		l, b := Eq2Gal(*sel.RA, *sel.Dec)
		return &l, &b
	}
	return nil, nil
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
