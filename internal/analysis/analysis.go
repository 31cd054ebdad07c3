package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/fermicfg/internal/fileio"
	"github.com/dshills/fermicfg/internal/resolve"
)

// Dirs are the directories an analysis reads from and writes to.
type Dirs struct {
	OutDir  string `json:"outdir" yaml:"outdir"`
	WorkDir string `json:"workdir" yaml:"workdir"`
	LogFile string `json:"logfile" yaml:"logfile"`
	// Scratch is true when WorkDir is a temporary directory under the
	// configured scratch directory.
	Scratch bool `json:"scratch" yaml:"scratch"`
}

// Analysis aggregates the components of a resolved configuration.
type Analysis struct {
	Config     Config
	Components []*Component
	Dirs       Dirs

	// Energies is the sorted union of the component bin edges.
	Energies []float64
	ROIWidth float64
	BinSz    float64
	NPix     int

	log *zap.Logger
}

// New builds an Analysis from a resolution. Output directories are planned
// relative to the directory of res.Source (or the current directory for
// in-memory input) but nothing is created until Setup.
func New(res *resolve.Resolution, logger *zap.Logger) (*Analysis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := Decode(res.Root)
	if err != nil {
		return nil, err
	}
	dirs, err := PlanDirs(cfg.FileIO, res.Source)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Config: cfg, Dirs: dirs, log: logger}
	for _, r := range res.Components {
		c, err := NewComponent(r)
		if err != nil {
			return nil, err
		}
		logger.Debug("derived component binning",
			zap.String("name", c.Name),
			zap.Int("enumbins", c.EnumBins),
			zap.Int("npix", c.NPix),
			zap.Float64("radius", c.Radius))
		a.Components = append(a.Components, c)
	}
	if len(a.Components) == 0 {
		return nil, errors.New("analysis has no components")
	}
	a.aggregate()
	return a, nil
}

func (a *Analysis) aggregate() {
	seen := map[float64]bool{}
	a.BinSz = math.Inf(1)
	for _, c := range a.Components {
		for _, e := range c.Energies {
			r := roundTo(e, 5)
			if !seen[r] {
				seen[r] = true
				a.Energies = append(a.Energies, r)
			}
		}
		a.ROIWidth = math.Max(a.ROIWidth, c.ROIWidth())
		a.BinSz = math.Min(a.BinSz, c.Config.Binning.BinSz)
	}
	sort.Float64s(a.Energies)
	a.NPix = int(math.RoundToEven(a.ROIWidth / a.BinSz))
}

// EnumBins is the number of bins spanned by the union of component edges.
func (a *Analysis) EnumBins() int {
	return len(a.Energies) - 1
}

// Component returns the component called name.
func (a *Analysis) Component(name string) (*Component, bool) {
	for _, c := range a.Components {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Files names every component's data products in the working directory.
func (a *Analysis) Files() map[string]FileSet {
	out := make(map[string]FileSet, len(a.Components))
	for _, c := range a.Components {
		out[c.Name] = c.Files(a.Dirs.WorkDir)
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

// PlanDirs computes the output directory, log file and (non-scratch) working
// directory. A relative outdir is taken relative to the directory holding
// the configuration file; without an outdir that directory is used.
func PlanDirs(fio FileIOConfig, configPath string) (Dirs, error) {
	base := "."
	if configPath != "" {
		base = filepath.Dir(configPath)
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return Dirs{}, fmt.Errorf("resolving configuration directory: %w", err)
	}

	outdir := base
	if fio.OutDir != nil && *fio.OutDir != "" {
		outdir, err = fileio.ResolvePath(*fio.OutDir, base)
		if err != nil {
			return Dirs{}, err
		}
	}

	logfile := filepath.Join(outdir, "fermipy")
	if fio.LogFile != nil && *fio.LogFile != "" {
		logfile, err = fileio.ResolvePath(*fio.LogFile, outdir)
		if err != nil {
			return Dirs{}, err
		}
	}

	return Dirs{OutDir: outdir, WorkDir: outdir, LogFile: logfile}, nil
}

// Setup creates the output directory and, for scratch analyses, a temporary
// working directory under fileio.scratchdir which is then populated with
// StageInput.
func (a *Analysis) Setup(ctx context.Context) error {
	if err := os.MkdirAll(a.Dirs.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if !a.Config.FileIO.UseScratch {
		a.Dirs.WorkDir = a.Dirs.OutDir
		return nil
	}

	scratch := fileio.ExpandPath(a.Config.FileIO.ScratchDir)
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	workdir, err := os.MkdirTemp(scratch, username()+".")
	if err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}
	a.Dirs.WorkDir = workdir
	a.Dirs.Scratch = true
	a.log.Info("created working directory", zap.String("path", workdir))
	return a.StageInput(ctx)
}

// StageInput copies files matching fileio.workdir_regex from the output
// directory into the working directory.
func (a *Analysis) StageInput(ctx context.Context) error {
	include, err := fileio.CompilePatterns(a.Config.FileIO.WorkDirRegex)
	if err != nil {
		return fmt.Errorf("fileio.workdir_regex: %w", err)
	}
	_, err = fileio.Stage(ctx, a.Dirs.OutDir, a.Dirs.WorkDir, fileio.StageOptions{Include: include, Logger: a.log})
	return err
}

// fitsPattern matches FITS products, which are kept in the working directory
// unless fileio.savefits is set.
var fitsPattern = regexp.MustCompile(`\.fits$|\.fit$`)

// UseWorkDir points the analysis at a scratch working directory made by an
// earlier Setup so that StageOutput and Cleanup can act on it. The directory
// must exist strictly inside fileio.scratchdir.
func (a *Analysis) UseWorkDir(dir string) error {
	if !a.Config.FileIO.UseScratch {
		return errors.New("fileio.usescratch is not set; the analysis works in its output directory")
	}
	abs, err := filepath.Abs(fileio.ExpandPath(dir))
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	scratch, err := filepath.Abs(fileio.ExpandPath(a.Config.FileIO.ScratchDir))
	if err != nil {
		return fmt.Errorf("resolving scratch directory: %w", err)
	}
	rel, err := filepath.Rel(scratch, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("working directory %s is not inside scratch directory %s", abs, scratch)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %s is not a directory", abs)
	}
	a.Dirs.WorkDir = abs
	a.Dirs.Scratch = true
	return nil
}

// StageOutput copies files matching fileio.outdir_regex from the working
// directory back to the output directory.
func (a *Analysis) StageOutput(ctx context.Context) error {
	include, err := fileio.CompilePatterns(a.Config.FileIO.OutDirRegex)
	if err != nil {
		return fmt.Errorf("fileio.outdir_regex: %w", err)
	}
	var exclude []*regexp.Regexp
	if !a.Config.FileIO.SaveFITS {
		exclude = []*regexp.Regexp{fitsPattern}
	}
	if _, err := os.Stat(a.Dirs.WorkDir); err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	_, err = fileio.Stage(ctx, a.Dirs.WorkDir, a.Dirs.OutDir, fileio.StageOptions{Include: include, Exclude: exclude, Logger: a.log})
	return err
}

// Cleanup removes a scratch working directory. It is a no-op when the
// analysis works in its output directory.
func (a *Analysis) Cleanup() error {
	if a.Dirs.WorkDir == a.Dirs.OutDir {
		return nil
	}
	a.log.Info("deleting working directory", zap.String("path", a.Dirs.WorkDir))
	if err := os.RemoveAll(a.Dirs.WorkDir); err != nil {
		return fmt.Errorf("removing working directory: %w", err)
	}
	return nil
}

func username() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	return "fermicfg"
}
