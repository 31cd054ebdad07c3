package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

// Config is the typed view of a resolved configuration. Options without a
// default are pointers and stay nil until set.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Binning    BinningConfig    `yaml:"binning"`
	Selection  SelectionConfig  `yaml:"selection"`
	GTLike     GTLikeConfig     `yaml:"gtlike"`
	Model      ModelConfig      `yaml:"model"`
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Plotting   PlottingConfig   `yaml:"plotting"`
	Residmap   ResidmapConfig   `yaml:"residmap"`
	ROIOpt     ROIOptConfig     `yaml:"roiopt"`
	SED        SEDConfig        `yaml:"sed"`
	Sourcefind SourcefindConfig `yaml:"sourcefind"`
	TSMap      TSMapConfig      `yaml:"tsmap"`
	TSCube     TSCubeConfig     `yaml:"tscube"`
	FileIO     FileIOConfig     `yaml:"fileio"`
	Extension  ExtensionConfig  `yaml:"extension"`
	Localize   LocalizeConfig   `yaml:"localize"`
	Logging    LoggingConfig    `yaml:"logging"`
	MC         MCConfig         `yaml:"mc"`
}

type DataConfig struct {
	EvFile   *string `yaml:"evfile"`
	SCFile   *string `yaml:"scfile"`
	LTCube   *string `yaml:"ltcube"`
	CacheFT1 bool    `yaml:"cacheft1"`
}

type BinningConfig struct {
	ProjType          string  `yaml:"projtype"`
	Proj              string  `yaml:"proj"`
	CoordSys          string  `yaml:"coordsys"`
	NPix              *int    `yaml:"npix"`
	ROIWidth          float64 `yaml:"roiwidth"`
	BinSz             float64 `yaml:"binsz"`
	BinsPerDec        float64 `yaml:"binsperdec"`
	EnumBins          *int    `yaml:"enumbins"`
	HPXOrderingScheme string  `yaml:"hpx_ordering_scheme"`
	HPXOrder          int     `yaml:"hpx_order"`
	HPXEbin           bool    `yaml:"hpx_ebin"`
}

type SelectionConfig struct {
	EMin     *float64 `yaml:"emin"`
	EMax     *float64 `yaml:"emax"`
	LogEMin  *float64 `yaml:"logemin"`
	LogEMax  *float64 `yaml:"logemax"`
	TMin     *int64   `yaml:"tmin"`
	TMax     *int64   `yaml:"tmax"`
	ZMax     *float64 `yaml:"zmax"`
	EvClass  *int     `yaml:"evclass"`
	EvType   *int     `yaml:"evtype"`
	ConvType *int     `yaml:"convtype"`
	PhaseMin *float64 `yaml:"phasemin"`
	PhaseMax *float64 `yaml:"phasemax"`
	Target   *string  `yaml:"target"`
	RA       *float64 `yaml:"ra"`
	Dec      *float64 `yaml:"dec"`
	GLat     *float64 `yaml:"glat"`
	GLon     *float64 `yaml:"glon"`
	Radius   *float64 `yaml:"radius"`
	Filter   *string  `yaml:"filter"`
	ROICut   string   `yaml:"roicut"`
}

type GTLikeConfig struct {
	IRFs         *string            `yaml:"irfs"`
	EDisp        bool               `yaml:"edisp"`
	EDispDisable []string           `yaml:"edisp_disable"`
	MinBinSz     float64            `yaml:"minbinsz"`
	RFactor      int                `yaml:"rfactor"`
	Convolve     bool               `yaml:"convolve"`
	Resample     bool               `yaml:"resample"`
	SrcMap       *string            `yaml:"srcmap"`
	BExpMap      *string            `yaml:"bexpmap"`
	WMap         *string            `yaml:"wmap"`
	LLScanNPts   int                `yaml:"llscan_npts"`
	SrcExpScale  map[string]float64 `yaml:"src_expscale"`
	ExpScale     *float64           `yaml:"expscale"`
}

type ModelConfig struct {
	SrcRadius          *float64         `yaml:"src_radius"`
	SrcROIWidth        *float64         `yaml:"src_roiwidth"`
	SrcRadiusROI       *float64         `yaml:"src_radius_roi"`
	IsoDiff            []string         `yaml:"isodiff"`
	GalDiff            []string         `yaml:"galdiff"`
	LimbDiff           []string         `yaml:"limbdiff"`
	Diffuse            []any            `yaml:"diffuse"`
	Sources            []map[string]any `yaml:"sources"`
	ExtDir             *string          `yaml:"extdir"`
	Catalogs           []string         `yaml:"catalogs"`
	MergeSources       bool             `yaml:"merge_sources"`
	AssocXMatchColumns []string         `yaml:"assoc_xmatch_columns"`
	ExtractDiffuse     bool             `yaml:"extract_diffuse"`
}

type OptimizerConfig struct {
	Optimizer     string  `yaml:"optimizer"`
	Tol           float64 `yaml:"tol"`
	MaxIter       int     `yaml:"max_iter"`
	InitLambda    float64 `yaml:"init_lambda"`
	Retries       int     `yaml:"retries"`
	MinFitQuality int     `yaml:"min_fit_quality"`
	Verbosity     int     `yaml:"verbosity"`
}

type PlottingConfig struct {
	LogEBounds       []float64 `yaml:"loge_bounds"`
	Catalogs         []string  `yaml:"catalogs"`
	GraticuleRadii   []float64 `yaml:"graticule_radii"`
	Format           string    `yaml:"format"`
	CMap             string    `yaml:"cmap"`
	LabelTSThreshold float64   `yaml:"label_ts_threshold"`
}

type ResidmapConfig struct {
	Model      map[string]any `yaml:"model"`
	LogEBounds []float64      `yaml:"loge_bounds"`
}

type ROIOptConfig struct {
	NPredThreshold   float64  `yaml:"npred_threshold"`
	NPredFrac        float64  `yaml:"npred_frac"`
	ShapeTSThreshold float64  `yaml:"shape_ts_threshold"`
	MaxFreeSources   int      `yaml:"max_free_sources"`
	Skip             []string `yaml:"skip"`
}

type SEDConfig struct {
	BinIndex      float64  `yaml:"bin_index"`
	UseLocalIndex bool     `yaml:"use_local_index"`
	FixBackground bool     `yaml:"fix_background"`
	ULConfidence  float64  `yaml:"ul_confidence"`
	CovScale      *float64 `yaml:"cov_scale"`
}

type SourcefindConfig struct {
	Model           map[string]any `yaml:"model"`
	MinSeparation   float64        `yaml:"min_separation"`
	SqrtTSThreshold float64        `yaml:"sqrt_ts_threshold"`
	MaxIter         int            `yaml:"max_iter"`
	SourcesPerIter  int            `yaml:"sources_per_iter"`
	TSMapFitter     string         `yaml:"tsmap_fitter"`
}

type TSMapConfig struct {
	Model           map[string]any `yaml:"model"`
	Multithread     bool           `yaml:"multithread"`
	MaxKernelRadius float64        `yaml:"max_kernel_radius"`
	LogEBounds      []float64      `yaml:"loge_bounds"`
}

type TSCubeConfig struct {
	Model            map[string]any `yaml:"model"`
	DoSED            bool           `yaml:"do_sed"`
	NNorm            int            `yaml:"nnorm"`
	NormSigma        float64        `yaml:"norm_sigma"`
	CovScaleBB       float64        `yaml:"cov_scale_bb"`
	CovScale         float64        `yaml:"cov_scale"`
	Tol              float64        `yaml:"tol"`
	MaxIter          int            `yaml:"max_iter"`
	TolType          int            `yaml:"tol_type"`
	RemakeTestSource bool           `yaml:"remake_test_source"`
	STScanLevel      int            `yaml:"st_scan_level"`
	InitLambda       float64        `yaml:"init_lambda"`
}

type FileIOConfig struct {
	OutDir       *string  `yaml:"outdir"`
	ScratchDir   string   `yaml:"scratchdir"`
	WorkDir      *string  `yaml:"workdir"`
	LogFile      *string  `yaml:"logfile"`
	SaveFITS     bool     `yaml:"savefits"`
	WorkDirRegex []string `yaml:"workdir_regex"`
	OutDirRegex  []string `yaml:"outdir_regex"`
	UseScratch   bool     `yaml:"usescratch"`
}

type ExtensionConfig struct {
	SpatialModel    string    `yaml:"spatial_model"`
	Width           []float64 `yaml:"width"`
	WidthMin        float64   `yaml:"width_min"`
	WidthMax        float64   `yaml:"width_max"`
	WidthNStep      int       `yaml:"width_nstep"`
	FixBackground   bool      `yaml:"fix_background"`
	Update          bool      `yaml:"update"`
	SaveModelMap    bool      `yaml:"save_model_map"`
	SqrtTSThreshold *float64  `yaml:"sqrt_ts_threshold"`
	PSFScaleFn      []any     `yaml:"psf_scale_fn"`
}

type LocalizeConfig struct {
	NStep         int     `yaml:"nstep"`
	DThetaMax     float64 `yaml:"dtheta_max"`
	FixBackground bool    `yaml:"fix_background"`
	Update        bool    `yaml:"update"`
}

type LoggingConfig struct {
	Chatter   int `yaml:"chatter"`
	Verbosity int `yaml:"verbosity"`
}

type MCConfig struct {
	Seed *int64 `yaml:"seed"`
}

// Decode converts a resolved mapping into a Config. The components section,
// if present, is ignored. Sections and keys without a typed field, and values
// that do not fit their field, are reported as *resolve.ValidationError.
func Decode(m tree.Mapping) (Config, error) {
	var cfg Config
	rv := reflect.ValueOf(&cfg).Elem()
	fields := make(map[string]int, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		fields[rv.Type().Field(i).Tag.Get("yaml")] = i
	}

	for _, name := range m.Without(schema.ComponentsKey).Keys() {
		i, ok := fields[name]
		if !ok {
			return Config{}, &resolve.ValidationError{Section: name, Reason: "unknown section"}
		}
		dst := rv.Field(i).Addr().Interface()
		if err := decodeInto(m[name], dst); err != nil {
			return Config{}, sectionError(name, m[name], rv.Field(i).Type(), err)
		}
	}
	return cfg, nil
}

// decodeInto round-trips v through YAML into dst, rejecting unknown keys.
func decodeInto(v any, dst any) error {
	if mm, ok := v.(tree.Mapping); ok {
		v = map[string]any(mm)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// sectionError narrows a decode failure of a section down to the first key
// that fails on its own.
func sectionError(section string, value any, typ reflect.Type, err error) error {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return fmt.Errorf("decoding section %s: %w", section, err)
	}
	body, ok := value.(tree.Mapping)
	if !ok {
		return &resolve.ValidationError{Section: section, Reason: typeErrorReason(te)}
	}
	for _, key := range body.Keys() {
		kerr := decodeInto(tree.Mapping{key: body[key]}, reflect.New(typ).Interface())
		if errors.As(kerr, &te) {
			return &resolve.ValidationError{Section: section, Key: key, Reason: typeErrorReason(te)}
		}
	}
	return &resolve.ValidationError{Section: section, Reason: typeErrorReason(te)}
}

// typeErrorReason drops the line prefix of the first yaml error, since the
// lines refer to a re-encoded document.
func typeErrorReason(te *yaml.TypeError) string {
	if len(te.Errors) == 0 {
		return "invalid value"
	}
	msg := te.Errors[0]
	if strings.HasPrefix(msg, "line ") {
		if _, rest, ok := strings.Cut(msg, ": "); ok {
			msg = rest
		}
	}
	return msg
}
