package schema

func opt(name string, def any, kind Kind, help string) Option {
	return Option{Name: name, Default: def, Help: help, Kind: kind}
}

// of sets the element kind of a list or dict option.
func (o Option) of(elem Kind) Option {
	o.Elem = elem
	return o
}

func strList(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var sections = []Section{
	{
		Name: "data",
		Help: "Options for defining input data files.",
		Options: []Option{
			opt("evfile", nil, KindString, "Path to FT1 file or list of FT1 files."),
			opt("scfile", nil, KindString, "Path to FT2 (spacecraft) file."),
			opt("ltcube", nil, KindString, "Path to livetime cube.  If none a livetime cube will be generated with ``gtmktime``."),
			opt("cacheft1", true, KindBool, "Cache FT1 files when performing binned analysis.  If false then only the counts cube is retained."),
		},
	},
	{
		Name: "binning",
		Help: "Options for binning.",
		Options: []Option{
			opt("projtype", "WCS", KindString, "Projection mode (WCS or HPX)."),
			opt("proj", "AIT", KindString, "Spatial projection for WCS mode."),
			opt("coordsys", "CEL", KindString, "Coordinate system of the spatial projection (CEL or GAL)."),
			opt("npix", nil, KindInt, "Number of pixels.  If none then this will be set from ``roiwidth`` and ``binsz``."),
			opt("roiwidth", 10.0, KindFloat, "Width of the ROI in degrees.  The number of pixels in each spatial dimension will be set from ``roiwidth`` / ``binsz`` (rounded up)."),
			opt("binsz", 0.1, KindFloat, "Spatial bin size in degrees."),
			opt("binsperdec", 8.0, KindFloat, "Number of energy bins per decade."),
			opt("enumbins", nil, KindInt, "Number of energy bins.  If none this will be inferred from energy range and ``binsperdec`` parameter."),
			opt("hpx_ordering_scheme", "RING", KindString, "HEALPix Ordering Scheme"),
			opt("hpx_order", int64(10), KindInt, "Order of the map (int between 0 and 12, included)"),
			opt("hpx_ebin", true, KindBool, "Include energy binning"),
		},
	},
	{
		Name: "selection",
		Help: "Options for data selection.",
		Options: []Option{
			opt("emin", nil, KindFloat, "Minimum Energy (MeV)"),
			opt("emax", nil, KindFloat, "Maximum Energy (MeV)"),
			opt("logemin", nil, KindFloat, "Minimum Energy (log10(MeV))"),
			opt("logemax", nil, KindFloat, "Maximum Energy (log10(MeV))"),
			opt("tmin", nil, KindInt, "Minimum time (MET)."),
			opt("tmax", nil, KindInt, "Maximum time (MET)."),
			opt("zmax", nil, KindFloat, "Maximum zenith angle."),
			opt("evclass", nil, KindInt, "Event class selection."),
			opt("evtype", nil, KindInt, "Event type selection."),
			opt("convtype", nil, KindInt, "Conversion type selection."),
			opt("phasemin", nil, KindFloat, "Minimum pulsar phase"),
			opt("phasemax", nil, KindFloat, "Maximum pulsar phase"),
			opt("target", nil, KindString, "Choose an object on which to center the ROI.  This option takes precendence over ra/dec or glon/glat."),
			opt("ra", nil, KindFloat, ""),
			opt("dec", nil, KindFloat, ""),
			opt("glat", nil, KindFloat, ""),
			opt("glon", nil, KindFloat, ""),
			opt("radius", nil, KindFloat, "Radius of data selection.  If none this will be automatically set from the ROI size."),
			opt("filter", nil, KindString, "Filter string for ``gtmktime`` selection."),
			opt("roicut", "no", KindString, ""),
		},
	},
	{
		Name: "gtlike",
		Help: "Options for configuring likelihood analysis.",
		Options: []Option{
			opt("irfs", nil, KindString, "Set the IRF string."),
			opt("edisp", true, KindBool, "Enable the correction for energy dispersion."),
			opt("edisp_disable", nil, KindList, "Provide a list of sources for which the edisp correction should be disabled.").of(KindString),
			opt("minbinsz", 0.05, KindFloat, "Set the minimum bin size used for resampling diffuse maps."),
			opt("rfactor", int64(2), KindInt, ""),
			opt("convolve", true, KindBool, ""),
			opt("resample", true, KindBool, ""),
			opt("srcmap", nil, KindString, ""),
			opt("bexpmap", nil, KindString, ""),
			opt("wmap", nil, KindString, "Likelihood weights map."),
			opt("llscan_npts", int64(20), KindInt, "Number of evaluation points to use when performing a likelihood scan."),
			opt("src_expscale", nil, KindMap, "Dictionary of exposure corrections for individual sources keyed to source name.  The exposure for a given source will be scaled by this value.  A value of 1.0 corresponds to the nominal exposure.").of(KindFloat),
			opt("expscale", nil, KindFloat, "Exposure correction that is applied to all sources in the analysis component.  This correction is superseded by `src_expscale` if it is defined for a source."),
		},
	},
	{
		Name: "model",
		Help: "Options for ROI model.",
		Options: []Option{
			opt("src_radius", nil, KindFloat, "Radius of circular selection cut for inclusion of catalog sources in the model.  Includes sources within a circle of this radius centered on the ROI.  If this parameter is none then no selection is applied.  This selection will be ORed with the ``src_roiwidth`` selection."),
			opt("src_roiwidth", nil, KindFloat, "Width of square selection cut for inclusion of catalog sources in the model.  Includes sources within a square region with side ``src_roiwidth`` centered on the ROI.  If this parameter is none then no selection is applied.  This selection will be ORed with the ``src_radius`` selection."),
			opt("src_radius_roi", nil, KindFloat, "Half-width of ``src_roiwidth`` selection.  This parameter can be used in lieu of ``src_roiwidth``."),
			opt("isodiff", nil, KindList, "Set the isotropic template.").of(KindString),
			opt("galdiff", nil, KindList, "Set the galactic IEM mapcube.").of(KindString),
			opt("limbdiff", nil, KindList, "").of(KindString),
			opt("diffuse", nil, KindList, ""),
			opt("sources", nil, KindList, "").of(KindMap),
			opt("extdir", nil, KindString, "Set a directory that will be searched for extended source FITS templates.  Template files in this directory will take precendence over catalog source templates with the same name."),
			opt("catalogs", nil, KindList, "").of(KindString),
			opt("merge_sources", true, KindBool, "Merge properties of sources that appear in multiple source catalogs.  If merge_sources=false then subsequent sources with the same name will be ignored."),
			opt("assoc_xmatch_columns", strList("3FGL_Name"), KindList, "Choose a set of association columns on which to cross-match catalogs.").of(KindString),
			opt("extract_diffuse", false, KindBool, "Extract a copy of all mapcube components centered on the ROI."),
		},
	},
	{
		Name: "optimizer",
		Help: "Options related to likelihood optimizer.",
		Options: []Option{
			opt("optimizer", "MINUIT", KindString, "Set the optimization algorithm to use when maximizing the likelihood function."),
			opt("tol", 1e-3, KindFloat, "Set the optimizer tolerance."),
			opt("max_iter", int64(100), KindInt, "Maximum number of iterations for the Newtons method fitter."),
			opt("init_lambda", 1e-4, KindFloat, "Initial value of damping parameter for step size calculation when using the NEWTON fitter.  A value of zero disables damping."),
			opt("retries", int64(3), KindInt, "Set the number of times to retry the fit when the fit quality is less than ``min_fit_quality``."),
			opt("min_fit_quality", int64(2), KindInt, "Set the minimum fit quality."),
			opt("verbosity", int64(0), KindInt, ""),
		},
	},
	{
		Name: "plotting",
		Help: "Options for plotting.",
		Options: []Option{
			opt("loge_bounds", nil, KindList, "").of(KindFloat),
			opt("catalogs", nil, KindList, "").of(KindString),
			opt("graticule_radii", nil, KindList, "Define a list of radii at which circular graticules will be drawn.").of(KindFloat),
			opt("format", "png", KindString, ""),
			opt("cmap", "ds9_b", KindString, "Set the colormap for 2D plots."),
			opt("label_ts_threshold", 0.0, KindFloat, "TS threshold for labeling sources in sky maps.  If None then no sources will be labeled."),
		},
	},
	{
		Name: "residmap",
		Help: "Options for residual maps.",
		Options: []Option{
			opt("model", nil, KindMap, "Dictionary defining the properties of the test source.  By default the test source will be a PointSource with an Index 2 power-law specturm."),
			opt("loge_bounds", nil, KindList, "Lower and upper energy bounds in log10(E/MeV).  By default the calculation will be performed over the full analysis energy range.").of(KindFloat),
		},
	},
	{
		Name: "roiopt",
		Help: "Options for ROI optimization.",
		Options: []Option{
			opt("npred_threshold", 1.0, KindFloat, ""),
			opt("npred_frac", 0.95, KindFloat, ""),
			opt("shape_ts_threshold", 25.0, KindFloat, "Threshold on source TS used for determining the sources that will be fit in the third optimization step."),
			opt("max_free_sources", int64(5), KindInt, "Maximum number of sources that will be fit simultaneously in the first optimization step."),
			opt("skip", nil, KindList, "List of str source names to skip while optimizing.").of(KindString),
		},
	},
	{
		Name: "sed",
		Help: "Options for SED analysis.",
		Options: []Option{
			opt("bin_index", 2.0, KindFloat, "Spectral index that will be use when fitting the energy distribution within an energy bin."),
			opt("use_local_index", false, KindBool, "Use a power-law approximation to the shape of the global spectrum in each bin.  If this is false then a constant index set to `bin_index` will be used."),
			opt("fix_background", true, KindBool, "Fix background normalization parameters when fitting the source flux in each energy bin.  If True background normalizations will be profiled with a prior on their value with strength set by ``cov_scale``."),
			opt("ul_confidence", 0.95, KindFloat, "Confidence level for upper limit calculation."),
			opt("cov_scale", 3.0, KindFloat, "Scale factor that sets the strength of the prior on nuisance parameters when ``fix_background``=True.  Setting this to None disables the prior."),
		},
	},
	{
		Name: "sourcefind",
		Help: "Options for the source finder.",
		Options: []Option{
			opt("model", nil, KindMap, "Set the source model dictionary.  By default the test source will be a PointSource with an Index 2 power-law specturm."),
			opt("min_separation", 1.0, KindFloat, "Set the minimum separation in deg for sources added in each iteration."),
			opt("sqrt_ts_threshold", 5.0, KindFloat, "Set the threshold on sqrt(TS)."),
			opt("max_iter", int64(3), KindInt, "Set the number of search iterations."),
			opt("sources_per_iter", int64(3), KindInt, ""),
			opt("tsmap_fitter", "tsmap", KindString, "Set the method for generating the TS map."),
		},
	},
	{
		Name: "tsmap",
		Help: "Options for TS maps.",
		Options: []Option{
			opt("model", nil, KindMap, "Dictionary defining the properties of the test source."),
			opt("multithread", false, KindBool, "Split the TS map calculation across multiple cores."),
			opt("max_kernel_radius", 3.0, KindFloat, ""),
			opt("loge_bounds", nil, KindList, "Lower and upper energy bounds in log10(E/MeV).  By default the calculation will be performed over the full analysis energy range.").of(KindFloat),
		},
	},
	{
		Name: "tscube",
		Help: "Options for TS cubes.",
		Options: []Option{
			opt("model", nil, KindMap, "Dictionary defining the properties of the test source.  By default the test source will be a PointSource with an Index 2 power-law specturm."),
			opt("do_sed", true, KindBool, "Compute the energy bin-by-bin fits"),
			opt("nnorm", int64(10), KindInt, "Number of points in the likelihood v. normalization scan"),
			opt("norm_sigma", 5.0, KindFloat, "Number of sigma to use for the scan range "),
			opt("cov_scale_bb", -1.0, KindFloat, "Scale factor to apply to global fitting cov. matrix in broadband fits. ( < 0 -> no prior ) "),
			opt("cov_scale", -1.0, KindFloat, "Scale factor to apply to broadband fitting cov. matrix in bin-by-bin fits ( < 0 -> fixed ) "),
			opt("tol", 1e-3, KindFloat, "Critetia for fit convergence (estimated vertical distance to min < tol )"),
			opt("max_iter", int64(30), KindInt, "Maximum number of iterations for the Newtons method fitter."),
			opt("tol_type", int64(0), KindInt, "Absoulte (0) or relative (1) criteria for convergence."),
			opt("remake_test_source", false, KindBool, "If true, recomputes the test source image (otherwise just shifts it)"),
			opt("st_scan_level", int64(0), KindInt, "Level to which to do ST-based fitting (for testing)"),
			opt("init_lambda", 0.0, KindFloat, "Initial value of damping parameter for newton step size calculation."),
		},
	},
	{
		Name: "fileio",
		Help: "Options related to I/O and output file bookkeeping.",
		Options: []Option{
			opt("outdir", nil, KindString, "Path of the output directory.  If none this will default to the directory containing the configuration file."),
			opt("scratchdir", "/scratch", KindString, "Path to the scratch directory.  If ``usescratch`` is True then a temporary working directory will be created under this directory."),
			opt("workdir", nil, KindString, "Path to the working directory."),
			opt("logfile", nil, KindString, "Path to log file.  If None then log will be written to fermipy.log."),
			opt("savefits", true, KindBool, "Save intermediate FITS files."),
			opt("workdir_regex", strList(`\.fits$|\.fit$|\.xml$|\.npy$`), KindList, "Stage files to the working directory that match at least one of the regular expressions in this list.  This option only takes effect when ``usescratch`` is True.").of(KindString),
			opt("outdir_regex", strList(`\.fits$|\.fit$|\.xml$|\.npy$|\.png$|\.pdf$|\.yaml$`), KindList, "Stage files to the output directory that match at least one of the regular expressions in this list.  This option only takes effect when ``usescratch`` is True.").of(KindString),
			opt("usescratch", false, KindBool, "Run analysis in a temporary working directory under ``scratchdir``."),
		},
	},
	{
		Name: "extension",
		Help: "Options for extension analysis.",
		Options: []Option{
			opt("spatial_model", "RadialGaussian", KindString, "Spatial model use for extension test."),
			opt("width", nil, KindList, "Parameter vector for scan over spatial extent.  If none then the parameter vector will be set from ``width_min``, ``width_max``, and ``width_nstep``.").of(KindFloat),
			opt("width_min", 0.01, KindFloat, "Minimum value in degrees for the likelihood scan over spatial extent."),
			opt("width_max", 1.0, KindFloat, "Maximum value in degrees for the likelihood scan over spatial extent."),
			opt("width_nstep", int64(21), KindInt, "Number of steps for the spatial likelihood scan."),
			opt("fix_background", false, KindBool, "Fix any background parameters that are currently free in the model when performing the likelihood scan over extension."),
			opt("update", false, KindBool, "Update the source model with the best-fit spatial extension."),
			opt("save_model_map", false, KindBool, "Save model counts cubes for the best-fit model of extension."),
			opt("sqrt_ts_threshold", nil, KindFloat, "Threshold on sqrt(TS_ext) that will be applied when ``update`` is True.  If None then no threshold is applied."),
			opt("psf_scale_fn", nil, KindTuple, "Tuple of vectors (logE,f) defining an energy-dependent PSF scaling function that will be applied when building spatial models for the source of interest.  The tuple (logE,f) defines the fractional corrections f at the sequence of energies logE = log10(E/MeV) where f=0 means no correction.  The correction function f(E) is evaluated by linearly interpolating the fractional correction factors f in log(E).  The corrected PSF is given by P'(x;E) = P(x/(1+f(E));E) where x is the angular separation."),
		},
	},
	{
		Name: "localize",
		Help: "Options for localization analysis.",
		Options: []Option{
			opt("nstep", int64(5), KindInt, "Number of steps along each spatial dimension in the refined likelihood scan."),
			opt("dtheta_max", 0.3, KindFloat, "Half-width of the search region in degrees used for the first pass of the localization search."),
			opt("fix_background", true, KindBool, "Fix background parameters when fitting the source flux in each energy bin."),
			opt("update", false, KindBool, "Update the source model with the best-fit position."),
		},
	},
	{
		Name: "logging",
		Help: "Options for logging.",
		Options: []Option{
			opt("chatter", int64(3), KindInt, "Set the chatter parameter of the STs."),
			opt("verbosity", int64(3), KindInt, ""),
		},
	},
	{
		Name: "mc",
		Help: "Options for simulations.",
		Options: []Option{
			opt("seed", nil, KindInt, ""),
		},
	},
}
