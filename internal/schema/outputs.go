package schema

import "fmt"

// Unit strings used in the output field descriptions.
const (
	diffFluxUnit   = ":math:`\\mathrm{cm}^{-2}~\\mathrm{s}^{-1}~\\mathrm{MeV}^{-1}`"
	fluxUnit       = ":math:`\\mathrm{cm}^{-2}~\\mathrm{s}^{-1}`"
	energyFluxUnit = ":math:`\\mathrm{MeV}~\\mathrm{cm}^{-2}~\\mathrm{s}^{-1}`"
)

// Field describes one key of an output record written by the pipeline.
type Field struct {
	Name    string
	Default string
	Type    string
	Help    string
}

// Table is an ordered output record layout.
type Table struct {
	Name   string
	Help   string
	Fields []Field
}

// Outputs returns every documented output table.
func Outputs() []Table {
	out := make([]Table, len(outputs))
	copy(out, outputs)
	return out
}

// LookupOutput returns the output table called name.
func LookupOutput(name string) (Table, bool) {
	for _, t := range outputs {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

const ndarray = "`~numpy.ndarray`"

func arr(name, help string) Field {
	return Field{Name: name, Default: "None", Type: ndarray, Help: help}
}

func nanFloat(name, help string) Field {
	return Field{Name: name, Default: "nan", Type: "float", Help: help}
}

func pair(name, help string) Field {
	return Field{Name: name, Default: "[nan, nan]", Type: ndarray, Help: help}
}

func dict(name, help string) Field {
	return Field{Name: name, Default: "None", Type: "dict", Help: help}
}

func str(name, help string) Field {
	return Field{Name: name, Default: "None", Type: "str", Help: help}
}

// thresholdFields expands a quantity over the pivot energy and the 100 MeV,
// 1 GeV and 10 GeV thresholds.
func thresholdFields(prefix, suffix string, mk func(name, help string) Field, helpFmt string, ranges [4]string) []Field {
	thresholds := [4]string{"", "100", "1000", "10000"}
	out := make([]Field, 0, len(thresholds))
	for i, e := range thresholds {
		out = append(out, mk(prefix+e+suffix, fmt.Sprintf(helpFmt, ranges[i])))
	}
	return out
}

var integratedRanges = [4]string{
	"over analysis energy range",
	"from 100 MeV to 316 GeV.",
	"from 1 GeV to 316 GeV.",
	"from 10 GeV to 316 GeV.",
}

var pointRanges = [4]string{
	"at the pivot energy.",
	"at 100 MeV.",
	"at 1 GeV.",
	"at 10 GeV.",
}

func sourceFields() []Field {
	fields := []Field{
		str("name", "Name of the source."),
		str("Source_Name", "Name of the source."),
		str("SpatialModel", "Spatial model."),
		{Name: "SpatialWidth", Default: "None", Type: "float", Help: "Spatial size parameter."},
		str("SpatialType", "Spatial type string.  This corresponds to the type attribute of the spatialModel component in the XML model."),
		str("SourceType", "Source type string (PointSource or DiffuseSource)."),
		str("SpectrumType", "Spectrum type string.  This corresponds to the type attribute of the spectrum component in the XML model (e.g. PowerLaw, LogParabola, etc.)."),
		str("Spatial_Filename", "Path to spatial template associated to this source."),
		str("Spectrum_Filename", "Path to file associated to the spectral model of this source."),
		nanFloat("ra", "Right ascension of the source in deg."),
		nanFloat("dec", "Declination of the source in deg."),
		nanFloat("glon", "Galactic Longitude of the source in deg."),
		nanFloat("glat", "Galactic Latitude of the source in deg."),
		nanFloat("offset_ra", "Angular offset from ROI center along RA."),
		nanFloat("offset_dec", "Angular offset from ROI center along DEC"),
		nanFloat("offset_glon", "Angular offset from ROI center along GLON."),
		nanFloat("offset_glat", "Angular offset from ROI center along GLAT."),
		nanFloat("offset_roi_edge", "Distance from the edge of the ROI in deg.  Negative (positive) values indicate locations inside (outside) the ROI."),
		nanFloat("offset", "Angular offset from ROI center."),
		nanFloat("pos_sigma", "1-sigma uncertainty (deg) on the source position."),
		nanFloat("pos_sigma_semimajor", "1-sigma uncertainty (deg) on the source position along major axis."),
		nanFloat("pos_sigma_semiminor", "1-sigma uncertainty (deg) on the source position along minor axis."),
		nanFloat("pos_angle", "Position angle (deg) of the positional uncertainty ellipse."),
		nanFloat("pos_r68", "68% uncertainty (deg) on the source position."),
		nanFloat("pos_r95", "95% uncertainty (deg) on the source position."),
		nanFloat("pos_r99", "99% uncertainty (deg) on the source position."),
		nanFloat("ts", "Source test statistic."),
		nanFloat("loglike", "Log-likelihood of the model evaluated at the best-fit normalization of the source."),
		{Name: "dloglike_scan", Default: "[nan]", Type: ndarray, Help: "Delta Log-likelihood values for likelihood scan of source normalization."},
		{Name: "eflux_scan", Default: "[nan]", Type: ndarray, Help: "Energy flux values for likelihood scan of source normalization."},
		{Name: "flux_scan", Default: "[nan]", Type: ndarray, Help: "Flux values for likelihood scan of source normalization."},
		nanFloat("npred", "Number of predicted counts from this source integrated over the analysis energy range."),
		dict("params", "Dictionary of spectral parameters."),
		{Name: "correlation", Default: "{}", Type: "dict", Help: "Dictionary of correlation coefficients."},
		arr("model_counts", "Vector of predicted counts for this source in each analysis energy bin."),
		dict("sed", "Output of SED analysis.  See :ref:`sed` for more information."),
		dict("extension", "Output of extension analysis.  See :ref:`extension` for more information."),
		dict("localize", "Output of localization analysis.  See :ref:`localization` for more information."),
		nanFloat("pivot_energy", "Decorrelation energy in MeV."),
	}
	fields = append(fields, thresholdFields("flux", "", pair, "Photon flux and uncertainty ("+fluxUnit+") integrated %s", integratedRanges)...)
	fields = append(fields, thresholdFields("flux", "_ul95", nanFloat, "95% CL upper limit on the photon flux ("+fluxUnit+") integrated %s", integratedRanges)...)
	fields = append(fields, thresholdFields("eflux", "", pair, "Energy flux and uncertainty ("+energyFluxUnit+") integrated %s", integratedRanges)...)
	fields = append(fields, thresholdFields("eflux", "_ul95", nanFloat, "95% CL upper limit on the energy flux ("+energyFluxUnit+") integrated %s", integratedRanges)...)
	fields = append(fields, thresholdFields("dfde", "", pair, "Differential photon flux and uncertainty ("+diffFluxUnit+") evaluated %s", pointRanges)...)
	fields = append(fields, thresholdFields("dfde", "_index", pair, "Logarithmic slope of the differential photon spectrum evaluated %s", pointRanges)...)
	fields = append(fields, thresholdFields("e2dfde", "", pair, "E^2 times the differential photon flux and uncertainty ("+energyFluxUnit+") evaluated %s", pointRanges)...)
	return fields
}

var outputs = []Table{
	{
		Name:   "source_output",
		Help:   "Source dictionary.",
		Fields: sourceFields(),
	},
	{
		Name: "sed_output",
		Help: "Output for SED analysis.",
		Fields: []Field{
			arr("logemin", "Lower edges of SED energy bins (log10(E/MeV))."),
			arr("logemax", "Upper edges of SED energy bins (log10(E/MeV))."),
			arr("logectr", "Centers of SED energy bins (log10(E/MeV))."),
			arr("emin", "Lower edges of SED energy bins (MeV)."),
			arr("emax", "Upper edges of SED energy bins (MeV)."),
			arr("ectr", "Centers of SED energy bins (MeV)."),
			arr("ref_flux", "Flux of the reference model in each bin ("+fluxUnit+")."),
			arr("ref_eflux", "Energy flux of the reference model in each bin ("+energyFluxUnit+")."),
			arr("ref_dfde", "Differential flux of the reference model evaluated at the bin center ("+diffFluxUnit+")"),
			arr("ref_dfde_emin", "Differential flux of the reference model evaluated at the lower bin edge ("+diffFluxUnit+")"),
			arr("ref_dfde_emax", "Differential flux of the reference model evaluated at the upper bin edge ("+diffFluxUnit+")"),
			arr("ref_e2dfde", "E^2 x the differential flux of the reference model evaluated at the bin center ("+energyFluxUnit+")"),
			arr("ref_npred", "Number of predicted counts in the reference model in each bin."),
			arr("norm", "Normalization in each bin in units of the reference model."),
			arr("flux", "Flux in each bin ("+fluxUnit+")."),
			arr("eflux", "Energy flux in each bin ("+energyFluxUnit+")."),
			arr("dfde", "Differential flux in each bin ("+diffFluxUnit+")."),
			arr("e2dfde", "E^2 x the differential flux in each bin ("+energyFluxUnit+")."),
			arr("dfde_err", "1-sigma error on dfde evaluated from likelihood curvature."),
			arr("dfde_err_lo", "Lower 1-sigma error on dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("dfde_err_hi", "Upper 1-sigma error on dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("dfde_ul95", "95% CL upper limit on dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("dfde_ul", "Upper limit on dfde evaluated from the profile likelihood using a CL = ``ul_confidence``."),
			arr("e2dfde_err", "1-sigma error on e2dfde evaluated from likelihood curvature."),
			arr("e2dfde_err_lo", "Lower 1-sigma error on e2dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("e2dfde_err_hi", "Upper 1-sigma error on e2dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("e2dfde_ul95", "95% CL upper limit on e2dfde evaluated from the profile likelihood (MINOS errors)."),
			arr("e2dfde_ul", "Upper limit on e2dfde evaluated from the profile likelihood using a CL = ``ul_confidence``."),
			arr("ts", "Test statistic."),
			arr("loglike", "Log-likelihood of model for the best-fit amplitude."),
			arr("npred", "Number of model counts."),
			arr("fit_quality", "Fit quality parameter for MINUIT and NEWMINUIT optimizers (3 - Full accurate covariance matrix, 2 - Full matrix, but forced positive-definite (i.e. not accurate), 1 - Diagonal approximation only, not accurate, 0 - Error matrix not calculated at all)."),
			arr("fit_status", "Fit status parameter (0=ok)."),
			arr("index", "Spectral index of the power-law model used to fit this bin."),
			dict("lnlprofile", "Likelihood scan for each energy bin."),
			arr("norm_scan", "Array of NxM normalization values for the profile likelihood scan in N energy bins and M scan points.  A row-wise multiplication with any of ``ref`` columns can be used to convert this matrix to the respective unit."),
			arr("dloglike_scan", "Array of NxM delta-loglikelihood values for the profile likelihood scan in N energy bins and M scan points."),
			arr("loglike_scan", "Array of NxM loglikelihood values for the profile likelihood scan in N energy bins and M scan points."),
			dict("params", "Dictionary of best-fit spectral parameters with 1-sigma uncertainties."),
			arr("param_covariance", "Covariance matrix for the best-fit spectral parameters of the source."),
			arr("param_names", "Array of names for the parameters in the global spectral parameterization of this source."),
			arr("param_values", "Array of parameter values."),
			arr("param_errors", "Array of parameter errors."),
			dict("model_flux", "Dictionary containing the differential flux uncertainty band of the best-fit global spectral parameterization for the source."),
			dict("config", "Copy of input configuration to this method."),
		},
	},
	{
		Name: "extension_output",
		Help: "Output for extension analysis.",
		Fields: []Field{
			arr("width", "Vector of width values."),
			arr("dloglike", "Sequence of delta-log-likelihood values for each point in the profile likelihood scan."),
			arr("loglike", "Sequence of likelihood values for each point in the scan over the spatial extension."),
			nanFloat("loglike_ptsrc", "Model log-Likelihood value of the best-fit point-source model."),
			nanFloat("loglike_ext", "Model log-Likelihood value of the best-fit extended source model."),
			nanFloat("loglike_base", "Model log-Likelihood value of the baseline model."),
			nanFloat("ext", "Best-fit extension in degrees."),
			nanFloat("ext_err_hi", "Upper (1 sigma) error on the best-fit extension in degrees."),
			nanFloat("ext_err_lo", "Lower (1 sigma) error on the best-fit extension in degrees."),
			nanFloat("ext_err", "Symmetric (1 sigma) error on the best-fit extension in degrees."),
			nanFloat("ext_ul95", "95% CL upper limit on the spatial extension in degrees."),
			nanFloat("ts_ext", "Test statistic for the extension hypothesis."),
			{Name: "source_fit", Default: "{}", Type: "dict", Help: "Dictionary with parameters of the best-fit extended source model."},
			{Name: "config", Default: "{}", Type: "dict", Help: "Copy of the input configuration to this method."},
		},
	},
	{
		Name: "localize_output",
		Help: "Output for localization analysis.",
		Fields: []Field{
			nanFloat("ra", "Right ascension of best-fit position in deg."),
			nanFloat("dec", "Declination of best-fit position in deg."),
			nanFloat("glon", "Galactic Longitude of best-fit position in deg."),
			nanFloat("glat", "Galactic Latitude of best-fit position in deg."),
			nanFloat("offset", "Angular offset in deg between the old and new (localized) source positions."),
			nanFloat("sigma", "1-sigma positional uncertainty in deg."),
			nanFloat("r68", "68% positional uncertainty in deg."),
			nanFloat("r95", "95% positional uncertainty in deg."),
			nanFloat("r99", "99% positional uncertainty in deg."),
			nanFloat("sigmax", "1-sigma uncertainty in deg in longitude."),
			nanFloat("sigmay", "1-sigma uncertainty in deg in latitude."),
			nanFloat("sigma_semimajor", "1-sigma uncertainty in deg along major axis of uncertainty ellipse."),
			nanFloat("sigma_semiminor", "1-sigma uncertainty in deg along minor axis of uncertainty ellipse."),
			nanFloat("xpix", "Longitude pixel coordinate of best-fit position."),
			nanFloat("ypix", "Latitude pixel coordinate of best-fit position."),
			nanFloat("theta", "Position angle of uncertainty ellipse."),
			nanFloat("eccentricity", "Eccentricity of uncertainty ellipse defined as sqrt(1-b**2/a**2)."),
			nanFloat("eccentricity2", "Eccentricity of uncertainty ellipse defined as sqrt(a**2/b**2-1)."),
			dict("config", "Copy of the input parameters to this method."),
		},
	},
	{
		Name: "roiopt_output",
		Help: "Output for ROI optimization.",
		Fields: []Field{
			{Name: "loglike0", Default: "None", Type: "float", Help: "Pre-optimization log-likelihood value."},
			{Name: "loglike1", Default: "None", Type: "float", Help: "Post-optimization log-likelihood value."},
			{Name: "dloglike", Default: "None", Type: "float", Help: "Improvement in log-likehood value."},
			dict("config", "Copy of input configuration to this method."),
		},
	},
	{
		Name: "fit_output",
		Help: "Output of the likelihood fit.",
		Fields: []Field{
			{Name: "edm", Default: "None", Type: "float", Help: "Estimated distance to maximum of log-likelihood function."},
			{Name: "fit_status", Default: "None", Type: "int", Help: "Optimizer return code (0 = ok)."},
			{Name: "fit_quality", Default: "None", Type: "int", Help: "Fit quality parameter for MINUIT and NEWMINUIT optimizers (3 - Full accurate covariance matrix, 2 - Full matrix, but forced positive-definite (i.e. not accurate), 1 - Diagonal approximation only, not accurate, 0 - Error matrix not calculated at all)"},
			arr("covariance", "Covariance matrix between free parameters of the fit."),
			arr("correlation", "Correlation matrix between free parameters of the fit."),
			{Name: "dloglike", Default: "None", Type: "float", Help: "Improvement in log-likehood value."},
			{Name: "loglike", Default: "None", Type: "float", Help: "Post-fit log-likehood value."},
			arr("values", "Vector of best-fit parameter values (unscaled)."),
			arr("errors", "Vector of parameter errors (unscaled)."),
			dict("config", "Copy of input configuration to this method."),
		},
	},
	{
		Name: "file_output",
		Help: "Top-level dictionary for output file.",
		Fields: []Field{
			dict("roi", "A dictionary containing information about the ROI as a whole."),
			dict("sources", "A dictionary containing information for individual sources in the model (diffuse and point-like).  Each element of this dictionary maps to a single source in the ROI model."),
			dict("config", "The configuration dictionary of the analysis instance."),
			str("version", "The version of the package that was used to run the analysis.  This is automatically generated from the git release tag."),
		},
	},
}
