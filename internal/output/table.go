package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dshills/fermicfg/internal/analysis"
)

var componentHeaders = []string{"NAME", "SUFFIX", "EMIN", "EMAX", "ENUMBINS", "BINSZ", "NPIX", "COORDSYS", "XREF", "YREF", "RADIUS"}

// ComponentRows returns one row per component of a with the values shown by
// WriteComponents.
func ComponentRows(a *analysis.Analysis) [][]string {
	rows := make([][]string, 0, len(a.Components))
	for _, c := range a.Components {
		rows = append(rows, []string{
			c.Name,
			c.FileSuffix,
			strconv.FormatFloat(c.EMin, 'g', 6, 64),
			strconv.FormatFloat(c.EMax, 'g', 6, 64),
			strconv.Itoa(c.EnumBins),
			strconv.FormatFloat(c.Config.Binning.BinSz, 'g', -1, 64),
			strconv.Itoa(c.NPix),
			c.Config.Binning.CoordSys,
			optFloat(c.XRef),
			optFloat(c.YRef),
			strconv.FormatFloat(c.Radius, 'f', 3, 64),
		})
	}
	return rows
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// WriteComponents renders the derived binning of every component as a table
// followed by the analysis-wide aggregates.
func WriteComponents(w io.Writer, a *analysis.Analysis) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(componentHeaders...).
		Rows(ComponentRows(a)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})

	ew := &errWriter{w: w}
	ew.println(t.String())
	ew.printf("energy bins: %d  roiwidth: %g  binsz: %g  npix: %d\n",
		a.EnumBins(), a.ROIWidth, a.BinSz, a.NPix)
	ew.printf("outdir: %s\n", a.Dirs.OutDir)
	return ew.err
}

// WriteFiles lists the data products of each component.
func WriteFiles(w io.Writer, a *analysis.Analysis) error {
	ew := &errWriter{w: w}
	files := a.Files()
	for _, c := range a.Components {
		fs := files[c.Name]
		ew.println(headerStyle.Render("Component " + c.Name))
		for _, kv := range [][2]string{
			{"ft1", fs.FT1},
			{"ft1_filtered", fs.FT1Filtered},
			{"ltcube", fs.LTCube},
			{"ccube", fs.CCube},
			{"mcube", fs.MCube},
			{"srcmap", fs.SrcMap},
			{"bexpmap", fs.BExpMap},
			{"bexpmap_roi", fs.BExpMapROI},
			{"srcmdl", fs.SrcMdl},
		} {
			ew.printf("  %-13s %s\n", kv[0]+":", kv[1])
		}
	}
	if ew.err != nil {
		return fmt.Errorf("writing file list: %w", ew.err)
	}
	return nil
}
