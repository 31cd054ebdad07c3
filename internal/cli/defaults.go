package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/output"
	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults [section]",
	Short: "Print the documented default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		m := schema.Defaults().Without(schema.ComponentsKey)
		if len(args) == 1 {
			sec, ok := schema.Lookup(args[0])
			if !ok {
				report(cmd.ErrOrStderr(), fmt.Errorf("%w: no section named %q", resolve.ErrNotFound, args[0]))
				return nil
			}
			m = tree.Mapping{sec.Name: sec.Defaults()}
		}
		comps := []resolve.Resolved{{Name: "defaults", Config: m}}
		if err := output.WriteResolved(comps, s.cfg.Format, flagOut, cmd.OutOrStdout()); err != nil {
			report(cmd.ErrOrStderr(), err)
		}
		return nil
	},
}

var docCmd = &cobra.Command{
	Use:   "doc [section|output-table]",
	Short: "Render the option and output reference tables",
	Long: "Doc renders the reference tables of configuration sections and output records.\n" +
		"Without an argument every section is written followed by every output table.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		dw, err := output.GetDocWriter(s.cfg.DocFormat)
		if err != nil {
			return err
		}

		sections, tables := schema.Sections(), schema.Outputs()
		if len(args) == 1 {
			sections, tables = nil, nil
			if sec, ok := schema.Lookup(args[0]); ok {
				sections = []schema.Section{sec}
			} else if tbl, ok := schema.LookupOutput(args[0]); ok {
				tables = []schema.Table{tbl}
			} else {
				report(cmd.ErrOrStderr(), fmt.Errorf("%w: no section or output table named %q", resolve.ErrNotFound, args[0]))
				return nil
			}
		}

		err = writeTo(cmd.OutOrStdout(), flagOut, func(w io.Writer) error {
			if len(sections) > 0 {
				if err := dw.WriteSections(w, sections); err != nil {
					return err
				}
			}
			if len(tables) > 0 {
				return dw.WriteTables(w, tables)
			}
			return nil
		})
		if err != nil {
			report(cmd.ErrOrStderr(), err)
		}
		return nil
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (yaml, json, toml, text)")
	defaultsCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")

	docCmd.Flags().StringVar(&flagDocFormat, "format", "", "Table format (markdown, rst, csv, term)")
	docCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
