package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/analysis"
	"github.com/dshills/fermicfg/internal/output"
	"github.com/dshills/fermicfg/internal/tree"
)

var flagFiles bool

var componentsCmd = &cobra.Command{
	Use:   "components <config>",
	Short: "Show the derived binning of each component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, err := s.resolve(args[0])
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		a, err := analysis.New(res, s.log)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if err := output.WriteComponents(cmd.OutOrStdout(), a); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if flagFiles {
			fmt.Fprintln(cmd.OutOrStdout())
			if err := output.WriteFiles(cmd.OutOrStdout(), a); err != nil {
				report(cmd.ErrOrStderr(), err)
			}
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <config> <componentA> <componentB>",
	Short: "Show the options that differ between two components",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, err := s.resolve(args[0])
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		comps, err := selectComponents(res, args[1]+","+args[2])
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		a, b := comps[0], comps[len(comps)-1]
		changes := tree.Diff(a.Config, b.Config)
		if err := output.WriteDiff(cmd.OutOrStdout(), changes, a.Name, b.Name, s.cfg.Format); err != nil {
			report(cmd.ErrOrStderr(), err)
		}
		return nil
	},
}

func init() {
	addResolveFlags(componentsCmd)
	componentsCmd.Flags().BoolVar(&flagFiles, "files", false, "Also list each component's data product paths")

	addResolveFlags(diffCmd)
	diffCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
}
