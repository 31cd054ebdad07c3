package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/output"
)

var flagSave bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <config>",
	Short: "Resolve a configuration into one configuration per component",
	Long: "Resolve loads the configuration document, applies the documented defaults, each\n" +
		"--override document and each --set keyword, and writes the resolved configuration\n" +
		"of every component (or only those named by --component).",
	Args: cobra.ExactArgs(1),
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
		comps, err := selectComponents(res, flagComponent)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if err := output.WriteResolved(comps, s.cfg.Format, flagOut, cmd.OutOrStdout()); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}

		if flagSave {
			store, err := s.snapshots(s.cfg.SnapshotsEnabled())
			if err != nil {
				report(cmd.ErrOrStderr(), err)
				return nil
			}
			if !store.Enabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Snapshots are disabled (snapshot.enabled); resolution not saved.")
				return nil
			}
			entry, err := store.Put(res)
			if err != nil {
				report(cmd.ErrOrStderr(), err)
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved snapshot %s\n", entry.ID)
		}
		return nil
	},
}

func init() {
	addResolveFlags(resolveCmd)
	resolveCmd.Flags().StringVar(&flagComponent, "component", "", "Only write these components (comma-separated names)")
	resolveCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (yaml, json, toml, text)")
	resolveCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	resolveCmd.Flags().BoolVar(&flagSave, "save", false, "Store the resolution in the snapshot store")
}
