package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/output"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect stored resolutions",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resolutions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		store, err := s.snapshots(s.cfg.SnapshotsEnabled())
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if !store.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshots are disabled.")
			return nil
		}
		entries, err := store.List()
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %d component(s)  %s\n",
				e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Digest[:12], len(e.Components), e.Source)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Write a stored resolution (an unambiguous ID prefix is accepted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		store, err := s.snapshots(s.cfg.SnapshotsEnabled())
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		entry, err := store.Get(args[0])
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		res, err := entry.Resolution()
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
		}
		return nil
	},
}

var snapshotStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show snapshot store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		store, err := s.snapshots(s.cfg.SnapshotsEnabled())
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if !store.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshots are disabled.")
			return nil
		}
		stats, err := store.GetStats()
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored resolutions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		store, err := s.snapshots(s.cfg.SnapshotsEnabled())
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if !store.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshots are disabled.")
			return nil
		}
		n, err := store.Clear()
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s).\n", n)
		return nil
	},
}

func init() {
	snapshotShowCmd.Flags().StringVar(&flagComponent, "component", "", "Only write these components (comma-separated names)")
	snapshotShowCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (yaml, json, toml, text)")
	snapshotShowCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotStatsCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
}
