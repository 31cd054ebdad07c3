package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/fermicfg/internal/analysis"
	"github.com/dshills/fermicfg/internal/fileio"
	"github.com/dshills/fermicfg/internal/logging"
	"github.com/dshills/fermicfg/internal/output"
	"github.com/dshills/fermicfg/internal/resolve"
)

var (
	flagWorkDir string
	flagKeep    bool
)

// analysisLog opens the analysis log file named by fileio.logfile at the
// level of logging.verbosity and returns a logger that writes both to it
// and to the session logger.
func (s *session) analysisLog(res *resolve.Resolution) (*zap.Logger, string, error) {
	cfg, err := analysis.Decode(res.Root)
	if err != nil {
		return nil, "", err
	}
	dirs, err := analysis.PlanDirs(cfg.FileIO, res.Source)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(dirs.OutDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating output directory: %w", err)
	}
	logPath := fileio.StripSuffix(dirs.LogFile, []string{"log"}) + ".log"
	flog, err := logging.New(logging.Options{
		Level:    logging.FromVerbosity(cfg.Logging.Verbosity),
		JSON:     true,
		File:     logPath,
		FileOnly: true,
	})
	if err != nil {
		return nil, "", err
	}
	return logging.Tee(s.log, flog), logPath, nil
}

var setupCmd = &cobra.Command{
	Use:   "setup <config>",
	Short: "Create the analysis directories and write the resolved configuration",
	Long: "Setup creates the output directory (and a scratch working directory when\n" +
		"fileio.usescratch is set), stages input files into the working directory and\n" +
		"writes the resolved configuration to <outdir>/config.yaml. Entries are logged to\n" +
		"<logfile>.log at the level set by logging.verbosity.",
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
		log, logPath, err := s.analysisLog(res)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		defer func() { _ = log.Sync() }()

		a, err := analysis.New(res, log)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if err := a.Setup(cmd.Context()); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}

		cfgPath := fileio.FormatFilename(a.Dirs.OutDir, "config", nil, "yaml")
		err = writeTo(nil, cfgPath, func(w io.Writer) error {
			return (&output.YAMLWriter{}).Write(w, []resolve.Resolved{{Name: "root", Config: res.Root}})
		})
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		log.Info("analysis setup complete",
			zap.String("config", cfgPath),
			zap.String("workdir", a.Dirs.WorkDir),
			zap.Strings("components", res.Names()))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "outdir:  %s\n", a.Dirs.OutDir)
		fmt.Fprintf(out, "workdir: %s\n", a.Dirs.WorkDir)
		fmt.Fprintf(out, "logfile: %s\n", logPath)
		fmt.Fprintf(out, "config:  %s\n", cfgPath)
		if a.Dirs.Scratch {
			fmt.Fprintln(out, "scratch: yes")
		}
		return nil
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <config>",
	Short: "Stage products from a scratch working directory back to the output directory",
	Long: "Finalize copies files matching fileio.outdir_regex from the scratch working\n" +
		"directory printed by setup back to the output directory (FITS files only when\n" +
		"fileio.savefits is set) and then deletes the working directory unless --keep\n" +
		"is given. Without fileio.usescratch there is nothing to stage.",
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
		log, _, err := s.analysisLog(res)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		defer func() { _ = log.Sync() }()

		a, err := analysis.New(res, log)
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if !a.Config.FileIO.UseScratch {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to stage: %s is the working directory.\n", a.Dirs.OutDir)
			return nil
		}
		if flagWorkDir == "" {
			return fmt.Errorf("--workdir is required when fileio.usescratch is set")
		}
		if err := a.UseWorkDir(flagWorkDir); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		if err := a.StageOutput(cmd.Context()); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Staged %s -> %s\n", a.Dirs.WorkDir, a.Dirs.OutDir)

		if flagKeep {
			return nil
		}
		if err := a.Cleanup(); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		log.Info("analysis finalized", zap.String("outdir", a.Dirs.OutDir))
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", a.Dirs.WorkDir)
		return nil
	},
}

func init() {
	addResolveFlags(setupCmd)

	addResolveFlags(finalizeCmd)
	finalizeCmd.Flags().StringVar(&flagWorkDir, "workdir", "", "Scratch working directory printed by setup")
	finalizeCmd.Flags().BoolVar(&flagKeep, "keep", false, "Keep the working directory after staging")
}
