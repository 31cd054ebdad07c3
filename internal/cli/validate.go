package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/fermicfg/internal/analysis"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>...",
	Short: "Check configuration documents without writing them",
	Long: "Validate resolves each document concurrently and derives every component's binning,\n" +
		"reporting type mismatches, unknown options and inconsistent energy or pixel settings.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		r := s.resolver()
		errs := make([]error, len(args))
		counts := make([]int, len(args))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range args {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				req, err := s.request(path)
				if err != nil {
					errs[i] = err
					return nil
				}
				res, err := r.Resolve(req)
				if err != nil {
					errs[i] = err
					return nil
				}
				a, err := analysis.New(res, s.log)
				if err != nil {
					errs[i] = err
					return nil
				}
				counts[i] = len(a.Components)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}

		for i, path := range args {
			if errs[i] != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", path)
				report(cmd.ErrOrStderr(), errs[i])
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d components)\n", path, counts[i])
		}
		return nil
	},
}

func init() {
	addResolveFlags(validateCmd)
}
