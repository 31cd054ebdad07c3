package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/fermicfg/internal/output"
	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/watch"
)

var flagPrint bool

var watchCmd = &cobra.Command{
	Use:   "watch <config>",
	Short: "Re-resolve a configuration whenever it or its overrides change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		req, err := s.request(args[0])
		if err != nil {
			report(cmd.ErrOrStderr(), err)
			return nil
		}
		files := make([]string, 0, 1+len(req.OverridePaths))
		for _, p := range append([]string{req.Path}, req.OverridePaths...) {
			found, err := resolve.Locate(p)
			if err != nil {
				report(cmd.ErrOrStderr(), err)
				return nil
			}
			files = append(files, found)
		}

		writer, err := output.GetWriter(s.cfg.Format)
		if err != nil {
			return err
		}

		r := s.resolver()
		debounce := time.Duration(s.cfg.Watch.DebounceMs) * time.Millisecond
		w := watch.New(files, debounce, func() (*resolve.Resolution, error) {
			return r.Resolve(req)
		}, s.log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results := make(chan watch.Result)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer close(results)
			return w.Run(ctx, results)
		})
		g.Go(func() error {
			out := cmd.OutOrStdout()
			for res := range results {
				stamp := time.Now().Format("15:04:05")
				if res.Err != nil {
					fmt.Fprintf(out, "[%s] FAIL\n", stamp)
					report(cmd.ErrOrStderr(), res.Err)
					continue
				}
				fmt.Fprintf(out, "[%s] ok   %s (components: %s)\n", stamp, res.Resolution.Source, strings.Join(res.Resolution.Names(), ", "))
				if flagPrint {
					if err := writer.Write(out, res.Resolution.Components); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			report(cmd.ErrOrStderr(), err)
		}
		return nil
	},
}

func init() {
	addResolveFlags(watchCmd)
	watchCmd.Flags().BoolVar(&flagPrint, "print", false, "Write the resolved configuration after every change")
	watchCmd.Flags().StringVar(&flagFormat, "format", "", "Output format used with --print (yaml, json, toml, text)")
}
