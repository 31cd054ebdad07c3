package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/fermicfg/internal/config"
	"github.com/dshills/fermicfg/internal/logging"
	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/snapshot"
)

// Shared flags
var (
	flagLogLevel  string
	flagLogJSON   bool
	flagLenient   bool
	flagFormat    string
	flagDocFormat string
	flagOut       string
	flagSet       []string
	flagOverride  []string
	flagComponent string
)

var errUnknownComponent = errors.New("unknown component")

func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&flagSet, "set", nil, "Override an option as section.key=value (repeatable)")
	cmd.Flags().StringArrayVar(&flagOverride, "override", nil, "Apply an override document on top of the configuration (repeatable)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDocFormat != "" {
		m["docFormat"] = flagDocFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagLenient {
		m["strict"] = "false"
	}
	return m
}

// session carries the effective tool settings and logger of one command.
type session struct {
	cfg   config.Config
	level zapcore.Level
	log   *zap.Logger
}

func newSession() (*session, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Level: level, JSON: cfg.LogJSON || flagLogJSON})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, level: level, log: log}, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}

func (s *session) resolver() *resolve.Resolver {
	r := resolve.New(s.log)
	r.Lenient = !s.cfg.IsStrict()
	return r
}

// request builds a resolution request for path from the shared flags.
func (s *session) request(path string) (resolve.Request, error) {
	kw, err := resolve.Keywords(flagSet)
	if err != nil {
		return resolve.Request{}, err
	}
	return resolve.Request{Path: path, OverridePaths: flagOverride, Keywords: kw}, nil
}

func (s *session) resolve(path string) (*resolve.Resolution, error) {
	req, err := s.request(path)
	if err != nil {
		return nil, err
	}
	return s.resolver().Resolve(req)
}

func (s *session) snapshots(enabled bool) (*snapshot.Store, error) {
	store, err := snapshot.New(enabled, s.cfg.Snapshot.Dir, s.cfg.Snapshot.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	return store, nil
}

// selectComponents returns the components named in a comma-separated list,
// or all of them when names is empty.
func selectComponents(res *resolve.Resolution, names string) ([]resolve.Resolved, error) {
	wanted := splitComma(names)
	if len(wanted) == 0 {
		return res.Components, nil
	}
	out := make([]resolve.Resolved, 0, len(wanted))
	for _, name := range wanted {
		c, ok := res.Component(name)
		if !ok {
			return nil, fmt.Errorf("%w %q (have %s)", errUnknownComponent, name, strings.Join(res.Names(), ", "))
		}
		out = append(out, c)
	}
	return out, nil
}

// writeTo calls fn with the file at path, or with stdout when path is empty.
func writeTo(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
