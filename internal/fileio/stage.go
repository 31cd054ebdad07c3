package fileio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// StageOptions controls a staging copy.
type StageOptions struct {
	// Include selects files by name; a file is copied when it matches at
	// least one pattern.
	Include []*regexp.Regexp
	// Exclude drops files that Include selected.
	Exclude []*regexp.Regexp
	Logger  *zap.Logger
}

// Stage copies the regular files directly inside src whose names are
// selected by opts into dst and returns the copied names. Nothing is copied
// when src and dst are the same directory.
func Stage(ctx context.Context, src, dst string, opts StageOptions) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil, nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dst, err)
	}

	log.Info("staging files", zap.String("from", src), zap.String("to", dst))
	var copied []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !MatchRegexList(opts.Include, name) || MatchRegexList(opts.Exclude, name) {
			continue
		}
		log.Debug("copying file", zap.String("name", name))
		if err := copyFile(filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return copied, err
		}
		copied = append(copied, name)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
