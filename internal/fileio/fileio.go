package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ExpandPath substitutes $VAR and ${VAR} references in path. A leading "~"
// is replaced with the user's home directory.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ResolvePath returns path unchanged when it is absolute, joined onto
// workdir otherwise. An empty workdir resolves against the current
// directory.
func ResolvePath(path, workdir string) (string, error) {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if workdir == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", path, err)
		}
		return abs, nil
	}
	return filepath.Join(ExpandPath(workdir), path), nil
}

// JoinStrings joins the non-empty parts with sep.
func JoinStrings(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// FormatFilename builds outdir/<prefix_..._basename>.<extension>. Empty
// prefixes are skipped and the extension may be given with or without its
// leading dot.
func FormatFilename(outdir, basename string, prefix []string, extension string) string {
	name := JoinStrings([]string{JoinStrings(prefix, "_"), basename}, "_")
	if extension != "" {
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		name += extension
	}
	return filepath.Join(outdir, name)
}

// StripSuffix removes each of the given extensions from the end of filename,
// in order.
func StripSuffix(filename string, suffixes []string) string {
	for _, s := range suffixes {
		filename = strings.TrimSuffix(filename, "."+strings.TrimPrefix(s, "."))
	}
	return filename
}

// CompilePatterns compiles a list of regular expressions.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MatchRegexList reports whether s matches at least one pattern.
func MatchRegexList(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
