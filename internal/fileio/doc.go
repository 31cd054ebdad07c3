// Package fileio holds the path and staging helpers used for analysis output
// bookkeeping.
//
// Paths are resolved against a working directory and may reference
// environment variables. Files are moved between the output and working
// directories by matching their names against lists of regular expressions
// (the fileio.workdir_regex and fileio.outdir_regex options).
package fileio
