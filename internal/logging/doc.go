// Package logging builds the zap loggers used by the CLI and the library
// packages. Levels come either from a level name or from the numeric
// verbosity convention of the analysis configuration (0 quietest, 4 debug).
package logging
