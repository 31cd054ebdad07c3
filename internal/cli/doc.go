// Package cli wires together the Cobra command tree for the fermicfg binary.
//
// It defines the root command and all subcommands (resolve, validate,
// components, diff, defaults, doc, setup, watch, snapshot, config, version),
// binds flags, reads tool settings, invokes the resolver, and returns
// deterministic exit codes for scripting.
package cli
