// Fermicfg is a CLI for resolving Fermi-LAT analysis configurations.
//
// It merges a configuration document with the documented defaults, override
// documents and keyword overrides, validates the result against the option
// schema and expands the components section into one resolved configuration
// per analysis component. Exit codes are deterministic so the tool can gate
// batch pipelines.
//
// Usage:
//
//	fermicfg resolve config.yaml                  # write every resolved component
//	fermicfg resolve config.yaml --set binning.binsz=0.05
//	fermicfg validate a.yaml b.yaml               # check several documents
//	fermicfg components config.yaml --files       # derived binning and file names
//	fermicfg diff config.yaml 00 01               # options that differ
//	fermicfg doc selection --format rst           # option reference tables
//	fermicfg watch config.yaml --print            # re-resolve on change
package main
