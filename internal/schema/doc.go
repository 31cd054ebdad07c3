// Package schema is the catalog of documented configuration options and
// output-record fields for the Fermi-LAT analysis pipeline.
//
// Each [Section] lists its [Option] values with a default, a help string and
// a [Kind]. The resolver validates documents against this catalog and layers
// its [Defaults] beneath every configuration. Output tables ([Outputs]) only
// describe records produced by the external pipeline; they are rendered as
// reference documentation and never computed here.
package schema
