// Package output formats resolved configurations and schema reference tables
// for display or machine consumption.
//
// Resolved configurations support four formats:
//   - yaml: a loadable configuration document per component (default)
//   - json: an array of {name, file_suffix, config} records
//   - toml: a loadable document per component, null options omitted
//   - text: styled terminal listing of every option
//
// Use [GetWriter] to obtain a [Writer] for a format string, or
// [WriteResolved] to handle destination selection as well.
//
// Reference tables for the option schema and the output records are written
// by a [DocWriter] from [GetDocWriter]: markdown, rst, csv or term (markdown
// rendered for the terminal).
package output
