// Package resolve turns configuration documents into fully resolved analysis
// configurations.
//
// A [Resolver] layers the documented defaults, a base document, any number of
// override documents and keyword overrides, validating each layer against the
// option schema. The merged root is then expanded into one [Resolved]
// configuration per analysis component. Type mismatches are reported as
// [*ValidationError] (matching [ErrValidation]); missing documents as
// [*NotFoundError] (matching [ErrNotFound] and fs.ErrNotExist).
package resolve
