// Package tree defines the configuration mapping used throughout fermicfg
// and the pure recursive merge that layers one mapping over another.
//
// A [Mapping] holds canonical values only: nil, string, int64, float64, bool,
// []any, or a nested [Mapping]. Decoders produce many other shapes (int,
// json.Number, map[string]interface{}, []map[string]interface{}), so every
// document passes through [Normalize] before it is merged or validated.
//
// [Merge] never mutates its inputs. Sections present on only one side are
// deep-copied, mappings present on both sides are merged key by key, and any
// other override value replaces the base value. A nil override of a mapping
// leaves the base mapping in place so that an empty YAML section does not
// erase the defaults beneath it.
package tree
