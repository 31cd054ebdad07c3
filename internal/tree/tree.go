package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Mapping is a configuration tree keyed by section and option name.
type Mapping map[string]any

// Keys returns the mapping's keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Section returns the nested mapping stored under name, or nil if the key is
// absent or does not hold a mapping.
func (m Mapping) Section(name string) Mapping {
	if sub, ok := m[name].(Mapping); ok {
		return sub
	}
	return nil
}

// Clone returns a deep copy of the mapping.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// Without returns a copy of the mapping with the given top-level keys removed.
func (m Mapping) Without(keys ...string) Mapping {
	out := m.Clone()
	if out == nil {
		out = Mapping{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// CloneValue deep-copies a canonical value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case Mapping:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Lookup returns the value at a dotted path such as "selection.emin".
func (m Mapping) Lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = m
	for _, p := range parts {
		mm, ok := cur.(Mapping)
		if !ok {
			return nil, false
		}
		cur, ok = mm[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// With returns a copy of the mapping with value stored at the dotted path.
// Intermediate mappings are created as needed; a non-mapping value on the
// way is replaced.
func (m Mapping) With(path string, value any) Mapping {
	out := m.Clone()
	if out == nil {
		out = Mapping{}
	}
	parts := strings.Split(path, ".")
	cur := out
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(Mapping)
		if !ok {
			next = Mapping{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = CloneValue(value)
	return out
}

// Merge layers override on top of base and returns a new mapping. Neither
// input is modified.
func Merge(base, override Mapping) Mapping {
	out := make(Mapping, len(base)+len(override))
	for k, v := range base {
		out[k] = CloneValue(v)
	}
	for k, ov := range override {
		bv, inBase := base[k]
		if !inBase {
			out[k] = CloneValue(ov)
			continue
		}
		bm, baseIsMap := bv.(Mapping)
		if ov == nil && baseIsMap {
			continue
		}
		if om, ok := ov.(Mapping); ok && baseIsMap {
			out[k] = Merge(bm, om)
			continue
		}
		out[k] = CloneValue(ov)
	}
	return out
}

// MergeAll applies each override in order on top of base.
func MergeAll(base Mapping, overrides ...Mapping) Mapping {
	out := base.Clone()
	if out == nil {
		out = Mapping{}
	}
	for _, o := range overrides {
		out = Merge(out, o)
	}
	return out
}

// Equal reports whether two canonical values are deeply equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Flatten returns every leaf of the mapping keyed by its dotted path. Empty
// mappings are reported as leaves so that they survive a round trip.
func Flatten(m Mapping) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]any, prefix string, m Mapping) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(Mapping); ok && len(sub) > 0 {
			flattenInto(out, path, sub)
			continue
		}
		out[path] = v
	}
}

// Change describes one differing leaf between two mappings.
type Change struct {
	Path string `json:"path" yaml:"path"`
	Old  any    `json:"old" yaml:"old"`
	New  any    `json:"new" yaml:"new"`
	// Added is true when the path exists only in the new mapping, Removed
	// when it exists only in the old one.
	Added   bool `json:"added,omitempty" yaml:"added,omitempty"`
	Removed bool `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Diff lists the leaves that differ between a and b, sorted by path.
func Diff(a, b Mapping) []Change {
	fa, fb := Flatten(a), Flatten(b)
	var changes []Change
	for path, av := range fa {
		bv, ok := fb[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Old: av, Removed: true})
		case !Equal(av, bv):
			changes = append(changes, Change{Path: path, Old: av, New: bv})
		}
	}
	for path, bv := range fb {
		if _, ok := fa[path]; !ok {
			changes = append(changes, Change{Path: path, New: bv, Added: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// PruneNil returns a copy of the mapping with nil leaves removed. Formats
// without a null literal (TOML) are written from the pruned tree.
func PruneNil(m Mapping) Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			continue
		case Mapping:
			out[k] = PruneNil(t)
		case []any:
			items := make([]any, 0, len(t))
			for _, e := range t {
				if e == nil {
					continue
				}
				if sub, ok := e.(Mapping); ok {
					e = PruneNil(sub)
				}
				items = append(items, e)
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

// Normalize converts a decoded document value into its canonical form.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t, nil
	case Mapping:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			m[ks] = e
		}
		return normalizeMap(m)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case uint:
		return uintToInt(uint64(t))
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return uintToInt(t)
	case float32:
		return float64(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return f, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return normalizeMap(m)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// NormalizeMapping normalizes a decoded document into a Mapping.
func NormalizeMapping(m map[string]any) (Mapping, error) {
	n, err := normalizeMap(m)
	if err != nil {
		return nil, err
	}
	return n.(Mapping), nil
}

func normalizeMap(m map[string]any) (any, error) {
	out := make(Mapping, len(m))
	for k, v := range m {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

func uintToInt(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d overflows int64", u)
	}
	return int64(u), nil
}
