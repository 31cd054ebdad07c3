package resolve

import (
	"errors"
	"fmt"

	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

// typeName returns the schema vocabulary name of a canonical value.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "str"
	case int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []any:
		return "list"
	case tree.Mapping:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// checkKind reports whether v conforms to kind and returns the value to store.
// Integers are widened for float options; every kind admits null.
func checkKind(kind schema.Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch kind {
	case schema.KindAny:
		return v, true
	case schema.KindString:
		_, ok := v.(string)
		return v, ok
	case schema.KindInt:
		_, ok := v.(int64)
		return v, ok
	case schema.KindFloat:
		switch t := v.(type) {
		case float64:
			return t, true
		case int64:
			return float64(t), true
		}
		return v, false
	case schema.KindBool:
		_, ok := v.(bool)
		return v, ok
	case schema.KindList, schema.KindTuple:
		_, ok := v.([]any)
		return v, ok
	case schema.KindMap:
		_, ok := v.(tree.Mapping)
		return v, ok
	}
	return v, false
}

// checkOption checks v against the option's kind and element kind. On
// failure it returns the offending value's type name.
func checkOption(opt schema.Option, v any) (any, string, bool) {
	stored, ok := checkKind(opt.Kind, v)
	if !ok {
		return nil, typeName(v), false
	}
	if opt.Elem == schema.KindAny || stored == nil {
		return stored, "", true
	}
	switch t := stored.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			checked, ok := checkElem(opt.Elem, e)
			if !ok {
				return nil, fmt.Sprintf("list with %s element at index %d", typeName(e), i), false
			}
			out[i] = checked
		}
		return out, "", true
	case tree.Mapping:
		out := make(tree.Mapping, len(t))
		for _, k := range t.Keys() {
			checked, ok := checkElem(opt.Elem, t[k])
			if !ok {
				return nil, fmt.Sprintf("dict with %s value for %q", typeName(t[k]), k), false
			}
			out[k] = checked
		}
		return out, "", true
	}
	return stored, "", true
}

// checkElem checks a list element or dict value. Unlike options, elements
// may not be null.
func checkElem(kind schema.Kind, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	return checkKind(kind, v)
}

// Reasons attached to keys the schema does not know.
const (
	reasonUnknownSection = "unknown section"
	reasonUnknownOption  = "unknown option"
)

// validator checks documents against the option schema.
type validator struct {
	// lenient drops unknown sections and options instead of failing.
	lenient bool
	// dropped collects the paths removed in lenient mode.
	dropped []string
}

// document validates m and returns a copy with numeric widening applied.
// Components entries are validated recursively when allowComponents is set.
func (v *validator) document(m tree.Mapping, component string, allowComponents bool) (tree.Mapping, error) {
	out := make(tree.Mapping, len(m))
	var errs []error

	for _, name := range m.Keys() {
		value := m[name]

		if name == schema.ComponentsKey {
			if !allowComponents {
				errs = append(errs, &ValidationError{
					Component: component,
					Section:   name,
					Reason:    "components cannot be nested inside a component",
				})
				continue
			}
			comps, err := v.components(value)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out[name] = comps
			continue
		}

		sec, ok := schema.Lookup(name)
		if !ok {
			if err := v.unknown(&ValidationError{Component: component, Section: name, Reason: reasonUnknownSection}); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if value == nil {
			out[name] = nil
			continue
		}
		body, ok := value.(tree.Mapping)
		if !ok {
			errs = append(errs, &ValidationError{
				Component: component,
				Section:   name,
				Expected:  "dict",
				Got:       typeName(value),
			})
			continue
		}

		checked := make(tree.Mapping, len(body))
		for _, key := range body.Keys() {
			opt, ok := sec.Lookup(key)
			if !ok {
				if err := v.unknown(&ValidationError{Component: component, Section: name, Key: key, Reason: reasonUnknownOption}); err != nil {
					errs = append(errs, err)
				}
				continue
			}
			stored, got, ok := checkOption(opt, body[key])
			if !ok {
				errs = append(errs, &ValidationError{
					Component: component,
					Section:   name,
					Key:       key,
					Expected:  opt.TypeName(),
					Got:       got,
				})
				continue
			}
			checked[key] = tree.CloneValue(stored)
		}
		out[name] = checked
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (v *validator) unknown(e *ValidationError) error {
	if !v.lenient {
		return e
	}
	v.dropped = append(v.dropped, e.Location())
	return nil
}

// components validates a components value, which is null, a list of entries,
// or a mapping of entries keyed by component name.
func (v *validator) components(value any) (any, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]any, len(t))
		var errs []error
		for i, entry := range t {
			checked, err := v.componentEntry(componentName(i), entry)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out[i] = checked
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return out, nil
	case tree.Mapping:
		out := make(tree.Mapping, len(t))
		var errs []error
		for _, name := range t.Keys() {
			checked, err := v.componentEntry(name, t[name])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out[name] = checked
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return out, nil
	default:
		return nil, &ValidationError{
			Section:  schema.ComponentsKey,
			Expected: "list or dict",
			Got:      typeName(value),
		}
	}
}

func (v *validator) componentEntry(name string, entry any) (any, error) {
	if entry == nil {
		return nil, nil
	}
	m, ok := entry.(tree.Mapping)
	if !ok {
		return nil, &ValidationError{
			Component: name,
			Section:   schema.ComponentsKey,
			Expected:  "dict",
			Got:       typeName(entry),
		}
	}
	return v.document(m, name, false)
}

// Validate checks m against the option schema and returns a copy in which
// integer values of float options have been widened. All problems are
// reported together.
func Validate(m tree.Mapping) (tree.Mapping, error) {
	v := &validator{}
	return v.document(m, "", true)
}

// componentStyle names the shape of a components value.
func componentStyle(v any) string {
	switch v.(type) {
	case []any:
		return "list"
	case tree.Mapping:
		return "named"
	default:
		return ""
	}
}

// checkComponentStyle rejects a layer whose components use a different shape
// from the components already accumulated.
func checkComponentStyle(acc, layer tree.Mapping, source string) error {
	lv, ok := layer[schema.ComponentsKey]
	if !ok {
		return nil
	}
	have, want := componentStyle(acc[schema.ComponentsKey]), componentStyle(lv)
	if have == "" || want == "" || have == want {
		return nil
	}
	return &ValidationError{
		Section: schema.ComponentsKey,
		Reason:  fmt.Sprintf("%s components from %s cannot be combined with %s components", want, source, have),
	}
}
