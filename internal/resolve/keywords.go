package resolve

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

// Assignment is a parsed "section.key=value" keyword override.
type Assignment struct {
	Section string
	Key     string
	// Path is the dotted location the value is stored at. It extends past
	// section.key only for dict options.
	Path  string
	Value any
}

// ParseAssignment parses a keyword override. Values are read as YAML scalars
// or flow collections, so "1000" is an int, "1e3" a float and "[a, b]" a
// list. A plain comma-separated string given for a list option is split into
// its elements.
func ParseAssignment(s string) (Assignment, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, fmt.Errorf("keyword override %q: expected section.key=value", s)
	}
	path = strings.TrimSpace(path)
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Assignment{}, fmt.Errorf("keyword override %q: expected section.key=value", s)
	}
	section, key := parts[0], parts[1]

	if section == schema.ComponentsKey {
		return Assignment{}, &ValidationError{Section: section, Reason: "components cannot be set with a keyword override"}
	}
	sec, ok := schema.Lookup(section)
	if !ok {
		return Assignment{}, &ValidationError{Section: section, Reason: reasonUnknownSection}
	}
	opt, ok := sec.Lookup(key)
	if !ok {
		return Assignment{}, &ValidationError{Section: section, Key: key, Reason: reasonUnknownOption}
	}
	if len(parts) > 2 && opt.Kind != schema.KindMap {
		return Assignment{}, &ValidationError{Section: section, Key: key, Reason: fmt.Sprintf("cannot set %s inside a %s option", path, opt.Kind)}
	}

	value, err := parseScalar(raw)
	if err != nil {
		return Assignment{}, fmt.Errorf("keyword override %q: %w", s, err)
	}
	if len(parts) == 2 && (opt.Kind == schema.KindList || opt.Kind == schema.KindTuple) {
		if str, ok := value.(string); ok {
			value, err = splitList(str)
			if err != nil {
				return Assignment{}, fmt.Errorf("keyword override %q: %w", s, err)
			}
		}
	}

	return Assignment{Section: section, Key: key, Path: path, Value: value}, nil
}

func parseScalar(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return tree.Normalize(v)
}

func splitList(s string) ([]any, error) {
	var out []any
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := parseScalar(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

// Keywords parses keyword overrides into an override mapping. Later
// assignments to the same path win. All malformed assignments are reported
// together.
func Keywords(assignments []string) (tree.Mapping, error) {
	out := tree.Mapping{}
	var errs []error
	for _, s := range assignments {
		a, err := ParseAssignment(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = out.With(a.Path, a.Value)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
