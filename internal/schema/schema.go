package schema

import (
	"fmt"
	"sort"

	"github.com/dshills/fermicfg/internal/tree"
)

// Kind is the documented value type of a configuration option.
type Kind int

const (
	// KindAny accepts every value. It only appears as an element kind.
	KindAny Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
	// KindTuple options are written as lists in documents.
	KindTuple
)

// String returns the type name used in the reference tables.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "dict"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Option describes a single documented configuration key.
type Option struct {
	Name    string
	Default any
	Help    string
	Kind    Kind
	// Elem is the kind of every element of a list option or every value of a
	// dict option. KindAny leaves them unchecked.
	Elem Kind
}

// TypeName describes the option's kind including its element kind, for
// example "list of float".
func (o Option) TypeName() string {
	if o.Elem == KindAny {
		return o.Kind.String()
	}
	return o.Kind.String() + " of " + o.Elem.String()
}

// Section is a named group of options.
type Section struct {
	Name    string
	Help    string
	Options []Option
}

// Lookup returns the option called key.
func (s Section) Lookup(key string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == key {
			return o, true
		}
	}
	return Option{}, false
}

// Keys returns the option names of the section in sorted order.
func (s Section) Keys() []string {
	keys := make([]string, len(s.Options))
	for i, o := range s.Options {
		keys[i] = o.Name
	}
	sort.Strings(keys)
	return keys
}

// Defaults returns the section's default values as a mapping.
func (s Section) Defaults() tree.Mapping {
	m := make(tree.Mapping, len(s.Options))
	for _, o := range s.Options {
		m[o.Name] = tree.CloneValue(o.Default)
	}
	return m
}

// ComponentsKey is the top-level key holding per-component overrides.
const ComponentsKey = "components"

// Sections returns every configuration section in documentation order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Lookup returns the section called name.
func Lookup(name string) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// LookupOption resolves a "section.key" pair.
func LookupOption(section, key string) (Option, bool) {
	s, ok := Lookup(section)
	if !ok {
		return Option{}, false
	}
	return s.Lookup(key)
}

// Names returns the known top-level keys, including components.
func Names() []string {
	names := make([]string, 0, len(sections)+1)
	for _, s := range sections {
		names = append(names, s.Name)
	}
	names = append(names, ComponentsKey)
	sort.Strings(names)
	return names
}

// Defaults returns a fully populated configuration with every documented
// default and an empty components entry.
func Defaults() tree.Mapping {
	m := make(tree.Mapping, len(sections)+1)
	for _, s := range sections {
		m[s.Name] = s.Defaults()
	}
	m[ComponentsKey] = nil
	return m
}
