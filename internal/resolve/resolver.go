package resolve

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

// Resolved is the fully materialised configuration of one analysis component.
type Resolved struct {
	Name       string      `json:"name" yaml:"name"`
	FileSuffix string      `json:"file_suffix" yaml:"file_suffix"`
	Config     tree.Mapping `json:"config" yaml:"config"`
}

// Resolution is the outcome of resolving a configuration. It is immutable;
// WithOverrides returns a new value.
type Resolution struct {
	// Source is the document path that was read, empty for in-memory input.
	Source string
	// Root is the merged configuration including the components section.
	Root       tree.Mapping
	Components []Resolved
	// Dropped lists unknown keys removed in lenient mode.
	Dropped []string

	resolver *Resolver
}

// Component returns the resolved component called name.
func (r *Resolution) Component(name string) (Resolved, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Resolved{}, false
}

// Names returns the component names in resolution order.
func (r *Resolution) Names() []string {
	names := make([]string, len(r.Components))
	for i, c := range r.Components {
		names[i] = c.Name
	}
	return names
}

// WithOverrides layers further overrides on top of the resolved root and
// re-expands the components. The receiver is not modified.
func (r *Resolution) WithOverrides(overrides ...tree.Mapping) (*Resolution, error) {
	res := r.resolver
	if res == nil {
		res = New(nil)
	}
	b := res.builder(r.Root)
	for i, o := range overrides {
		if err := b.apply(o, fmt.Sprintf("override %d", i)); err != nil {
			return nil, err
		}
	}
	next, err := res.finish(b)
	if err != nil {
		return nil, err
	}
	next.Source = r.Source
	next.Dropped = append(append([]string(nil), r.Dropped...), next.Dropped...)
	return next, nil
}

// Request describes the inputs of a resolution. Layers are applied in order:
// documented defaults, Base, the document at Path, each of Overrides and
// OverridePaths, then Keywords.
type Request struct {
	Path          string
	Base          tree.Mapping
	Overrides     []tree.Mapping
	OverridePaths []string
	Keywords      tree.Mapping
}

// Resolver resolves configuration requests.
type Resolver struct {
	log *zap.Logger
	// Lenient drops unknown sections and options with a warning instead of
	// rejecting the document.
	Lenient bool
}

// New returns a Resolver logging to logger. A nil logger discards output.
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{log: logger}
}

// Resolve loads, validates and merges every layer of req and expands the
// components.
func (r *Resolver) Resolve(req Request) (*Resolution, error) {
	b := r.builder(schema.Defaults())

	if req.Base != nil {
		if err := b.apply(req.Base, "base"); err != nil {
			return nil, err
		}
	}

	var source string
	if req.Path != "" {
		doc, found, err := LoadFile(req.Path)
		if err != nil {
			return nil, err
		}
		source = found
		r.log.Debug("loaded configuration", zap.String("path", found), zap.Int("sections", len(doc)))
		if err := b.apply(doc, found); err != nil {
			return nil, err
		}
	}

	for i, o := range req.Overrides {
		if err := b.apply(o, fmt.Sprintf("override %d", i)); err != nil {
			return nil, err
		}
	}
	for _, p := range req.OverridePaths {
		doc, found, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		if err := b.apply(doc, found); err != nil {
			return nil, err
		}
	}

	if len(req.Keywords) > 0 {
		if err := b.apply(req.Keywords, "keywords"); err != nil {
			return nil, err
		}
	}

	res, err := r.finish(b)
	if err != nil {
		return nil, err
	}
	res.Source = source
	return res, nil
}

// ResolveFile is shorthand for resolving a document with keyword overrides.
func (r *Resolver) ResolveFile(path string, keywords tree.Mapping) (*Resolution, error) {
	return r.Resolve(Request{Path: path, Keywords: keywords})
}

// builder accumulates validated layers.
type builder struct {
	log  *zap.Logger
	v    *validator
	root tree.Mapping
}

func (r *Resolver) builder(start tree.Mapping) *builder {
	return &builder{
		log:  r.log,
		v:    &validator{lenient: r.Lenient},
		root: start.Clone(),
	}
}

func (b *builder) apply(layer tree.Mapping, source string) error {
	checked, err := b.v.document(layer, "", true)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	if err := checkComponentStyle(b.root, checked, source); err != nil {
		return err
	}
	b.log.Debug("applying layer", zap.String("source", source), zap.Strings("sections", checked.Keys()))
	b.root = tree.Merge(b.root, checked)
	return nil
}

func (r *Resolver) finish(b *builder) (*Resolution, error) {
	for _, d := range b.v.dropped {
		r.log.Warn("ignoring unknown configuration key", zap.String("key", d))
	}
	comps, err := Expand(b.root)
	if err != nil {
		return nil, err
	}
	for _, c := range comps {
		r.log.Info("created analysis component", zap.String("name", c.Name), zap.String("file_suffix", c.FileSuffix))
	}
	return &Resolution{
		Root:       b.root,
		Components: comps,
		Dropped:    b.v.dropped,
		resolver:   r,
	}, nil
}

// Resolve validates base and each override and merges them in order. No
// defaults are applied, so an empty override list returns base unchanged
// apart from numeric widening.
func Resolve(base tree.Mapping, overrides ...tree.Mapping) (tree.Mapping, error) {
	b := New(nil).builder(tree.Mapping{})
	if err := b.apply(base, "base"); err != nil {
		return nil, err
	}
	for i, o := range overrides {
		if err := b.apply(o, fmt.Sprintf("override %d", i)); err != nil {
			return nil, err
		}
	}
	return b.root, nil
}

func componentName(i int) string {
	return fmt.Sprintf("%02d", i)
}

// Expand produces one resolved configuration per entry of root's components
// section. Each entry is merged onto root without its components key. List
// entries are named by zero-padded position, named entries by their key in
// sorted order. Without components a single component "00" is produced.
func Expand(root tree.Mapping) ([]Resolved, error) {
	common := root.Without(schema.ComponentsKey)

	switch comps := root[schema.ComponentsKey].(type) {
	case nil:
		return []Resolved{{Name: "00", FileSuffix: "_00", Config: common}}, nil
	case []any:
		if len(comps) == 0 {
			return []Resolved{{Name: "00", FileSuffix: "_00", Config: common}}, nil
		}
		out := make([]Resolved, 0, len(comps))
		for i, entry := range comps {
			name := componentName(i)
			cfg, err := componentConfig(common, name, entry)
			if err != nil {
				return nil, err
			}
			out = append(out, Resolved{Name: name, FileSuffix: "_" + name, Config: cfg})
		}
		return out, nil
	case tree.Mapping:
		if len(comps) == 0 {
			return []Resolved{{Name: "00", FileSuffix: "_00", Config: common}}, nil
		}
		out := make([]Resolved, 0, len(comps))
		for _, name := range comps.Keys() {
			cfg, err := componentConfig(common, name, comps[name])
			if err != nil {
				return nil, err
			}
			out = append(out, Resolved{Name: name, FileSuffix: "_" + name, Config: cfg})
		}
		return out, nil
	default:
		return nil, &ValidationError{Section: schema.ComponentsKey, Expected: "list or dict", Got: typeName(comps)}
	}
}

func componentConfig(common tree.Mapping, name string, entry any) (tree.Mapping, error) {
	switch e := entry.(type) {
	case nil:
		return common.Clone(), nil
	case tree.Mapping:
		if _, nested := e[schema.ComponentsKey]; nested {
			return nil, &ValidationError{Component: name, Section: schema.ComponentsKey, Reason: "components cannot be nested inside a component"}
		}
		return tree.Merge(common, e), nil
	default:
		return nil, &ValidationError{Component: name, Section: schema.ComponentsKey, Expected: "dict", Got: typeName(entry)}
	}
}
