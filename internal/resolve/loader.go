package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dshills/fermicfg/internal/tree"
)

// Format identifies a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// fallbackExtensions are tried, in order, when a path has no extension.
var fallbackExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// FormatForPath infers the document format from the file extension. Unknown
// extensions are read as YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Locate returns the document path that LoadFile would read.
func Locate(path string) (string, error) {
	candidates := []string{path}
	if filepath.Ext(path) == "" {
		for _, ext := range fallbackExtensions {
			candidates = append(candidates, path+ext)
		}
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", c, err)
		}
	}
	return "", &NotFoundError{Path: path, Tried: candidates}
}

// LoadFile reads and decodes the document at path. When path has no extension
// the .yaml, .yml, .toml and .json variants are tried in order. The returned
// string is the path actually read.
func LoadFile(path string) (tree.Mapping, string, error) {
	found, err := Locate(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(found)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", &NotFoundError{Path: path, Tried: []string{found}}
		}
		return nil, "", fmt.Errorf("reading %s: %w", found, err)
	}
	m, err := Decode(data, FormatForPath(found))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = found
		}
		return nil, "", err
	}
	return m, found, nil
}

// Decode parses a document into a canonical mapping. An empty document yields
// an empty mapping.
func Decode(data []byte, format Format) (tree.Mapping, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	if raw == nil {
		return tree.Mapping{}, nil
	}
	m, err := tree.NormalizeMapping(raw)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return m, nil
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	switch format {
	case FormatTOML:
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, err
		}
		return m, nil
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if err := checkJSONKeys(json.NewDecoder(bytes.NewReader(data)), ""); err != nil {
			return nil, err
		}
		return rootMapping(v)
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return rootMapping(v)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// checkJSONKeys walks the next JSON value token by token and rejects objects
// that repeat a key, which encoding/json would otherwise resolve silently in
// favour of the last one.
func checkJSONKeys(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := kt.(string)
			if seen[key] {
				if path == "" {
					return fmt.Errorf("duplicate key %q", key)
				}
				return fmt.Errorf("duplicate key %q in %s", key, path)
			}
			seen[key] = true
			child := key
			if path != "" {
				child = path + "." + key
			}
			if err := checkJSONKeys(dec, child); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := checkJSONKeys(dec, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token()
	return err
}

func rootMapping(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return t, nil
	case map[any]any:
		n, err := tree.Normalize(t)
		if err != nil {
			return nil, err
		}
		return n.(tree.Mapping), nil
	default:
		return nil, fmt.Errorf("document root must be a mapping, got %T", v)
	}
}
