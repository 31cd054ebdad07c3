package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/fermicfg/internal/resolve"
)

// YAMLWriter writes each component as a YAML document. Multiple components
// are separated by document markers and preceded by a comment naming them.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, comps []resolve.Resolved) error {
	ew := &errWriter{w: w}
	for i, c := range comps {
		if len(comps) > 1 {
			if i > 0 {
				ew.println("---")
			}
			ew.printf("# component %s (file suffix %s)\n", c.Name, c.FileSuffix)
		}
		data, err := yaml.Marshal(map[string]any(c.Config))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		ew.printf("%s", data)
	}
	return ew.err
}
