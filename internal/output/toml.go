package output

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/tree"
)

// TOMLWriter writes each component as a TOML document. TOML has no null, so
// unset options are omitted and take their defaults when the document is
// loaded again.
type TOMLWriter struct{}

func (t *TOMLWriter) Write(w io.Writer, comps []resolve.Resolved) error {
	ew := &errWriter{w: w}
	for i, c := range comps {
		if len(comps) > 1 {
			if i > 0 {
				ew.println("")
			}
			ew.printf("# component %s (file suffix %s)\n", c.Name, c.FileSuffix)
		}
		if ew.err != nil {
			return ew.err
		}
		enc := toml.NewEncoder(w)
		if err := enc.Encode(map[string]any(tree.PruneNil(c.Config))); err != nil {
			return fmt.Errorf("marshaling TOML: %w", err)
		}
	}
	return ew.err
}
