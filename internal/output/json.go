package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/fermicfg/internal/resolve"
)

// JSONWriter outputs every component as a JSON array.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, comps []resolve.Resolved) error {
	if comps == nil {
		comps = []resolve.Resolved{}
	}
	data, err := json.MarshalIndent(comps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
