package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/fermicfg/internal/tree"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// WriteDiff renders the differences between two configurations labelled a
// and b. Format "json" writes the change list as JSON; anything else writes
// a unified-style listing.
func WriteDiff(w io.Writer, changes []tree.Change, a, b, format string) error {
	if format == FormatJSON {
		if changes == nil {
			changes = []tree.Change{}
		}
		data, err := json.MarshalIndent(changes, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	ew := &errWriter{w: w}
	ew.println(removedStyle.Render("--- " + a))
	ew.println(addedStyle.Render("+++ " + b))
	if len(changes) == 0 {
		ew.println("\nNo differences.")
		return ew.err
	}
	for _, c := range changes {
		switch {
		case c.Added:
			ew.println(addedStyle.Render(fmt.Sprintf("+ %s: %s", c.Path, FormatValue(c.New))))
		case c.Removed:
			ew.println(removedStyle.Render(fmt.Sprintf("- %s: %s", c.Path, FormatValue(c.Old))))
		default:
			ew.println(removedStyle.Render(fmt.Sprintf("- %s: %s", c.Path, FormatValue(c.Old))))
			ew.println(addedStyle.Render(fmt.Sprintf("+ %s: %s", c.Path, FormatValue(c.New))))
		}
	}
	ew.printf("\n%d option(s) differ\n", len(changes))
	return ew.err
}
