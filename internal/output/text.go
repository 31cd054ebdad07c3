package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/tree"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	nullStyle   = lipgloss.NewStyle().Faint(true)
)

// TextWriter outputs a human-readable listing of every option.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, comps []resolve.Resolved) error {
	ew := &errWriter{w: w}
	for i, c := range comps {
		if i > 0 {
			ew.println("")
		}
		ew.println(headerStyle.Render("Component " + c.Name + "  (file suffix " + c.FileSuffix + ")"))
		ew.println(strings.Repeat("─", 60))

		flat := tree.Flatten(c.Config)
		section := ""
		for _, path := range sortedPaths(flat) {
			sec, key, nested := strings.Cut(path, ".")
			val := flat[path]
			rendered := FormatValue(val)
			if val == nil {
				rendered = nullStyle.Render(rendered)
			}
			if !nested {
				ew.printf("\n[%s] %s\n", sec, rendered)
				section = ""
				continue
			}
			if sec != section {
				section = sec
				ew.printf("\n[%s]\n", sec)
			}
			ew.printf("  %s = %s\n", keyStyle.Render(key), rendered)
		}
	}
	return ew.err
}
