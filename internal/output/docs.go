package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dshills/fermicfg/internal/schema"
	"github.com/dshills/fermicfg/internal/tree"
)

// Formats accepted by GetDocWriter.
const (
	DocMarkdown = "markdown"
	DocRST      = "rst"
	DocCSV      = "csv"
	DocTerm     = "term"
)

// DocWriter renders the option schema and output record layouts as
// reference tables.
type DocWriter interface {
	WriteSections(w io.Writer, sections []schema.Section) error
	WriteTables(w io.Writer, tables []schema.Table) error
}

// GetDocWriter returns a reference table writer for the specified format.
func GetDocWriter(format string) (DocWriter, error) {
	switch format {
	case DocMarkdown, "md", "":
		return &MarkdownDoc{}, nil
	case DocRST:
		return &RSTDoc{}, nil
	case DocCSV:
		return &CSVDoc{}, nil
	case DocTerm:
		return &TermDoc{Width: 100}, nil
	default:
		return nil, fmt.Errorf("unsupported doc format: %s", format)
	}
}

// FormatDefault renders a default value the way the pipeline documentation
// prints it.
func FormatDefault(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return "'" + t + "'"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = FormatDefault(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case tree.Mapping:
		keys := t.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = "'" + k + "': " + FormatDefault(t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// sortedOptions returns the options of a section ordered by name.
func sortedOptions(s schema.Section) []schema.Option {
	opts := append([]schema.Option(nil), s.Options...)
	sort.Slice(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	return opts
}

// MarkdownDoc writes GitHub-flavoured markdown tables.
type MarkdownDoc struct{}

func (m *MarkdownDoc) WriteSections(w io.Writer, sections []schema.Section) error {
	ew := &errWriter{w: w}
	for _, s := range sections {
		ew.printf("## %s\n\n", s.Name)
		if s.Help != "" {
			ew.printf("%s\n\n", s.Help)
		}
		ew.println("| Option | Default | Type | Description |")
		ew.println("|--------|---------|------|-------------|")
		for _, o := range sortedOptions(s) {
			ew.printf("| `%s` | `%s` | %s | %s |\n", o.Name, FormatDefault(o.Default), o.Kind, mdCell(o.Help))
		}
		ew.println("")
	}
	return ew.err
}

func (m *MarkdownDoc) WriteTables(w io.Writer, tables []schema.Table) error {
	ew := &errWriter{w: w}
	for _, t := range tables {
		ew.printf("## %s\n\n", t.Name)
		if t.Help != "" {
			ew.printf("%s\n\n", t.Help)
		}
		ew.println("| Key | Type | Default | Description |")
		ew.println("|-----|------|---------|-------------|")
		for _, f := range t.Fields {
			ew.printf("| `%s` | %s | `%s` | %s |\n", f.Name, mdCell(f.Type), f.Default, mdCell(f.Help))
		}
		ew.println("")
	}
	return ew.err
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RSTDoc writes reStructuredText csv-table directives.
type RSTDoc struct{}

func (r *RSTDoc) WriteSections(w io.Writer, sections []schema.Section) error {
	ew := &errWriter{w: w}
	for _, s := range sections {
		rows := make([][]string, 0, len(s.Options))
		for _, o := range sortedOptions(s) {
			rows = append(rows, []string{rstLiteral(o.Name), rstLiteral(FormatDefault(o.Default)), o.Help})
		}
		body, err := csvLines(rows)
		if err != nil {
			return err
		}
		ew.printf(".. csv-table:: *%s* Options\n", s.Name)
		ew.println("   :header:    Option, Default, Description")
		ew.println("   :widths:    10, 10, 80")
		ew.println("")
		ew.printf("%s\n", indent(body, "   "))
	}
	return ew.err
}

func (r *RSTDoc) WriteTables(w io.Writer, tables []schema.Table) error {
	ew := &errWriter{w: w}
	for _, t := range tables {
		rows := make([][]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			rows = append(rows, []string{rstLiteral(f.Name), f.Type, rstLiteral(f.Default), f.Help})
		}
		body, err := csvLines(rows)
		if err != nil {
			return err
		}
		ew.printf(".. csv-table:: *%s*\n", t.Name)
		ew.println("   :header:    Key, Type, Default, Description")
		ew.println("   :widths:    20, 10, 10, 60")
		ew.println("")
		ew.printf("%s\n", indent(body, "   "))
	}
	return ew.err
}

func rstLiteral(s string) string {
	return "``" + s + "``"
}

func csvLines(rows [][]string) (string, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return "", fmt.Errorf("writing CSV: %w", err)
	}
	return buf.String(), nil
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

// CSVDoc writes one flat CSV table with a leading section column.
type CSVDoc struct{}

func (c *CSVDoc) WriteSections(w io.Writer, sections []schema.Section) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "option", "default", "type", "description"}); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	for _, s := range sections {
		for _, o := range sortedOptions(s) {
			if err := cw.Write([]string{s.Name, o.Name, FormatDefault(o.Default), o.Kind.String(), o.Help}); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (c *CSVDoc) WriteTables(w io.Writer, tables []schema.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"table", "key", "type", "default", "description"}); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	for _, t := range tables {
		for _, f := range t.Fields {
			if err := cw.Write([]string{t.Name, f.Name, f.Type, f.Default, f.Help}); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// TermDoc renders the markdown tables for a terminal. An empty Style picks
// a dark or light theme from the terminal background.
type TermDoc struct {
	Style string
	Width int
}

func (t *TermDoc) render(w io.Writer, md string) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(t.Width)}
	if t.Style != "" {
		opts = append(opts, glamour.WithStandardStyle(t.Style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func (t *TermDoc) WriteSections(w io.Writer, sections []schema.Section) error {
	var buf bytes.Buffer
	if err := (&MarkdownDoc{}).WriteSections(&buf, sections); err != nil {
		return err
	}
	return t.render(w, buf.String())
}

func (t *TermDoc) WriteTables(w io.Writer, tables []schema.Table) error {
	var buf bytes.Buffer
	if err := (&MarkdownDoc{}).WriteTables(&buf, tables); err != nil {
		return err
	}
	return t.render(w, buf.String())
}
