package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// render writes v as JSON or YAML when asked to, and otherwise calls table.
func (r *runner) render(v any, table func(w io.Writer)) error {
	switch r.output {
	case outputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(r.opts.Out, string(b))
		return err

	case outputYAML:
		return writeYAML(r.opts.Out, v)

	case outputTable, "":
		table(r.opts.Out)
		return nil

	default:
		return fmt.Errorf("unknown output format %q, expected table, json or yaml", r.output)
	}
}

// writeYAML goes through JSON first so that field names and timestamps match
// the API representation.
func writeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

// printTable prints a table with ASCII borders. Rows may be shorter than
// headers and are padded.
func printTable(w io.Writer, headers []string, rows [][]string) {
	cols := len(headers)
	if cols == 0 {
		return
	}

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], ansi.StringWidth(row[i]))
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, width := range widths {
		sep.WriteString(strings.Repeat("-", width+2))
		sep.WriteString("+")
	}

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", width-ansi.StringWidth(cell)))
			b.WriteString(" |")
		}
		return b.String()
	}

	fmt.Fprintln(w, sep.String())
	fmt.Fprintln(w, line(headers))
	fmt.Fprintln(w, sep.String())
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
	fmt.Fprintln(w, sep.String())
}

// printFields prints label/value pairs aligned on the colon.
func printFields(w io.Writer, fields [][2]string) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f[0]))
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-*s  %s\n", width+1, f[0]+":", f[1])
	}
}

// truncate shortens s to n display cells.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, n, "…")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
