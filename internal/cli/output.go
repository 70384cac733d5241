package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/lectern/internal/config"
	"github.com/rshade/lectern/internal/pagination"
	"github.com/rshade/lectern/internal/tui"
)

const (
	emptyListMessage = "No items match the current search and filters."
	staleMessage     = "offline: showing cached results"
)

// listOutput is the machine-readable envelope of one page.
type listOutput[T any] struct {
	Items      []T             `json:"items"           yaml:"items"`
	Pagination pagination.Meta `json:"pagination"      yaml:"pagination"`
	Stale      bool            `json:"stale,omitempty" yaml:"stale,omitempty"`
}

// resolveFormat returns the --output value, or the configured default when
// the flag was not given.
func resolveFormat(cmd *cobra.Command) (string, error) {
	format := config.GetDefaultOutputFormat()
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		format = f.Value.String()
	}
	format = strings.ToLower(format)
	if !config.IsValidFormat(format) {
		return "", fmt.Errorf("unsupported output format %q: use table, json, ndjson or yaml", format)
	}
	return format, nil
}

// outputMode resolves how tables are drawn from --no-color, --plain and the terminal.
func outputMode(cmd *cobra.Command) tui.OutputMode {
	noColor, _ := cmd.Flags().GetBool("no-color")
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.DetectOutputMode(false, noColor, plain)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML writes v as YAML.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// renderObject writes a single value. human renders the table form.
func renderObject(w io.Writer, format string, v any, human func(io.Writer) error) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, v)
	case config.FormatNDJSON:
		return json.NewEncoder(w).Encode(v)
	case config.FormatYAML:
		return writeYAML(w, v)
	default:
		return human(w)
	}
}

// renderPage writes one page of a listing in format.
func renderPage[T any](
	w io.Writer,
	format string,
	mode tui.OutputMode,
	st *pagination.State[T],
	page pagination.Page[T],
	cols []tui.Column[T],
) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}

	switch format {
	case config.FormatJSON:
		return writeJSON(w, listOutput[T]{Items: items, Pagination: pagination.NewMeta(page, st.Filter(), st.Sort()), Stale: page.Stale})
	case config.FormatYAML:
		return writeYAML(w, listOutput[T]{Items: items, Pagination: pagination.NewMeta(page, st.Filter(), st.Sort()), Stale: page.Stale})
	case config.FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return renderTable(w, mode, st, page, cols)
	}
}

// renderTable draws the page as a table followed by the page footer.
func renderTable[T any](
	w io.Writer,
	mode tui.OutputMode,
	st *pagination.State[T],
	page pagination.Page[T],
	cols []tui.Column[T],
) error {
	if len(page.Items) == 0 {
		if _, err := fmt.Fprintln(w, emptyListMessage); err != nil {
			return err
		}
	} else if mode == tui.OutputModePlain {
		if err := renderPlainTable(w, page.Items, cols); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, styledTable(page.Items, cols).Render()); err != nil {
			return err
		}
	}

	footer := tui.Footer(page.State) + "  " + tui.Criteria(st.Filter(), st.Sort())
	if mode != tui.OutputModePlain {
		footer = tui.SubtleStyle.Render(footer)
	}
	if _, err := fmt.Fprintln(w, footer); err != nil {
		return err
	}

	if page.Stale {
		msg := staleMessage
		if mode != tui.OutputModePlain {
			msg = tui.WarningStyle.Render(msg)
		}
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

// renderPlainTable writes a tab-aligned table without styling.
func renderPlainTable[T any](w io.Writer, items []T, cols []tui.Column[T]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = strings.ToUpper(c.Title)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	for _, item := range items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(item)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// styledTable builds a bordered lipgloss table with truncated cells.
func styledTable[T any](items []T, cols []tui.Column[T]) *table.Table {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = tui.Truncate(c.Value(item), c.Width)
		}
		rows = append(rows, cells)
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tui.SubtleStyle).
		Headers(titles...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle.Padding(0, 1)
			}
			if col < len(cols) && cols[col].Right {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
}
