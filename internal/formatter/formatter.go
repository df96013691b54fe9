// package formatter renders compositions for the command line (table, CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
)

// Format names an output format for composition listings.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: format must be one of table, csv, json, got %q", shared.ErrInvalidFlag, s)
	}
}

// TimeLayout is the created_at layout used by the table and CSV renderers.
const TimeLayout = time.RFC3339

var styles = NewPalette("#7D56F4", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	header lipgloss.Style
	border lipgloss.Style
	cell   lipgloss.Style
}

func NewPalette(accent, muted string) *Palette {
	return &Palette{
		header: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true).Padding(0, 1),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		cell:   lipgloss.NewStyle().Padding(0, 1),
	}
}

// Render writes summaries in the given format.
func Render(summaries []models.Summary, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return SummariesToCSV(summaries)
	case FormatJSON:
		return shared.MarshalJSON(summaries, true)
	default:
		return SummariesToTable(summaries), nil
	}
}

// SummariesToTable renders summaries as a bordered table with columns: ID, Name, Created
func SummariesToTable(summaries []models.Summary) []byte {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, summaryRecord(s))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		Headers("ID", "NAME", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		})

	return []byte(t.String() + "\n")
}

// SummariesToCSV converts summaries to CSV format with columns: ID, Name, Created
func SummariesToCSV(summaries []models.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Created"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range summaries {
		if err := writer.Write(summaryRecord(s)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func summaryRecord(s models.Summary) []string {
	return []string{s.ID.String(), s.Name, s.CreatedAt.UTC().Format(TimeLayout)}
}

// CompositionToText renders a composition for the terminal; tracks are indented when they hold JSON.
func CompositionToText(comp *models.Composition) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Composition: %s\n", comp.Name)
	fmt.Fprintf(&buf, "ID: %s\n", comp.ID)
	fmt.Fprintf(&buf, "Created: %s\n\n", comp.CreatedAt.UTC().Format(TimeLayout))

	buf.WriteString("Tracks:\n")
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(comp.Tracks), "", "  "); err == nil {
		buf.Write(pretty.Bytes())
	} else {
		buf.WriteString(comp.Tracks.String())
	}
	buf.WriteString("\n")

	return buf.Bytes()
}

// WriteCompositionExport writes a composition as indented JSON.
//
// Defaults to {id}.json as the filename.
func WriteCompositionExport(comp *models.Composition, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.json", comp.ID)
	}

	data, err := shared.MarshalJSON(comp, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
