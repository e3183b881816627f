// package formatter renders combo lists (menus and viewing history) as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/breakfast/internal/models"
	"github.com/desertthunder/breakfast/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats in the order shown in help text.
var Formats = []Format{FormatJSON, FormatText, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name or a common alias ("txt", "md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Ext returns the file extension, with the leading dot, used for f.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

// Export renders list in format f.
func Export(list *models.ComboList, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(list)
	case FormatText:
		return ExportToText(list)
	case FormatCSV:
		return ExportToCSV(list)
	case FormatMarkdown:
		return ExportToMarkdown(list)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
}

// ExportToJSON renders the combos as a JSON array of strings, the same shape menu import reads.
func ExportToJSON(list *models.ComboList) ([]byte, error) {
	combos := list.Combos
	if combos == nil {
		combos = []models.Combo{}
	}

	data, err := json.MarshalIndent(combos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts a ComboList to CSV format with columns: Position, Combo, Price
func ExportToCSV(list *models.ComboList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Combo", "Price"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, combo := range list.Combos {
		name, price, _ := models.SplitCombo(combo)
		if err := writer.Write([]string{strconv.Itoa(i + 1), name, price}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ComboList to a Markdown document with a numbered list
func ExportToMarkdown(list *models.ComboList) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", list.Name))
	buf.WriteString(fmt.Sprintf("**Combos**: %d\n", len(list.Combos)))
	if !list.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", list.ExportedAt.Format("2006-01-02 15:04")))
	}
	buf.WriteString("\n")

	for i, combo := range list.Combos {
		name, price, ok := models.SplitCombo(combo)
		if ok {
			buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, name, price))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText writes one combo per line, which menu import reads back unchanged.
func ExportToText(list *models.ComboList) ([]byte, error) {
	var buf bytes.Buffer
	for _, combo := range list.Combos {
		buf.WriteString(combo)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// WriteExport renders list and writes it to path.
//
// Defaults to the slugified list name plus the format extension in the working directory.
func WriteExport(list *models.ComboList, f Format, path string) (string, error) {
	if path == "" {
		path = Slug(list.Name) + f.Ext()
	}

	data, err := Export(list, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// Slug lowercases name and replaces runs of anything but ASCII letters and digits with a hyphen.
// Names with no usable characters become "menu".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "menu"
	}
	return s
}
