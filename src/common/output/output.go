package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Write serializes events in the given format.
func Write(w io.Writer, format Format, events []types.Event) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, events)
	case FormatXLSX:
		return WriteXLSX(w, events)
	case FormatJSON:
		return WriteJSON(w, events)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func WriteFile(path string, format Format, events []types.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := Write(f, format, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputPath places the output next to the input, swapping the extension.
func OutputPath(input string, format Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + format.Extension()
}
