package render

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is an output format for reports
type Format string

const (
	// FormatTable renders human readable tables
	FormatTable Format = "table"
	// FormatJSON renders machine-readable JSON
	FormatJSON Format = "json"
	// FormatYAML renders YAML
	FormatYAML Format = "yaml"
	// FormatJUnit renders JUnit XML for CI systems
	FormatJUnit Format = "junit"
)

// Formats lists every supported format
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatJUnit}

// String returns the string representation of the format
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "junit", "xml":
		return FormatJUnit, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown output format %q", s)
}

// ColorEnabled reports whether styled output should be written to w
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return false
	}

	return termenv.NewOutput(file).ColorProfile() != termenv.Ascii
}
