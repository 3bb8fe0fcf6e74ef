// Package codec reads and writes discovered topologies in file formats
// other tools understand.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lldpgraph/internal/domain"
)

// Importer interface for importing graph data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.GraphFragment, error)
	Format() string
}

// Exporter interface for exporting graph data to various formats
type Exporter interface {
	Export(fragment *domain.GraphFragment, w io.Writer) error
	Format() string
}

// ExporterFor returns the exporter registered under format
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "ansible", "ansible-inventory":
		return NewAnsibleCodec(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ImporterFor picks an importer from a file extension
func ImporterFor(path string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("cannot import %s: expected .json, .yaml or .yml", path)
	}
}

// Extension returns the file extension used for an export format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return ".json"
	default:
		return ".yaml"
	}
}
