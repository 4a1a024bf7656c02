package checklist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Renderer turns a report into a document of one format.
type Renderer interface {
	Extension() string
	Render(w io.Writer, r *Report) error
}

// RendererFor returns the renderer for an EXPORT_FORMAT value.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "pdf":
		return PDFRenderer{}, nil
	case "md", "markdown":
		return MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Exporter writes checklist documents into an output directory.
type Exporter struct {
	dir      string
	renderer Renderer
	logger   zerolog.Logger
}

func NewExporter(dir string, renderer Renderer, logger zerolog.Logger) *Exporter {
	return &Exporter{
		dir:      dir,
		renderer: renderer,
		logger:   logger.With().Str("component", "checklist_export").Logger(),
	}
}

// Dir returns the output directory.
func (x *Exporter) Dir() string { return x.dir }

// Export renders the patient's checklist and returns the written path. A
// patient without entries yields ErrNothingToExport and touches nothing on
// disk. An existing document for the same patient is overwritten.
func (x *Exporter) Export(patientName string, entries []*Entry) (string, error) {
	report, err := BuildReport(patientName, entries)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := x.renderer.Render(&buf, report); err != nil {
		return "", fmt.Errorf("render checklist: %w", err)
	}

	if err := os.MkdirAll(x.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(x.dir, FileName(patientName, x.renderer.Extension()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write checklist document: %w", err)
	}

	x.logger.Info().
		Str("patient_name", patientName).
		Str("path", path).
		Int("sections", len(report.Sections)).
		Msg("checklist exported")
	return path, nil
}

// FileName is the document name for a patient. Whitespace and path
// separators become underscores so the name stays inside the output
// directory.
func FileName(patientName, ext string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, patientName)
	return "Checklist_OMS_" + safe + "." + ext
}
