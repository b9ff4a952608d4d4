package document

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("document.html.tmpl").
	Funcs(template.FuncMap{
		"date": func(d Document) string {
			if d.Date.IsZero() {
				return "-"
			}
			return d.Date.Format("02/01/2006")
		},
	}).
	ParseFS(templateFS, "templates/document.html.tmpl"))

// Render writes the document as a standalone HTML page.
func Render(w io.Writer, d Document) error {
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("render %s: %w", d.Kind, err)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName is the export name: cotizacion_compra.html for quotations and
// factura_<order id>.html for invoices.
func FileName(d Document) string {
	if d.Kind == KindInvoice {
		id := unsafeFileChars.ReplaceAllString(d.OrderID, "_")
		if id == "" {
			id = d.Number
		}
		return "factura_" + id + ".html"
	}
	return "cotizacion_compra.html"
}

type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir}
}

// Export renders d into the export directory and returns the file path.
func (e *Exporter) Export(d Document) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(e.dir, FileName(d))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
