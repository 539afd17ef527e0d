package visual

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(tmplMapPage))

type pageData struct {
	Spec RenderSpec
}

// RenderPage writes the standalone HTML map page for spec.
func RenderPage(w io.Writer, spec RenderSpec) error {
	// Render to a buffer first so a template failure never leaves a half page.
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Spec: spec}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("render page: write: %w", err)
	}
	return nil
}
