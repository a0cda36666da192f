package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"cssfig/common"
	"cssfig/config"
	"cssfig/sink"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	SourceFile string
	Format     string
	Paints     int
	Texts      int
}

func newValues(name config.TemplateFieldName, src string, doc *sink.Document, format common.OutputFmt) Values {
	return Values{
		Context:    string(name),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Format:     format.String(),
		Paints:     len(doc.Paints),
		Texts:      len(doc.Texts),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
