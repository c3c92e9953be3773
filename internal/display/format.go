package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-lobby/internal/mirror"
)

// templateFuncs provides utility functions for event templates.
var templateFuncs = sprig.TxtFuncMap()

// DefaultEventFormat renders one notification per line. Templates execute
// against a mirror.Notification, so .Room and .Player are nil-checked with
// "with" blocks.
const DefaultEventFormat = `{{ printf "%-18s" .Event }}{{ with .Room }} {{ .Name }}{{ end }}{{ with .Player }} {{ .Name }}{{ if .Color }} [{{ .Color }}]{{ end }}{{ if .Ready }} ready{{ end }}{{ end }}`

// EventTemplate renders lobby notifications into display lines.
type EventTemplate struct {
	tmpl *template.Template
}

// NewEventTemplate parses format as a text/template with the sprig function
// map available.
func NewEventTemplate(format string) (*EventTemplate, error) {
	tmpl, err := template.New("event").Funcs(templateFuncs).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("parsing event template: %w", err)
	}
	return &EventTemplate{tmpl: tmpl}, nil
}

func (t *EventTemplate) Render(n mirror.Notification) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("executing event template: %w", err)
	}
	return buf.String(), nil
}
