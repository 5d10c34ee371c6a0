package messenger

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

// Generator renders lead acknowledgements from templates
type Generator struct {
	template *template.Template
}

// TemplateData contains data for acknowledgement templates
type TemplateData struct {
	Name string

	// Inquiry
	PropertyName  string
	PropertyPrice string

	// Tour booking
	TourName string
	TourDate string
	Guests   int
}

// NewGenerator parses the template set at templatePath. A missing file
// falls back to the built-in templates; the file only has to define the
// kinds it wants to override.
func NewGenerator(templatePath string) (*Generator, error) {
	tmpl, err := template.New("acknowledgements").Parse(defaultTemplates)
	if err != nil {
		return nil, err
	}

	if templatePath != "" {
		if content, err := os.ReadFile(templatePath); err == nil {
			if tmpl, err = tmpl.Parse(string(content)); err != nil {
				return nil, fmt.Errorf("parse %s: %w", templatePath, err)
			}
		}
	}

	return &Generator{
		template: tmpl,
	}, nil
}

// Acknowledge renders the confirmation text for a lead kind
func (g *Generator) Acknowledge(kind domain.LeadKind, data TemplateData) (string, error) {
	if g.template.Lookup(string(kind)) == nil {
		return "", fmt.Errorf("no template for lead kind %q", kind)
	}

	var buf bytes.Buffer
	if err := g.template.ExecuteTemplate(&buf, string(kind), data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const defaultTemplates = `
{{- define "contact" -}}
Thank you{{if .Name}}, {{.Name}}{{end}}! Your message has been received. Our team will get back to you within one business day.
{{- end -}}

{{- define "inquiry" -}}
Thank you{{if .Name}}, {{.Name}}{{end}}! Your inquiry about {{.PropertyName}}{{if .PropertyPrice}} ({{.PropertyPrice}}){{end}} has been submitted successfully. We'll get back to you soon.
{{- end -}}

{{- define "tour_booking" -}}
Booking confirmed! {{.TourName}} on {{.TourDate}} for {{.Guests}} {{if eq .Guests 1}}guest{{else}}guests{{end}}. We'll send you a confirmation email shortly.
{{- end -}}
`
