package emitter

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// TemplateRenderer parses templates on first use and renders them.
type TemplateRenderer struct {
	getter TemplateFunc

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewTemplateRenderer creates a new template renderer with the given template getter.
func NewTemplateRenderer(getter TemplateFunc) *TemplateRenderer {
	return &TemplateRenderer{
		getter: getter,
		parsed: make(map[string]*template.Template),
	}
}

// Render renders the named template with the given data.
func (r *TemplateRenderer) Render(name string, data any) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

func (r *TemplateRenderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.parsed[name]; ok {
		return tmpl, nil
	}

	content, ok := r.getter(name)
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	r.parsed[name] = tmpl

	return tmpl, nil
}
