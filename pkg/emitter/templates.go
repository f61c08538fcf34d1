package emitter

import (
	_ "embed"
)

//go:embed templates/table.hpp.tmpl
var tableTemplate string

//go:embed templates/sources.cpp.tmpl
var sourcesTemplate string

//go:embed templates/declarations.hpp.tmpl
var declarationsTemplate string

const (
	templateTable        = "table"
	templateSources      = "sources"
	templateDeclarations = "declarations"
)

// TemplateFunc looks up template content by name.
type TemplateFunc func(name string) (string, bool)

// NewTemplateGetter creates a TemplateFunc from a map of template names to content.
func NewTemplateGetter(templates map[string]string) TemplateFunc {
	return func(name string) (string, bool) {
		tmpl, ok := templates[name]
		return tmpl, ok
	}
}

// GetTemplate serves the embedded table, sources and declarations templates.
var GetTemplate = NewTemplateGetter(map[string]string{
	templateTable:        tableTemplate,
	templateSources:      sourcesTemplate,
	templateDeclarations: declarationsTemplate,
})
