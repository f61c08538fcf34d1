package emitter

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
	"github.com/NVIDIA/tuning-tables/pkg/table"
)

// separator is the banner rule line.
var separator = "// " + strings.Repeat("=", 97)

// Emitter renders tables and family umbrella files.
type Emitter struct {
	cfg      *config.Config
	renderer *TemplateRenderer
}

// New returns an Emitter. A nil cfg uses defaults.
func New(cfg *config.Config) *Emitter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Emitter{
		cfg:      cfg,
		renderer: NewTemplateRenderer(GetTemplate),
	}
}

type tableView struct {
	Banner         string
	NamespaceOpen  string
	NamespaceClose string
	Identifier     string
	Name           string
	PrecisionName  string
	Schema         string
	Vendors        []vendorView
}

type vendorView struct {
	Comment       string
	DeviceType    string
	Vendor        string
	Architectures []architectureView
}

type architectureView struct {
	Label   string
	Devices []deviceView
}

type deviceView struct {
	Name       string
	Parameters string
}

type sourcesView struct {
	Banner   string
	Includes []string
}

type declarationsView struct {
	Banner          string
	StructureHeader string
	NamespaceOpen   string
	NamespaceClose  string
	Identifiers     []string
}

// Banner returns the comment block opening every generated file. label is
// appended to the title-cased family, e.g. "Xgemm32".
func (e *Emitter) Banner(family, label string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(separator)
	b.WriteString("\n")
	fmt.Fprintf(&b, "// This file is part of the %s project. The project is licensed under Apache Version 2.0. It\n", e.cfg.ProjectName())
	fmt.Fprintf(&b, "// is auto-generated by the '%s' generator.\n", e.cfg.GeneratorName())
	b.WriteString("//\n")
	fmt.Fprintf(&b, "// This file populates the database with best-found tuning parameters for the '%s%s' kernels.\n", TitleCase(family), label)
	b.WriteString("//\n")
	b.WriteString(separator)
	b.WriteString("\n")
	return b.String()
}

// Identifier returns the C++ name of a family's table at precision.
func Identifier(family string, precision database.Precision) string {
	return CamelCase(family) + precision.Name()
}

// RenderPrecision renders the table file of one (family, precision).
func (e *Emitter) RenderPrecision(t *table.Table) (string, error) {
	quoted := make([]string, len(t.Schema))
	for i, name := range t.Schema {
		quoted[i] = `"` + name + `"`
	}

	view := tableView{
		Banner:         e.Banner(t.Family, t.Precision.Code()),
		NamespaceOpen:  e.namespaceOpen(),
		NamespaceClose: e.namespaceClose(),
		Identifier:     Identifier(t.Family, t.Precision),
		Name:           CamelCase(t.Family),
		PrecisionName:  t.Precision.Name(),
		Schema:         strings.Join(quoted, ", "),
	}

	for _, vb := range t.Vendors {
		vv := vendorView{Vendor: vb.Vendor}
		if vb.Default {
			vv.Comment = "Default"
			vv.DeviceType = vb.DeviceType
		} else {
			vv.Comment = fmt.Sprintf("%s %ss", vb.Vendor, vb.DeviceType)
			vv.DeviceType = capitalize(vb.DeviceType)
		}

		for _, ab := range vb.Architectures {
			av := architectureView{Label: ab.Label}
			for _, d := range ab.Devices {
				av.Devices = append(av.Devices, deviceView{
					Name:       e.formatName(d),
					Parameters: joinInts(d.Parameters),
				})
			}
			vv.Architectures = append(vv.Architectures, av)
		}
		view.Vendors = append(view.Vendors, vv)
	}

	out, err := e.renderer.Render(templateTable, view)
	if err != nil {
		return "", fmt.Errorf("render %s:%s: %w", t.Family, t.Precision.Code(), err)
	}
	return out, nil
}

// RenderSources renders the family source file including the family header
// and every precision table.
func (e *Emitter) RenderSources(family string, precisions []database.Precision) (string, error) {
	view := sourcesView{
		Banner:   e.Banner(family, ""),
		Includes: []string{path.Join(e.cfg.IncludePrefix(), e.DeclarationsFile(family))},
	}
	for _, p := range precisions {
		view.Includes = append(view.Includes, path.Join(e.cfg.IncludePrefix(), e.TableFile(family, p)))
	}

	out, err := e.renderer.Render(templateSources, view)
	if err != nil {
		return "", fmt.Errorf("render sources of %s: %w", family, err)
	}
	return out, nil
}

// RenderDeclarations renders the family header declaring every precision table.
func (e *Emitter) RenderDeclarations(family string, precisions []database.Precision) (string, error) {
	view := declarationsView{
		Banner:          e.Banner(family, ""),
		StructureHeader: e.cfg.StructureHeader(),
		NamespaceOpen:   e.namespaceOpen(),
		NamespaceClose:  e.namespaceClose(),
	}
	for _, p := range precisions {
		view.Identifiers = append(view.Identifiers, Identifier(family, p))
	}

	out, err := e.renderer.Render(templateDeclarations, view)
	if err != nil {
		return "", fmt.Errorf("render declarations of %s: %w", family, err)
	}
	return out, nil
}

// TableFile is the slash-separated path of a table file relative to the output root.
func (e *Emitter) TableFile(family string, precision database.Precision) string {
	return path.Join(family, family+"_"+precision.Code()+e.cfg.TableExtension())
}

// SourcesFile is the slash-separated path of the family source file.
func (e *Emitter) SourcesFile(family string) string {
	return path.Join(family, family+e.cfg.SourceExtension())
}

// DeclarationsFile is the slash-separated path of the family header.
func (e *Emitter) DeclarationsFile(family string) string {
	return path.Join(family, family+e.cfg.HeaderExtension())
}

func (e *Emitter) formatName(d table.DeviceEntry) string {
	if d.Default {
		return e.cfg.DeviceNameDefaultConstant()
	}
	return nameField(d.Name, e.cfg.NameLength())
}

func (e *Emitter) namespaceOpen() string {
	var b strings.Builder
	for _, ns := range e.cfg.Namespaces() {
		fmt.Fprintf(&b, "namespace %s {\n", ns)
	}
	return b.String()
}

func (e *Emitter) namespaceClose() string {
	namespaces := e.cfg.Namespaces()
	slices.Reverse(namespaces)

	var b strings.Builder
	for _, ns := range namespaces {
		fmt.Fprintf(&b, "} // namespace %s\n", ns)
	}
	return b.String()
}

func joinInts(values []int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ", ")
}
