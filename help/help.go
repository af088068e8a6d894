// Package help renders the usage text for a command tree.
//
// The core engine only consumes rendering through the Renderer interface;
// this package is the default implementation, kept deliberately minimal
// (no colorization, no markdown) so the boundary stays honest: a template
// writes the root command's arguments, options and direct sub-commands, so
// the line format isn't hard-coded in Go control flow. Sub-commands below
// the first level are not listed.
package help

import (
	"io"
	"strings"
	"text/template"
)

// ArgumentModel describes one positional argument for rendering.
type ArgumentModel struct {
	Name     string
	Desc     string
	Required bool
	Multiple bool
	Type     string
}

// OptionModel describes one option for rendering.
type OptionModel struct {
	Long     string
	Short    string
	Desc     string
	Hidden   bool
	Negated  bool
	HasValue bool
	Default  any
}

// CommandModel describes one command and its subtree for rendering.
type CommandModel struct {
	Name      string
	Aliases   []string
	Desc      string
	Banner    string
	Arguments []ArgumentModel
	Options   []OptionModel
	Commands  []CommandModel
}

// Model is the root render input built by the CLI from its Context tree.
type Model struct {
	Name    string
	Title   string
	Desc    string
	Version string
	Root    CommandModel
}

// Renderer renders a Model as help text to w.
type Renderer interface {
	Render(w io.Writer, m Model) error
}

// TemplateRenderer is the default [Renderer], built on text/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer returns the default renderer. A caller may supply its
// own text to override the built-in layout; an empty string uses the
// built-in one.
func NewTemplateRenderer(text string) (*TemplateRenderer, error) {
	if text == "" {
		text = defaultTemplate
	}
	t, err := template.New("help").Funcs(template.FuncMap{
		"indent": indent,
	}).Parse(text)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tmpl: t}, nil
}

// Render implements Renderer.
func (r *TemplateRenderer) Render(w io.Writer, m Model) error {
	return r.tmpl.Execute(w, m)
}

func indent(n int, s string) string {
	prefix := strings.Repeat("  ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

const defaultTemplate = `{{.Title}}{{if .Desc}} - {{.Desc}}{{end}}
{{if .Version}}version {{.Version}}
{{end}}
Usage: {{.Name}} {{.Root.Name}} [options] [command]
{{if .Root.Arguments}}
Arguments:
{{- range .Root.Arguments}}
  {{.Name}}{{if .Required}} (required){{end}}{{if .Multiple}} (multiple){{end}}	{{.Desc}}
{{- end}}
{{end}}
{{if .Root.Options}}Options:
{{- range .Root.Options}}
{{- if not .Hidden}}
  {{if .Short}}-{{.Short}}, {{end}}--{{.Long}}	{{.Desc}}
{{- end}}
{{- end}}
{{end}}
{{if .Root.Commands}}Commands:
{{- range .Root.Commands}}
  {{.Name}}	{{.Desc}}
{{- end}}
{{end}}`
