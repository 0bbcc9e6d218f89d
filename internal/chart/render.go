package chart

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"chartlabels/internal/labels"

	"github.com/Masterminds/sprig/v3"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// helpersTemplate defines the label helpers every chart gets for free. A
// chart's own _helpers.tpl may redefine any of them.
const helpersTemplate = `{{- define "%[1]s.name" -}}{{ chartName . }}{{- end -}}
{{- define "%[1]s.chart" -}}{{ chartID . }}{{- end -}}
{{- define "%[1]s.labels" -}}{{ commonLabels . }}{{- end -}}
{{- define "%[1]s.selectorLabels" -}}{{ selectorLabels . }}{{- end -}}`

// RenderOptions controls a render pass
type RenderOptions struct {
	Release labels.Release
	// Values replaces the chart defaults when non-nil
	Values map[string]interface{}
	// Strict fails on references to missing values keys
	Strict bool
	Logger *zap.Logger
}

// Context is the dot passed to every template
type Context struct {
	Values  map[string]interface{}
	Chart   Metadata
	Release labels.Release
}

// Manifest is the output of one template file
type Manifest struct {
	Path    string
	Content string
}

// Render executes every non-partial template of the chart. Templates that
// render to whitespace only are dropped.
func (c *Chart) Render(opts RenderOptions) ([]Manifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	values := opts.Values
	if values == nil {
		values = c.Values
	}

	release := opts.Release
	if release.Service == "" {
		release.Service = labels.DefaultService
	}

	ctx := &Context{
		Values:  values,
		Chart:   c.Metadata,
		Release: release,
	}

	root, names, err := c.parseTemplates(opts.Strict)
	if err != nil {
		return nil, err
	}

	var manifests []Manifest
	for _, name := range names {
		if isPartial(name) {
			continue
		}

		var buf bytes.Buffer
		if err := root.ExecuteTemplate(&buf, name, ctx); err != nil {
			return nil, newError(ErrorTypeRender, name, "failed to render template", err)
		}

		content := strings.ReplaceAll(buf.String(), "<no value>", "")
		if strings.TrimSpace(content) == "" {
			logger.Debug("skipping empty template", zap.String("template", name))
			continue
		}

		logger.Debug("rendered template", zap.String("template", name), zap.Int("bytes", len(content)))
		manifests = append(manifests, Manifest{Path: name, Content: content})
	}

	return manifests, nil
}

// parseTemplates parses the built-in helpers followed by every template file.
// Template names are paths relative to the chart root.
func (c *Chart) parseTemplates(strict bool) (*template.Template, []string, error) {
	var root *template.Template

	funcs := sprig.TxtFuncMap()
	for name, fn := range labelFuncs() {
		funcs[name] = fn
	}
	funcs["toYaml"] = toYAML
	funcs["required"] = required
	funcs["include"] = func(name string, data interface{}) (string, error) {
		var buf strings.Builder
		if err := root.ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	missingKey := "missingkey=zero"
	if strict {
		missingKey = "missingkey=error"
	}

	root = template.New(c.Metadata.Name).Option(missingKey).Funcs(funcs)
	if _, err := root.Parse(fmt.Sprintf(helpersTemplate, c.Metadata.Name)); err != nil {
		return nil, nil, newError(ErrorTypeTemplate, "helpers", "failed to parse built-in helpers", err)
	}

	var names []string
	templatesDir := filepath.Join(c.Path, TemplatesDir)
	err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" && ext != ".tpl" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return newError(ErrorTypeTemplate, path, "failed to read template", err)
		}

		rel, err := filepath.Rel(c.Path, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if _, err := root.New(name).Parse(string(content)); err != nil {
			return newError(ErrorTypeTemplate, name, "failed to parse template", err)
		}
		names = append(names, name)

		return nil
	})
	if err != nil {
		if _, ok := AsError(err); ok {
			return nil, nil, err
		}
		return nil, nil, newError(ErrorTypeTemplate, templatesDir, "failed to walk templates", err)
	}

	return root, names, nil
}

// labelFuncs exposes the label helpers to templates. Each takes the render
// context as its only argument.
func labelFuncs() template.FuncMap {
	return template.FuncMap{
		"chartName": func(dot interface{}) (string, error) {
			ctx, err := contextOf(dot)
			if err != nil {
				return "", err
			}
			return labels.Name(ctx.Chart.LabelChart(), LabelValues(ctx.Values)), nil
		},
		"chartID": func(dot interface{}) (string, error) {
			ctx, err := contextOf(dot)
			if err != nil {
				return "", err
			}
			return labels.ChartID(ctx.Chart.LabelChart()), nil
		},
		"commonLabels": func(dot interface{}) (string, error) {
			ctx, err := contextOf(dot)
			if err != nil {
				return "", err
			}
			return ctx.CommonLabels().String(), nil
		},
		"selectorLabels": func(dot interface{}) (string, error) {
			ctx, err := contextOf(dot)
			if err != nil {
				return "", err
			}
			return ctx.SelectorLabels().String(), nil
		},
	}
}

// CommonLabels returns the common labels for this render
func (ctx *Context) CommonLabels() labels.List {
	return labels.Common(ctx.Chart.LabelChart(), LabelValues(ctx.Values), ctx.Release)
}

// SelectorLabels returns the selector labels for this render
func (ctx *Context) SelectorLabels() labels.List {
	return labels.Selector(ctx.Chart.LabelChart(), LabelValues(ctx.Values), ctx.Release)
}

func contextOf(dot interface{}) (*Context, error) {
	switch ctx := dot.(type) {
	case *Context:
		return ctx, nil
	case Context:
		return &ctx, nil
	default:
		return nil, fmt.Errorf("label helpers need the top-level context, got %T", dot)
	}
}

func toYAML(v interface{}) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(string(data), "\n")
}

func required(msg string, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("%s", msg)
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, fmt.Errorf("%s", msg)
	}
	return v, nil
}

func isPartial(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "_")
}
