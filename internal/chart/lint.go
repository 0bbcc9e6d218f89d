package chart

import (
	"fmt"
	"sort"

	"chartlabels/internal/labels"
	"chartlabels/internal/meta"

	k8slabels "k8s.io/apimachinery/pkg/labels"
)

// LintReleaseName is the release name used when linting a chart
const LintReleaseName = "release-name"

// workloadKinds carry spec.selector.matchLabels and a pod template
var workloadKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"DaemonSet":   true,
	"ReplicaSet":  true,
}

// Issue is a single label problem found in a rendered manifest
type Issue struct {
	Source  string
	Kind    string
	Name    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s/%s: %s", i.Source, i.Kind, i.Name, i.Message)
}

// LintResult summarises a lint pass
type LintResult struct {
	Chart     string
	Manifests int
	Documents int
	Issues    []Issue
}

// OK reports whether the lint pass found no issues
func (r *LintResult) OK() bool {
	return len(r.Issues) == 0
}

// LintOptions controls LintChart
type LintOptions struct {
	ChartPath   string
	ValuesFiles []string
	SetValues   []string
	Render      RenderOptions
}

// LintChart loads and renders a chart, then checks the labels of every
// rendered resource.
func LintChart(opts LintOptions) (*LintResult, error) {
	c, err := Load(opts.ChartPath)
	if err != nil {
		return nil, err
	}

	values, err := c.ResolveValues(opts.ValuesFiles, opts.SetValues)
	if err != nil {
		return nil, err
	}

	renderOpts := opts.Render
	renderOpts.Values = values
	if renderOpts.Release.Name == "" {
		renderOpts.Release.Name = LintReleaseName
	}
	if renderOpts.Release.Service == "" {
		renderOpts.Release.Service = labels.DefaultService
	}

	manifests, err := c.Render(renderOpts)
	if err != nil {
		return nil, err
	}

	ctx := &Context{Values: values, Chart: c.Metadata, Release: renderOpts.Release}
	result, err := Lint(manifests, ctx.CommonLabels(), ctx.SelectorLabels())
	if err != nil {
		return nil, err
	}
	result.Chart = c.Metadata.Name

	return result, nil
}

// Lint checks rendered manifests against the expected common and selector
// labels. Malformed YAML is an error; label problems are issues.
func Lint(manifests []Manifest, common, selector labels.List) (*LintResult, error) {
	result := &LintResult{Manifests: len(manifests)}

	for _, manifest := range manifests {
		docs, err := meta.ParseAll([]byte(manifest.Content))
		if err != nil {
			return nil, newError(ErrorTypeRender, manifest.Path, "invalid YAML", err)
		}

		for _, doc := range docs {
			result.Documents++
			result.Issues = append(result.Issues, lintDocument(manifest.Path, doc, common, selector)...)
		}
	}

	return result, nil
}

func lintDocument(source string, doc meta.Document, common, selector labels.List) []Issue {
	var issues []Issue
	report := func(format string, args ...interface{}) {
		issues = append(issues, Issue{
			Source:  source,
			Kind:    doc.Kind,
			Name:    doc.Metadata.Name,
			Message: fmt.Sprintf(format, args...),
		})
	}

	actual := doc.Metadata.Labels
	for _, label := range common {
		value, ok := actual[label.Key]
		switch {
		case !ok:
			report("missing label %s", label.Key)
		case value != label.Value:
			report("label %s is %q, expected %q", label.Key, value, label.Value)
		}
	}

	if err := labels.Validate(listOf(actual)); err != nil {
		report("%v", err)
	}

	switch {
	case workloadKinds[doc.Kind]:
		matchLabels, found, err := doc.StringMap("selector", "matchLabels")
		if err != nil {
			report("spec.selector.matchLabels: %v", err)
			break
		}
		if !found {
			report("spec.selector.matchLabels is not set")
			break
		}
		checkSelector(report, "spec.selector.matchLabels", matchLabels, selector)

		podLabels, _, err := doc.StringMap("template", "metadata", "labels")
		if err != nil {
			report("spec.template.metadata.labels: %v", err)
			break
		}
		if !k8slabels.SelectorFromSet(matchLabels).Matches(k8slabels.Set(podLabels)) {
			report("selector %s does not match pod template labels", k8slabels.Set(matchLabels).String())
		}
	case doc.Kind == "Service":
		serviceSelector, found, err := doc.StringMap("selector")
		if err != nil {
			report("spec.selector: %v", err)
			break
		}
		if found {
			checkSelector(report, "spec.selector", serviceSelector, selector)
		}
	}

	return issues
}

func checkSelector(report func(string, ...interface{}), field string, actual map[string]string, expected labels.List) {
	for _, label := range expected {
		if actual[label.Key] != label.Value {
			report("%s must contain %s=%s", field, label.Key, label.Value)
		}
	}
}

// listOf turns a label map into a list sorted by key
func listOf(m map[string]string) labels.List {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make(labels.List, 0, len(keys))
	for _, k := range keys {
		list = append(list, labels.Label{Key: k, Value: m[k]})
	}
	return list
}
