package chart

import (
	"testing"

	"chartlabels/internal/labels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRender(t *testing.T) {
	c, err := Load(testChart(t))
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{
		Release: labels.Release{Name: "devpulse", Namespace: "prod"},
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	require.Len(t, manifests, 2)

	assert.Equal(t, "templates/deployment.yaml", manifests[0].Path)
	assert.Equal(t, "templates/service.yaml", manifests[1].Path)

	deployment := manifests[0].Content
	assert.Contains(t, deployment, "  name: task-service\n")
	assert.Contains(t, deployment, `  labels:
    helm.sh/chart: task-service-0.3.0_build.7
    app.kubernetes.io/name: task-service
    app.kubernetes.io/instance: devpulse
    app.kubernetes.io/version: "2.0.0"
    app.kubernetes.io/managed-by: Helm
`)
	assert.Contains(t, deployment, `    matchLabels:
      app.kubernetes.io/name: task-service
      app.kubernetes.io/instance: devpulse
`)
	assert.Contains(t, deployment, `image: "devpulse/task-service:2.0.0"`)
	assert.NotContains(t, deployment, "<no value>")
}

func TestRenderHonoursValues(t *testing.T) {
	c, err := Load(testChart(t))
	require.NoError(t, err)

	values, err := c.ResolveValues(nil, []string{"nameOverride=tasks", "managedBy=argocd", "image.tag=abc"})
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{
		Release: labels.Release{Name: "devpulse"},
		Values:  values,
	})
	require.NoError(t, err)

	deployment := manifests[0].Content
	assert.Contains(t, deployment, "app.kubernetes.io/name: tasks\n")
	assert.Contains(t, deployment, "app.kubernetes.io/managed-by: argocd\n")
	assert.Contains(t, deployment, `image: "devpulse/task-service:abc"`)
}

func TestRenderHelperFunctions(t *testing.T) {
	dir := writeChart(t, "name: x\nversion: 1.0.0+build\n", "nameOverride: short\n", map[string]string{
		"configmap.yaml": `kind: ConfigMap
name: {{ chartName . }}
chart: {{ chartID . }}
selector: {{ selectorLabels . | replace "\n" "," }}
{{- with .Values }}
nested: {{ include "x.name" $ }}
{{- end }}
`,
	})
	c, err := Load(dir)
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{Release: labels.Release{Name: "r"}})
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	assert.Equal(t, `kind: ConfigMap
name: short
chart: x-1.0.0_build
selector: app.kubernetes.io/name: short,app.kubernetes.io/instance: r
nested: short
`, manifests[0].Content)
}

func TestRenderHelperNeedsContext(t *testing.T) {
	dir := writeChart(t, "name: x\nversion: 1.0.0\n", "image: {}\n", map[string]string{
		"bad.yaml": `labels: {{ commonLabels .Values.image }}`,
	})
	c, err := Load(dir)
	require.NoError(t, err)

	_, err = c.Render(RenderOptions{Release: labels.Release{Name: "r"}})
	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeRender))
	assert.Contains(t, err.Error(), "top-level context")
}

func TestRenderChartOverridesHelpers(t *testing.T) {
	dir := writeChart(t, "name: x\nversion: 1.0.0\n", "", map[string]string{
		"_helpers.tpl": `{{- define "x.name" -}}custom-{{ .Release.Name }}{{- end -}}`,
		"a.yaml":       `name: {{ include "x.name" . }}`,
	})
	c, err := Load(dir)
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{Release: labels.Release{Name: "r"}})
	require.NoError(t, err)

	require.Len(t, manifests, 1, "partials must not be emitted")
	assert.Equal(t, "templates/a.yaml", manifests[0].Path)
	assert.Equal(t, "name: custom-r", manifests[0].Content)
}

func TestRenderSkipsEmptyOutput(t *testing.T) {
	dir := writeChart(t, "name: x\nversion: 1.0.0\n", "enabled: false\n", map[string]string{
		"optional.yaml": "{{- if .Values.enabled }}\nkind: ConfigMap\n{{- end }}\n",
		"notes.txt":     "ignored",
	})
	c, err := Load(dir)
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{})
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestRenderMissingValues(t *testing.T) {
	dir := writeChart(t, "name: x\nversion: 1.0.0\n", "a: 1\n", map[string]string{
		"a.yaml": "value: {{ .Values.missing }}\n",
	})
	c, err := Load(dir)
	require.NoError(t, err)

	manifests, err := c.Render(RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "value: \n", manifests[0].Content)

	_, err = c.Render(RenderOptions{Strict: true})
	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeRender))
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name      string
		templates map[string]string
		errType   ErrorType
		contains  string
	}{
		{
			name:      "parse error",
			templates: map[string]string{"a.yaml": "{{ if }"},
			errType:   ErrorTypeTemplate,
			contains:  "failed to parse template",
		},
		{
			name:      "required value",
			templates: map[string]string{"a.yaml": `{{ required "image.repository is required" .Values.repo }}`},
			errType:   ErrorTypeRender,
			contains:  "image.repository is required",
		},
		{
			name:      "unknown include",
			templates: map[string]string{"a.yaml": `{{ include "nope" . }}`},
			errType:   ErrorTypeRender,
			contains:  "nope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeChart(t, "name: x\nversion: 1.0.0\n", "a: 1\n", tt.templates)
			c, err := Load(dir)
			require.NoError(t, err)

			_, err = c.Render(RenderOptions{})
			require.Error(t, err)
			assert.True(t, IsType(err, tt.errType), "unexpected error: %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestToYAML(t *testing.T) {
	assert.Equal(t, "a: 1", toYAML(map[string]interface{}{"a": 1}))
}
