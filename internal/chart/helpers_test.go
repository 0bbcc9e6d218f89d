package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testChartYAML = `apiVersion: v2
name: task-service
version: 0.3.0+build.7
appVersion: "2.0.0"
description: DevPulse task service
`

const testValuesYAML = `replicaCount: 1
image:
  repository: devpulse/task-service
service:
  port: 5002
`

const testDeployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{ include "task-service.name" . }}
  labels:
    {{- include "task-service.labels" . | nindent 4 }}
spec:
  replicas: {{ .Values.replicaCount }}
  selector:
    matchLabels:
      {{- include "task-service.selectorLabels" . | nindent 6 }}
  template:
    metadata:
      labels:
        {{- include "task-service.selectorLabels" . | nindent 8 }}
    spec:
      containers:
        - name: app
          image: "{{ .Values.image.repository }}:{{ .Values.image.tag | default .Chart.AppVersion }}"
`

const testService = `apiVersion: v1
kind: Service
metadata:
  name: {{ include "task-service.name" . }}
  labels:
    {{- include "task-service.labels" . | nindent 4 }}
spec:
  selector:
    {{- include "task-service.selectorLabels" . | nindent 4 }}
  ports:
    - port: {{ .Values.service.port }}
`

// writeChart lays out a chart directory under t.TempDir. An empty values
// string skips values.yaml.
func writeChart(t *testing.T, chartYAML, values string, templates map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChartFile), []byte(chartYAML), 0644))
	if values != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ValuesFile), []byte(values), 0644))
	}

	templatesDir := filepath.Join(dir, TemplatesDir)
	require.NoError(t, os.MkdirAll(templatesDir, 0755))
	for name, content := range templates {
		path := filepath.Join(templatesDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return dir
}

func testChart(t *testing.T) string {
	t.Helper()
	return writeChart(t, testChartYAML, testValuesYAML, map[string]string{
		"deployment.yaml": testDeployment,
		"service.yaml":    testService,
	})
}
