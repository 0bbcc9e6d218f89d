package chart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"chartlabels/internal/labels"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

const (
	ChartFile    = "Chart.yaml"
	ValuesFile   = "values.yaml"
	TemplatesDir = "templates"
)

// stringKeys are the Chart.yaml fields the labels copy verbatim
var stringKeys = []string{"name", "version", "appVersion"}

// Chart is a chart directory loaded from disk
type Chart struct {
	Path     string
	Metadata Metadata
	Values   map[string]interface{}
}

// Metadata represents the Chart.yaml metadata
type Metadata struct {
	APIVersion  string `yaml:"apiVersion,omitempty"`
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	AppVersion  string `yaml:"appVersion,omitempty"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type,omitempty"`
}

// Load reads Chart.yaml and values.yaml from chartPath
func Load(chartPath string) (*Chart, error) {
	c := &Chart{Path: chartPath}

	if err := c.loadMetadata(); err != nil {
		return nil, err
	}

	if err := c.loadValues(); err != nil {
		return nil, err
	}

	return c, nil
}

// loadMetadata loads and validates the Chart.yaml file
func (c *Chart) loadMetadata() error {
	path := filepath.Join(c.Path, ChartFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return newError(ErrorTypeLoad, path, "failed to read "+ChartFile, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newError(ErrorTypeLoad, path, "failed to parse "+ChartFile, err)
	}
	// A number decoded into a string field loses its text (1.10 becomes 1.1)
	for _, key := range stringKeys {
		if v, ok := raw[key]; ok && v != nil {
			if _, isString := v.(string); !isString {
				return newError(ErrorTypeLoad, path, fmt.Sprintf("%s must be a string, quote it: %s: \"...\"", key, key), nil)
			}
		}
	}

	if err := yaml.Unmarshal(data, &c.Metadata); err != nil {
		return newError(ErrorTypeLoad, path, "failed to parse "+ChartFile, err)
	}

	if c.Metadata.Name == "" {
		return newError(ErrorTypeLoad, path, "chart name is required", nil)
	}
	if c.Metadata.Version == "" {
		return newError(ErrorTypeLoad, path, "chart version is required", nil)
	}
	if _, err := semver.NewVersion(c.Metadata.Version); err != nil {
		return newError(ErrorTypeLoad, path, fmt.Sprintf("chart version %q is not a valid semantic version", c.Metadata.Version), err)
	}

	return nil
}

// loadValues loads the values.yaml file; a chart without one has no defaults
func (c *Chart) loadValues() error {
	path := filepath.Join(c.Path, ValuesFile)
	values, err := ReadValuesFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.Values = map[string]interface{}{}
		return nil
	}
	if err != nil {
		return err
	}

	c.Values = values
	return nil
}

// LabelChart returns the chart descriptor used by the label helpers
func (m Metadata) LabelChart() labels.Chart {
	return labels.Chart{
		Name:       m.Name,
		Version:    m.Version,
		AppVersion: m.AppVersion,
	}
}
