package chart

import (
	"fmt"
	"os"
	"strings"

	"chartlabels/internal/labels"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"helm.sh/helm/v3/pkg/strvals"
)

// Values keys read by the label helpers
const (
	ValueNameOverride = "nameOverride"
	ValueManagedBy    = "managedBy"
)

// ReadValuesFile parses a YAML values file into a map
func ReadValuesFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrorTypeValues, path, "failed to read values", err)
	}

	values := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, newError(ErrorTypeValues, path, "failed to parse values", err)
	}
	if values == nil {
		values = map[string]interface{}{}
	}

	return values, nil
}

// MergeValues returns a new map holding base with every override applied in
// order. Neither base nor the overrides are modified.
func MergeValues(base map[string]interface{}, overrides ...map[string]interface{}) (map[string]interface{}, error) {
	merged := copyValues(base)

	for _, override := range overrides {
		if err := mergo.Merge(&merged, copyValues(override), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge values: %w", err)
		}
	}

	return merged, nil
}

// SetValue applies a "path.to.key=value" assignment to values with Helm's
// --set rules: plain integers, true/false and null are typed, anything else
// (0123, 1.10) stays a string.
func SetValue(values map[string]interface{}, assignment string) error {
	key, _, ok := strings.Cut(assignment, "=")
	if !ok || key == "" {
		return newError(ErrorTypeValues, assignment, "expected key=value", nil)
	}

	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return newError(ErrorTypeValues, assignment, "empty key segment", nil)
		}
	}

	if err := strvals.ParseInto(assignment, values); err != nil {
		return newError(ErrorTypeValues, assignment, "failed to parse assignment", err)
	}

	return nil
}

// ResolveValues merges the chart defaults, the given values files and the
// --set style assignments, in that order.
func (c *Chart) ResolveValues(files []string, assignments []string) (map[string]interface{}, error) {
	overrides := make([]map[string]interface{}, 0, len(files))
	for _, file := range files {
		values, err := ReadValuesFile(file)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, values)
	}

	values, err := MergeValues(c.Values, overrides...)
	if err != nil {
		return nil, err
	}

	for _, assignment := range assignments {
		if err := SetValue(values, assignment); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// LabelValues extracts the overrides the label helpers honour. Non-string
// entries are ignored.
func LabelValues(values map[string]interface{}) labels.Values {
	return labels.Values{
		NameOverride: stringValue(values, ValueNameOverride),
		ManagedBy:    stringValue(values, ValueManagedBy),
	}
}

// copyValues deep-copies nested maps and lists so merging never writes
// through to the source.
func copyValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return copyValues(typed)
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func stringValue(values map[string]interface{}, key string) string {
	s, _ := values[key].(string)
	return s
}
