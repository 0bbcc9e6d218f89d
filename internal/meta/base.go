package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Document is the part of a rendered manifest the label checks look at
type Document struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   metav1.ObjectMeta      `yaml:"metadata"`
	Spec       map[string]interface{} `yaml:"spec"`
}

// ParseAll decodes every YAML document in data. Documents without a kind
// (comments, empty renders) are skipped.
func ParseAll(data []byte) ([]Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var docs []Document
	for {
		var doc Document
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s", yaml.FormatError(err, false, true))
		}
		if doc.Kind == "" {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// StringMap returns the string map found at the given path in the spec
func (d Document) StringMap(fields ...string) (map[string]string, bool, error) {
	if d.Spec == nil {
		return nil, false, nil
	}
	return unstructured.NestedStringMap(d.Spec, fields...)
}
