package labels

import (
	"strconv"
	"strings"

	k8slabels "k8s.io/apimachinery/pkg/labels"
)

// Recommended label keys emitted by the chart helpers
const (
	// LabelChart identifies the chart and version that created the resource
	LabelChart = "helm.sh/chart"

	// LabelName identifies the application name
	LabelName = "app.kubernetes.io/name"

	// LabelInstance identifies the release the resource belongs to
	LabelInstance = "app.kubernetes.io/instance"

	// LabelVersion identifies the application version
	LabelVersion = "app.kubernetes.io/version"

	// LabelManagedBy identifies the tool managing the resource
	LabelManagedBy = "app.kubernetes.io/managed-by"

	// DefaultService is the release service used when none is given
	DefaultService = "Helm"

	// MaxLength is the longest name Kubernetes accepts in a DNS label
	MaxLength = 63
)

// Chart describes the chart metadata the helpers read.
type Chart struct {
	Name       string
	Version    string
	AppVersion string
}

// Values holds the user overrides the helpers honour.
type Values struct {
	NameOverride string
	ManagedBy    string
}

// Release describes one installed instance of a chart.
type Release struct {
	Name      string
	Namespace string
	Service   string
}

// Label is a single key/value pair. Quoted values are rendered with
// double quotes so YAML keeps them as strings.
type Label struct {
	Key    string
	Value  string
	Quoted bool
}

func (l Label) String() string {
	value := l.Value
	if l.Quoted {
		value = strconv.Quote(value)
	}
	return l.Key + ": " + value
}

// List is an ordered set of labels.
type List []Label

// String renders the list as "key: value" lines without a trailing newline.
func (l List) String() string {
	lines := make([]string, len(l))
	for i, label := range l {
		lines[i] = label.String()
	}
	return strings.Join(lines, "\n")
}

// Set converts the list to an apimachinery label set
func (l List) Set() k8slabels.Set {
	set := make(k8slabels.Set, len(l))
	for _, label := range l {
		set[label.Key] = label.Value
	}
	return set
}

// Get returns the value for key and whether it is present
func (l List) Get(key string) (string, bool) {
	for _, label := range l {
		if label.Key == key {
			return label.Value, true
		}
	}
	return "", false
}

// Name resolves the application name: the override when set, otherwise the
// chart name, truncated to 63 characters without a trailing dash.
func Name(chart Chart, values Values) string {
	name := chart.Name
	if values.NameOverride != "" {
		name = values.NameOverride
	}
	return truncate(name)
}

// ChartID returns "<name>-<version>" with "+" replaced by "_", truncated to
// 63 characters without a trailing dash.
func ChartID(chart Chart) string {
	id := strings.ReplaceAll(chart.Name+"-"+chart.Version, "+", "_")
	return truncate(id)
}

// Selector returns the labels used to match pods to their controller.
func Selector(chart Chart, values Values, release Release) List {
	return List{
		{Key: LabelName, Value: Name(chart, values)},
		{Key: LabelInstance, Value: release.Name},
	}
}

// Common returns the full label block shared by every resource of a release.
func Common(chart Chart, values Values, release Release) List {
	list := List{{Key: LabelChart, Value: ChartID(chart)}}
	list = append(list, Selector(chart, values, release)...)
	if chart.AppVersion != "" {
		list = append(list, Label{Key: LabelVersion, Value: chart.AppVersion, Quoted: true})
	}
	list = append(list, Label{Key: LabelManagedBy, Value: managedBy(values, release)})
	return list
}

// Merge overlays additional labels onto base. Keys keep the position of their
// first appearance; later values win.
func Merge(base List, additional ...Label) List {
	merged := make(List, 0, len(base)+len(additional))
	index := make(map[string]int, len(base)+len(additional))

	for _, label := range append(append(List{}, base...), additional...) {
		if i, ok := index[label.Key]; ok {
			merged[i] = label
			continue
		}
		index[label.Key] = len(merged)
		merged = append(merged, label)
	}

	return merged
}

func managedBy(values Values, release Release) string {
	if values.ManagedBy != "" {
		return values.ManagedBy
	}
	if release.Service != "" {
		return release.Service
	}
	return DefaultService
}

// truncate mirrors `trunc 63 | trimSuffix "-"`: only one dash is removed.
func truncate(s string) string {
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}
	return strings.TrimSuffix(s, "-")
}
