// Package labels computes the label block a chart stamps on its resources:
// the resolved application name, the chart identifier, the common labels and
// the selector subset.
//
// All functions are pure; missing optional inputs fall back to defaults and
// nothing here returns an error except Validate.
package labels
