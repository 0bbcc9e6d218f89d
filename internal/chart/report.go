package chart

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	lintDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	lintFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sourceStyle   = lipgloss.NewStyle().Faint(true)
)

// WriteLintResult displays a lint result in a user-friendly format
func WriteLintResult(w io.Writer, result *LintResult) {
	if result.OK() {
		fmt.Fprintf(w, "%s %s: %d manifests, %d resources, labels OK\n",
			lintDoneStyle.Render("✓"), result.Chart, result.Manifests, result.Documents)
		return
	}

	fmt.Fprintln(w, lintFailStyle.Bold(true).Render(fmt.Sprintf("Label issues in %s:", result.Chart)))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s %s %s/%s: %s\n",
			lintFailStyle.Render("✗"), sourceStyle.Render(issue.Source), issue.Kind, issue.Name, issue.Message)
	}
	fmt.Fprintf(w, "%s\n", lintFailStyle.Bold(true).Render(fmt.Sprintf("%d issues in %d resources", len(result.Issues), result.Documents)))
}

// WriteManifests prints rendered manifests as a multi-document stream
func WriteManifests(w io.Writer, manifests []Manifest) {
	for _, manifest := range manifests {
		fmt.Fprintln(w, "---")
		fmt.Fprintf(w, "# Source: %s\n", manifest.Path)
		fmt.Fprintln(w, manifest.Content)
	}
}
