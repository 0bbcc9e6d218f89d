package labels

import (
	"fmt"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Validate checks every key and value against the Kubernetes label syntax.
// All failures are returned together.
func Validate(list List) error {
	var errs []error
	for _, label := range list {
		if msgs := validation.IsQualifiedName(label.Key); len(msgs) > 0 {
			errs = append(errs, fmt.Errorf("invalid label key %q: %s", label.Key, strings.Join(msgs, "; ")))
		}
		if msgs := validation.IsValidLabelValue(label.Value); len(msgs) > 0 {
			errs = append(errs, fmt.Errorf("invalid value %q for label %s: %s", label.Value, label.Key, strings.Join(msgs, "; ")))
		}
	}
	return utilerrors.NewAggregate(errs)
}
