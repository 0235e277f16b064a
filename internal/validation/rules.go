// Package validation holds the declarative payload requirements adapters
// publish for each event name. The dispatcher evaluates the rules before an
// event reaches Consume; blocking failures drop the event for that adapter
// silently, advisory failures are logged only.
package validation

import (
	"github.com/spf13/cast"

	"github.com/driveback/destination-delivery-service/internal/fieldpath"
)

// Check names a single declarative requirement on a field.
type Check string

const (
	Required  Check = "required"
	IsString  Check = "string"
	IsNumeric Check = "numeric"
)

// Rule splits checks by severity. Errors block dispatch, Warnings are
// advisory only.
type Rule struct {
	Errors   []Check
	Warnings []Check
}

// Rules maps field paths (wildcards allowed) to their checks.
type Rules map[string]Rule

// Issue is one failed check on one path.
type Issue struct {
	Path  string
	Check Check
}

// Evaluate runs every rule against the event document and returns blocking
// and advisory failures separately.
func (r Rules) Evaluate(doc map[string]any) (errors, warnings []Issue) {
	for path, rule := range r {
		values := fieldpath.Collect(doc, path)
		for _, check := range rule.Errors {
			if !passes(check, values) {
				errors = append(errors, Issue{Path: path, Check: check})
			}
		}
		for _, check := range rule.Warnings {
			if !passes(check, values) {
				warnings = append(warnings, Issue{Path: path, Check: check})
			}
		}
	}
	return errors, warnings
}

func passes(check Check, values []any) bool {
	switch check {
	case Required:
		if len(values) == 0 {
			return false
		}
		for _, v := range values {
			if fieldpath.Falsy(v) {
				return false
			}
		}
		return true
	case IsString:
		for _, v := range values {
			if fieldpath.Falsy(v) {
				continue
			}
			if _, ok := v.(string); !ok {
				return false
			}
		}
		return true
	case IsNumeric:
		for _, v := range values {
			if fieldpath.Falsy(v) {
				continue
			}
			if _, err := cast.ToFloat64E(v); err != nil {
				return false
			}
		}
		return true
	default:
		return true
	}
}
