// Package forms is a small rule-driven validator for flat form payloads.
// Handlers and services declare a rule per field and get back an error map
// keyed by field name, the same shape the checkout wizard surfaces inline.
package forms

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule describes the constraints on one form field. Zero values disable a
// constraint. Custom runs last and returns an error message or "".
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Message   string // overrides the generated message when set
	Custom    func(value string) string
}

// Validate checks a trimmed value against a rule, returning an error
// message or "" when valid.
func (r Rule) Validate(name, value string) string {
	trimmed := strings.TrimSpace(value)

	if r.Required && trimmed == "" {
		return r.message(fmt.Sprintf("%s is required", name))
	}
	if trimmed == "" {
		return "" // optional and absent
	}
	if r.MinLength > 0 && len(trimmed) < r.MinLength {
		return r.message(fmt.Sprintf("%s must be at least %d characters", name, r.MinLength))
	}
	if r.MaxLength > 0 && len(trimmed) > r.MaxLength {
		return r.message(fmt.Sprintf("%s must be at most %d characters", name, r.MaxLength))
	}
	if r.Pattern != nil && !r.Pattern.MatchString(trimmed) {
		return r.message(fmt.Sprintf("%s has an invalid format", name))
	}
	if r.Custom != nil {
		return r.Custom(trimmed)
	}
	return ""
}

func (r Rule) message(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}

// Rules maps field names to their constraints.
type Rules map[string]Rule

// Validate evaluates every rule independently against the values and
// returns the error map; an empty map means the form is valid.
func (rs Rules) Validate(values map[string]string) map[string]string {
	errs := map[string]string{}
	for name, rule := range rs {
		if msg := rule.Validate(name, values[name]); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// FirstError flattens an error map into a single error-message string in
// the given field order, for callers that report one failure at a time.
func FirstError(errs map[string]string, order ...string) string {
	for _, name := range order {
		if msg, ok := errs[name]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
