// Package sanitize strips markup from submitted form values before they leave
// the client.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/form"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Value removes every HTML element from raw and trims surrounding whitespace.
// Entities produced by the policy are decoded so plain text such as "R&D"
// round-trips unchanged.
func Value(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textPolicy().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Transformer returns a form.SubmitTransformer that sanitizes every value
// except the listed fields, which pass through untouched (secrets must reach
// the backend exactly as typed).
func Transformer(skip ...string) form.SubmitTransformer {
	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[name] = struct{}{}
	}
	return func(values form.Values) form.Values {
		for name, value := range values {
			if _, ok := skipped[name]; ok {
				continue
			}
			values[name] = Value(value)
		}
		return values
	}
}

func textPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}
