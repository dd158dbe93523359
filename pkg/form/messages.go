package form

import (
	"strings"

	"github.com/flosch/pongo2/v6"
)

// renderMessage expands a rule message template for one field. Plain messages
// are returned untouched; a template that fails to parse or execute falls
// back to its raw text so a typo never hides a validation error.
func renderMessage(tpl string, field FieldSchema, rule Rule) string {
	if !strings.Contains(tpl, "{{") && !strings.Contains(tpl, "{%") {
		return tpl
	}

	ctx := pongo2.Context{
		"label": pongo2.AsSafeValue(field.Label),
		"name":  pongo2.AsSafeValue(field.Name),
	}
	for key, value := range rule.Params {
		if _, exists := ctx[key]; exists {
			continue
		}
		ctx[key] = pongo2.AsSafeValue(value)
	}

	compiled, err := pongo2.FromString(tpl)
	if err != nil {
		return tpl
	}
	out, err := compiled.Execute(ctx)
	if err != nil {
		return tpl
	}
	return strings.TrimSpace(out)
}
