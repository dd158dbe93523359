package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

const (
	// Version is the OpenAPI version emitted by Document.
	Version = "3.0.3"

	extEqualsField = "x-equals-field"
	extMessages    = "x-messages"
)

// Info describes the generated document.
type Info struct {
	Title   string
	Version string
}

// Schema converts a form schema into an object schema with one string
// property per field.
func Schema(schema form.Schema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	for _, field := range schema.Fields() {
		prop := fieldSchema(field)
		out.WithProperty(field.Name, prop)
		if isRequired(field) {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

func fieldSchema(field form.FieldSchema) *openapi3.Schema {
	prop := openapi3.NewStringSchema()
	prop.Title = field.Label
	messages := make(map[string]any, len(field.Rules))

	for _, rule := range field.Rules {
		if rule.Message != "" {
			if _, exists := messages[rule.Kind]; !exists {
				messages[rule.Kind] = rule.Message
			}
		}
		switch rule.Kind {
		case form.RuleRequired:
			if prop.MinLength == 0 {
				prop.MinLength = 1
			}
		case form.RuleMinLength:
			if n, ok := uintParam(rule, "min"); ok && n > prop.MinLength {
				prop.MinLength = n
			}
		case form.RuleMaxLength:
			if n, ok := uintParam(rule, "max"); ok && (prop.MaxLength == nil || n < *prop.MaxLength) {
				prop.MaxLength = openapi3.Uint64Ptr(n)
			}
		case form.RuleEmail:
			prop.Format = "email"
		case form.RulePattern:
			pattern := rule.Params["pattern"]
			if pattern == "" {
				continue
			}
			if prop.Pattern == "" {
				prop.Pattern = pattern
				continue
			}
			prop.AllOf = append(prop.AllOf, openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithPattern(pattern)))
		case form.RuleEqualsField:
			setExtension(prop, extEqualsField, rule.Params["field"])
		}
	}

	if len(messages) > 0 {
		setExtension(prop, extMessages, messages)
	}
	return prop
}

// Document builds an OpenAPI document with one POST operation per screen.
// The request body of each operation references a component schema named
// after the screen id.
func Document(info Info, screens ...uischema.Screen) *openapi3.T {
	if strings.TrimSpace(info.Title) == "" {
		info.Title = "formstate screens"
	}
	if strings.TrimSpace(info.Version) == "" {
		info.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(screens)),
		},
	}

	for _, screen := range screens {
		doc.Components.Schemas[screen.ID] = openapi3.NewSchemaRef("", Schema(screen.Schema))
		ref := openapi3.NewSchemaRef("#/components/schemas/"+screen.ID, nil)

		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithDescription(screen.Title).
			WithJSONSchemaRef(ref)

		responses := openapi3.NewResponses()
		accepted := screen.OnSuccess.Message
		if accepted == "" {
			accepted = "Submission accepted"
		}
		responses.Set("204", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(accepted)})
		responses.Set("422", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")})

		doc.Paths.Set("/"+screen.ID, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: operationID(screen.ID),
				Summary:     screen.SubmitLabel,
				RequestBody: &openapi3.RequestBodyRef{Value: body},
				Responses:   responses,
			},
		})
	}
	return doc
}

// Encode serialises doc as "json" or "yaml".
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal document: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return append(raw, '\n'), nil
	case "yaml", "yml":
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("openapi: convert to yaml: %w", err)
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

func isRequired(field form.FieldSchema) bool {
	for _, rule := range field.Rules {
		if rule.Kind == form.RuleRequired {
			return true
		}
	}
	return false
}

func uintParam(rule form.Rule, key string) (uint64, bool) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func setExtension(schema *openapi3.Schema, key string, value any) {
	if schema.Extensions == nil {
		schema.Extensions = make(map[string]any)
	}
	schema.Extensions[key] = value
}

func operationID(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	var out strings.Builder
	out.WriteString("submit")
	for _, part := range parts {
		if part == "" {
			continue
		}
		out.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return out.String()
}
