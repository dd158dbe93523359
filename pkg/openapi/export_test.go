package openapi_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/screens"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

func screen(t *testing.T, id string) uischema.Screen {
	t.Helper()
	registry, err := screens.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	s, err := registry.Screen(id)
	if err != nil {
		t.Fatalf("screen %s: %v", id, err)
	}
	return s
}

func TestSchema_SignUp(t *testing.T) {
	schema := openapi.Schema(screen(t, screens.SignUp).Schema)

	if diff := cmp.Diff([]string{"fullName", "email", "password", "confirmPassword"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	password := schema.Properties["password"].Value
	if password.MinLength != 8 {
		t.Fatalf("expected password minLength 8, got %d", password.MinLength)
	}
	if password.Title != "Password" {
		t.Fatalf("expected title Password, got %q", password.Title)
	}

	email := schema.Properties["email"].Value
	if email.Format != "email" || email.MinLength != 1 {
		t.Fatalf("unexpected email schema: format %q minLength %d", email.Format, email.MinLength)
	}

	confirm := schema.Properties["confirmPassword"].Value
	if got := confirm.Extensions["x-equals-field"]; got != "password" {
		t.Fatalf("expected x-equals-field password, got %v", got)
	}
	messages, ok := confirm.Extensions["x-messages"].(map[string]any)
	if !ok {
		t.Fatalf("expected x-messages map, got %T", confirm.Extensions["x-messages"])
	}
	if messages["equalsField"] != "Passwords must match" {
		t.Fatalf("unexpected equalsField message %v", messages["equalsField"])
	}
}

func TestSchema_EmployeePatterns(t *testing.T) {
	schema := openapi.Schema(screen(t, screens.EmployeeForm).Schema)

	if got := schema.Properties["employeeId"].Value.Pattern; got != "^[A-Z0-9]{5,10}$" {
		t.Fatalf("unexpected employeeId pattern %q", got)
	}
	if schema.Properties["phoneNumber"].Value.Pattern == "" {
		t.Fatalf("expected phone pattern")
	}
}

func TestSchema_VisitJSON(t *testing.T) {
	schema := openapi.Schema(screen(t, screens.SignUp).Schema)

	valid := map[string]any{
		"fullName":        "Ada Lovelace",
		"email":           "ada@example.com",
		"password":        "Abcdefgh",
		"confirmPassword": "Abcdefgh",
	}
	if err := schema.VisitJSON(valid); err != nil {
		t.Fatalf("expected payload to validate: %v", err)
	}

	short := map[string]any{
		"fullName":        "Ada Lovelace",
		"email":           "ada@example.com",
		"password":        "short",
		"confirmPassword": "short",
	}
	if err := schema.VisitJSON(short); err == nil {
		t.Fatalf("expected short password to fail")
	}

	missing := map[string]any{"fullName": "Ada Lovelace"}
	if err := schema.VisitJSON(missing); err == nil {
		t.Fatalf("expected missing required properties to fail")
	}
}

func TestDocument(t *testing.T) {
	doc := openapi.Document(openapi.Info{Title: "Screens"},
		screen(t, screens.SignIn),
		screen(t, screens.EmployeeForm),
	)

	if doc.OpenAPI != openapi.Version || doc.Info.Version != "1.0.0" {
		t.Fatalf("unexpected header %q %q", doc.OpenAPI, doc.Info.Version)
	}
	item := doc.Paths.Value("/sign-in")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /sign-in")
	}
	if item.Post.OperationID != "submitSignIn" {
		t.Fatalf("unexpected operation id %q", item.Post.OperationID)
	}
	ref := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Ref
	if ref != "#/components/schemas/sign-in" {
		t.Fatalf("unexpected request body ref %q", ref)
	}
	if _, ok := doc.Components.Schemas["employee-form"]; !ok {
		t.Fatalf("expected employee-form component")
	}
	if resp := doc.Paths.Value("/employee-form").Post.Responses.Value("204"); resp == nil || *resp.Value.Description != "Employee information submitted successfully!" {
		t.Fatalf("expected 204 response carrying the success message")
	}
}

func TestEncode(t *testing.T) {
	doc := openapi.Document(openapi.Info{}, screen(t, screens.SignIn))

	yamlOut, err := openapi.Encode(doc, "yaml")
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	if !strings.Contains(string(yamlOut), "openapi: 3.0.3") {
		t.Fatalf("expected yaml header, got:\n%s", yamlOut)
	}

	jsonOut, err := openapi.Encode(doc, "json")
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"operationId": "submitSignIn"`) {
		t.Fatalf("expected operation id in json output")
	}

	if _, err := openapi.Encode(doc, "xml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
