package form_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
)

func TestDefaultMessagesUseFieldLabel(t *testing.T) {
	schema := form.MustSchema(
		form.Field("fullName", form.Required(), form.MinLength(3), form.MaxLength(5)),
		form.Field("employeeId", form.Required(), form.Pattern(regexp.MustCompile(`^[A-Z]+$`))),
		form.Field("phone", form.Required()).WithLabel("Mobile"),
		form.Field("email", form.Email()),
	)

	cases := []struct {
		field string
		value string
		want  string
	}{
		{"fullName", "", "Full name is required"},
		{"fullName", "Al", "Full name is too short"},
		{"fullName", "Alexander", "Full name is too long"},
		{"employeeId", "", "Employee ID is required"},
		{"employeeId", "abc", "Employee ID is not valid"},
		{"phone", "", "Mobile is required"},
		{"email", "nope", "Invalid email"},
	}
	for _, tc := range cases {
		values := form.Values{tc.field: tc.value}
		got, failed := schema.Validate(tc.field, values)
		if !failed || got != tc.want {
			t.Fatalf("%s=%q: expected %q, got %q (failed=%v)", tc.field, tc.value, tc.want, got, failed)
		}
	}
}

func TestMessageTemplatesExposeRuleParams(t *testing.T) {
	schema := form.MustSchema(
		form.Field("password", form.MinLength(8, "{{ label }} must be at least {{ min }} characters")),
		form.Field("code", form.Pattern(regexp.MustCompile(`^<\d+>$`), "{{ label }} must match {{ pattern }}")),
	)

	got, _ := schema.Validate("password", form.Values{"password": "abc"})
	if got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected message %q", got)
	}
	got, _ = schema.Validate("code", form.Values{"code": "12"})
	if got != `Code must match ^<\d+>$` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRequiredTrimsWhitespace(t *testing.T) {
	rule := form.Required()
	for _, value := range []string{"", " ", "\t\n"} {
		if rule.Passes(value, nil) {
			t.Fatalf("expected %q to fail required", value)
		}
	}
	if !rule.Passes(" x ", nil) {
		t.Fatalf("expected padded value to pass required")
	}
}

func TestMinLengthCountsCharacters(t *testing.T) {
	rule := form.MinLength(3)
	if !rule.Passes("äöü", nil) {
		t.Fatalf("expected three runes to satisfy minLength(3)")
	}
	if rule.Passes("ab", nil) {
		t.Fatalf("expected two runes to fail minLength(3)")
	}
}

func TestIsEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":                true,
		"john.doe@example.co.uk": true,
		"first+tag@mail.io":      true,
		"":                       false,
		"not-an-email":           false,
		"a@b":                    false,
		"a@b.":                   false,
		"@b.com":                 false,
		" a@b.com":               false,
		"a b@c.com":              false,
	}
	for value, want := range cases {
		if got := form.IsEmail(value); got != want {
			t.Fatalf("IsEmail(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestEqualsFieldReadsSnapshot(t *testing.T) {
	rule := form.EqualsField("password")
	values := form.Values{"password": "Abcdefgh"}
	if !rule.Passes("Abcdefgh", values) {
		t.Fatalf("expected equal values to pass")
	}
	if rule.Passes("abcdefgh", values) {
		t.Fatalf("expected comparison to be case sensitive")
	}
	if diff := cmp.Diff([]string{"password"}, rule.Refs); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSchema_Errors(t *testing.T) {
	cases := map[string][]form.FieldSchema{
		"empty name": {form.Field("  ")},
		"duplicate":  {form.Field("email"), form.Field("email")},
		"bad ref":    {form.Field("confirm", form.EqualsField("password"))},
	}
	for name, fields := range cases {
		_, err := form.NewSchema(fields...)
		if !errors.Is(err, form.ErrSchema) {
			t.Fatalf("%s: expected ErrSchema, got %v", name, err)
		}
	}
}

func TestSchemaDependentsAreTransitive(t *testing.T) {
	schema := form.MustSchema(
		form.Field("a"),
		form.Field("c", form.EqualsField("b")),
		form.Field("b", form.EqualsField("a")),
		form.Field("d", form.Custom(func(string, form.Values) bool { return true }, "never", "a", "d")),
	)

	if diff := cmp.Diff([]string{"c", "b", "d"}, schema.Dependents("a")); diff != "" {
		t.Fatalf("dependents of a mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c"}, schema.Dependents("b")); diff != "" {
		t.Fatalf("dependents of b mismatch (-want +got):\n%s", diff)
	}
	if got := schema.Dependents("d"); len(got) != 0 {
		t.Fatalf("self reference must not create a dependent, got %v", got)
	}
}

func TestDefaultLabel(t *testing.T) {
	cases := map[string]string{
		"fullName":        "Full name",
		"employeeId":      "Employee ID",
		"phoneNumber":     "Phone number",
		"confirmPassword": "Confirm password",
		"department":      "Department",
		"home_address":    "Home address",
		"address2Line":    "Address 2 line",
		"straßeName":      "Straße name",
		"prénomÉlève":     "Prénom élève",
		"api-url":         "API URL",
		"":                "",
	}
	for name, want := range cases {
		if got := form.DefaultLabel(name); got != want {
			t.Fatalf("DefaultLabel(%q) = %q, want %q", name, got, want)
		}
	}
}
