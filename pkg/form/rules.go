package form

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Canonical rule kinds. Schema files, the contract exporter and the
// constructors below share these identifiers.
const (
	RuleRequired    = "required"
	RuleMinLength   = "minLength"
	RuleMaxLength   = "maxLength"
	RuleEmail       = "email"
	RulePattern     = "pattern"
	RuleEqualsField = "equalsField"
	RuleCustom      = "custom"
)

// Default message templates. They are rendered once per field when the schema
// is built; `label` resolves to the field label and rule params are exposed
// under their own names (min, max, pattern, field).
const (
	DefaultRequiredMessage    = "{{ label }} is required"
	DefaultMinLengthMessage   = "{{ label }} is too short"
	DefaultMaxLengthMessage   = "{{ label }} is too long"
	DefaultEmailMessage       = "Invalid email"
	DefaultPatternMessage     = "{{ label }} is not valid"
	DefaultEqualsFieldMessage = "Passwords must match"
)

// Predicate reports whether value satisfies a rule. values is the full form
// snapshot so cross-field rules can read sibling fields.
type Predicate func(value string, values Values) bool

// Rule is a single validation predicate plus its failure message. Kind and
// Params describe the rule declaratively; Refs lists the other fields the
// predicate reads so dependent errors are recomputed when those change.
type Rule struct {
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message"`
	Refs    []string          `json:"refs,omitempty"`
	Check   Predicate         `json:"-"`
}

// Passes evaluates the rule. A rule without a predicate always passes.
func (r Rule) Passes(value string, values Values) bool {
	if r.Check == nil {
		return true
	}
	return r.Check(value, values)
}

// Required fails when the value is empty after trimming whitespace.
func Required(message ...string) Rule {
	return Rule{
		Kind:    RuleRequired,
		Message: messageOr(message, DefaultRequiredMessage),
		Check: func(value string, _ Values) bool {
			return strings.TrimSpace(value) != ""
		},
	}
}

// MinLength fails when the value holds fewer than n characters.
func MinLength(n int, message ...string) Rule {
	return Rule{
		Kind:    RuleMinLength,
		Params:  map[string]string{"min": strconv.Itoa(n)},
		Message: messageOr(message, DefaultMinLengthMessage),
		Check: func(value string, _ Values) bool {
			return utf8.RuneCountInString(value) >= n
		},
	}
}

// MaxLength fails when the value holds more than n characters.
func MaxLength(n int, message ...string) Rule {
	return Rule{
		Kind:    RuleMaxLength,
		Params:  map[string]string{"max": strconv.Itoa(n)},
		Message: messageOr(message, DefaultMaxLengthMessage),
		Check: func(value string, _ Values) bool {
			return utf8.RuneCountInString(value) <= n
		},
	}
}

// Email fails unless the value has a local@domain.tld shape.
func Email(message ...string) Rule {
	return Rule{
		Kind:    RuleEmail,
		Message: messageOr(message, DefaultEmailMessage),
		Check: func(value string, _ Values) bool {
			return IsEmail(value)
		},
	}
}

// Pattern fails unless expr matches the value.
func Pattern(expr *regexp.Regexp, message ...string) Rule {
	params := map[string]string{}
	if expr != nil {
		params["pattern"] = expr.String()
	}
	return Rule{
		Kind:    RulePattern,
		Params:  params,
		Message: messageOr(message, DefaultPatternMessage),
		Check: func(value string, _ Values) bool {
			return expr == nil || expr.MatchString(value)
		},
	}
}

// EqualsField fails unless the value equals the current value of other.
func EqualsField(other string, message ...string) Rule {
	return Rule{
		Kind:    RuleEqualsField,
		Params:  map[string]string{"field": other},
		Message: messageOr(message, DefaultEqualsFieldMessage),
		Refs:    []string{other},
		Check: func(value string, values Values) bool {
			return value == values[other]
		},
	}
}

// Custom wraps an arbitrary predicate. refs must name every other field the
// predicate reads.
func Custom(check Predicate, message string, refs ...string) Rule {
	return Rule{
		Kind:    RuleCustom,
		Message: message,
		Refs:    append([]string(nil), refs...),
		Check:   check,
	}
}

var (
	emailValidatorOnce sync.Once
	emailValidator     *validator.Validate
)

// IsEmail reports whether value is an address with a dotted domain part.
func IsEmail(value string) bool {
	if value == "" || strings.TrimSpace(value) != value {
		return false
	}
	emailValidatorOnce.Do(func() {
		emailValidator = validator.New()
	})
	if err := emailValidator.Var(value, "email"); err != nil {
		return false
	}
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return false
	}
	domain := value[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func messageOr(message []string, fallback string) string {
	for _, m := range message {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
