// Package uischema loads screen definitions from JSON or YAML documents. A
// definition names a screen's fields in prompt order, their display hints
// (label, placeholder, secret entry, keyboard) and their validation rules,
// plus what the screen does after a successful submit. Definitions compile
// into form.Schema values so the engine never parses files itself.
//
// The three built-in screens ship as embedded YAML; see EmbeddedFS.
package uischema
