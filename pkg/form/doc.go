// Package form implements the validation engine behind the sign-in, sign-up
// and employee screens. A Schema declares, per field, an ordered list of
// rules built from small predicate primitives (Required, MinLength, Email,
// Pattern, EqualsField). A Form owns the values of one screen session and
// recomputes errors synchronously on every change, blur or submit event;
// front ends poll State after each mutation and render Visible errors,
// which only surface for touched fields or after a submit attempt.
//
// Invalid user input is data, never a Go error. The only errors the package
// returns are *SchemaError (initial values do not match the schema) and
// *UnknownFieldError (a caller referenced an undeclared field).
package form
