package forms

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a field name to its human-readable error messages.
type FieldErrors map[string][]string

// Add appends msg to the errors of field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Error implements error, listing fields in name order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}
