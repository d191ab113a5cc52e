// Package fieldtype implements the FieldType tree (§3.3, §4.4): Field,
// Format, If, Repeat, While, Let and Pass, the polymorphic node kinds a
// schema compiles to. Every kind shares one contract (Parse/Pack/Unpack/
// ToBits/Clear/BitLength/HasDynamicSize/IsConst/String) and threads a
// shared environment of name→value bindings through a tree walk, in the
// same shape as structex's transcoder.go dispatch-by-field-kind walk —
// generalized here from reflect-driven struct fields to an explicit,
// schema-built tree.
package fieldtype

import (
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

var reservedNames = map[string]bool{"and": true, "or": true, "not": true, "if": true, "else": true, "while": true, "repeat": true, "let": true, "pass": true, "true": true, "false": true}

// validateName enforces the Python-identifier-like rule from §3.3: starts
// with a letter or underscore, alphanumerics thereafter, no double
// underscore, not a reserved keyword. An empty name is always valid (it
// means "unnamed").
func validateName(name string) error {
	if name == "" {
		return nil
	}
	if strings.Contains(name, "__") {
		return bferr.NewValue("name %q must not contain a double underscore", name)
	}
	if reservedNames[name] {
		return bferr.NewValue("name %q is a reserved keyword", name)
	}
	first := rune(name[0])
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return bferr.NewValue("name %q must start with a letter or underscore", name)
	}
	for _, r := range name[1:] {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return bferr.NewValue("name %q contains an invalid character %q", name, r)
		}
	}
	return nil
}
