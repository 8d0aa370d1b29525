// Package clc renders parametrized compute-kernel source text.
//
// Kernel parametrization is deliberately stringly-typed: the element
// type and integer constants are injected as preprocessor definitions
// ahead of a fixed kernel body, which is what a source-compiling device
// runtime expects.
package clc

import (
	"fmt"
	"strings"
)

// Define renders a single preprocessor definition line.
func Define(name string, value any) string {
	return fmt.Sprintf("#define %s %v\n", name, value)
}

// Render prepends the given definition lines to a kernel body.
func Render(body string, defines ...string) string {
	if len(defines) == 0 {
		return body
	}
	var sb strings.Builder
	for _, d := range defines {
		sb.WriteString(d)
	}
	sb.WriteString(body)
	return sb.String()
}
