package llm

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// MustSchema compiles a JSON Schema document, panicking on malformed
// definitions. Stage schemas are package-level constants, so a failure here
// is a programming error caught by any test run.
func MustSchema(name, definition string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(definition)); err != nil {
		panic("llm: add schema " + name + ": " + err.Error())
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic("llm: compile schema " + name + ": " + err.Error())
	}
	return schema
}
