package schema

import (
	"regexp"
)

// metaDirectiveRegex matches @tagstream(...) at the start of a line.
// Handles one level of nested parentheses inside the arguments.
var metaDirectiveRegex = regexp.MustCompile(`(?m)^@tagstream\s*\(((?:[^()]*|\([^)]*\))*)\)`)

// shapeStartRegex matches shape declarations at the start of a line.
// Captures the shape name which must be a valid GraphQL identifier.
var shapeStartRegex = regexp.MustCompile(`(?m)^shape\s+(\w+)\s*{`)

// shapePrefix marks rewritten shape blocks until the parser strips it.
const shapePrefix = "Shape_"

// PreprocessGraphQL rewrites `@tagstream(...)` and `shape` blocks into valid GraphQL `type` definitions.
func PreprocessGraphQL(input string) string {
	// 1. Rewrite @tagstream(...) to a _Schema type with a properly typed field
	input = metaDirectiveRegex.ReplaceAllStringFunc(input, func(match string) string {
		args := metaDirectiveRegex.FindStringSubmatch(match)[1]
		return `type _Schema {
  _: String @tagstream(` + args + `)
}`
	})

	// 2. Rewrite shape blocks to type Shape_X {
	input = shapeStartRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := shapeStartRegex.FindStringSubmatch(match)[1]
		return `type ` + shapePrefix + name + ` {`
	})

	return input
}
