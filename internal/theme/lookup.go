package theme

import (
	"regexp"
	"strings"
)

// declPattern matches one `--name: value;` custom-property declaration.
var declPattern = regexp.MustCompile(`--([A-Za-z0-9_-]+)\s*:\s*([^;{}]+);`)

// refPattern matches a value that is exactly one var() reference with no
// fallback clause and no surrounding text.
var refPattern = regexp.MustCompile(`^var\(\s*--([A-Za-z0-9_-]+)\s*\)$`)

// Built-in references that resolve to fixed colors regardless of the lookup
// table.
const (
	builtinWhite = "oklch(1 0 0)"
	builtinBlack = "oklch(0 0 0)"
)

// maxResolveDepth bounds reference chains so cyclic declarations terminate as
// unresolved instead of recursing forever.
const maxResolveDepth = 32

// BuildLookup scans the entire source text once and indexes every variable
// declaration by bare name. The first occurrence of a name wins; later
// re-declarations are ignored so cross-mode references resolve to the
// canonical (typically default-mode) definition.
func BuildLookup(src string) VariableLookupTable {
	table := make(VariableLookupTable)
	for _, m := range declPattern.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if _, seen := table[name]; seen {
			continue
		}
		table[name] = strings.TrimSpace(m[2])
	}
	return table
}

// Resolve turns a value that may be a var() reference into a concrete value.
// Non-reference values pass through unchanged. Unknown references are
// returned as-is; the stylesheet parser decides whether that is an error.
func Resolve(value string, lookup VariableLookupTable) string {
	return resolveDepth(strings.TrimSpace(value), lookup, 0)
}

func resolveDepth(value string, lookup VariableLookupTable, depth int) string {
	m := refPattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}

	switch m[1] {
	case "white":
		return builtinWhite
	case "black":
		return builtinBlack
	}

	next, ok := lookup[m[1]]
	if !ok || depth >= maxResolveDepth {
		return value
	}
	return resolveDepth(strings.TrimSpace(next), lookup, depth+1)
}

// IsReference reports whether a value is still an unresolved var() reference.
func IsReference(value string) bool {
	return refPattern.MatchString(strings.TrimSpace(value))
}

// ReferenceName returns the bare variable name a reference points at, or ""
// if the value is not a reference.
func ReferenceName(value string) string {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return ""
	}
	return m[1]
}
