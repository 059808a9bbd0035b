// Package theme implements the design-token theme engine.
//
// A theme is a named set of token values (colors, radii, typography,
// shadows) for a light and a dark mode. The package converts between three
// representations:
//
//   - raw stylesheet text: a :root block, an optional .dark block and an
//     optional body rule scope, each holding --name: value; declarations
//   - ThemeDocument: the structured, schema-validated unit of exchange
//   - RegistryDocument: the target-tool egress format with theme/light/dark
//     variable groups
//
// Parsing builds a first-occurrence-wins lookup table over the whole source
// text, then extracts each mode block through it so cross-mode var()
// references resolve to their canonical definition. The resolver is lenient
// (unknown references pass through unchanged); the stylesheet parser is
// strict (any reference that survives resolution fails the parse). That
// split is deliberate.
//
// Every operation is a pure function over its inputs. There is no shared
// mutable state; concurrent calls with independent inputs are safe.
package theme
