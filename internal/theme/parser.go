package theme

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	rootBlockPattern = regexp.MustCompile(`:root\s*\{([^}]*)\}`)
	darkBlockPattern = regexp.MustCompile(`\.dark\s*\{([^}]*)\}`)

	// Nested rule scope: body declarations, either wrapped in an @layer base
	// scope or declared at the top level. The wrapped form wins.
	layerBodyPattern = regexp.MustCompile(`@layer\s+base\s*\{[^{}]*body\s*\{([^}]*)\}`)
	bareBodyPattern  = regexp.MustCompile(`(?:^|[\s{};])body\s*\{([^}]*)\}`)
)

// externalToInternal remaps declaration names that live under a different
// name inside the document. Reversed on stylesheet egress.
var externalToInternal = map[string]string{
	"shadow-x":        "shadow-offset-x",
	"shadow-y":        "shadow-offset-y",
	"tracking-normal": "letter-spacing",
}

var internalToExternal = map[string]string{
	"shadow-offset-x": "shadow-x",
	"shadow-offset-y": "shadow-y",
	"letter-spacing":  "tracking-normal",
}

// derivedPrefixes mark computed declarations that never enter a document:
// color-* aliases of the palette and radius-* scale steps.
var derivedPrefixes = []string{"color-", "radius-"}

// derivedTrackingNames are the computed tracking scale steps; only the base
// tracking-normal is a source value.
var derivedTrackingNames = map[string]bool{
	"tracking-tighter": true,
	"tracking-tight":   true,
	"tracking-wide":    true,
	"tracking-wider":   true,
	"tracking-widest":  true,
}

// maxUnresolvedListed caps how many offending names an unresolved-reference
// error spells out before summarizing the rest.
const maxUnresolvedListed = 3

// defaultThemeName is used when the caller gives no name for a parsed
// stylesheet.
const defaultThemeName = "Imported Theme"

func isDerivedName(name string) bool {
	for _, prefix := range derivedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return derivedTrackingNames[name]
}

// externalName maps an internal property name back to its stylesheet
// declaration name.
func externalName(name string) string {
	if ext, ok := internalToExternal[name]; ok {
		return ext
	}
	return name
}

// parseBlock extracts every retained declaration from one block body,
// applying derived-value filtering, name remapping and reference resolution.
// It performs no validation.
func parseBlock(blockText string, lookup VariableLookupTable) *PropertySet {
	props := NewPropertySet()
	for _, m := range declPattern.FindAllStringSubmatch(blockText, -1) {
		name := m[1]
		if isDerivedName(name) {
			continue
		}
		if internal, ok := externalToInternal[name]; ok {
			name = internal
		}
		props.Set(name, Resolve(m[2], lookup))
	}
	return props
}

// extractRules pulls the body rule declarations out of the source, preferring
// the @layer-wrapped form. Returns nil when no declarations are found.
func extractRules(src string) RuleSet {
	body := ""
	if m := layerBodyPattern.FindStringSubmatch(src); m != nil {
		body = m[1]
	} else if m := bareBodyPattern.FindStringSubmatch(src); m != nil {
		body = m[1]
	}
	if body == "" {
		return nil
	}

	decls := make(map[string]string)
	for _, line := range strings.Split(body, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if name == "" || value == "" {
			continue
		}
		decls[name] = value
	}
	if len(decls) == 0 {
		return nil
	}

	return RuleSet{"@layer base": {"body": decls}}
}

// ParseStylesheet converts raw stylesheet text into a validated theme
// document plus parse metadata.
//
// The default-mode (:root) block is required. A missing alternate-mode
// (.dark) block is not an error: the dark property set becomes an exact copy
// of the light one. Malformed input is reported as an error value; panics
// from the scanning layer are recovered and reported, never propagated.
func ParseStylesheet(src, name string) (result *ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("failed to parse stylesheet: %v", r)
		}
	}()

	rootMatch := rootBlockPattern.FindStringSubmatch(src)
	if rootMatch == nil {
		return nil, fmt.Errorf("stylesheet is missing a %s block", LightSelector)
	}

	darkMatch := darkBlockPattern.FindStringSubmatch(src)
	hasDark := darkMatch != nil

	// The lookup spans the whole text so cross-block references resolve to
	// the first (canonical) declaration, independent of block boundaries.
	lookup := BuildLookup(src)

	light := parseBlock(rootMatch[1], lookup)
	var dark *PropertySet
	if hasDark {
		dark = parseBlock(darkMatch[1], lookup)
	} else {
		dark = light.Clone()
	}

	for _, slot := range MinimalProperties {
		if !light.Has(slot) {
			return nil, fmt.Errorf("%s block is missing required property --%s", LightSelector, externalName(slot))
		}
	}

	if unresolved := collectUnresolved(light, dark); len(unresolved) > 0 {
		return nil, unresolvedError(unresolved)
	}

	if name == "" {
		name = defaultThemeName
	}

	doc := &ThemeDocument{
		SchemaRef: SchemaRef,
		Name:      name,
		Styles:    StyleModes{Light: light, Dark: dark},
	}
	if rules := extractRules(src); rules != nil {
		doc.Rules = rules
	}

	meta := &ParseMetadata{
		LightCount:     light.Len(),
		DarkCount:      dark.Len(),
		TotalVariables: countDistinct(light, dark),
		HasLightMode:   true,
		HasDarkMode:    hasDark,
	}

	return &ParseResult{Document: doc, Metadata: meta}, nil
}

// collectUnresolved returns the distinct referenced names that survived
// resolution, in first-seen order across both modes.
func collectUnresolved(sets ...*PropertySet) []string {
	seen := make(map[string]bool)
	var names []string
	for _, set := range sets {
		for _, key := range set.Keys() {
			value, _ := set.Get(key)
			if !IsReference(value) {
				continue
			}
			ref := ReferenceName(value)
			if !seen[ref] {
				seen[ref] = true
				names = append(names, ref)
			}
		}
	}
	return names
}

func unresolvedError(names []string) error {
	listed := names
	rest := 0
	if len(names) > maxUnresolvedListed {
		listed = names[:maxUnresolvedListed]
		rest = len(names) - maxUnresolvedListed
	}

	sigiled := make([]string, len(listed))
	for i, n := range listed {
		sigiled[i] = "--" + n
	}

	msg := "unresolved references: " + strings.Join(sigiled, ", ")
	if rest > 0 {
		msg += fmt.Sprintf(" (and %d more)", rest)
	}
	return fmt.Errorf("%s; stylesheet input must not contain unresolved var() references", msg)
}

func countDistinct(sets ...*PropertySet) int {
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, key := range set.Keys() {
			seen[key] = true
		}
	}
	return len(seen)
}
