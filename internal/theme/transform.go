package theme

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// trackingScale holds the derived tracking steps the registry transform
// expresses relative to the tracking base.
var trackingScale = []propPair{
	{"tracking-tighter", "calc(var(--tracking-normal) - 0.05em)"},
	{"tracking-tight", "calc(var(--tracking-normal) - 0.025em)"},
	{"tracking-wide", "calc(var(--tracking-normal) + 0.025em)"},
	{"tracking-wider", "calc(var(--tracking-normal) + 0.05em)"},
	{"tracking-widest", "calc(var(--tracking-normal) + 0.1em)"},
}

// themeGroupNames are internal names hoisted out of the mode groups into the
// shared theme group of a registry document.
var themeGroupNames = []string{"font-sans", "font-serif", "font-mono", "radius", "letter-spacing", "spacing"}

// ToCSS serializes a document back into stylesheet text: the :root block
// first, then the .dark block, declarations in insertion order, internal
// names remapped back to their external forms. The nested rule block, when
// present, is appended after both mode blocks.
func ToCSS(doc *ThemeDocument) string {
	var b strings.Builder

	writeBlock(&b, LightSelector, doc.Styles.Light)
	b.WriteString("\n")
	writeBlock(&b, DarkSelector, doc.Styles.Dark)

	if len(doc.Rules) > 0 {
		b.WriteString("\n")
		writeRules(&b, doc.Rules)
	}

	return b.String()
}

func writeBlock(b *strings.Builder, selector string, props *PropertySet) {
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, name := range props.Keys() {
		value, _ := props.Get(name)
		if value == "" {
			continue
		}
		b.WriteString("  --")
		b.WriteString(externalName(name))
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
}

func writeRules(b *strings.Builder, rules RuleSet) {
	for _, scope := range sortedKeys(rules) {
		b.WriteString(scope)
		b.WriteString(" {\n")
		selectors := rules[scope]
		for _, selector := range sortedKeys(selectors) {
			b.WriteString("  ")
			b.WriteString(selector)
			b.WriteString(" {\n")
			decls := selectors[selector]
			for _, name := range sortedKeys(decls) {
				b.WriteString("    ")
				b.WriteString(name)
				b.WriteString(": ")
				b.WriteString(decls[name])
				b.WriteString(";\n")
			}
			b.WriteString("  }\n")
		}
		b.WriteString("}\n")
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToRegistry produces the target-tool registry document: a shared theme
// group carrying typography, radius and the tracking scale, plus per-mode
// light and dark groups. Omitted typography and radius fall back to fixed
// defaults.
func ToRegistry(doc *ThemeDocument) *RegistryDocument {
	themeGroup := NewPropertySet()

	hoisted := make(map[string]bool, len(themeGroupNames))
	for _, name := range themeGroupNames {
		hoisted[name] = true
	}

	themeGroup.Set("font-sans", valueOr(doc.Styles.Light, "font-sans", DefaultFontSans))
	if serif, ok := doc.Styles.Light.Get("font-serif"); ok && serif != "" {
		themeGroup.Set("font-serif", serif)
	}
	themeGroup.Set("font-mono", valueOr(doc.Styles.Light, "font-mono", DefaultFontMono))
	themeGroup.Set("radius", valueOr(doc.Styles.Light, "radius", DefaultRadius))
	themeGroup.Set("tracking-normal", valueOr(doc.Styles.Light, "letter-spacing", "0em"))
	if spacing, ok := doc.Styles.Light.Get("spacing"); ok && spacing != "" {
		themeGroup.Set("spacing", spacing)
	}
	for _, step := range trackingScale {
		themeGroup.Set(step.name, step.value)
	}

	reg := &RegistryDocument{
		SchemaRef: RegistrySchemaRef,
		Name:      SanitizeName(doc.Name),
		Type:      "style",
		VariableGroups: RegistryGroups{
			Theme: themeGroup,
			Light: modeGroup(doc.Styles.Light, hoisted),
			Dark:  modeGroup(doc.Styles.Dark, hoisted),
		},
	}

	if len(doc.Rules) > 0 {
		reg.Declarations = make(map[string]map[string]string)
		for _, selectors := range doc.Rules {
			for selector, decls := range selectors {
				merged := reg.Declarations[selector]
				if merged == nil {
					merged = make(map[string]string)
					reg.Declarations[selector] = merged
				}
				for name, value := range decls {
					merged[name] = value
				}
			}
		}
	}

	return reg
}

func modeGroup(props *PropertySet, hoisted map[string]bool) *PropertySet {
	group := NewPropertySet()
	for _, name := range props.Keys() {
		if hoisted[name] {
			continue
		}
		value, _ := props.Get(name)
		if value == "" {
			continue
		}
		group.Set(externalName(name), value)
	}
	return group
}

func valueOr(props *PropertySet, name, fallback string) string {
	if v, ok := props.Get(name); ok && v != "" {
		return v
	}
	return fallback
}

// ToJSON serializes the document exactly; pretty mode indents with two
// spaces.
func ToJSON(doc *ThemeDocument, pretty bool) ([]byte, error) {
	if pretty {
		return sonic.MarshalIndent(doc, "", "  ")
	}
	return sonic.Marshal(doc)
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName turns a display name into a lowercase hyphenated identifier.
func SanitizeName(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlnumRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "custom-theme"
	}
	return slug
}
