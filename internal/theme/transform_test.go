package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSSStructure(t *testing.T) {
	doc := NewWithDefaults("CSS Fixture", nil, map[string]string{"background": "#000"})
	css := ToCSS(doc)

	rootIdx := strings.Index(css, ":root {")
	darkIdx := strings.Index(css, ".dark {")
	require.GreaterOrEqual(t, rootIdx, 0)
	require.Greater(t, darkIdx, rootIdx, ":root block must come first")

	assert.Contains(t, css, "  --background: #000;")
	assert.Contains(t, css, "  --radius: 0.625rem;")
}

func TestToCSSEmitsExternalNames(t *testing.T) {
	doc := NewWithDefaults("Tracking", map[string]string{
		"letter-spacing":  "0.05em",
		"shadow-offset-x": "1px",
		"shadow-offset-y": "2px",
	}, nil)
	css := ToCSS(doc)

	assert.Contains(t, css, "--tracking-normal: 0.05em;")
	assert.Contains(t, css, "--shadow-x: 1px;")
	assert.Contains(t, css, "--shadow-y: 2px;")
	assert.NotContains(t, css, "--letter-spacing")
	assert.NotContains(t, css, "--shadow-offset-x")
	assert.NotContains(t, css, "--shadow-offset-y")
}

func TestToCSSInsertionOrder(t *testing.T) {
	doc := NewWithDefaults("Order", nil, nil)
	css := ToCSS(doc)

	// Declaration order follows the property set, not lexical order.
	bg := strings.Index(css, "--background:")
	fg := strings.Index(css, "--foreground:")
	accent := strings.Index(css, "--accent:")
	assert.Less(t, bg, fg)
	assert.Less(t, fg, accent)
}

func TestToCSSOmitsEmptyValues(t *testing.T) {
	doc := NewWithDefaults("Sparse", nil, nil)
	doc.Styles.Light.Set("sidebar", "")
	css := ToCSS(doc)

	assert.NotContains(t, css, "--sidebar")
}

func TestToCSSAppendsRules(t *testing.T) {
	doc := NewWithDefaults("Ruled", nil, nil)
	doc.Rules = RuleSet{"@layer base": {"body": {"letter-spacing": "var(--tracking-normal)"}}}
	css := ToCSS(doc)

	assert.Contains(t, css, "@layer base {")
	assert.Contains(t, css, "body {")
	assert.Contains(t, css, "letter-spacing: var(--tracking-normal);")
}

func TestToCSSRulesEmitDeclarationsSorted(t *testing.T) {
	doc := NewWithDefaults("Ruled", nil, nil)
	doc.Rules = RuleSet{"@layer base": {"body": {
		"min-height": "100vh",
		"margin":     "0",
	}}}
	css := ToCSS(doc)

	assert.Less(t, strings.Index(css, "margin: 0;"), strings.Index(css, "min-height: 100vh;"))
}

func TestToCSSRoundTripsThroughParser(t *testing.T) {
	original := NewWithDefaults("Round Trip", nil, map[string]string{"background": "oklch(0.1 0 0)"})

	result, err := ParseStylesheet(ToCSS(original), original.Name)
	require.NoError(t, err)

	assert.True(t, original.Styles.Light.Equal(result.Document.Styles.Light))
	assert.True(t, original.Styles.Dark.Equal(result.Document.Styles.Dark))
}

func TestToRegistryGroups(t *testing.T) {
	doc := NewWithDefaults("My Theme", map[string]string{"letter-spacing": "0.01em"}, nil)
	reg := ToRegistry(doc)

	assert.Equal(t, RegistrySchemaRef, reg.SchemaRef)
	assert.Equal(t, "my-theme", reg.Name)
	assert.Equal(t, "style", reg.Type)

	theme := reg.VariableGroups.Theme
	tracking, _ := theme.Get("tracking-normal")
	assert.Equal(t, "0.01em", tracking)

	// Derived scale is expressed relative to the base, not as literals.
	for name, want := range map[string]string{
		"tracking-tighter": "calc(var(--tracking-normal) - 0.05em)",
		"tracking-tight":   "calc(var(--tracking-normal) - 0.025em)",
		"tracking-wide":    "calc(var(--tracking-normal) + 0.025em)",
		"tracking-wider":   "calc(var(--tracking-normal) + 0.05em)",
		"tracking-widest":  "calc(var(--tracking-normal) + 0.1em)",
	} {
		got, ok := theme.Get(name)
		assert.True(t, ok, "missing %s", name)
		assert.Equal(t, want, got)
	}

	// Mode groups hold the colors under external names, without hoisted keys.
	light := reg.VariableGroups.Light
	assert.True(t, light.Has("background"))
	assert.False(t, light.Has("font-sans"))
	assert.False(t, light.Has("radius"))
	assert.False(t, light.Has("letter-spacing"))
}

func TestToRegistryTypographyFallbacks(t *testing.T) {
	// A theme omitting typography and radius falls back to the fixed
	// defaults exactly.
	light := NewPropertySet()
	for _, name := range RequiredProperties {
		if name == "radius" {
			continue
		}
		light.Set(name, "v")
	}
	doc := &ThemeDocument{
		SchemaRef: SchemaRef,
		Name:      "Bare",
		Styles:    StyleModes{Light: light, Dark: light.Clone()},
	}

	theme := ToRegistry(doc).VariableGroups.Theme

	sans, _ := theme.Get("font-sans")
	mono, _ := theme.Get("font-mono")
	radius, _ := theme.Get("radius")
	assert.Equal(t, DefaultFontSans, sans)
	assert.Equal(t, DefaultFontMono, mono)
	assert.Equal(t, DefaultRadius, radius)
	assert.False(t, theme.Has("font-serif"))
}

func TestToRegistryDeclarations(t *testing.T) {
	doc := NewWithDefaults("Ruled", nil, nil)
	doc.Rules = RuleSet{"@layer base": {"body": {"margin": "0"}}}

	reg := ToRegistry(doc)
	require.NotNil(t, reg.Declarations)
	assert.Equal(t, "0", reg.Declarations["body"]["margin"])
}

func TestToJSONPretty(t *testing.T) {
	doc := NewWithDefaults("Pretty", nil, nil)

	compact, err := ToJSON(doc, false)
	require.NoError(t, err)
	pretty, err := ToJSON(doc, true)
	require.NoError(t, err)

	assert.NotContains(t, string(compact), "\n")
	assert.Contains(t, string(pretty), "\n  \"schemaRef\"")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Theme", "my-theme"},
		{"  Océan -- Deep!  ", "oc-an-deep"},
		{"already-clean", "already-clean"},
		{"___", "custom-theme"},
		{"", "custom-theme"},
		{"A B  C", "a-b-c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestNewWithDefaultsDarkCopy(t *testing.T) {
	doc := NewWithDefaults("Copy", map[string]string{"background": "#eee"}, nil)

	// No dark overrides: dark is a full copy of the merged light mode.
	assert.True(t, doc.Styles.Dark.Equal(doc.Styles.Light))

	bg, _ := doc.Styles.Dark.Get("background")
	assert.Equal(t, "#eee", bg)
}

func TestNewWithDefaultsMerge(t *testing.T) {
	doc := NewWithDefaults("Merge", map[string]string{
		"background": "#fff",
		"sidebar":    "#f5f5f5",
	}, map[string]string{
		"background": "#000",
	})

	lightBg, _ := doc.Styles.Light.Get("background")
	darkBg, _ := doc.Styles.Dark.Get("background")
	assert.Equal(t, "#fff", lightBg)
	assert.Equal(t, "#000", darkBg)

	// Unknown overrides append after the defaults.
	assert.True(t, doc.Styles.Light.Has("sidebar"))
	assert.False(t, doc.Styles.Dark.Has("sidebar"))

	// Dark keeps its own palette for everything not overridden.
	darkFg, _ := doc.Styles.Dark.Get("foreground")
	assert.Equal(t, "oklch(0.985 0 0)", darkFg)
}
