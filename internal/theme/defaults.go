package theme

import "sort"

// Fallback typography and radius used by the registry transform and the
// built-in palettes.
const (
	DefaultFontSans = "ui-sans-serif, system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif"
	DefaultFontMono = "ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, monospace"
	DefaultRadius   = "0.625rem"
)

type propPair struct {
	name  string
	value string
}

// Built-in neutral palette, light mode.
var defaultLight = []propPair{
	{"background", "oklch(1 0 0)"},
	{"foreground", "oklch(0.145 0 0)"},
	{"card", "oklch(1 0 0)"},
	{"card-foreground", "oklch(0.145 0 0)"},
	{"popover", "oklch(1 0 0)"},
	{"popover-foreground", "oklch(0.145 0 0)"},
	{"primary", "oklch(0.205 0 0)"},
	{"primary-foreground", "oklch(0.985 0 0)"},
	{"secondary", "oklch(0.97 0 0)"},
	{"secondary-foreground", "oklch(0.205 0 0)"},
	{"muted", "oklch(0.97 0 0)"},
	{"muted-foreground", "oklch(0.556 0 0)"},
	{"accent", "oklch(0.97 0 0)"},
	{"accent-foreground", "oklch(0.205 0 0)"},
	{"destructive", "oklch(0.577 0.245 27.325)"},
	{"destructive-foreground", "oklch(0.985 0 0)"},
	{"border", "oklch(0.922 0 0)"},
	{"input", "oklch(0.922 0 0)"},
	{"ring", "oklch(0.708 0 0)"},
	{"radius", DefaultRadius},
	{"font-sans", DefaultFontSans},
	{"font-mono", DefaultFontMono},
	{"letter-spacing", "0em"},
}

// Built-in neutral palette, dark mode.
var defaultDark = []propPair{
	{"background", "oklch(0.145 0 0)"},
	{"foreground", "oklch(0.985 0 0)"},
	{"card", "oklch(0.205 0 0)"},
	{"card-foreground", "oklch(0.985 0 0)"},
	{"popover", "oklch(0.205 0 0)"},
	{"popover-foreground", "oklch(0.985 0 0)"},
	{"primary", "oklch(0.922 0 0)"},
	{"primary-foreground", "oklch(0.205 0 0)"},
	{"secondary", "oklch(0.269 0 0)"},
	{"secondary-foreground", "oklch(0.985 0 0)"},
	{"muted", "oklch(0.269 0 0)"},
	{"muted-foreground", "oklch(0.708 0 0)"},
	{"accent", "oklch(0.269 0 0)"},
	{"accent-foreground", "oklch(0.985 0 0)"},
	{"destructive", "oklch(0.704 0.191 22.216)"},
	{"destructive-foreground", "oklch(0.985 0 0)"},
	{"border", "oklch(1 0 0 / 10%)"},
	{"input", "oklch(1 0 0 / 15%)"},
	{"ring", "oklch(0.556 0 0)"},
	{"radius", DefaultRadius},
	{"font-sans", DefaultFontSans},
	{"font-mono", DefaultFontMono},
	{"letter-spacing", "0em"},
}

func defaultSet(pairs []propPair) *PropertySet {
	props := NewPropertySet()
	for _, p := range pairs {
		props.Set(p.name, p.value)
	}
	return props
}

// NewWithDefaults builds a complete document from the built-in palette plus
// caller overrides. Defaults are applied first, explicit overrides second.
// When no dark overrides are given, the dark mode is a full copy of the
// merged light mode, matching the parser's fallback policy.
func NewWithDefaults(name string, light, dark map[string]string) *ThemeDocument {
	merged := mergeOverrides(defaultSet(defaultLight), light)

	var mergedDark *PropertySet
	if len(dark) == 0 {
		mergedDark = merged.Clone()
	} else {
		mergedDark = mergeOverrides(defaultSet(defaultDark), dark)
	}

	if name == "" {
		name = "Custom Theme"
	}

	return &ThemeDocument{
		SchemaRef: SchemaRef,
		Name:      name,
		Styles:    StyleModes{Light: merged, Dark: mergedDark},
	}
}

// mergeOverrides overwrites default values in place and appends unknown
// names in sorted order so output stays deterministic.
func mergeOverrides(base *PropertySet, overrides map[string]string) *PropertySet {
	extra := make([]string, 0, len(overrides))
	for name, value := range overrides {
		if base.Has(name) {
			base.Set(name, value)
		} else {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		base.Set(name, overrides[name])
	}
	return base
}
