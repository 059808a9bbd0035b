package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLookupFirstOccurrenceWins(t *testing.T) {
	src := `
:root {
  --x: 1;
  --background: oklch(1 0 0);
}
.dark {
  --x: 2;
  --background: oklch(0.145 0 0);
}
`
	lookup := BuildLookup(src)

	assert.Equal(t, "1", lookup["x"])
	assert.Equal(t, "oklch(1 0 0)", lookup["background"])
}

func TestBuildLookupSpansWholeText(t *testing.T) {
	src := `:root { --a: 1; } .dark { --only-dark: 2; }`
	lookup := BuildLookup(src)

	assert.Equal(t, "2", lookup["only-dark"])
}

func TestResolvePassthrough(t *testing.T) {
	lookup := VariableLookupTable{}

	tests := []struct {
		name  string
		value string
	}{
		{"literal color", "oklch(0.5 0.1 200)"},
		{"literal length", "0.625rem"},
		{"reference with fallback", "var(--background, #fff)"},
		{"reference inside expression", "calc(var(--radius) - 2px)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, Resolve(tt.value, lookup))
		})
	}
}

func TestResolveChain(t *testing.T) {
	lookup := VariableLookupTable{
		"primary": "var(--brand)",
		"brand":   "oklch(0.6 0.2 250)",
	}

	assert.Equal(t, "oklch(0.6 0.2 250)", Resolve("var(--primary)", lookup))
}

func TestResolveBuiltins(t *testing.T) {
	// Built-ins win even when the lookup table shadows them.
	lookup := VariableLookupTable{"white": "#eee", "black": "#111"}

	assert.Equal(t, "oklch(1 0 0)", Resolve("var(--white)", lookup))
	assert.Equal(t, "oklch(0 0 0)", Resolve("var(--black)", lookup))
}

func TestResolveUnknownReturnsOriginal(t *testing.T) {
	assert.Equal(t, "var(--missing)", Resolve("var(--missing)", VariableLookupTable{}))
}

func TestResolveIdempotent(t *testing.T) {
	lookup := VariableLookupTable{
		"primary": "var(--brand)",
		"brand":   "oklch(0.6 0.2 250)",
	}

	for _, value := range []string{"var(--primary)", "var(--missing)", "oklch(1 0 0)", "var(--white)"} {
		once := Resolve(value, lookup)
		assert.Equal(t, once, Resolve(once, lookup), "resolve must be idempotent for %q", value)
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	lookup := VariableLookupTable{
		"a": "var(--b)",
		"b": "var(--a)",
	}

	// A cyclic chain must terminate and stay unresolved.
	result := Resolve("var(--a)", lookup)
	assert.True(t, IsReference(result))
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("var(--background)"))
	assert.True(t, IsReference("var( --background )"))
	assert.False(t, IsReference("var(--background, #fff)"))
	assert.False(t, IsReference("solid var(--border)"))
	assert.False(t, IsReference("#ffffff"))
}

func TestReferenceName(t *testing.T) {
	assert.Equal(t, "primary", ReferenceName("var(--primary)"))
	assert.Equal(t, "", ReferenceName("oklch(1 0 0)"))
}
