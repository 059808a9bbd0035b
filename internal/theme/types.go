package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Schema identifiers claimed by documents this engine produces.
const (
	SchemaRef         = "https://hueforge.dev/schema/theme.json"
	RegistrySchemaRef = "https://hueforge.dev/schema/registry-item.json"
)

// Mode block selectors in stylesheet text.
const (
	LightSelector = ":root"
	DarkSelector  = ".dark"
)

// RequiredProperties are the property names every mode must define.
var RequiredProperties = []string{
	"background",
	"foreground",
	"card",
	"card-foreground",
	"popover",
	"popover-foreground",
	"primary",
	"primary-foreground",
	"secondary",
	"secondary-foreground",
	"muted",
	"muted-foreground",
	"accent",
	"accent-foreground",
	"destructive",
	"destructive-foreground",
	"border",
	"input",
	"ring",
	"radius",
}

// MinimalProperties are the slots the stylesheet parser insists on before
// accepting a default-mode block at all.
var MinimalProperties = []string{"background", "foreground", "primary", "radius"}

// VariableLookupTable maps bare variable names (no leading sigil) to their
// first-declared raw value across an entire stylesheet.
type VariableLookupTable map[string]string

// RuleSet holds auxiliary selector-scoped declarations keyed by enclosing
// scope, then selector, then declaration name.
type RuleSet map[string]map[string]map[string]string

// StyleModes carries the two required mode property sets.
type StyleModes struct {
	Light *PropertySet `json:"light"`
	Dark  *PropertySet `json:"dark"`
}

// ThemeDocument is the validated unit of exchange between representations.
type ThemeDocument struct {
	SchemaRef string     `json:"schemaRef"`
	Name      string     `json:"name"`
	Author    string     `json:"author,omitempty"`
	Styles    StyleModes `json:"styles"`
	Rules     RuleSet    `json:"rules,omitempty"`
}

// ParseMetadata describes what the stylesheet parser physically found.
type ParseMetadata struct {
	LightCount     int  `json:"light_count"`
	DarkCount      int  `json:"dark_count"`
	TotalVariables int  `json:"total_variables"`
	HasLightMode   bool `json:"has_light_mode"`
	HasDarkMode    bool `json:"has_dark_mode"`
}

// ParseResult bundles a parsed document with its parse metadata.
type ParseResult struct {
	Document *ThemeDocument `json:"document"`
	Metadata *ParseMetadata `json:"metadata"`
}

// RegistryGroups are the three variable groups of a registry document.
type RegistryGroups struct {
	Theme *PropertySet `json:"theme"`
	Light *PropertySet `json:"light"`
	Dark  *PropertySet `json:"dark"`
}

// RegistryDocument is the target-tool egress format, distinct from the
// document's own JSON shape.
type RegistryDocument struct {
	SchemaRef      string                       `json:"schemaRef"`
	Name           string                       `json:"name"`
	Type           string                       `json:"type"`
	Declarations   map[string]map[string]string `json:"declarations,omitempty"`
	VariableGroups RegistryGroups               `json:"variableGroups"`
}

// PropertySet is an insertion-ordered mapping from property name to value.
// Iteration order is declaration order, which keeps stylesheet egress
// deterministic without sorting.
type PropertySet struct {
	keys   []string
	values map[string]string
}

// NewPropertySet creates an empty property set.
func NewPropertySet() *PropertySet {
	return &PropertySet{values: make(map[string]string)}
}

// Set stores a value, preserving the position of an existing key.
func (p *PropertySet) Set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Get returns the value for a name.
func (p *PropertySet) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Has reports whether a name is present.
func (p *PropertySet) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of properties.
func (p *PropertySet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the property names in insertion order.
func (p *PropertySet) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Clone returns an independent copy preserving order.
func (p *PropertySet) Clone() *PropertySet {
	c := NewPropertySet()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}

// Equal reports whether two sets hold the same names and values in the same
// order.
func (p *PropertySet) Equal(o *PropertySet) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, k := range p.keys {
		if o.keys[i] != k || o.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON emits an ordered JSON object.
func (p *PropertySet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Values must be
// strings.
func (p *PropertySet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("property set must be a JSON object")
	}

	p.keys = nil
	p.values = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		val, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("property %q must be a string", key)
		}
		p.Set(key, val)
	}

	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
