package theme

import (
	"encoding/json"
	"fmt"
)

// Validate checks arbitrary input against the theme document schema and
// coerces it into a ThemeDocument. The input may be raw JSON bytes, a JSON
// string, a generic decoded value, or an existing document.
//
// The first structural violation fails the whole check; no partial document
// is ever returned.
func Validate(data any) (*ThemeDocument, error) {
	raw, err := toRawJSON(data)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("theme document must be a JSON object")
	}

	doc := &ThemeDocument{}

	if doc.SchemaRef, err = requiredString(top, "schemaRef"); err != nil {
		return nil, err
	}
	if doc.Name, err = requiredString(top, "name"); err != nil {
		return nil, err
	}

	if rawAuthor, ok := top["author"]; ok {
		if err := json.Unmarshal(rawAuthor, &doc.Author); err != nil {
			return nil, fmt.Errorf("author must be a string")
		}
	}

	rawStyles, ok := top["styles"]
	if !ok {
		return nil, fmt.Errorf("styles is required")
	}
	var styles map[string]json.RawMessage
	if err := json.Unmarshal(rawStyles, &styles); err != nil {
		return nil, fmt.Errorf("styles must be an object with light and dark modes")
	}

	if doc.Styles.Light, err = validateMode(styles, "light"); err != nil {
		return nil, err
	}
	if doc.Styles.Dark, err = validateMode(styles, "dark"); err != nil {
		return nil, err
	}

	if rawRules, ok := top["rules"]; ok {
		if err := json.Unmarshal(rawRules, &doc.Rules); err != nil {
			return nil, fmt.Errorf("rules must map scopes to selector declaration objects")
		}
	}

	return doc, nil
}

func toRawJSON(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, fmt.Errorf("theme document is missing")
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	case string:
		return []byte(v), nil
	case *ThemeDocument:
		return json.Marshal(v)
	case ThemeDocument:
		return json.Marshal(&v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("theme document is not a JSON value: %v", err)
		}
		return raw, nil
	}
}

func requiredString(obj map[string]json.RawMessage, field string) (string, error) {
	raw, ok := obj[field]
	if !ok {
		return "", fmt.Errorf("%s is required", field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s must be a string", field)
	}
	if s == "" {
		return "", fmt.Errorf("%s must not be empty", field)
	}
	return s, nil
}

func validateMode(styles map[string]json.RawMessage, mode string) (*PropertySet, error) {
	raw, ok := styles[mode]
	if !ok {
		return nil, fmt.Errorf("styles.%s is required", mode)
	}

	props := NewPropertySet()
	if err := props.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("styles.%s: %v", mode, err)
	}

	for _, name := range RequiredProperties {
		value, present := props.Get(name)
		if !present {
			return nil, fmt.Errorf("styles.%s is missing required property %q", mode, name)
		}
		if value == "" {
			return nil, fmt.Errorf("styles.%s property %q must not be empty", mode, name)
		}
	}

	return props, nil
}
