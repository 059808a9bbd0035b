package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueforge/themed/internal/theme"
)

func docParam(t *testing.T, doc *theme.ThemeDocument) map[string]interface{} {
	t.Helper()
	data, err := theme.ToJSON(doc, false)
	require.NoError(t, err)
	return map[string]interface{}{"document": string(data)}
}

func TestProviderDefinition(t *testing.T) {
	p := NewProvider(nil)
	def := p.Definition()

	assert.Equal(t, "theme", def.ID)
	assert.NotEmpty(t, def.Capabilities)

	toolIDs := make(map[string]bool)
	for _, tool := range def.Tools {
		toolIDs[tool.ID] = true
	}
	for _, id := range []string{
		"theme.parse", "theme.validate", "theme.create",
		"theme.css", "theme.registry", "theme.json",
		"theme.list", "theme.get", "theme.save", "theme.delete",
	} {
		assert.True(t, toolIDs[id], "missing tool %s", id)
	}
}

func TestProviderParse(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	doc := theme.NewWithDefaults("Parse Me", nil, nil)
	result, err := p.Execute(ctx, "theme.parse", map[string]interface{}{
		"css":  theme.ToCSS(doc),
		"name": "Parse Me",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	parsed := result.Data["document"].(*theme.ThemeDocument)
	assert.Equal(t, "Parse Me", parsed.Name)
	assert.NotNil(t, result.Data["metadata"])
}

func TestProviderParseFailure(t *testing.T) {
	p := NewProvider(nil)

	result, err := p.Execute(context.Background(), "theme.parse", map[string]interface{}{
		"css": ".dark { --background: #000; }",
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, ":root")
}

func TestProviderValidate(t *testing.T) {
	p := NewProvider(nil)
	doc := theme.NewWithDefaults("Valid", nil, nil)

	result, err := p.Execute(context.Background(), "theme.validate", docParam(t, doc), nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, true, result.Data["valid"])
}

func TestProviderValidateRejects(t *testing.T) {
	p := NewProvider(nil)

	result, err := p.Execute(context.Background(), "theme.validate", map[string]interface{}{
		"document": `{"name": "broken"}`,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "schemaRef")
}

func TestProviderCreateAndExport(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	result, err := p.Execute(ctx, "theme.create", map[string]interface{}{
		"name":  "Mono",
		"light": map[string]interface{}{"background": "#fff"},
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	doc := result.Data["document"].(*theme.ThemeDocument)

	cssResult, err := p.Execute(ctx, "theme.css", docParam(t, doc), nil)
	require.NoError(t, err)
	require.True(t, cssResult.Success)
	assert.Contains(t, cssResult.Data["css"].(string), "--background: #fff;")

	regResult, err := p.Execute(ctx, "theme.registry", docParam(t, doc), nil)
	require.NoError(t, err)
	require.True(t, regResult.Success)
	reg := regResult.Data["registry"].(*theme.RegistryDocument)
	assert.Equal(t, "mono", reg.Name)

	jsonResult, err := p.Execute(ctx, "theme.json", map[string]interface{}{
		"document": docParam(t, doc)["document"],
		"pretty":   true,
	}, nil)
	require.NoError(t, err)
	require.True(t, jsonResult.Success)
	assert.Contains(t, jsonResult.Data["json"].(string), "\"name\": \"Mono\"")
}

func TestProviderStorageLifecycle(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()
	doc := theme.NewWithDefaults("Stored", nil, nil)

	saved, err := p.Execute(ctx, "theme.save", docParam(t, doc), nil)
	require.NoError(t, err)
	require.True(t, saved.Success)
	id := saved.Data["id"].(string)
	require.NotEmpty(t, id)

	got, err := p.Execute(ctx, "theme.get", map[string]interface{}{"id": id}, nil)
	require.NoError(t, err)
	require.True(t, got.Success)
	assert.Equal(t, "Stored", got.Data["document"].(*theme.ThemeDocument).Name)

	listed, err := p.Execute(ctx, "theme.list", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Data["count"])

	deleted, err := p.Execute(ctx, "theme.delete", map[string]interface{}{"id": id}, nil)
	require.NoError(t, err)
	assert.True(t, deleted.Success)

	missing, err := p.Execute(ctx, "theme.get", map[string]interface{}{"id": id}, nil)
	require.NoError(t, err)
	assert.False(t, missing.Success)
}

func TestProviderBuiltInProtected(t *testing.T) {
	p := NewProvider(nil)
	p.Seed("neutral", theme.NewWithDefaults("Neutral", nil, nil))

	result, err := p.Execute(context.Background(), "theme.delete", map[string]interface{}{"id": "neutral"}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "built-in")
}

func TestProviderUnknownTool(t *testing.T) {
	p := NewProvider(nil)

	result, err := p.Execute(context.Background(), "theme.nope", nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "unknown tool")
}
