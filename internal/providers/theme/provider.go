package theme

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hueforge/themed/internal/infrastructure/monitoring"
	"github.com/hueforge/themed/internal/shared/types"
	"github.com/hueforge/themed/internal/theme"
)

// StoredTheme is a document held by the provider together with its handle.
type StoredTheme struct {
	ID        string               `json:"id"`
	Document  *theme.ThemeDocument `json:"document"`
	BuiltIn   bool                 `json:"built_in"`
	CreatedAt time.Time            `json:"created_at"`
}

// Provider exposes the theme engine as service tools and manages stored
// themes.
type Provider struct {
	themes  sync.Map
	metrics *monitoring.Metrics
	count   int
	mu      sync.Mutex
}

// NewProvider creates a theme provider. Metrics may be nil (e.g. in tests).
func NewProvider(metrics *monitoring.Metrics) *Provider {
	return &Provider{metrics: metrics}
}

// Seed stores a built-in theme under a fixed ID. Built-ins cannot be
// deleted.
func (t *Provider) Seed(id string, doc *theme.ThemeDocument) {
	t.store(&StoredTheme{
		ID:        id,
		Document:  doc,
		BuiltIn:   true,
		CreatedAt: time.Now(),
	})
}

// Definition returns service metadata
func (t *Provider) Definition() types.Service {
	return types.Service{
		ID:          "theme",
		Name:        "Theme Engine",
		Description: "Parse, validate and convert design-token themes",
		Category:    types.CategoryTheme,
		Capabilities: []string{
			"parse",
			"validate",
			"create",
			"convert",
			"list",
			"get",
			"save",
			"delete",
		},
		Tools: []types.Tool{
			{
				ID:          "theme.parse",
				Name:        "Parse Stylesheet",
				Description: "Parse stylesheet text into a theme document",
				Parameters: []types.Parameter{
					{Name: "css", Type: "string", Description: "Stylesheet text", Required: true},
					{Name: "name", Type: "string", Description: "Theme name", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "theme.validate",
				Name:        "Validate Document",
				Description: "Check a document against the theme schema",
				Parameters: []types.Parameter{
					{Name: "document", Type: "object", Description: "Theme document", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "theme.create",
				Name:        "Create Theme",
				Description: "Build a document from defaults plus overrides",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Theme name", Required: true},
					{Name: "light", Type: "object", Description: "Light mode overrides", Required: false},
					{Name: "dark", Type: "object", Description: "Dark mode overrides", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "theme.css",
				Name:        "Export CSS",
				Description: "Serialize a document into stylesheet text",
				Parameters: []types.Parameter{
					{Name: "document", Type: "object", Description: "Theme document", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "theme.registry",
				Name:        "Export Registry Item",
				Description: "Convert a document into a registry document",
				Parameters: []types.Parameter{
					{Name: "document", Type: "object", Description: "Theme document", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "theme.json",
				Name:        "Export JSON",
				Description: "Serialize a document to JSON text",
				Parameters: []types.Parameter{
					{Name: "document", Type: "object", Description: "Theme document", Required: true},
					{Name: "pretty", Type: "boolean", Description: "Indent output", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "theme.list",
				Name:        "List Themes",
				Description: "List stored themes",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "theme.get",
				Name:        "Get Theme",
				Description: "Get a stored theme by ID",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "theme.save",
				Name:        "Save Theme",
				Description: "Validate and store a theme document",
				Parameters: []types.Parameter{
					{Name: "document", Type: "object", Description: "Theme document", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "theme.delete",
				Name:        "Delete Theme",
				Description: "Delete a stored theme",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a theme operation
func (t *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "theme.parse":
		return t.parse(params)
	case "theme.validate":
		return t.validate(params)
	case "theme.create":
		return t.create(params)
	case "theme.css":
		return t.exportCSS(params)
	case "theme.registry":
		return t.exportRegistry(params)
	case "theme.json":
		return t.exportJSON(params)
	case "theme.list":
		return t.list()
	case "theme.get":
		return t.get(params)
	case "theme.save":
		return t.save(params)
	case "theme.delete":
		return t.delete(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (t *Provider) parse(params map[string]interface{}) (*types.Result, error) {
	css, ok := params["css"].(string)
	if !ok || css == "" {
		return failure("css parameter required")
	}
	name, _ := params["name"].(string)

	result, err := theme.ParseStylesheet(css, name)
	t.recordParse(err == nil)
	if err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{
		"document": result.Document,
		"metadata": result.Metadata,
	})
}

func (t *Provider) validate(params map[string]interface{}) (*types.Result, error) {
	doc, err := t.documentParam(params)
	if err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{
		"valid":    true,
		"document": doc,
	})
}

func (t *Provider) create(params map[string]interface{}) (*types.Result, error) {
	name, ok := params["name"].(string)
	if !ok || name == "" {
		return failure("name parameter required")
	}

	light, err := overrides(params, "light")
	if err != nil {
		return failure(err.Error())
	}
	dark, err := overrides(params, "dark")
	if err != nil {
		return failure(err.Error())
	}

	doc := theme.NewWithDefaults(name, light, dark)
	return success(map[string]interface{}{"document": doc})
}

func (t *Provider) exportCSS(params map[string]interface{}) (*types.Result, error) {
	doc, err := t.documentParam(params)
	if err != nil {
		return failure(err.Error())
	}

	t.recordTransform("css")
	return success(map[string]interface{}{"css": theme.ToCSS(doc)})
}

func (t *Provider) exportRegistry(params map[string]interface{}) (*types.Result, error) {
	doc, err := t.documentParam(params)
	if err != nil {
		return failure(err.Error())
	}

	t.recordTransform("registry")
	return success(map[string]interface{}{"registry": theme.ToRegistry(doc)})
}

func (t *Provider) exportJSON(params map[string]interface{}) (*types.Result, error) {
	doc, err := t.documentParam(params)
	if err != nil {
		return failure(err.Error())
	}
	pretty, _ := params["pretty"].(bool)

	data, err := theme.ToJSON(doc, pretty)
	if err != nil {
		return failure(fmt.Sprintf("failed to serialize theme: %v", err))
	}

	t.recordTransform("json")
	return success(map[string]interface{}{"json": string(data)})
}

func (t *Provider) list() (*types.Result, error) {
	var themes []map[string]interface{}

	t.themes.Range(func(_, value interface{}) bool {
		stored := value.(*StoredTheme)
		themes = append(themes, map[string]interface{}{
			"id":         stored.ID,
			"name":       stored.Document.Name,
			"built_in":   stored.BuiltIn,
			"created_at": stored.CreatedAt,
		})
		return true
	})

	return success(map[string]interface{}{"themes": themes, "count": len(themes)})
}

func (t *Provider) get(params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	val, ok := t.themes.Load(id)
	if !ok {
		return failure(fmt.Sprintf("theme not found: %s", id))
	}

	stored := val.(*StoredTheme)
	return success(map[string]interface{}{
		"id":       stored.ID,
		"built_in": stored.BuiltIn,
		"document": stored.Document,
	})
}

func (t *Provider) save(params map[string]interface{}) (*types.Result, error) {
	doc, err := t.documentParam(params)
	if err != nil {
		return failure(err.Error())
	}

	stored := &StoredTheme{
		ID:        uuid.NewString(),
		Document:  doc,
		CreatedAt: time.Now(),
	}
	t.store(stored)

	return success(map[string]interface{}{
		"saved": true,
		"id":    stored.ID,
	})
}

func (t *Provider) delete(params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	val, ok := t.themes.Load(id)
	if !ok {
		return failure(fmt.Sprintf("theme not found: %s", id))
	}
	if val.(*StoredTheme).BuiltIn {
		return failure("cannot delete built-in theme")
	}

	t.themes.Delete(id)
	t.mu.Lock()
	t.count--
	t.setStoredGauge()
	t.mu.Unlock()

	return success(map[string]interface{}{"deleted": true, "id": id})
}

func (t *Provider) store(stored *StoredTheme) {
	_, existed := t.themes.Load(stored.ID)
	t.themes.Store(stored.ID, stored)

	t.mu.Lock()
	if !existed {
		t.count++
	}
	t.setStoredGauge()
	t.mu.Unlock()
}

// documentParam validates the "document" parameter into a ThemeDocument,
// counting the validation outcome.
func (t *Provider) documentParam(params map[string]interface{}) (*theme.ThemeDocument, error) {
	raw, ok := params["document"]
	if !ok {
		return nil, fmt.Errorf("document parameter required")
	}

	doc, err := theme.Validate(raw)
	t.recordValidation(err == nil)
	return doc, err
}

func (t *Provider) recordParse(ok bool) {
	if t.metrics != nil {
		t.metrics.RecordParse(ok)
	}
}

func (t *Provider) recordValidation(ok bool) {
	if t.metrics != nil {
		t.metrics.RecordValidation(ok)
	}
}

func (t *Provider) recordTransform(format string) {
	if t.metrics != nil {
		t.metrics.RecordTransform(format)
	}
}

func (t *Provider) setStoredGauge() {
	if t.metrics != nil {
		t.metrics.SetThemesStored(t.count)
	}
}

// overrides extracts an optional string-map parameter.
func overrides(params map[string]interface{}, key string) (map[string]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s parameter must be an object", key)
	}

	out := make(map[string]string, len(obj))
	for name, value := range obj {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s override %q must be a string", key, name)
		}
		out[name] = s
	}
	return out, nil
}

// Helper functions
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
