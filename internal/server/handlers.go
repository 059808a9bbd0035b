package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hueforge/themed/internal/fetch"
	"github.com/hueforge/themed/internal/infrastructure/monitoring"
	"github.com/hueforge/themed/internal/shared/types"
)

// root returns basic service info
func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "themed",
		"version": "1.0.0",
		"status":  "running",
	})
}

// health returns service health status
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "themed",
	})
}

// parseTheme parses a CSS stylesheet into a theme document
func (s *Server) parseTheme(c *gin.Context) {
	var req struct {
		CSS  string `json:"css" binding:"required"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.execute(c, "theme.parse", map[string]interface{}{
		"css":  req.CSS,
		"name": req.Name,
	})
	s.respond(c, result, err)
}

// validateTheme validates a theme document against the schema
func (s *Server) validateTheme(c *gin.Context) {
	doc, ok := s.rawDocument(c)
	if !ok {
		return
	}

	result, err := s.execute(c, "theme.validate", map[string]interface{}{"document": doc})
	s.respond(c, result, err)
}

// createTheme builds a theme document from defaults plus overrides
func (s *Server) createTheme(c *gin.Context) {
	var params map[string]interface{}
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.execute(c, "theme.create", params)
	s.respond(c, result, err)
}

// convertCSS serializes a theme document to a CSS stylesheet
func (s *Server) convertCSS(c *gin.Context) {
	doc, ok := s.rawDocument(c)
	if !ok {
		return
	}

	result, err := s.execute(c, "theme.css", map[string]interface{}{"document": doc})
	s.respond(c, result, err)
}

// convertRegistry serializes a theme document to a registry item
func (s *Server) convertRegistry(c *gin.Context) {
	doc, ok := s.rawDocument(c)
	if !ok {
		return
	}

	result, err := s.execute(c, "theme.registry", map[string]interface{}{"document": doc})
	s.respond(c, result, err)
}

// convertJSON serializes a theme document to canonical JSON
func (s *Server) convertJSON(c *gin.Context) {
	doc, ok := s.rawDocument(c)
	if !ok {
		return
	}

	result, err := s.execute(c, "theme.json", map[string]interface{}{
		"document": doc,
		"pretty":   c.Query("pretty") == "true",
	})
	s.respond(c, result, err)
}

// listThemes lists stored themes
func (s *Server) listThemes(c *gin.Context) {
	result, err := s.execute(c, "theme.list", nil)
	s.respond(c, result, err)
}

// getTheme returns a stored theme by ID
func (s *Server) getTheme(c *gin.Context) {
	result, err := s.execute(c, "theme.get", map[string]interface{}{"id": c.Param("id")})
	if err == nil && result != nil && !result.Success {
		c.JSON(http.StatusNotFound, gin.H{"error": resultError(result)})
		return
	}
	s.respond(c, result, err)
}

// saveTheme stores a theme document
func (s *Server) saveTheme(c *gin.Context) {
	doc, ok := s.rawDocument(c)
	if !ok {
		return
	}

	result, err := s.execute(c, "theme.save", map[string]interface{}{"document": doc})
	s.respond(c, result, err)
}

// deleteTheme removes a stored theme by ID
func (s *Server) deleteTheme(c *gin.Context) {
	result, err := s.execute(c, "theme.delete", map[string]interface{}{"id": c.Param("id")})
	s.respond(c, result, err)
}

// fetchTheme retrieves a theme document from the remote registry
func (s *Server) fetchTheme(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter required"})
		return
	}

	doc, err := s.fetcher.ByIdentifier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("theme fetch failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// loadAsset fetches a remote asset through the cache
func (s *Server) loadAsset(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter required"})
		return
	}

	asset, err := s.assets.Load(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, asset.ContentType, asset.Data)
}

// listServices lists registered service definitions
func (s *Server) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": s.registry.List(nil)})
}

// serviceStats returns registry statistics
func (s *Server) serviceStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.Stats())
}

// execute runs a tool through the service registry with request context.
func (s *Server) execute(c *gin.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	appCtx := &types.Context{}
	if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
		appCtx.RequestID = &reqID
	}

	serviceID := toolID
	if idx := strings.Index(toolID, "."); idx > 0 {
		serviceID = toolID[:idx]
	}
	timer := monitoring.NewTimer(s.metrics, serviceID, toolID)

	result, err := s.registry.Execute(c.Request.Context(), toolID, params, appCtx)
	switch {
	case err != nil:
		timer.Stop("error")
	case !result.Success:
		timer.Stop("failure")
	default:
		timer.Stop("success")
	}
	return result, err
}

// rawDocument reads the request body as a raw JSON document.
func (s *Server) rawDocument(c *gin.Context) (string, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return "", false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body required"})
		return "", false
	}
	return string(body), true
}

// respond writes a service result as an HTTP response.
func (s *Server) respond(c *gin.Context, result *types.Result, err error) {
	if err != nil {
		s.log.Error("service execution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": resultError(result)})
		return
	}
	c.JSON(http.StatusOK, result.Data)
}

func resultError(result *types.Result) string {
	if result.Error != nil {
		return *result.Error
	}
	return "unknown error"
}
