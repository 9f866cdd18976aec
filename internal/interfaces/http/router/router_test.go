package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	customsGroup := NewDomainGroup("customs", "/customs")
	customsGroup.GET("/declarations", okHandler)
	customsGroup.POST("/declarations", okHandler)

	r.Register(customsGroup)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customs/declarations", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/customs/declarations", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSetup_UnknownRouteIs404(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(NewDomainGroup("customs", "/customs").GET("/declarations", okHandler))
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customs/receptions", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	trade := NewDomainGroup("trade", "/trade")
	trade.GET("/purchase-orders", okHandler).
		POST("/purchase-orders", okHandler).
		PUT("/purchase-orders/:id/declared-value", okHandler).
		DELETE("/purchase-orders/:id/declarations/:declarationId", okHandler)

	r.Register(trade)
	r.Setup()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/trade/purchase-orders"},
		{http.MethodPost, "/api/v1/trade/purchase-orders"},
		{http.MethodPut, "/api/v1/trade/purchase-orders/42/declared-value"},
		{http.MethodDelete, "/api/v1/trade/purchase-orders/42/declarations/7"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	customsGroup := NewDomainGroup("customs", "/customs")
	tracking := customsGroup.Group("tracking", "/declarations/:id")
	tracking.GET("/tracking", okHandler)

	r.Register(customsGroup)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customs/declarations/42/tracking", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	r.Use(func(c *gin.Context) {
		order = append(order, "api-middleware")
		c.Next()
	})
	r.Register(NewDomainGroup("customs", "/customs").GET("/declarations", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	}))
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customs/declarations", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api-middleware", "handler"}, order)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	mw := func(c *gin.Context) {
		order = append(order, "middleware")
		c.Next()
	}
	handler := func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	}

	group := NewDomainGroup("customs", "/customs")
	group.Use(mw)
	group.GET("/declarations", handler)

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customs/declarations", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "handler"}, order)
}

func TestDomainGroupAccessors(t *testing.T) {
	group := NewDomainGroup("customs", "/customs")

	assert.Equal(t, "customs", group.Name())
	assert.Equal(t, "/customs", group.Prefix())
}

func TestMultipleRegistrars(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(NewDomainGroup("customs", "/customs").GET("/declarations", okHandler)).
		Register(NewDomainGroup("trade", "/trade").GET("/purchase-orders", okHandler))
	r.Setup()

	for _, path := range []string{"/api/v1/customs/declarations", "/api/v1/trade/purchase-orders"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
