package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func requestLogEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1, "expected exactly one request log entry")
	return entries[0]
}

func logFields(entry observer.LoggedEntry) map[string]zapcore.Field {
	fields := make(map[string]zapcore.Field, len(entry.Context))
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.InfoLevel)
	router.POST("/orders", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": 1})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("User-Agent", "Test-Agent/1.0")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	entry := requestLogEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := logFields(entry)
	for _, key := range []string{"method", "path", "status", "latency", "client_ip", "user_agent", "body_size"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, int64(http.StatusCreated), fields["status"].Integer)
}

func TestGinMiddleware_StatusDrivesLevel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs warn", http.StatusBadRequest, zapcore.WarnLevel},
		{"5xx logs error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, recorded := newObservedRouter(zapcore.InfoLevel)
			router.GET("/status", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

			assert.Equal(t, tt.level, requestLogEntry(t, recorded).Level)
		})
	}
}

func TestGinMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	fields := logFields(requestLogEntry(t, recorded))
	require.Contains(t, fields, "request_id")
	assert.Equal(t, "req-abc-123", fields["request_id"].String)
}

func TestGinMiddleware_IncludesQueryString(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.InfoLevel)
	router.GET("/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=widgets&page=2", nil))

	fields := logFields(requestLogEntry(t, recorded))
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "q=widgets")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	fields := logFields(entries[0])
	assert.Equal(t, "/boom", fields["path"].String)
}

func TestGetGinLogger(t *testing.T) {
	router, _ := newObservedRouter(zapcore.InfoLevel)

	var inHandler *zap.Logger
	router.GET("/ping", func(c *gin.Context) {
		inHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotNil(t, inHandler)
}

func TestGetGinLogger_MissingFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var inHandler *zap.Logger
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		inHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotNil(t, inHandler)
	assert.NotPanics(t, func() { inHandler.Info("noop") })
}
