package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFields(t *testing.T) {
	ctx := WithFields(context.Background(), Field{"tenant_id", "t1"})
	child := WithFields(ctx, Field{"sale_id", "s1"})

	assert.Len(t, getObservabilityFields(ctx), 1)
	assert.Equal(t, []Field{{"tenant_id", "t1"}, {"sale_id", "s1"}}, getObservabilityFields(child))
}

func TestMergeFields_DeduplicatesByKey(t *testing.T) {
	ctx := WithFields(context.Background(), Field{"status", 200}, Field{"path", "/x"})

	merged := mergeFields(ctx, []MetricField{{"status", 500}})

	require.Len(t, merged, 2)
	for _, f := range merged {
		if f.Key == "status" {
			assert.Equal(t, int64(500), f.Integer)
		}
	}
}

func TestGetRealClientIP(t *testing.T) {
	tests := []struct {
		name       string
		viewerAddr string
		want       string
	}{
		{name: "ipv4 with port", viewerAddr: "203.0.113.9:443", want: "203.0.113.9"},
		{name: "ipv6 with port", viewerAddr: "2001:db8::1:443", want: "2001:db8::1"},
		{name: "no port", viewerAddr: "203.0.113.9", want: "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("CloudFront-Viewer-Address", tt.viewerAddr)

			assert.Equal(t, tt.want, GetRealClientIP(c))
		})
	}
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewNopLogger()))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
