package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &types.TokenClaims{UserID: 7, Username: "cook"}, nil
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	router.GET("/whoami", mw, func(c *gin.Context) {
		id, ok := c.Get(UserIDKey)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "username": c.GetString(UsernameKey)})
	})
	return router
}

func serve(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(AuthMiddleware(stubValidator{}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"bearer token", "Bearer good", http.StatusOK},
		{"token scheme", "Token good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"username":"cook"}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	router := newTestRouter(OptionalAuth(stubValidator{}))

	w := serve(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = serve(router, "Token good")
	assert.JSONEq(t, `{"id":7,"username":"cook"}`, w.Body.String())

	w = serve(router, "Token bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsCountsRoute(t *testing.T) {
	router := newTestRouter(OptionalAuth(stubValidator{}))
	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/whoami", "200"))

	serve(router, "")

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/whoami", "200"))
	assert.Equal(t, before+1, after)
}
