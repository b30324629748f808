package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouterWithRole(role string, present bool, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if present {
			c.Set("role", role)
		}
		c.Next()
	})
	r.GET("/probe", RequireRoles(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		present    bool
		allowed    []string
		wantStatus int
	}{
		{"allowed role", "supervisor", true, []string{"supervisor", "admin"}, http.StatusOK},
		{"disallowed role", "teknisi", true, []string{"supervisor", "admin"}, http.StatusForbidden},
		{"unknown role fails closed", "manager", true, []string{"supervisor", "admin"}, http.StatusForbidden},
		{"missing role", "", false, []string{"supervisor"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouterWithRole(tt.role, tt.present, tt.allowed...)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
