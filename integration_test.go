package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHealthRouter wires the public endpoints the way setupRouter does,
// without the auth middleware that needs a live Auth0 tenant.
func setupHealthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck)

	return router
}

func TestHealthEndpointRouting(t *testing.T) {
	router := setupHealthRouter()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"get with version prefix", http.MethodGet, "/api/v1/health", http.StatusOK},
		{"missing version prefix", http.MethodGet, "/health", http.StatusNotFound},
		{"post not routed", http.MethodPost, "/api/v1/health", http.StatusNotFound},
		{"put not routed", http.MethodPut, "/api/v1/health", http.StatusNotFound},
		{"delete not routed", http.MethodDelete, "/api/v1/health", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.path, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHealthEndpointIntegration(t *testing.T) {
	router := setupHealthRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "FieldServe API is running", response["message"])
}
