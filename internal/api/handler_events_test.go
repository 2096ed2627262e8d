package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupEventRouter() *gin.Engine {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, nil)
	r.POST("/api/events", handler.PostEvent)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	return r
}

func TestPostEventRejectsBadPayload(t *testing.T) {
	router := setupEventRouter()

	for _, body := range []string{
		"",
		`{"action":"entry"}`,
		`{"licensePlate":"29A-123.45"}`,
		`{"licensePlate":"29A-123.45","action":"loiter"}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}

func TestPutSubscriptionRejectsBadPayload(t *testing.T) {
	router := setupEventRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaRef(t *testing.T) {
	assert.Equal(t, "https://media.example/a.jpg", mediaRef("https://media.example/a.jpg", "abc"))
	assert.Equal(t, "inline:pending", mediaRef("", "abc"))
	assert.Equal(t, "", mediaRef("", ""))
}
