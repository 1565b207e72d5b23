package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsGet(t *testing.T, origins, requestOrigin string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	if requestOrigin != "" {
		r.Header.Set("Origin", requestOrigin)
	}
	w := httptest.NewRecorder()
	CORS(origins)(next).ServeHTTP(w, r)
	return w
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	w := corsGet(t, "*", "https://anywhere.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_AllowListEchoesMatchingOrigin(t *testing.T) {
	origins := "https://shop.example, https://admin.example"

	w := corsGet(t, origins, "https://admin.example")
	assert.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")

	w = corsGet(t, origins, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code, "request still reaches the handler")
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	})
	r := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	r.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	CORS("https://shop.example")(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
}
