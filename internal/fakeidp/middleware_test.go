package fakeidp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}

	h := chain(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, tag("first"), tag("second"))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecoverMiddleware(t *testing.T) {
	h := chain(func(http.ResponseWriter, *http.Request) { panic("boom") }, loggingMiddleware, recoverMiddleware)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, RouteToken, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "server_error")
}

func TestRequireAuth_RejectsMissingBearer(t *testing.T) {
	s := New()
	defer s.Close()

	resp, err := http.Get(s.EchoClaimsURL())
	if assert.NoError(t, err) {
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
