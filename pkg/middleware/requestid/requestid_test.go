package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = Value(c) })

	cases := map[string]bool{
		"abc-123":          true,
		"":                 false,
		"bad id\nINJECTED": false,
	}
	for incoming, kept := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set(Header, incoming)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, seen, rec.Header().Get(Header))
		if kept {
			assert.Equal(t, incoming, seen)
		} else {
			assert.NotEqual(t, incoming, seen)
			assert.Len(t, seen, 36)
		}
	}
}
