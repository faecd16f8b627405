package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var seen string
	handler := RequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dotareview.v1.ReviewTracker/GetStatus", nil)
		req.Header.Set(WindowHeader, "review")

		handler.ServeHTTP(rec, req)

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Contains(t, buf.String(), `"window":"review"`)
		assert.Contains(t, buf.String(), `"status":418`)
		assert.Contains(t, buf.String(), `"message":"inside"`)
	})

	t.Run("caller id is kept", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws?window=record", nil)
		req.Header.Set("X-Request-ID", "abc")

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	})
}
