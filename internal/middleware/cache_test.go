package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-class-booking/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("Vary", "Accept")
	body := []byte(`[{"id":1,"name":"Yoga"}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	// Header length pointing past the end of the buffer.
	bad, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	bad[7] = 0xFF
	_, _, _, ok = decodePayload(bad)
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	ctxFor := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/classes")
		return c
	}

	utcKey := cacheKeyFrom(cfg, ctxFor("/classes?tz=UTC"))
	istKey := cacheKeyFrom(cfg, ctxFor("/classes?tz=Asia%2FKolkata"))
	assert.NotEqual(t, utcKey, istKey)
	assert.Equal(t, utcKey, cacheKeyFrom(cfg, ctxFor("/classes?tz=UTC")))

	// route strategy collapses the query away.
	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKeyFrom(cfg, ctxFor("/classes?tz=UTC")),
		cacheKeyFrom(cfg, ctxFor("/classes?tz=Asia%2FKolkata")))
}

func TestRedisCacheDisabledIsNoOp(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/classes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "fresh")
	})
	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCaptureWriterHonorsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcdef"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("ghij"))
	require.NoError(t, err)

	// The client sees the full body; the capture buffer is truncated.
	assert.Equal(t, "abcdefghij", rec.Body.String())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(10), cw.size)
}
