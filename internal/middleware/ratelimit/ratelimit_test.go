package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func doRequest(t *testing.T, l *Limiter, ip string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := l.Middleware(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		return he.Code
	}
	return rec.Code
}

func TestLimiterBlocksAfterBurst(t *testing.T) {
	l := New(rate.Every(24*time.Hour), 2)

	require.Equal(t, http.StatusOK, doRequest(t, l, "10.0.0.1"))
	require.Equal(t, http.StatusOK, doRequest(t, l, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, l, "10.0.0.1"))

	// Another IP has its own bucket.
	require.Equal(t, http.StatusOK, doRequest(t, l, "10.0.0.2"))
}
