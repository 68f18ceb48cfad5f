package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flea-market/internal/config"
)

func TestCacheResponseServesSecondRequestFromRedis(t *testing.T) {
	rdb := newTestRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}

	e := echo.New()
	calls := 0
	h := CacheResponse(cfg, rdb)(func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"n": calls})
	})

	do := func() (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/items")
		return rec, h(c)
	}

	rec1, err := do()
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	rec2, err := do()
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	if calls != 1 {
		t.Errorf("handler invoked %d times, want 1", calls)
	}
	if rec2.Header().Get("X-Cache") != "HIT" {
		t.Error("second response missing X-Cache: HIT")
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Errorf("cached body %q differs from original %q", rec2.Body.String(), rec1.Body.String())
	}
}

func TestCacheResponseSkipsNonGet(t *testing.T) {
	rdb := newTestRedis(t)
	cfg := config.LoadCacheConfig()

	e := echo.New()
	calls := 0
	h := CacheResponse(cfg, rdb)(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if calls != 2 {
		t.Errorf("handler invoked %d times, want 2 (POST must not be cached)", calls)
	}
}
