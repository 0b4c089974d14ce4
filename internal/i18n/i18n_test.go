package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{name: "default", url: "/", want: LocaleZhCN},
		{name: "query", url: "/?locale=en-US", want: LocaleEnUS},
		{name: "accept language", url: "/", header: map[string]string{"Accept-Language": "en-GB,en;q=0.9"}, want: LocaleEnUS},
		{name: "x-locale wins over accept", url: "/", header: map[string]string{"X-Locale": "zh-CN", "Accept-Language": "en"}, want: LocaleZhCN},
		{name: "unsupported", url: "/", header: map[string]string{"Accept-Language": "xx-invalid-@@"}, want: LocaleZhCN},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
		for k, v := range tc.header {
			c.Request.Header.Set(k, v)
		}
		if got := ResolveLocale(c); got != tc.want {
			t.Fatalf("%s: want %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleEnUS, "error.draft_not_found"); got != "Draft not found" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := T("fr-FR", "error.draft_not_found"); got != messages[DefaultLocale]["error.draft_not_found"] {
		t.Fatalf("unknown locale should fall back to default, got %q", got)
	}
	if got := T(LocaleEnUS, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo key, got %q", got)
	}
	if got := Sprintf(LocaleEnUS, "error.rate_limited", 3); got != "Too many requests, retry in 3 seconds" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}
