package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", LocaleEnUS},
		{"zh-CN,zh;q=0.9", LocaleZhCN},
		{"zh", LocaleZhCN},
		{"en-GB,en;q=0.8", LocaleEnUS},
		{"fr-FR", LocaleEnUS},
		{"not a language ;;; q=abc", LocaleEnUS},
	}
	for _, tc := range cases {
		if got := Match(tc.raw); got != tc.want {
			t.Fatalf("Match(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleZhCN, "error.unauthorized"); got == "error.unauthorized" {
		t.Fatalf("expected zh-CN translation")
	}
	if got := T("xx-XX", "error.unauthorized"); got != T(LocaleEnUS, "error.unauthorized") {
		t.Fatalf("unknown locale should fall back to default: %s", got)
	}
	if got := T(LocaleEnUS, "error.no_such_key"); got != "error.no_such_key" {
		t.Fatalf("missing key should return the key, got %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[LocaleEnUS] {
		if _, ok := catalog[LocaleZhCN][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
	for key := range catalog[LocaleZhCN] {
		if _, ok := catalog[LocaleEnUS][key]; !ok {
			t.Fatalf("en-US missing key %s", key)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/articles?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "en-US")

	if got := ResolveLocale(c); got != LocaleZhCN {
		t.Fatalf("expected zh-CN, got %s", got)
	}
}
