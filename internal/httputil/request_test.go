package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTruthy(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "ON": true, " yes ": true,
		"": false, "0": false, "false": false, "off": false, "nope": false,
	} {
		if got := Truthy(value); got != want {
			t.Errorf("Truthy(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc&id=9007199254740993", nil)

	if v, err := QueryInt(r, "page"); err != nil || v != 3 {
		t.Errorf("QueryInt(page) = %d, %v", v, err)
	}
	if v, err := QueryInt(r, "missing"); err != nil || v != 0 {
		t.Errorf("QueryInt(missing) = %d, %v", v, err)
	}
	if _, err := QueryInt(r, "limit"); err == nil {
		t.Error("QueryInt(limit) should reject non-numbers")
	}
	if v, err := QueryInt64(r, "id"); err != nil || v != 9007199254740993 {
		t.Errorf("QueryInt64(id) = %d, %v", v, err)
	}
}

func TestParseFormAcceptsDeleteBodies(t *testing.T) {
	body := strings.NewReader("ids%5B%5D=1&ids%5B%5D=2")
	r := httptest.NewRequest(http.MethodDelete, "/delete", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	if err := ParseForm(w, r); err != nil {
		t.Fatal(err)
	}
	if got := r.Form["ids[]"]; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("ids[] = %v", got)
	}
}

func TestRespondStatus(t *testing.T) {
	w := httptest.NewRecorder()
	RespondStatus(w, http.StatusUnauthorized, "error")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"error"}` {
		t.Errorf("body = %s", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
