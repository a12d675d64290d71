package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// TestCSRFMiddleware_SafeMethod_SetsCookie はGETリクエストでCSRFトークンCookieが
// 設定され、検証なしで通過することを検証する。
func TestCSRFMiddleware_SafeMethod_SetsCookie(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})

	nextCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/add", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !nextCalled {
		t.Error("GETリクエストが通過しませんでした")
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == csrfCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("CSRFトークンCookieが設定されませんでした")
	}
}

// TestCSRFMiddleware_Post_MissingToken_Forbidden はトークンなしのPOSTが403になることを検証する。
func TestCSRFMiddleware_Post_MissingToken_Forbidden(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("トークンなしのPOSTが通過しました")
	}))

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

// TestCSRFMiddleware_Post_TokenMismatch_Forbidden はCookieとフォームのトークン不一致が
// 403になることを検証する。
func TestCSRFMiddleware_Post_TokenMismatch_Forbidden(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("トークン不一致のPOSTが通過しました")
	}))

	form := url.Values{CSRFFieldName: {"form-token"}}
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

// TestCSRFMiddleware_Post_ValidToken_Passes はCookieとフォームのトークンが一致する
// POSTが通過することを検証する。
func TestCSRFMiddleware_Post_ValidToken_Passes(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})

	nextCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	const token = "0123456789abcdef"
	form := url.Values{CSRFFieldName: {token}}
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !nextCalled {
		t.Error("正しいトークンのPOSTが通過しませんでした")
	}
}

// TestCSRFTokenFromRequest はCookieからのトークン読み取りを検証する。
func TestCSRFTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := CSRFTokenFromRequest(req); got != "" {
		t.Errorf("Cookieなしでトークンが返りました: %q", got)
	}

	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	if got := CSRFTokenFromRequest(req); got != "tok" {
		t.Errorf("token = %q, want %q", got, "tok")
	}
}
