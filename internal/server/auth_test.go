package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohammad-safakhou/ragbridge/config"
)

func authHandlerForTest(t *testing.T, password string) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &AuthHandler{
		Cfg: config.ServerConfig{
			AdminEmail:        "admin@example.com",
			AdminPasswordHash: string(hash),
			SessionTTL:        time.Hour,
		},
		Secret: []byte("session-secret"),
	}
}

func postLogin(t *testing.T, h *AuthHandler, email, password string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	body, _ := json.Marshal(AuthLoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	return rec, h.login(ctx)
}

func TestLoginIssuesSession(t *testing.T) {
	h := authHandlerForTest(t, "hunter2-hunter2")
	rec, err := postLogin(t, h, "admin@example.com", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) { return []byte("session-secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("session token did not verify: %v", err)
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == "auth" && ck.Value == resp.Token {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected auth cookie with session token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := authHandlerForTest(t, "hunter2-hunter2")
	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"other@example.com", "hunter2-hunter2"},
	} {
		_, err := postLogin(t, h, tc.email, tc.password)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %v", tc.email, err)
		}
	}
}

func TestLoginWithoutConfiguredAdmin(t *testing.T) {
	h := &AuthHandler{Cfg: config.ServerConfig{}, Secret: []byte("s")}
	_, err := postLogin(t, h, "admin@example.com", "pw")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := authHandlerForTest(t, "pw")
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	if err := h.logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "auth" && ck.MaxAge < 0 {
			return
		}
	}
	t.Fatalf("expected expired auth cookie")
}
