package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, subject string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestRequireToken(t *testing.T) {
	secret := []byte("s3cret")
	var gotSubject string
	h := RequireToken(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromContext(r.Context())
	}))

	valid := signToken(t, secret, "player-1", time.Now().Add(time.Hour))
	expired := signToken(t, secret, "player-1", time.Now().Add(-time.Hour))
	forged := signToken(t, []byte("other"), "player-1", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"bearer header", "Bearer " + valid, "", http.StatusOK},
		{"query param", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
		{"wrong secret", "", forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			target := "/ws"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && gotSubject != "player-1" {
				t.Errorf("subject = %q, want player-1", gotSubject)
			}
		})
	}
}

func TestRequireToken_NoSecretPassesThrough(t *testing.T) {
	called := false
	h := RequireToken(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws", nil))
	if !called {
		t.Error("handler not called without secret")
	}
}
