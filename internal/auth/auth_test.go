package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret"), Issuer: "mangaparsers-test", Duration: time.Hour}
}

func TestSignParse(t *testing.T) {
	ts := testTokens()
	tok, exp, err := ts.Sign("cli", RoleAdmin)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("exp = %v", exp)
	}

	claims, err := ts.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "cli" || claims.Role != RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	other := ts
	other.Secret = []byte("other")
	if _, err := other.Parse(tok); err == nil {
		t.Error("token verified with the wrong secret")
	}
	other = ts
	other.Issuer = "someone-else"
	if _, err := other.Parse(tok); err == nil {
		t.Error("token accepted for a different issuer")
	}

	expired := ts
	expired.Duration = -time.Minute
	old, _, _ := expired.Sign("cli", RoleAdmin)
	if _, err := ts.Parse(old); err == nil {
		t.Error("expired token accepted")
	}
}

func newRouter(ts TokenService, hash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(ts, hash).RegisterRoutes(r.Group("/auth"))
	r.GET("/admin", AuthMiddleware(ts, RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": MustGetClaims(c).Subject})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	ts := testTokens()
	r := newRouter(ts, "")
	admin, _, _ := ts.Sign("cli", RoleAdmin)
	reader, _, _ := ts.Sign("cli", "reader")

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer garbage", http.StatusUnauthorized},
		{"Bearer " + reader, http.StatusForbidden},
		{"Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%q: status %d, want %d", tt.header, w.Code, tt.want)
		}
	}
}

func TestPasswordLogin(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	ts := testTokens()
	r := newRouter(ts, hash)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body)))
		return w
	}

	if w := post(`{"password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d", w.Code)
	}
	if w := post(`{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status %d", w.Code)
	}

	w := post(`{"password":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", w.Code, w.Body)
	}
	var body struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if claims, err := ts.Parse(body.Token); err != nil || claims.Role != RoleAdmin {
		t.Fatalf("issued token: %+v, %v", claims, err)
	}
}

func TestPasswordLoginDisabled(t *testing.T) {
	r := newRouter(testTokens(), "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"password":"x"}`)))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
}

func TestHashPasswordLength(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("short password accepted")
	}
}
