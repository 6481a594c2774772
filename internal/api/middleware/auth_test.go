package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eklundh/tidflow/internal/api/middleware"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *model.AuthClaims) string {
	t.Helper()
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return ss
}

func authRouter(gotUser, gotRole *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuth())
	r.GET("/ping", func(c *gin.Context) {
		*gotUser = c.GetString("userID")
		*gotRole = c.GetString("role")
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	viper.Set("jwt.secret", testSecret)

	var gotUser, gotRole string
	r := authRouter(&gotUser, &gotRole)

	token := signToken(t, testSecret, &model.AuthClaims{
		UserID: "user-1",
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if gotUser != "user-1" || gotRole != model.RoleAdmin {
		t.Errorf("claims in context = (%q, %q), want (user-1, admin)", gotUser, gotRole)
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	viper.Set("jwt.secret", testSecret)

	expired := signToken(t, testSecret, &model.AuthClaims{
		UserID: "user-1",
		Role:   model.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	noSubject := signToken(t, testSecret, &model.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"missing user id", "Bearer " + noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotRole string
			r := authRouter(&gotUser, &gotRole)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if gotUser != "" {
				t.Errorf("handler ran with userID %q", gotUser)
			}
		})
	}
}
