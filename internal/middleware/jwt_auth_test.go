package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bockster6669/blog-app/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "jwt@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runThrough(secret, authHeader string) (*models.JwtCustomClaims, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var claims *models.JwtCustomClaims
	handler := JWTAuthMiddleware(secret)(func(c echo.Context) error {
		claims = UserClaims(c)
		return nil
	})
	return claims, handler(c)
}

func TestJWTAuthMiddleware_ConfiguredSecret(t *testing.T) {
	token := signToken(t, "configured-secret", 7)

	claims, err := runThrough("configured-secret", "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestJWTAuthMiddleware_WrongSecretRejected(t *testing.T) {
	token := signToken(t, "some-other-secret", 7)

	_, err := runThrough("configured-secret", "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	for name, header := range map[string]string{
		"missing header": "",
		"no bearer":      "Token abc",
		"bare token":     signToken(t, "configured-secret", 7),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := runThrough("configured-secret", header)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}
