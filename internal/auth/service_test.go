package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/richxcame/fx-gateway/pkg/config"
	"github.com/richxcame/fx-gateway/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: 1}
}

// ---------------------------------------------------------------------------
// Service.Login
// ---------------------------------------------------------------------------

func TestLogin_ValidCredentials(t *testing.T) {
	service := NewService(testJWTConfig())

	token, err := service.Login("admin", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, claims.UserID.String(), claims.Subject)
}

func TestLogin_UserRole(t *testing.T) {
	service := NewService(testJWTConfig())

	token, err := service.Login("user", "user123")
	require.NoError(t, err)

	claims := &middleware.Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	service := NewService(testJWTConfig())

	_, err := service.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	service := NewService(testJWTConfig())

	_, err := service.Login("nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenExpiry(t *testing.T) {
	service := NewService(testJWTConfig())
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	token, err := service.Login("admin", "admin123")
	require.NoError(t, err)

	claims := &middleware.Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, _, err = parser.ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
}

// ---------------------------------------------------------------------------
// POST /auth/login
// ---------------------------------------------------------------------------

func setupRouter() *gin.Engine {
	handler := NewHandler(NewService(testJWTConfig()))
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandler_OK(t *testing.T) {
	router := setupRouter()

	w := postLogin(router, `{"username":"admin","password":"admin123"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	router := setupRouter()

	tests := []string{
		`{"username":"admin","password":"nope"}`,
		`{"username":"ghost","password":"admin123"}`,
	}
	for _, body := range tests {
		w := postLogin(router, body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid credentials", resp["message"])
	}
}

func TestLoginHandler_MissingFields(t *testing.T) {
	router := setupRouter()

	w := postLogin(router, `{"username":"admin"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request", resp["message"])
	assert.NotNil(t, resp["details"])
}

func TestLoginHandler_MalformedJSON(t *testing.T) {
	router := setupRouter()

	w := postLogin(router, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
