package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nivesh_pathshala/config"
)

func setTestSecret(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{SessionSecret: "unit-test-secret"}
	t.Cleanup(func() { config.AppConfig = prev })
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		phone, _ := GetPhoneFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "phone": phone})
	})
	router.GET("/protected", chain...)
	return router
}

func TestIssueAndValidateSessionToken(t *testing.T) {
	setTestSecret(t)

	token, err := IssueSessionToken(42, "9876543210", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := validateSessionToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Equal(t, "user", claims.Role)
}

func TestIssueSessionTokenWithoutSecret(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{}
	t.Cleanup(func() { config.AppConfig = prev })

	_, err := IssueSessionToken(1, "9876543210", "user")
	assert.Error(t, err)
}

func TestJWTAuthMiddleware(t *testing.T) {
	setTestSecret(t)
	router := protectedRouter(JWTAuthMiddleware())

	token, err := IssueSessionToken(7, "9876543210", "user")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestJWTAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	setTestSecret(t)
	token, err := IssueSessionToken(7, "9876543210", "user")
	require.NoError(t, err)

	// Token signed with a different secret must fail validation.
	config.AppConfig.SessionSecret = "rotated-secret"
	_, err = validateSessionToken(token)
	assert.Error(t, err)
}

func TestAdminRoleMiddleware(t *testing.T) {
	setTestSecret(t)
	router := protectedRouter(JWTAuthMiddleware(), AdminRoleMiddleware())

	adminToken, err := IssueSessionToken(1, "9876543210", "admin")
	require.NoError(t, err)
	userToken, err := IssueSessionToken(2, "9876543211", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	setTestSecret(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/open", OptionalJWTAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": c.GetBool("authenticated")})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	token, err := IssueSessionToken(3, "9876543210", "user")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
}
