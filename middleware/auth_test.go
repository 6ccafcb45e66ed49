package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanhaven/constants"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, userID uint, role int) string {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"userinfo": map[string]interface{}{
			"userid": userID,
			"role":   role,
		},
	})
	require.NoError(t, err)

	header := jwt.EncodeSegment([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + jwt.EncodeSegment(payload) + "." + jwt.EncodeSegment([]byte("sig"))
}

func newAuthTestRouter(roles ...int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(roles...), func(c *gin.Context) {
		userID, userRole, ok := ActorFromContext(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no actor")
			return
		}
		c.String(http.StatusOK, fmt.Sprintf("%d:%d", userID, userRole))
	})
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareResolvesActor(t *testing.T) {
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 7, constants.RoleRenter))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7:0", w.Body.String())
}

func TestAuthMiddlewareRoleGate(t *testing.T) {
	router := newAuthTestRouter(constants.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 7, constants.RoleRenter))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 9, constants.RoleAdmin))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9:2", w.Body.String())
}
