package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/richxcame/fx-gateway/pkg/common"
)

const (
	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey = "principal"
)

// Claims is the JWT payload issued at login and verified on every
// authenticated request.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the verified caller identity attached to the request context.
type Principal struct {
	SubjectID uuid.UUID
	Email     string
	Role      string
}

// AuthMiddleware verifies the bearer token on incoming requests.
//
// A missing or malformed Authorization header is a 401: the caller never
// presented credentials. A token that fails verification (bad signature,
// expired, garbled) is a 403: credentials were presented and rejected.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Authorization header missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			common.ErrorResponse(c, http.StatusForbidden, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, Principal{
			SubjectID: claims.UserID,
			Email:     claims.Email,
			Role:      claims.Role,
		})

		c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from gin context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}
