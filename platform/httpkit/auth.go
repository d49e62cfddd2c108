package httpkit

import (
	"errors"
	"net/http"
	"strings"

	"raf_pnp_backend/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Gin context keys written by AuthRequired and read by CallerFrom.
const (
	ContextUserIDKey   = "userID"
	ContextUserNameKey = "userName"
)

var errInvalidToken = errors.New("invalid token")

// accessClaims is the access token issued by the firm's identity provider.
// Tokens are only verified here; issuing them is outside this service.
type accessClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Type string `json:"type"`
}

// AuthRequired verifies an HS256 access token from the Authorization header.
// EventSource cannot set headers, so the SSE stream may pass ?token= instead.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("token"))
		}
		if raw == "" {
			unauthorized(c, "missing token")
			return
		}

		claims, userID, err := verifyAccessToken(raw, cfg.GetJWTAccessSecret())
		if err != nil {
			unauthorized(c, errInvalidToken.Error())
			return
		}

		c.Set(ContextUserIDKey, userID)
		if claims.Name != "" {
			c.Set(ContextUserNameKey, claims.Name)
		}
		c.Next()
	}
}

func verifyAccessToken(raw, secret string) (*accessClaims, uuid.UUID, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, uuid.Nil, errInvalidToken
	}
	if claims.Type != "" && claims.Type != "access" {
		return nil, uuid.Nil, errInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, errInvalidToken
	}
	return claims, userID, nil
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}
