package api

import (
	"errors"
	"fitnote/planner/internal/service"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. Besides a valid
// token it requires a persisted session for the same user, so signing out revokes
// every token handed out before.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	jwtSecret := authService.GetJWTSecret()
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		// Parse and validate the token
		claims := &service.SessionClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.UserID == "" || claims.Issuer != service.TokenIssuer {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		// The token's user must still be signed in
		session, err := authService.CurrentSession(c.Request.Context())
		if err != nil {
			if errors.Is(err, service.ErrNoSession) {
				abortWithError(c, http.StatusUnauthorized, "Signed out")
			} else {
				abortWithError(c, http.StatusInternalServerError, "Could not read session")
			}
			return
		}
		if session.UserID != claims.UserID {
			abortWithError(c, http.StatusUnauthorized, "Token does not match the signed-in user")
			return
		}

		// Set user information in context for downstream handlers
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}
