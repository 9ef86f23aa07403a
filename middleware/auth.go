package middleware

import (
	"net/http"
	"strings"

	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func extractJwtClaims(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		utils.SendError(c, http.StatusUnauthorized, "Authorization header missing")
		c.Abort()
		return nil, false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		utils.SendError(c, http.StatusUnauthorized, "Invalid authorization format, expected: Bearer <token>")
		c.Abort()
		return nil, false
	}

	tokenString := strings.Trim(parts[1], "\"' ")

	claims, err := utils.DecodeJWT(tokenString)
	if err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid or expired token: "+err.Error())
		c.Abort()
		return nil, false
	}

	return claims, true
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("role", claims["role"])

		role, exists := claims["role"]
		if !exists {
			utils.SendError(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		if !HasRole(role, models.AdminRole) {
			utils.SendError(c, http.StatusForbidden, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// HasRole is the single role comparison point; business code never compares
// role strings inline.
func HasRole(claim interface{}, role models.Role) bool {
	s, ok := claim.(string)
	if !ok {
		return false
	}
	return models.Role(s) == role
}

// IsAdmin reports whether the authenticated request carries the admin role.
func IsAdmin(c *gin.Context) bool {
	role, exists := c.Get("role")
	if !exists {
		return false
	}
	return HasRole(role, models.AdminRole)
}

// RequesterID returns the authenticated user id, or "" when unauthenticated.
func RequesterID(c *gin.Context) string {
	id, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	s, _ := id.(string)
	return s
}
