package middleware

import (
	"context"
	"net/http"
	"strings"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenValidator is the part of service.AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.AccessClaims, error)
}

// UserLoader loads the account a token refers to.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware authenticates the request when it carries a bearer token and
// stores the caller's principal in the context. Requests without an
// Authorization header continue as anonymous; a bad token is rejected.
func AuthMiddleware(tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// the account may have been deleted since the token was minted
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		SetPrincipal(c, permission.NewPrincipal(user))
		c.Next()
	}
}

// SetPrincipal attaches the authenticated caller to the request.
func SetPrincipal(c *gin.Context, p *permission.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated caller, or nil for anonymous
// requests.
func PrincipalFrom(c *gin.Context) *permission.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*permission.Principal)
	return p
}

// Require gates a route group with a collection-level predicate. A denied
// anonymous caller gets 401, a denied authenticated caller 403.
func Require(p permission.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := permission.Request{Method: c.Request.Method, Principal: PrincipalFrom(c)}
		if p(req) {
			c.Next()
			return
		}
		if !req.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthenticated.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	}
}
