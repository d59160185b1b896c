// Package auth resolves the caller of each request to an owner id.
package auth

import (
	"crypto/rsa"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is where the middleware stores the owner id.
const ContextKey = "user_id"

// Verifier checks RS256 bearer tokens issued by the identity provider.
type Verifier struct {
	Key *rsa.PublicKey
	// AuthorizedParty, when set, must equal the token's azp claim.
	AuthorizedParty string
}

func NewVerifier(publicKeyPEM, authorizedParty string) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse jwt public key: %w", err)
	}
	return &Verifier{Key: key, AuthorizedParty: authorizedParty}, nil
}

// Verify returns the subject of a valid token.
func (v *Verifier) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.Key, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	if v.AuthorizedParty != "" {
		if azp, _ := claims["azp"].(string); azp != v.AuthorizedParty {
			return "", fmt.Errorf("unexpected authorized party %q", azp)
		}
	}
	return sub, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// token subject under ContextKey.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		sub, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Printf("[Auth] ⚠️ rejected token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextKey, sub)
		c.Next()
	}
}

// OwnerID returns the owner id set by the middleware.
func OwnerID(c *gin.Context) (string, bool) {
	owner := c.GetString(ContextKey)
	return owner, owner != ""
}
