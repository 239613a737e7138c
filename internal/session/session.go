// Package session assigns every visitor a stable distinct id, carried in
// a signed cookie. The id feeds analytics events so funnels survive page
// reloads without any account system.
package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DistinctIDKey is the gin context key the middleware stores the
	// visitor id under.
	DistinctIDKey = "distinct_id"

	cookieName = "ff_session"
	cookieTTL  = 365 * 24 * time.Hour
)

// Middleware reads the visitor cookie, validating its signature, and
// mints a fresh one when it is absent or tampered with. It never rejects
// a request; an unidentifiable visitor simply gets a new id.
func Middleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil {
			if id, ok := parseVisitorToken(raw, key); ok {
				c.Set(DistinctIDKey, id)
				c.Next()
				return
			}
		}

		id := uuid.New().String()
		token, err := mintVisitorToken(id, key)
		if err == nil {
			c.SetCookie(cookieName, token, int(cookieTTL.Seconds()), "/", "", false, true)
		}
		c.Set(DistinctIDKey, id)
		c.Next()
	}
}

// DistinctID returns the visitor id set by Middleware, or empty when the
// middleware is not installed on the route.
func DistinctID(c *gin.Context) string {
	return c.GetString(DistinctIDKey)
}

func mintVisitorToken(id string, key []byte) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cookieTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseVisitorToken(raw string, key []byte) (string, bool) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
