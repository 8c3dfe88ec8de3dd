package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/openboard/backend/pkg/identity"
)

// PrincipalKey is the fiber.Ctx local under which the resolved principal
// is stored.
const PrincipalKey = "principal"

// Principal returns the principal resolved by the middleware, if any.
func Principal(c *fiber.Ctx) (identity.Principal, bool) {
	p, ok := c.Locals(PrincipalKey).(identity.Principal)
	return p, ok
}

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT
// (HS256) and resolves the full principal into c.Locals. The principal is
// resolved once per request here and passed into use cases explicitly.
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "please log in"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "please log in"})
		}
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token claims"})
		}
		if expectedIssuer != "" && claims.Issuer != expectedIssuer {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token issuer"})
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token subject"})
		}
		role, err := identity.ParseRole(claims.Role)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token role"})
		}
		c.Locals(PrincipalKey, identity.Principal{
			ID:                 userID,
			Email:              claims.Email,
			Role:               role,
			OnboardingComplete: claims.OnboardingComplete,
		})
		return c.Next()
	}
}

// NewOptionalAuthMiddleware resolves a principal when a valid token is
// present but lets anonymous requests through. Used on public listings so
// owners and admins see their own unpublished postings.
func NewOptionalAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	required := NewAuthMiddleware(secret, expectedIssuer)
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return required(c)
	}
}
