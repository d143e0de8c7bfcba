package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/xyzesther/CommunityAssist/pkg/util"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens and exposes the caller identity.
type Middleware struct {
	verifier *TokenVerifier
}

// NewMiddleware constructs middleware.
func NewMiddleware(verifier *TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.verifier.Verify(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
