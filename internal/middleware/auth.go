package middleware

import (
	"context"
	"strings"

	"chirp/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// ViewerExtractor returns a middleware that extracts an optional
// "Authorization: Bearer <token>" header, verifies it, and stores the
// viewer identity in the request context. It never rejects the request:
// account creation and login are public, so whether a viewer is required
// is decided per operation by the authorization gate in the graph layer.
//
// A malformed or expired token simply leaves the request without a viewer,
// which the gate then reports as Unauthorized before any data access.
func ViewerExtractor(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			Logger.WarnContext(c.UserContext(), "token verification failed", "error", err.Error())
			return c.Next()
		}

		c.Locals("viewerID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), ViewerIDKey, userID))
		return c.Next()
	}
}

// ViewerFromContext returns the authenticated viewer's ID, if any.
func ViewerFromContext(ctx context.Context) (uint, bool) {
	uid, ok := ctx.Value(ViewerIDKey).(uint)
	return uid, ok
}

// WithViewer returns a context carrying the given viewer identity. Intended
// for tests and internal callers that bypass the HTTP layer.
func WithViewer(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ViewerIDKey, userID)
}
