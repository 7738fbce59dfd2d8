package middleware

import (
	"bluewud/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GuestSessionHeader carries the guest correlation token. The storefront
// UI stores it client-side and replays it on every request.
const GuestSessionHeader = "X-Guest-Session"

// GuestSession resolves the shopper's guest session. A valid token keeps
// its session; a missing or expired one gets a fresh session minted
// silently, so the caller cannot tell a new guest from a lapsed one. The
// session ID is placed in Locals("guest_session_id") and echoed back in the
// response header so the UI can persist it.
func GuestSession(sessionService *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Authenticated requests carry their identity in the JWT instead.
		if c.Locals("user_id") != nil {
			return c.Next()
		}

		session := sessionService.GetOrCreateSession(c.Get(GuestSessionHeader))
		c.Locals("guest_session_id", session.ID)
		c.Set(GuestSessionHeader, session.ID)

		return c.Next()
	}
}

// OwnerID returns the cart owner for the request: the authenticated user
// ID when present, otherwise the guest session ID.
func OwnerID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return userID
	}
	if sessionID, ok := c.Locals("guest_session_id").(string); ok {
		return sessionID
	}
	return ""
}
