package http

import (
	"net/http"
	"time"

	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "STORESESSID"
	sessionCtxKey = "session"
)

// SessionMiddleware attaches the visitor's session store to the request,
// issuing a new session id cookie when the request carries none.
func SessionMiddleware(sessions session.Provider, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionCtxKey, sessions.Open(id))
		c.Next()
	}
}

func sessionFrom(c *gin.Context) session.Store {
	return c.MustGet(sessionCtxKey).(session.Store)
}
