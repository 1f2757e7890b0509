package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	SessionCookie = "labubu_session"
	SessionKey    = "session_id"
	sessionIDKey  = "id"
)

// NewCookieStore builds the signed cookie store backing anonymous sessions.
func NewCookieStore(secret string, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session gives every client a session id. A bearer token wins over the
// cookie; without either a new id is minted and stored in the cookie.
func Session(store sessions.Store, tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
				return
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				log.WithError(err).Debug("rejected session token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
				return
			}
			c.Set(SessionKey, id)
			c.Next()
			return
		}

		sess, err := store.Get(c.Request, SessionCookie)
		if err != nil {
			// A cookie signed with an old secret decodes to a fresh session.
			log.WithError(err).Debug("session cookie discarded")
		}
		id, _ := sess.Values[sessionIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[sessionIDKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.WithError(err).Error("save session cookie")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
		}
		c.Set(SessionKey, id)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
