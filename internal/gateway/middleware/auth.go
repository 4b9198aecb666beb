package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restman-system/internal/session"
	"restman-system/internal/utils"
)

const sessionContextKey = "restman-session"

// SessionAuth gates every screen endpoint behind a valid gateway session.
// It parses the gateway JWT, loads the session record, and puts the session
// (with its upstream credential) on the request context. It does not probe
// the upstream credential itself: an expired backend token is discovered
// only when a proxied call fails, and is surfaced as that call's error.
func SessionAuth(secret []byte, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization token required",
			})
			return
		}

		claims, err := utils.ParseSessionToken(secret, strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired session token",
			})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Session expired, please login again",
			})
			return
		}

		SetSession(c, sess)
		c.Next()
	}
}

// SetSession is exposed so handler tests can inject a session without
// running the full middleware.
func SetSession(c *gin.Context, sess session.Session) {
	c.Set(sessionContextKey, sess)
}

func SessionFrom(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}
