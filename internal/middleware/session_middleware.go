package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/session"
)

const (
	SessionIDKey      = "session_id"
	SessionKey        = "session"
	sessionManagerKey = "session_manager"
)

type SessionMiddleware struct {
	manager    *session.Manager
	cookieName string
	secure     bool
}

func NewSessionMiddleware(manager *session.Manager, cookieName string, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		manager:    manager,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Handle resolves the session cookie, issuing a new session when it is absent or invalid,
// and loads the session data into the request context.
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, _ := c.Cookie(m.cookieName)
		sid, err := m.manager.Resolve(token)
		if err != nil {
			if token != "" {
				log.Debug("Discarding invalid session cookie", map[string]interface{}{
					"error": err.Error(),
				})
			}
			sid, token, err = m.manager.Issue()
			if err != nil {
				log.Error("Failed to issue session", err)
				errors.InternalError(c, "")
				c.Abort()
				return
			}
			m.setCookie(c, token)
		} else if fresh, ok := m.manager.Refresh(token); ok {
			m.setCookie(c, fresh)
		}

		data, err := m.manager.Load(c.Request.Context(), sid)
		if err != nil {
			log.Error("Failed to load session", err)
			errors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Set(SessionIDKey, sid)
		c.Set(SessionKey, data)
		c.Set(sessionManagerKey, m.manager)
		c.Next()
	}
}

func (m *SessionMiddleware) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.manager.TTL().Seconds()), "/", "", m.secure, true)
}

// GetSessionID returns the current session id, empty outside SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetSession returns the mutable session data; callers persist changes with SaveSession.
func GetSession(c *gin.Context) *session.Data {
	if v, exists := c.Get(SessionKey); exists {
		if data, ok := v.(*session.Data); ok {
			return data
		}
	}
	data := &session.Data{}
	c.Set(SessionKey, data)
	return data
}

// GetUserID returns the logged-in customer id.
func GetUserID(c *gin.Context) (uint, bool) {
	data := GetSession(c)
	if !data.Authenticated() {
		return 0, false
	}
	return *data.UserID, true
}

func SaveSession(c *gin.Context) error {
	v, exists := c.Get(sessionManagerKey)
	if !exists {
		return session.ErrNotFound
	}
	return v.(*session.Manager).Save(c.Request.Context(), GetSessionID(c), GetSession(c))
}
