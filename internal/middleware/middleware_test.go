package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/session"
	"github.com/joelyk/maison-du-parfum/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-session-secret"
	testCookie = "mdp_session"
)

func setupMiddlewareTest() (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)
	manager := session.NewManager(session.NewMemoryStore(time.Hour), testSecret, time.Hour)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.Use(NewSessionMiddleware(manager, testCookie, false).Handle())
	return router, manager
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookie)
	return nil
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/test", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestSessionMiddleware_IssuesAndReusesSession(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/sid", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sid", nil))
	require.Equal(t, http.StatusOK, w.Code)
	firstSID := w.Body.String()
	assert.NotEmpty(t, firstSID)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, firstSID, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "valid cookie is not reissued")
}

func TestSessionMiddleware_TamperedCookieGetsFreshSession(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/sid", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "not-a-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.NotEqual(t, "not-a-token", sessionCookie(t, w).Value)
}

func TestSessionMiddleware_SaveSession(t *testing.T) {
	router, manager := setupMiddlewareTest()
	router.POST("/login", func(c *gin.Context) {
		GetSession(c).SetUser(7, "claire@example.com", "Claire")
		require.NoError(t, SaveSession(c))
		c.Status(http.StatusNoContent)
	})
	router.GET("/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookie := sessionCookie(t, w)

	sid, err := manager.Resolve(cookie.Value)
	require.NoError(t, err)
	data, err := manager.Load(context.Background(), sid)
	require.NoError(t, err)
	assert.True(t, data.Authenticated())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body struct {
		ID uint `json:"id"`
		OK bool `json:"ok"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, uint(7), body.ID)
}

func TestSessionMiddleware_RenewsAgingCookie(t *testing.T) {
	router, manager := setupMiddlewareTest()
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	aging, err := util.GenerateSessionToken("sid-aging", testSecret, 5*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: aging})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "sid-aging", w.Body.String())
	cookie := sessionCookie(t, w)
	assert.NotEqual(t, aging, cookie.Value)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	sid, err := manager.Resolve(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "sid-aging", sid)

	_, fresh, err := manager.Issue()
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: fresh})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies(), "fresh cookie is left as is")
}

func TestGuard(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.POST("/admin/login", func(c *gin.Context) {
		GetSession(c).Admin = true
		require.NoError(t, SaveSession(c))
		c.Status(http.StatusNoContent)
	})
	router.GET("/admin/dashboard", RequireAdmin("/admin/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/account", RequireCustomer("/account/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("json client gets 401 with login url", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/account?tab=orders", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body errors.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/account/login?next=%2Faccount%3Ftab%3Dorders", body.LoginURL)
	})

	t.Run("browser is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/login?next=%2Fadmin%2Fdashboard", w.Header().Get("Location"))
	})

	t.Run("admin flag passes admin guard only", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
		cookie := sessionCookie(t, w)

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/account", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPredicates(t *testing.T) {
	id := uint(1)
	assert.False(t, IsCustomer(&session.Data{}))
	assert.True(t, IsCustomer(&session.Data{UserID: &id}))
	assert.False(t, IsAdmin(&session.Data{UserID: &id}))
	assert.True(t, IsAdmin(&session.Data{Admin: true}))
}
