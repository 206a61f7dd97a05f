package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/domain/nav"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, p *Pages, page string, data PageData) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	p.Render(c, http.StatusOK, page, data)
	return w
}

func TestLoad_ParsesEveryPage(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, p.pages, name)
	}
}

func TestRender_LayoutWithProfile(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	w := renderPage(t, p, "settings", PageData{
		Title:   "Settings",
		Profile: &user.User{Name: "Jane <b>Doe</b>", Email: "jane@example.com", Role: user.RoleAgent},
		Menu:    []nav.MenuItem{{Label: "Dashboard", Href: "/dashboard", Active: true}},
		Notice:  "Saved",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Welcome, Jane &lt;b&gt;Doe&lt;/b&gt;")
	assert.Contains(t, body, `href="/dashboard" class="active"`)
	assert.Contains(t, body, "Saved")
}

func TestRender_LoginWithoutProfile(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	w := renderPage(t, p, "login", PageData{Title: "Sign in", Error: "invalid email or password"})
	body := w.Body.String()
	assert.NotContains(t, body, "Welcome,")
	assert.Contains(t, body, "invalid email or password")
}

func TestRender_UnknownPage(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	w := renderPage(t, p, "nope", PageData{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFuncs(t *testing.T) {
	datetime := funcs["datetime"].(func(time.Time) string)
	assert.Equal(t, "", datetime(time.Time{}))
	assert.Equal(t, "2024-03-01 09:30", datetime(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))

	hours := funcs["hours"].(func(float64) string)
	assert.Equal(t, "2.5", hours(2.456))
}
