package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/linskybing/csdesk/internal/domain/nav"
	"github.com/linskybing/csdesk/internal/domain/user"
)

//go:embed templates/*.html
var files embed.FS

var pageNames = []string{
	"login",
	"dashboard",
	"tickets",
	"ticket_detail",
	"reports",
	"add_users",
	"admin_dashboard",
	"audit",
	"settings",
}

// PageData is what every page template receives.
type PageData struct {
	Title   string
	Profile *user.User
	Menu    []nav.MenuItem
	Error   string
	Notice  string
	Data    any
}

type Pages struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	"hours": func(h float64) string {
		return fmt.Sprintf("%.1f", h)
	},
	"safeHTML": func(s string) template.HTML {
		// Callers only pass HTML that has been through the sanitizer.
		return template.HTML(s)
	},
	"lower": strings.ToLower,
}

// Load parses every page together with the shared layout.
func Load() (*Pages, error) {
	p := &Pages{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.pages[name] = t
	}
	return p, nil
}

func (p *Pages) Render(c *gin.Context, status int, page string, data PageData) {
	t, ok := p.pages[page]
	if !ok {
		c.String(500, "unknown page %q", page)
		return
	}
	c.Render(status, render.HTML{Template: t, Name: "layout", Data: data})
}
