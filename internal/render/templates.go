// Package render builds the HTML renderer: every view is parsed together with
// the shared layout and includes.
package render

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"
	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// Views are registered under their path relative to views/, which is also
// the name handlers pass to c.HTML.
var Views = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"users/login.html",
	"users/signup.html",
	"users/logged_out.html",
	"about/author.html",
	"about/tech.html",
	"core/404.html",
	"core/error.html",
}

// FuncMap is shared by all templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"markdown": utils.RenderMarkdown,
		"truncate": func(n int, s string) string {
			t := models.Truncate(s, n)
			if t != s {
				return t + "…"
			}
			return t
		},
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006")
		},
		"media": func(path string) string {
			if path == "" {
				return ""
			}
			return "/media/" + strings.TrimPrefix(path, "/")
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// LoadTemplates parses layouts/*.html and includes/*.html with each view.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	includes, err := filepath.Glob(filepath.Join(templatesDir, "includes", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts in %s", templatesDir)
	}

	funcMap := FuncMap()
	for _, view := range Views {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, filepath.Join(templatesDir, "views", filepath.FromSlash(view)))
		r.AddFromFilesFuncs(view, funcMap, files...)
	}
	return r, nil
}
