package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownPage = errors.New("ui: unknown page")

// PageFunc builds a page's component tree on demand.
type PageFunc func() (Component, error)

// Page is one routed page of an app.
type Page struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Icon  string `json:"icon,omitempty"`
	build PageFunc
}

// App is a titled collection of pages.
type App struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Sidebar bool   `json:"sidebar"`
	Pages   []Page `json:"pages"`
}

// AddPage registers a page. The slug is derived from the name.
func (a *App) AddPage(name, icon string, build PageFunc) *App {
	a.Pages = append(a.Pages, Page{Name: name, Slug: Slugify(name), Icon: icon, build: build})
	return a
}

// Render builds the page identified by slug.
func (a *App) Render(slug string) (Component, error) {
	for _, p := range a.Pages {
		if p.Slug == slug {
			return p.build()
		}
	}
	return Component{}, fmt.Errorf("%w: %s/%s", ErrUnknownPage, a.Name, slug)
}

// Slugify lower-cases name and joins words with dashes.
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

// Registry holds every app served by the process.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]*App
}

func NewRegistry() *Registry {
	return &Registry{apps: map[string]*App{}}
}

// Register adds app, replacing any app with the same name.
func (r *Registry) Register(app *App) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.Name] = app
}

// Apps lists the registered apps by name.
func (r *Registry) Apps() []*App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*App, 0, len(r.apps))
	for _, a := range r.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render builds one page of one app.
func (r *Registry) Render(app, page string) (Component, error) {
	r.mu.RLock()
	a, ok := r.apps[app]
	r.mu.RUnlock()
	if !ok {
		return Component{}, fmt.Errorf("%w: %s", ErrUnknownPage, app)
	}
	return a.Render(page)
}
