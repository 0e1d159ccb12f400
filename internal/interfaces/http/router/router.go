// Package router assembles the gin engine and the versioned swissbill API.
package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Registrar mounts its routes on a gin router group.
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// API mounts registrars under /api/{version}.
type API struct {
	engine     *gin.Engine
	version    string
	registrars []Registrar
}

// Option configures an API.
type Option func(*API)

// WithAPIVersion sets the version segment of the base path, "v1" by default.
func WithAPIVersion(version string) Option {
	return func(a *API) {
		a.version = version
	}
}

// NewAPI returns an API mounting on engine.
func NewAPI(engine *gin.Engine, opts ...Option) *API {
	a := &API{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BasePath is the prefix of every API route.
func (a *API) BasePath() string {
	return "/api/" + a.version
}

// Register queues registrars for Mount.
func (a *API) Register(registrars ...Registrar) *API {
	a.registrars = append(a.registrars, registrars...)
	return a
}

// Mount registers the queued routes and returns every API route of the engine
// as "METHOD path", sorted by path.
func (a *API) Mount() []string {
	base := a.engine.Group(a.BasePath())
	for _, r := range a.registrars {
		r.RegisterRoutes(base)
	}

	var mounted []gin.RouteInfo
	for _, ri := range a.engine.Routes() {
		if strings.HasPrefix(ri.Path, a.BasePath()+"/") {
			mounted = append(mounted, ri)
		}
	}
	sort.Slice(mounted, func(i, j int) bool {
		if mounted[i].Path != mounted[j].Path {
			return mounted[i].Path < mounted[j].Path
		}
		return mounted[i].Method < mounted[j].Method
	})

	out := make([]string, len(mounted))
	for i, ri := range mounted {
		out[i] = ri.Method + " " + ri.Path
	}
	return out
}

// Group is a path prefix with its middleware, routes and nested groups. It is
// declared without an engine and mounted by RegisterRoutes.
type Group struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup returns an empty group mounted at prefix.
func NewGroup(prefix string) *Group {
	return &Group{prefix: prefix}
}

// Use adds middleware run before every route of the group and its children.
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *Group) GET(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle(http.MethodGet, path, handlers)
}

func (g *Group) POST(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle(http.MethodPost, path, handlers)
}

func (g *Group) handle(method, path string, handlers []gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

// Group adds a nested group and returns it.
func (g *Group) Group(prefix string) *Group {
	child := NewGroup(prefix)
	g.children = append(g.children, child)
	return child
}

// RegisterRoutes implements Registrar.
func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	mounted := rg.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		mounted.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(mounted)
	}
}
