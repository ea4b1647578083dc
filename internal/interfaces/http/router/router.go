// Package router assembles the gin engine: the global middleware chain,
// the versioned API group and the permission-gated domain groups.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes under a parent group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects domain groups and mounts them under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	middleware []gin.HandlerFunc
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the prefix, e.g. "v2"
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// NewRouter creates a Router for engine. The default version is v1.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Use adds middleware for every route under the API prefix
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Prefix returns the versioned API prefix, e.g. "/api/v1"
func (r *Router) Prefix() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every queued registrar on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.Prefix(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists "METHOD /path" for every route of the registered domain
// groups, prefix included
func (r *Router) Routes() []string {
	var out []string
	for _, registrar := range r.registrars {
		if g, ok := registrar.(*DomainGroup); ok {
			out = append(out, g.routesUnder(r.Prefix())...)
		}
	}
	return out
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup is a declarative route group for one module (ledger, stock,
// ...). Routes are recorded first and mounted when the Router is set up.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*DomainGroup
}

// NewDomainGroup creates an empty group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to the group and its subgroups
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle records a route for any method
func (dg *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: relativePath, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, p, handlers...)
}

func (dg *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, p, handlers...)
}

func (dg *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, p, handlers...)
}

func (dg *DomainGroup) PATCH(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, p, handlers...)
}

func (dg *DomainGroup) DELETE(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, p, handlers...)
}

// Group creates a nested group that inherits this group's middleware
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

func (dg *DomainGroup) routesUnder(base string) []string {
	base = path.Join(base, dg.prefix)
	out := make([]string, 0, len(dg.routes))
	for _, rt := range dg.routes {
		out = append(out, rt.method+" "+path.Join(base, rt.path))
	}
	for _, sub := range dg.subgroups {
		out = append(out, sub.routesUnder(base)...)
	}
	return out
}

// Name returns the module name of the group
func (dg *DomainGroup) Name() string { return dg.name }

// Prefix returns the group's path prefix
func (dg *DomainGroup) Prefix() string { return dg.prefix }
