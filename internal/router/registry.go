package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Module is a feature that registers its routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects group-wide middleware and modules, then mounts them
// under one prefix in a single RegisterAll call.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	prefix      string
	middlewares []gin.HandlerFunc
	modules     []Module
	registered  bool
}

func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(prefix), prefix: prefix}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll applies the middleware before any module route exists, so
// every module sees it. Later calls are no-ops.
func (r *Registry) RegisterAll() {
	if r.registered {
		return
	}
	r.registered = true
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Routes lists "METHOD path" for every route under the prefix.
func (r *Registry) Routes() []string {
	var out []string
	for _, ri := range r.Engine.Routes() {
		if strings.HasPrefix(ri.Path, r.prefix) {
			out = append(out, ri.Method+" "+ri.Path)
		}
	}
	return out
}
