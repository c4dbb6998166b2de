package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
)

// Middleware envolve um handler; as rotas aplicam a lista na ordem em que foi declarada
type Middleware = func(http.Handler) http.Handler

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []Middleware
}

type ConfigRouter func(router *Router)

func WithRoutes(routes ...Route) ConfigRouter {
	return func(router *Router) {
		router.AddRoutes(routes...)
	}
}

type Router struct {
	mux    *httprouter.Router
	routes []Route
}

func New(configs ...ConfigRouter) *Router {
	mux := httprouter.New()
	mux.NotFound = http.HandlerFunc(notFound)

	r := &Router{mux: mux}
	for _, config := range configs {
		config(r)
	}
	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrNotFound, "rota não encontrada", nil)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// AddRoutes registra as rotas; o primeiro middleware da lista é o mais externo
func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		r.mux.Handler(route.Method, route.Path, chain(route.Handler, route.Middlewares))
		r.routes = append(r.routes, route)
	}
}

// Routes devolve as rotas registradas, na ordem de registro
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

func chain(h http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
