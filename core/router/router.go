package router

import (
	"net/http"
	"strings"
)

// Router is a small net/http multiplexer with path parameters, route groups
// and middleware chains.
type Router struct {
	routes     []*route
	middleware []MiddlewareFunc
	notFound   HandlerFunc
}

type route struct {
	method   string
	segments []string
	handler  HandlerFunc
	// static counts non-parameter segments so exact routes win over
	// parameterized ones (/documents/search before /documents/:id).
	static int
}

// New creates an empty router.
func New() *Router {
	return &Router{
		notFound: func(c *Context) error {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "Not found"})
		},
	}
}

// Use appends router-level middleware, applied to every route.
func (r *Router) Use(mw MiddlewareFunc) {
	r.middleware = append(r.middleware, mw)
}

// NotFound overrides the handler used when no route matches.
func (r *Router) NotFound(handler HandlerFunc) {
	r.notFound = handler
}

// Group creates a route group rooted at prefix.
func (r *Router) Group(prefix string) *RouterGroup {
	return &RouterGroup{router: r, prefix: strings.TrimSuffix(prefix, "/")}
}

func (r *Router) GET(path string, h HandlerFunc)    { r.handle(http.MethodGet, path, h) }
func (r *Router) POST(path string, h HandlerFunc)   { r.handle(http.MethodPost, path, h) }
func (r *Router) PUT(path string, h HandlerFunc)    { r.handle(http.MethodPut, path, h) }
func (r *Router) DELETE(path string, h HandlerFunc) { r.handle(http.MethodDelete, path, h) }

// Static serves files under root at the given URL prefix.
func (r *Router) Static(prefix, root string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.handle(http.MethodGet, strings.TrimSuffix(prefix, "/")+"/*filepath", func(c *Context) error {
		fs.ServeHTTP(c.Writer, c.Request)
		return nil
	})
}

func (r *Router) handle(method, path string, handler HandlerFunc) {
	segments := splitPath(path)
	static := 0
	for _, s := range segments {
		if !strings.HasPrefix(s, ":") && !strings.HasPrefix(s, "*") {
			static++
		}
	}
	r.routes = append(r.routes, &route{
		method:   method,
		segments: segments,
		handler:  handler,
		static:   static,
	})
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := &Context{
		Request: req,
		Writer:  &ResponseWriter{ResponseWriter: w},
	}

	handler, params := r.match(req.Method, req.URL.Path)
	if handler == nil {
		handler = r.notFound
	}
	ctx.params = params

	// Apply middleware outermost-first.
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}

	if err := handler(ctx); err != nil {
		// Handlers normally translate their own errors; this is the last
		// resort for anything that escaped.
		if ctx.Writer.status == 0 {
			_ = ctx.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
	}
}

// match finds the best route for method and path. When several routes match,
// the one with the most static segments wins.
func (r *Router) match(method, path string) (HandlerFunc, map[string]string) {
	segments := splitPath(path)

	var best *route
	var bestParams map[string]string

	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		params, ok := matchSegments(rt.segments, segments)
		if !ok {
			continue
		}
		if best == nil || rt.static > best.static {
			best = rt
			bestParams = params
		}
	}

	if best == nil {
		return nil, nil
	}
	return best.handler, bestParams
}

func matchSegments(pattern, actual []string) (map[string]string, bool) {
	var params map[string]string

	for i, seg := range pattern {
		if strings.HasPrefix(seg, "*") {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = strings.Join(actual[i:], "/")
			return params, true
		}
		if i >= len(actual) {
			return nil, false
		}
		if strings.HasPrefix(seg, ":") {
			if actual[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = actual[i]
			continue
		}
		if seg != actual[i] {
			return nil, false
		}
	}

	if len(actual) != len(pattern) {
		return nil, false
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Run starts the HTTP server on the given address.
func (r *Router) Run(addr string) error {
	return http.ListenAndServe(addr, r)
}

// RouterGroup shares a path prefix and a middleware chain among routes.
type RouterGroup struct {
	router     *Router
	prefix     string
	middleware []MiddlewareFunc
}

// Group nests another group under this one, inheriting its middleware.
func (g *RouterGroup) Group(prefix string) *RouterGroup {
	child := &RouterGroup{
		router: g.router,
		prefix: g.prefix + strings.TrimSuffix(prefix, "/"),
	}
	child.middleware = append(child.middleware, g.middleware...)
	return child
}

// Use appends group-level middleware. Routes registered before the call are
// not affected.
func (g *RouterGroup) Use(mw MiddlewareFunc) {
	g.middleware = append(g.middleware, mw)
}

func (g *RouterGroup) GET(path string, h HandlerFunc)    { g.handle(http.MethodGet, path, h) }
func (g *RouterGroup) POST(path string, h HandlerFunc)   { g.handle(http.MethodPost, path, h) }
func (g *RouterGroup) PUT(path string, h HandlerFunc)    { g.handle(http.MethodPut, path, h) }
func (g *RouterGroup) DELETE(path string, h HandlerFunc) { g.handle(http.MethodDelete, path, h) }

func (g *RouterGroup) handle(method, path string, handler HandlerFunc) {
	// Bake the group middleware into the handler at registration time.
	for i := len(g.middleware) - 1; i >= 0; i-- {
		handler = g.middleware[i](handler)
	}
	full := g.prefix
	if path != "" && !strings.HasPrefix(path, "/") {
		full += "/"
	}
	full += path
	g.router.handle(method, full, handler)
}
