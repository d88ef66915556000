package adapters

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toyz/dendrite/internal/host"
)

// GinAdapter implements host.WebServer for Gin
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

var _ host.WebServer = (*GinAdapter)(nil)

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a Gin adapter with panic recovery
func NewDefaultGinAdapter() *GinAdapter {
	g := gin.New()
	g.Use(gin.Recovery())
	return NewGinAdapter(g)
}

// RegisterRoute registers a route with the Gin engine
func (ga *GinAdapter) RegisterRoute(method, path string, handler host.HandlerFunc, middlewares ...host.MiddlewareFunc) {
	ga.engine.Handle(method, path, ga.convertHandler(host.Chain(handler, middlewares...)))
}

// Use registers a global middleware. Gin does not return errors through
// c.Next, so the wrapped handler always sees nil from next.
func (ga *GinAdapter) Use(mw host.MiddlewareFunc) {
	ga.engine.Use(func(c *gin.Context) {
		ctx := &GinRequestContext{context: c}
		err := mw(func(host.RequestContext) error {
			c.Next()
			return nil
		})(ctx)
		if err != nil {
			_ = host.WriteError(ctx, err)
			c.Abort()
		}
	})
}

// Start serves the engine on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	if err := ga.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// ServeHTTP implements http.Handler
func (ga *GinAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ga.engine.ServeHTTP(w, r)
}

func (ga *GinAdapter) convertHandler(handler host.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := &GinRequestContext{context: c}
		if err := handler(ctx); err != nil {
			_ = host.WriteError(ctx, err)
		}
	}
}

// GinRequestContext wraps gin.Context to implement host.RequestContext
type GinRequestContext struct {
	context *gin.Context
}

func (c *GinRequestContext) Method() string               { return c.context.Request.Method }
func (c *GinRequestContext) Path() string                 { return c.context.Request.URL.Path }
func (c *GinRequestContext) Param(key string) string      { return c.context.Param(key) }
func (c *GinRequestContext) QueryParam(key string) string { return c.context.Query(key) }
func (c *GinRequestContext) Header(key string) string     { return c.context.GetHeader(key) }
func (c *GinRequestContext) SetHeader(key, value string)  { c.context.Header(key, value) }
func (c *GinRequestContext) Set(key string, val interface{}) {
	c.context.Set(key, val)
}

func (c *GinRequestContext) Get(key string) interface{} {
	v, _ := c.context.Get(key)
	return v
}

func (c *GinRequestContext) Body() ([]byte, error) {
	return io.ReadAll(c.context.Request.Body)
}

func (c *GinRequestContext) JSON(code int, i interface{}) error {
	c.context.JSON(code, i)
	return nil
}
