// Package adapters binds host handlers to concrete web frameworks
package adapters

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/toyz/dendrite/internal/host"
)

// EchoAdapter implements host.WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

var _ host.WebServer = (*EchoAdapter)(nil)

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	e.HideBanner = true
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an Echo adapter with panic recovery
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.Use(middleware.Recover())
	return NewEchoAdapter(e)
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler host.HandlerFunc, middlewares ...host.MiddlewareFunc) {
	ea.engine.Add(method, path, ea.convertHandler(host.Chain(handler, middlewares...)))
}

// Use adds global middleware
func (ea *EchoAdapter) Use(mw host.MiddlewareFunc) {
	ea.engine.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return mw(func(host.RequestContext) error {
				return next(c)
			})(&EchoRequestContext{context: c})
		}
	})
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// ServeHTTP implements http.Handler
func (ea *EchoAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ea.engine.ServeHTTP(w, r)
}

func (ea *EchoAdapter) convertHandler(handler host.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := &EchoRequestContext{context: c}
		if err := handler(ctx); err != nil {
			return host.WriteError(ctx, err)
		}
		return nil
	}
}

// EchoRequestContext wraps echo.Context to implement host.RequestContext
type EchoRequestContext struct {
	context echo.Context
}

func (c *EchoRequestContext) Method() string                  { return c.context.Request().Method }
func (c *EchoRequestContext) Path() string                    { return c.context.Request().URL.Path }
func (c *EchoRequestContext) Param(key string) string         { return c.context.Param(key) }
func (c *EchoRequestContext) QueryParam(key string) string    { return c.context.QueryParam(key) }
func (c *EchoRequestContext) Header(key string) string        { return c.context.Request().Header.Get(key) }
func (c *EchoRequestContext) SetHeader(key, value string)     { c.context.Response().Header().Set(key, value) }
func (c *EchoRequestContext) Get(key string) interface{}      { return c.context.Get(key) }
func (c *EchoRequestContext) Set(key string, val interface{}) { c.context.Set(key, val) }

func (c *EchoRequestContext) Body() ([]byte, error) {
	return io.ReadAll(c.context.Request().Body)
}

func (c *EchoRequestContext) JSON(code int, i interface{}) error {
	return c.context.JSON(code, i)
}
