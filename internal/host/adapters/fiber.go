package adapters

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/dendrite/internal/host"
)

// FiberAdapter wraps a Fiber app to implement host.WebServer
type FiberAdapter struct {
	app *fiber.App
}

var _ host.WebServer = (*FiberAdapter)(nil)

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(host.NewHTTPError(code, err.Error()))
		},
	})
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler host.HandlerFunc, middlewares ...host.MiddlewareFunc) {
	fa.app.Add(method, path, convertHandlerToFiber(host.Chain(handler, middlewares...)))
}

// Use adds a global middleware
func (fa *FiberAdapter) Use(mw host.MiddlewareFunc) {
	fa.app.Use(func(c *fiber.Ctx) error {
		ctx := &FiberRequestContext{ctx: c}
		return mw(func(host.RequestContext) error {
			return c.Next()
		})(ctx)
	})
}

// Start starts the server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

func convertHandlerToFiber(handler host.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := &FiberRequestContext{ctx: c}
		if err := handler(ctx); err != nil {
			return host.WriteError(ctx, err)
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement host.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (c *FiberRequestContext) Method() string                  { return c.ctx.Method() }
func (c *FiberRequestContext) Path() string                    { return c.ctx.Path() }
func (c *FiberRequestContext) Param(key string) string         { return c.ctx.Params(key) }
func (c *FiberRequestContext) QueryParam(key string) string    { return c.ctx.Query(key) }
func (c *FiberRequestContext) Header(key string) string        { return c.ctx.Get(key) }
func (c *FiberRequestContext) SetHeader(key, value string)     { c.ctx.Set(key, value) }
func (c *FiberRequestContext) Get(key string) interface{}      { return c.ctx.Locals(key) }
func (c *FiberRequestContext) Set(key string, val interface{}) { c.ctx.Locals(key, val) }

// Body returns a copy of the request body; fiber reuses the buffer
func (c *FiberRequestContext) Body() ([]byte, error) {
	return append([]byte(nil), c.ctx.Body()...), nil
}

func (c *FiberRequestContext) JSON(code int, i interface{}) error {
	return c.ctx.Status(code).JSON(i)
}
