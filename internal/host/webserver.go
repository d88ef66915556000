// Package host serves compiled schemas over HTTP. The handlers are written
// against a small framework-agnostic interface; the adapters subpackage
// binds it to echo, gin and fiber.
package host

import (
	"context"
	"net/http"
)

// WebServer is implemented by each framework adapter
type WebServer interface {
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)

	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RequestContext is the per-request view handlers work with
type RequestContext interface {
	Method() string
	Path() string
	Param(key string) string
	QueryParam(key string) string
	Header(key string) string
	SetHeader(key, value string)
	Body() ([]byte, error)

	Get(key string) interface{}
	Set(key string, val interface{})

	JSON(code int, i interface{}) error
}

// HandlerFunc handles one request
type HandlerFunc func(RequestContext) error

// MiddlewareFunc wraps a handler
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError is an error with an HTTP status code
type HTTPError struct {
	Code     int         `json:"code"`
	Message  interface{} `json:"message"`
	Internal error       `json:"-"`
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return he.Internal.Error()
	}
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}

// Unwrap returns the internal error
func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates an HTTPError. The optional second argument is kept
// as the internal error when it is one.
func NewHTTPError(code int, message ...interface{}) *HTTPError {
	he := &HTTPError{Code: code, Message: http.StatusText(code)}
	if len(message) > 0 {
		he.Message = message[0]
	}
	if len(message) > 1 {
		if err, ok := message[1].(error); ok {
			he.Internal = err
		}
	}
	return he
}

// WriteError renders err as a JSON body. HTTPErrors keep their code, any
// other error is a 500.
func WriteError(ctx RequestContext, err error) error {
	if he, ok := err.(*HTTPError); ok {
		return ctx.JSON(he.Code, he)
	}
	return ctx.JSON(http.StatusInternalServerError, NewHTTPError(http.StatusInternalServerError, err.Error()))
}

// Chain applies middlewares to handler so the first middleware runs first
func Chain(handler HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
