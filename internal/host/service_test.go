package host

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/pkg/dendrite"
)

const document = `package:
  name: tool
  description: a tool
root: Tool
types:
  - name: Tool
    kind: union
    members:
      - name: Remote
        payload: Remote
      - name: Version
  - name: Remote
    kind: union
    attrs: ['dendrite(about = "manage remotes")']
    members:
      - name: Add
        payload: Add
  - name: Add
    kind: record
`

// fakeContext records what a handler wrote
type fakeContext struct {
	method  string
	path    string
	params  map[string]string
	query   map[string]string
	headers map[string]string
	body    []byte
	values  map[string]interface{}

	status   int
	response interface{}
	written  map[string]string
}

func newFakeContext(method, path string, body string) *fakeContext {
	return &fakeContext{
		method:  method,
		path:    path,
		params:  map[string]string{},
		query:   map[string]string{},
		headers: map[string]string{},
		body:    []byte(body),
		values:  map[string]interface{}{},
		written: map[string]string{},
	}
}

func (c *fakeContext) Method() string                  { return c.method }
func (c *fakeContext) Path() string                    { return c.path }
func (c *fakeContext) Param(key string) string         { return c.params[key] }
func (c *fakeContext) QueryParam(key string) string    { return c.query[key] }
func (c *fakeContext) Header(key string) string        { return c.headers[key] }
func (c *fakeContext) SetHeader(key, value string)     { c.written[key] = value }
func (c *fakeContext) Body() ([]byte, error)           { return c.body, nil }
func (c *fakeContext) Get(key string) interface{}      { return c.values[key] }
func (c *fakeContext) Set(key string, val interface{}) { c.values[key] = val }

func (c *fakeContext) JSON(code int, i interface{}) error {
	c.status = code
	c.response = i
	return nil
}

func newTestService() *Service {
	s := NewService(nil)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.newID = func() string { return "0b0c5a43-5c4c-4b52-9a4e-9c1f5d2b8f10" }
	return s
}

func TestService_Compile(t *testing.T) {
	s := newTestService()
	entry, err := s.Compile("tool.yaml", []byte(document))
	require.NoError(t, err)

	assert.Equal(t, "Tool", entry.Root)
	assert.Equal(t, []string{"Add", "Remote", "Tool"}, entry.Types)
	assert.Equal(t, "tool", entry.Tree.Name)
	assert.Equal(t, "a tool", entry.Tree.About)
	require.Len(t, entry.Tree.Children, 2)
	assert.Equal(t, "manage remotes", entry.Tree.Children[0].About)
	assert.Equal(t, "Version", entry.Tree.Children[1].About)
	assert.Equal(t, []string{entry.ID}, s.IDs())

	// ids are unique per stored schema
	_, err = s.Compile("tool.yaml", []byte(document))
	assert.Error(t, err)
}

func TestService_ResolveSchema(t *testing.T) {
	s := newTestService()
	entry, err := s.Compile("tool.yaml", []byte(document))
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		backend string
		status  int
		display string
	}{
		{name: "nested", body: `{"args":["remote","add"]}`, status: http.StatusOK, display: "Tool::Remote(Remote::Add(Add))"},
		{name: "unit", body: `{"args":["version"]}`, status: http.StatusOK, display: "Tool::Version"},
		{name: "cobra backend", body: `{"args":["remote","add"]}`, backend: "cobra", status: http.StatusOK, display: "Tool::Remote(Remote::Add(Add))"},
		{name: "unknown subcommand", body: `{"args":["nope"]}`, status: http.StatusUnprocessableEntity},
		{name: "unknown backend", body: `{"args":[]}`, backend: "clap", status: http.StatusBadRequest},
		{name: "bad body", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newFakeContext(http.MethodPost, "/schemas/"+entry.ID+"/resolve", tt.body)
			ctx.params["id"] = entry.ID
			ctx.query["backend"] = tt.backend

			require.NoError(t, s.errorHandler(s.ResolveSchema)(ctx))
			assert.Equal(t, tt.status, ctx.status)
			if tt.display != "" {
				resp, ok := ctx.response.(ResolveResponse)
				require.True(t, ok)
				assert.Equal(t, tt.display, resp.Display)
			}
		})
	}
}

func TestService_CreateSchemaReportsEveryError(t *testing.T) {
	s := newTestService()
	ctx := newFakeContext(http.MethodPost, "/schemas", `package: {name: broken}
types:
  - name: A
    kind: union
  - name: B
    kind: union
`)

	require.NoError(t, s.errorHandler(s.CreateSchema)(ctx))
	assert.Equal(t, http.StatusUnprocessableEntity, ctx.status)

	he, ok := ctx.response.(*HTTPError)
	require.True(t, ok)
	messages, ok := he.Message.([]string)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestRequestID(t *testing.T) {
	handler := RequestID(func() string { return "generated" })(func(ctx RequestContext) error {
		return ctx.JSON(http.StatusOK, ctx.Get("request_id"))
	})

	ctx := newFakeContext(http.MethodGet, "/healthz", "")
	require.NoError(t, handler(ctx))
	assert.Equal(t, "generated", ctx.response)
	assert.Equal(t, "generated", ctx.written[RequestIDHeader])

	ctx = newFakeContext(http.MethodGet, "/healthz", "")
	ctx.headers[RequestIDHeader] = "client"
	require.NoError(t, handler(ctx))
	assert.Equal(t, "client", ctx.response)
}

func TestHTTPError(t *testing.T) {
	he := NewHTTPError(http.StatusNotFound)
	assert.Equal(t, "Not Found", he.Error())

	inner := dendrite.ErrUnknownSubcommand
	he = NewHTTPError(http.StatusUnprocessableEntity, "bad", inner)
	assert.ErrorIs(t, he, dendrite.ErrUnknownSubcommand)

	data, err := json.Marshal(he)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":422,"message":"bad"}`, string(data))
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx RequestContext) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}
	h := Chain(func(RequestContext) error {
		order = append(order, "handler")
		return nil
	}, mw("a"), mw("b"))

	require.NoError(t, h(newFakeContext(http.MethodGet, "/", "")))
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}
