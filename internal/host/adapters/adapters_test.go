package adapters

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/internal/host"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const schemaDocument = `package:
  name: myapp
root: MyApp
types:
  - name: MyApp
    kind: union
    attrs:
      - 'dendrite(name = "myapp")'
      - SubcommandRequiredElseHelp
    members:
      - name: Foo
        payload: Foo
      - name: Bar
        attrs: ['name = "hoge"']
        payload: Bar
  - name: Foo
    kind: record
  - name: Bar
    kind: record
`

type roundTripper func(req *http.Request) (*http.Response, error)

type server struct {
	name string
	do   roundTripper
}

func servers() []server {
	echoAdapter := NewDefaultEchoAdapter()
	host.NewService(nil).Routes(echoAdapter)

	ginAdapter := NewDefaultGinAdapter()
	host.NewService(nil).Routes(ginAdapter)

	fiberAdapter := NewDefaultFiberAdapter()
	host.NewService(nil).Routes(fiberAdapter)

	serve := func(h http.Handler) roundTripper {
		return func(req *http.Request) (*http.Response, error) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Result(), nil
		}
	}

	return []server{
		{name: echoAdapter.Name(), do: serve(echoAdapter)},
		{name: ginAdapter.Name(), do: serve(ginAdapter)},
		{name: fiberAdapter.Name(), do: func(req *http.Request) (*http.Response, error) {
			return fiberAdapter.App().Test(req, -1)
		}},
	}
}

func call(t *testing.T, s server, method, path string, body []byte, out interface{}) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	resp, err := s.do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp
}

func TestServers_SchemaLifecycle(t *testing.T) {
	for _, s := range servers() {
		t.Run(s.name, func(t *testing.T) {
			var health map[string]interface{}
			resp := call(t, s, http.MethodGet, "/healthz", nil, &health)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "ok", health["status"])
			assert.NotEmpty(t, resp.Header.Get(host.RequestIDHeader))

			var created host.Entry
			resp = call(t, s, http.MethodPost, "/schemas", []byte(schemaDocument), &created)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, "MyApp", created.Root)
			require.NotNil(t, created.Tree)
			assert.Equal(t, "myapp", created.Tree.Name)
			require.Len(t, created.Tree.Children, 2)
			assert.Equal(t, "hoge", created.Tree.Children[1].Name)

			var fetched host.Entry
			resp = call(t, s, http.MethodGet, "/schemas/"+created.ID, nil, &fetched)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, created.ID, fetched.ID)

			for _, backend := range []string{"reference", "cobra", "urfave"} {
				var resolved host.ResolveResponse
				body := []byte(`{"args":["hoge"],"backend":"` + backend + `"}`)
				resp = call(t, s, http.MethodPost, "/schemas/"+created.ID+"/resolve", body, &resolved)
				require.Equal(t, http.StatusOK, resp.StatusCode, backend)
				assert.Equal(t, []string{"Bar"}, resolved.Variants, backend)
				assert.Equal(t, "MyApp::Bar(Bar)", resolved.Display, backend)
			}

			var failure host.HTTPError
			resp = call(t, s, http.MethodPost, "/schemas/"+created.ID+"/resolve", []byte(`{"args":[]}`), &failure)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, failure.Message, "help requested")
		})
	}
}

func TestServers_Errors(t *testing.T) {
	for _, s := range servers() {
		t.Run(s.name, func(t *testing.T) {
			var failure host.HTTPError

			resp := call(t, s, http.MethodGet, "/schemas/not-a-uuid", nil, &failure)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			resp = call(t, s, http.MethodGet, "/schemas/6f1c1d0e-3b7a-4c1e-9a53-2f8e1f0b7c11", nil, &failure)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)

			resp = call(t, s, http.MethodPost, "/schemas", []byte("package: {name: x}\ntypes: []\n"), &failure)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})
	}
}
