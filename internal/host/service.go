package host

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/dendrite/internal/engine"
	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/schemafile"
	"github.com/toyz/dendrite/internal/utils"
	"github.com/toyz/dendrite/pkg/dendrite"
	"github.com/toyz/dendrite/pkg/dendrite/adapters"
)

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-ID"

// Entry is one compiled schema held by the service
type Entry struct {
	ID        string         `json:"id"`
	Root      string         `json:"root"`
	Types     []string       `json:"types"`
	Tree      *dendrite.Tree `json:"tree"`
	CreatedAt time.Time      `json:"created_at"`

	engine *engine.Engine
}

// ResolveRequest is the body of a resolve call
type ResolveRequest struct {
	Args    []string `json:"args"`
	Backend string   `json:"backend,omitempty"`
}

// ResolveResponse is the result of a resolve call
type ResolveResponse struct {
	Value    *dendrite.Value `json:"value"`
	Variants []string        `json:"variants"`
	Display  string          `json:"display"`
}

// Service compiles schema documents and resolves command lines against them
type Service struct {
	store       *utils.BaseRegistry[string, *Entry]
	diagnostics *utils.DiagnosticSystem
	now         func() time.Time
	newID       func() string
}

// NewService creates an empty service logging through diagnostics
func NewService(diagnostics *utils.DiagnosticSystem) *Service {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	store := utils.NewBaseRegistry[string, *Entry]("schema store", "schema id", "schema")
	store.SetValidator(utils.UniqueKeyValidator[string, *Entry]("schema id"))
	return &Service{
		store:       store,
		diagnostics: diagnostics,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Routes registers the service's endpoints on ws
func (s *Service) Routes(ws WebServer) {
	ws.Use(RequestID(s.newID))

	ws.RegisterRoute(http.MethodGet, "/healthz", s.Health, s.errorHandler)
	ws.RegisterRoute(http.MethodPost, "/schemas", s.CreateSchema, s.errorHandler)
	ws.RegisterRoute(http.MethodGet, "/schemas/:id", s.GetSchema, s.errorHandler)
	ws.RegisterRoute(http.MethodPost, "/schemas/:id/resolve", s.ResolveSchema, s.errorHandler)
}

// RequestID assigns an id to each request unless the client sent one
func RequestID(newID func() string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			id := ctx.Header(RequestIDHeader)
			if id == "" {
				id = newID()
			}
			ctx.Set("request_id", id)
			ctx.SetHeader(RequestIDHeader, id)
			return next(ctx)
		}
	}
}

func (s *Service) errorHandler(next HandlerFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		err := next(ctx)
		if err == nil {
			return nil
		}
		s.diagnostics.Warn("%s %s: %v", ctx.Method(), ctx.Path(), err)
		return WriteError(ctx, err)
	}
}

// Health reports that the service is up
func (s *Service) Health(ctx RequestContext) error {
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"schemas": s.store.Size(),
	})
}

// CreateSchema compiles the YAML schema document in the request body
func (s *Service) CreateSchema(ctx RequestContext) error {
	body, err := ctx.Body()
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "could not read body", err)
	}

	entry, err := s.Compile("request.yaml", body)
	if err != nil {
		return NewHTTPError(http.StatusUnprocessableEntity, compileFailure(err), err)
	}

	s.diagnostics.Info("compiled schema %s (root %s)", entry.ID, entry.Root)
	return ctx.JSON(http.StatusCreated, entry)
}

// Compile parses and compiles a schema document and stores the result
func (s *Service) Compile(filename string, data []byte) (*Entry, error) {
	doc, err := schemafile.Parse(filename, data)
	if err != nil {
		return nil, err
	}
	eng, err := doc.Compile()
	if err != nil {
		return nil, err
	}
	tree, err := eng.Describe(doc.RootType())
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        s.newID(),
		Root:      doc.RootType(),
		Types:     eng.Types(),
		Tree:      tree,
		CreatedAt: s.now().UTC(),
		engine:    eng,
	}
	if err := s.store.Register(entry.ID, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Lookup returns a stored schema
func (s *Service) Lookup(id string) (*Entry, bool) {
	return s.store.Get(id)
}

// IDs returns every stored schema id
func (s *Service) IDs() []string {
	ids := s.store.List()
	sort.Strings(ids)
	return ids
}

// GetSchema returns a stored schema
func (s *Service) GetSchema(ctx RequestContext) error {
	entry, err := s.entry(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entry)
}

// ResolveSchema parses the arguments in the request body against a stored
// schema and returns the reconstructed selection
func (s *Service) ResolveSchema(ctx RequestContext) error {
	entry, err := s.entry(ctx)
	if err != nil {
		return err
	}

	body, err := ctx.Body()
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "could not read body", err)
	}
	var req ResolveRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return NewHTTPError(http.StatusBadRequest, "invalid resolve request", err)
		}
	}
	if backend := ctx.QueryParam("backend"); backend != "" {
		req.Backend = backend
	}

	parser, err := Backend(req.Backend)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error(), err)
	}

	value, err := entry.engine.Resolve(entry.Root, parser, req.Args)
	if err != nil {
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), err)
	}

	return ctx.JSON(http.StatusOK, ResolveResponse{
		Value:    value,
		Variants: value.Variants(),
		Display:  value.String(),
	})
}

func (s *Service) entry(ctx RequestContext) (*Entry, error) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid schema id %q", id), err)
	}
	entry, err := s.store.GetOrError(id)
	if err != nil {
		return nil, NewHTTPError(http.StatusNotFound, err.Error(), err)
	}
	return entry, nil
}

// Backend returns the parser for a backend name. The empty name selects
// the reference backend.
func Backend(name string) (dendrite.Parser, error) {
	switch name {
	case "", "reference":
		return dendrite.Reference{}, nil
	case "cobra":
		return adapters.NewCobraParser(io.Discard), nil
	case "urfave":
		return adapters.NewURFaveParser(io.Discard), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// compileFailure lists every collected error message
func compileFailure(err error) interface{} {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 1 {
		messages := make([]string, 0, multi.Count())
		for _, e := range multi.Errors {
			messages = append(messages, e.Error())
		}
		return messages
	}
	return err.Error()
}
