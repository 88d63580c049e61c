package graph

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/goccy/go-json"
	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const errMissingQuery = "Must provide query string."

// HandlerOption configures a Handler.
type HandlerOption struct {
	Endpoint         string
	EnablePlayground bool
}

// Handler serves the GraphQL endpoint.
//
//	POST          executes the request body (application/json or application/graphql)
//	GET ?query=   executes a query; mutations are rejected with 405
//	GET           serves the playground to browsers
type Handler struct {
	graphql    http.Handler
	playground http.Handler
}

var _ http.Handler = (*Handler)(nil)

// NewHandler creates a Handler resolving every field through service.
func NewHandler(service *catalog.Service, opt HandlerOption) *Handler {
	srv := handler.New(NewExecutableSchema(Config{Resolvers: NewResolver(service)}))
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.AddTransport(transport.GRAPHQL{})
	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.Use(extension.Introspection{})
	srv.Use(requireQuery{})
	srv.AroundResponses(traceResponse)

	h := &Handler{graphql: srv}
	if opt.EnablePlayground {
		h.playground = playground.Handler("Catalog", opt.Endpoint)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodGet:
		if !r.URL.Query().Has("query") {
			h.serveWithoutQuery(w, r)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests.")
		return
	}

	h.graphql.ServeHTTP(&statusWriter{ResponseWriter: w}, r)
}

// serveWithoutQuery answers a GET with no query parameter: browsers get the
// playground, API clients a 400.
func (h *Handler) serveWithoutQuery(w http.ResponseWriter, r *http.Request) {
	if h.playground != nil && acceptsHTML(r) {
		h.playground.ServeHTTP(w, r)
		return
	}
	writeError(w, http.StatusBadRequest, errMissingQuery)
}

func acceptsHTML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == "text/html" {
			return true
		}
	}
	return false
}

// statusWriter maps the status codes of gqlgen's HTTP transports onto the
// ones GraphQL-over-HTTP clients of this service expect: request errors
// (parse, validation, variable coercion) are 400 and a mutation sent over
// GET is 405.
type statusWriter struct {
	http.ResponseWriter
}

func (w *statusWriter) WriteHeader(code int) {
	switch code {
	case http.StatusUnprocessableEntity:
		code = http.StatusBadRequest
	case http.StatusNotAcceptable:
		w.Header().Set("Allow", http.MethodPost)
		code = http.StatusMethodNotAllowed
	}
	w.ResponseWriter.WriteHeader(code)
}

// requireQuery rejects requests whose query is blank before parsing, with the
// same message for every transport.
type requireQuery struct{}

var _ interface {
	graphql.HandlerExtension
	graphql.OperationParameterMutator
} = requireQuery{}

func (requireQuery) ExtensionName() string {
	return "RequireQuery"
}

func (requireQuery) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (requireQuery) MutateOperationParameters(_ context.Context, params *graphql.RawParams) *gqlerror.Error {
	if strings.TrimSpace(params.Query) != "" {
		return nil
	}
	err := gqlerror.Errorf(errMissingQuery)
	errcode.Set(err, errcode.ValidationFailed)
	return err
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&graphql.Response{Errors: gqlerror.List{{Message: message}}}) //nolint:errcheck
}
