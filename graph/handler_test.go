package graph_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/n9te9/go-graphql-catalog/graph"
)

type httpResponse struct {
	Data   map[string]any   `json:"data"`
	Errors []map[string]any `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) httpResponse {
	t.Helper()

	var resp httpResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_PostQuery(t *testing.T) {
	h := newHandler(t)

	rec := post(t, h, `{"query":"{ authors { id name } }"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	resp := decode(t, rec)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}

	want := []any{
		map[string]any{"id": float64(1), "name": "first author name"},
		map[string]any{"id": float64(2), "name": "second author name"},
		map[string]any{"id": float64(3), "name": "third author name"},
		map[string]any{"id": float64(4), "name": "fourth author name"},
	}
	if diff := cmp.Diff(want, resp.Data["authors"]); diff != "" {
		t.Errorf("authors mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_PostMutationWithVariables(t *testing.T) {
	h := newHandler(t)

	body := `{
		"query": "mutation Add($name: String!, $authorId: Int!) { addBook(name: $name, authorId: $authorId) { id name authorId } }",
		"operationName": "Add",
		"variables": {"name": "New Title", "authorId": 2}
	}`
	resp := decode(t, post(t, h, body))
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}

	want := map[string]any{"id": float64(9), "name": "New Title", "authorId": float64(2)}
	if diff := cmp.Diff(want, resp.Data["addBook"]); diff != "" {
		t.Errorf("addBook mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_PostGraphQLBody(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ book(id: 5) { name } }`))
	req.Header.Set("Content-Type", "application/graphql")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := decode(t, rec)
	if diff := cmp.Diff(map[string]any{"name": "5th book name"}, resp.Data["book"]); diff != "" {
		t.Errorf("book mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ValidationError(t *testing.T) {
	h := newHandler(t)

	rec := post(t, h, `{"query":"mutation { addBook(authorId: 1) { id } }"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if raw["data"] != nil {
		t.Errorf("expected no data, got %v", raw["data"])
	}
	if errs, _ := raw["errors"].([]any); len(errs) == 0 {
		t.Error("expected errors")
	}
}

func TestHandler_BadRequests(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "invalid json", method: http.MethodPost, target: "/graphql", body: `{"query":`, status: http.StatusBadRequest},
		{name: "empty query", method: http.MethodPost, target: "/graphql", body: `{}`, status: http.StatusBadRequest},
		{name: "blank query over GET", method: http.MethodGet, target: "/graphql?query=", status: http.StatusBadRequest},
		{name: "syntax error over GET", method: http.MethodGet, target: "/graphql?query=" + url.QueryEscape("{ books {"), status: http.StatusBadRequest},
		{name: "invalid variables", method: http.MethodGet, target: "/graphql?query=" + url.QueryEscape("{ books { id } }") + "&variables=%7B", status: http.StatusBadRequest},
		{name: "unsupported method", method: http.MethodPut, target: "/graphql", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if resp := decode(t, rec); len(resp.Errors) == 0 {
				t.Error("expected errors in body")
			}
		})
	}
}

func TestHandler_GetQuery(t *testing.T) {
	h := newHandler(t)

	target := "/graphql?query=" + url.QueryEscape(`query($id: Int) { author(id: $id) { name } }`) +
		"&variables=" + url.QueryEscape(`{"id": 99}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	if v, ok := resp.Data["author"]; !ok || v != nil {
		t.Errorf("expected author to be null, got %v (present=%v)", v, ok)
	}
}

func TestHandler_GetMutationRejected(t *testing.T) {
	h := newHandler(t)

	target := "/graphql?query=" + url.QueryEscape(`mutation { addBook(name: "x", authorId: 1) { id } }`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}

	resp := decode(t, post(t, h, `{"query":"{ books { id } }"}`))
	if n := len(resp.Data["books"].([]any)); n != 8 {
		t.Errorf("expected 8 books after rejected GET mutation, got %d", n)
	}
}

func browserGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return req
}

func TestHandler_Playground(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, browserGet("/graphql"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	disabled := graph.NewHandler(catalog.NewService(catalog.NewSeededStore()), graph.HandlerOption{Endpoint: "/graphql"})
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, browserGet("/graphql"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 with playground disabled, got %d", rec.Code)
	}
}

func TestHandler_GetWithoutQueryFromAPIClient(t *testing.T) {
	h := newHandler(t)

	for _, accept := range []string{"application/json", "", "*/*"} {
		t.Run("accept="+accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
			if accept != "" {
				req.Header.Set("Accept", accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			resp := decode(t, rec)
			if len(resp.Errors) != 1 || resp.Errors[0]["message"] != "Must provide query string." {
				t.Errorf("unexpected errors: %v", resp.Errors)
			}
		})
	}
}

func TestHandler_GetIntrospectionFromPlayground(t *testing.T) {
	h := newHandler(t)

	target := "/graphql?query=" + url.QueryEscape(introspectionQuery) + "&operationName=IntrospectionQuery"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}

	schema, _ := resp.Data["__schema"].(map[string]any)
	if schema == nil {
		t.Fatalf("expected __schema, got %v", resp.Data)
	}
	for _, typ := range schema["types"].([]any) {
		typ := typ.(map[string]any)
		if typ["kind"] != "OBJECT" {
			continue
		}
		fields, ok := typ["fields"].([]any)
		if !ok {
			t.Errorf("%v.fields = %v, want a list", typ["name"], typ["fields"])
			continue
		}
		for _, f := range fields {
			if _, ok := f.(map[string]any)["args"].([]any); !ok {
				t.Errorf("%v.%v args is not a list", typ["name"], f.(map[string]any)["name"])
			}
		}
	}
}
