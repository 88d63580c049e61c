package graph_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/client"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/n9te9/go-graphql-catalog/graph"
)

// rawData posts body and returns the undecoded data member, so tests can
// check key order.
func rawData(t *testing.T, h http.Handler, body string) string {
	t.Helper()

	rec := post(t, h, body)
	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []any           `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	return string(resp.Data)
}

func TestSchema_ListSeeded(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `{ authors { id name } books { id authorId } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	authors := data["authors"].([]any)
	if len(authors) != 4 {
		t.Fatalf("expected 4 authors, got %d", len(authors))
	}
	for i, a := range authors {
		if got := a.(map[string]any)["id"]; got != float64(i+1) {
			t.Errorf("authors[%d].id = %v, want %d", i, got, i+1)
		}
	}

	books := data["books"].([]any)
	if len(books) != 8 {
		t.Fatalf("expected 8 books, got %d", len(books))
	}
	for i, b := range books {
		if got := b.(map[string]any)["id"]; got != float64(i+1) {
			t.Errorf("books[%d].id = %v, want %d", i, got, i+1)
		}
	}
}

func TestSchema_SingleLookups(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  map[string]any
	}{
		{
			name:  "book by id",
			query: `{ book(id: 4) { id name authorId } }`,
			want: map[string]any{
				"book": map[string]any{"id": float64(4), "name": "4th book name", "authorId": float64(2)},
			},
		},
		{
			name:  "missing author",
			query: `{ author(id: 99) { id name } }`,
			want:  map[string]any{"author": nil},
		},
		{
			name:  "omitted id",
			query: `{ book { id } author { id } }`,
			want:  map[string]any{"book": nil, "author": nil},
		},
		{
			name:  "explicit null id",
			query: `{ book(id: null) { id } }`,
			want:  map[string]any{"book": nil},
		},
		{
			name:  "book with author",
			query: `{ book(id: 7) { name author { id name } } }`,
			want: map[string]any{
				"book": map[string]any{
					"name":   "7th book name",
					"author": map[string]any{"id": float64(3), "name": "third author name"},
				},
			},
		},
		{
			name:  "author without books",
			query: `{ author(id: 4) { name books { id } } }`,
			want: map[string]any{
				"author": map[string]any{"name": "fourth author name", "books": []any{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, errs := execute(t, newClient(t), tt.query)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if diff := cmp.Diff(tt.want, data); diff != "" {
				t.Errorf("data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchema_BooksOfAuthor(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `{ author(id: 2) { books { id name } } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := map[string]any{
		"author": map[string]any{
			"books": []any{
				map[string]any{"id": float64(4), "name": "4th book name"},
				map[string]any{"id": float64(5), "name": "5th book name"},
				map[string]any{"id": float64(6), "name": "6th book name"},
			},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_NestedRelations(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `{ authors { id books { id author { id } } } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	total := 0
	for _, a := range data["authors"].([]any) {
		author := a.(map[string]any)
		for _, b := range author["books"].([]any) {
			total++
			got := b.(map[string]any)["author"].(map[string]any)["id"]
			if got != author["id"] {
				t.Errorf("book %v resolved author %v under author %v", b.(map[string]any)["id"], got, author["id"])
			}
		}
	}
	if total != 8 {
		t.Errorf("expected 8 nested books, got %d", total)
	}
}

func TestSchema_AddBook(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `mutation { addBook(name: "New Title", authorId: 2) { id name authorId } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := map[string]any{
		"addBook": map[string]any{"id": float64(9), "name": "New Title", "authorId": float64(2)},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("first addBook mismatch (-want +got):\n%s", diff)
	}

	data, errs = execute(t, c, `mutation { addBook(name: "Second", authorId: 1) { id } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := data["addBook"].(map[string]any)["id"]; got != float64(10) {
		t.Errorf("second addBook id = %v, want 10", got)
	}

	data, _ = execute(t, c, `{ books { id name } }`)
	books := data["books"].([]any)
	if len(books) != 10 {
		t.Fatalf("expected 10 books, got %d", len(books))
	}
	last := books[len(books)-1].(map[string]any)
	if last["id"] != float64(10) || last["name"] != "Second" {
		t.Errorf("unexpected last book: %v", last)
	}
}

func TestSchema_AddBookSerialMutations(t *testing.T) {
	c := newClient(t)

	query := `mutation {
		first: addBook(name: "a", authorId: 1) { id }
		second: addBook(name: "b", authorId: 1) { id }
	}`
	data, errs := execute(t, c, query)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := map[string]any{
		"first":  map[string]any{"id": float64(9)},
		"second": map[string]any{"id": float64(10)},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_AddBookDanglingAuthor(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `mutation { addBook(name: "Orphan", authorId: 999) { id author { id } } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := map[string]any{
		"addBook": map[string]any{"id": float64(9), "author": nil},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	data, _ = execute(t, c, `{ book(id: 9) { author { id } } }`)
	if diff := cmp.Diff(map[string]any{"book": map[string]any{"author": nil}}, data); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_RequestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing required argument", body: `{"query":"mutation { addBook(name: \"x\") { id } }"}`},
		{name: "wrong argument type", body: `{"query":"{ book(id: \"one\") { id } }"}`},
		{name: "unknown field", body: `{"query":"{ books { isbn } }"}`},
		{name: "syntax error", body: `{"query":"{ books { id }"}`},
		{name: "object without selection", body: `{"query":"{ books }"}`},
		{name: "missing required variable", body: `{"query":"mutation Add($name: String!) { addBook(name: $name, authorId: 4) { id } }"}`},
		{name: "ambiguous operation", body: `{"query":"query A { books { id } } query B { authors { id } }"}`},
		{name: "unknown operation name", body: `{"query":"query A { books { id } }","operationName":"C"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newHandler(t), tt.body)
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
		})
	}

	// Rejected requests must not reach the resolvers.
	h := newHandler(t)
	post(t, h, `{"query":"mutation { addBook(name: \"x\") { id } }"}`)
	data, _ := execute(t, client.New(h), `{ books { id } }`)
	if n := len(data["books"].([]any)); n != 8 {
		t.Errorf("expected 8 books after rejected mutation, got %d", n)
	}
}

func TestSchema_Variables(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `query Get($id: Int) { book(id: $id) { name } }`, client.Var("id", 3))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff(map[string]any{"book": map[string]any{"name": "3rd book name"}}, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	data, errs = execute(t, c, `mutation Add($name: String!) { addBook(name: $name, authorId: 4) { name authorId } }`, client.Var("name", "From Vars"))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := map[string]any{"addBook": map[string]any{"name": "From Vars", "authorId": float64(4)}}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_OperationName(t *testing.T) {
	h := newHandler(t)

	got := rawData(t, h, `{"query":"query First { book(id: 1) { name } } query Second { book(id: 2) { name } }","operationName":"Second"}`)
	if want := `{"book":{"name":"second book name"}}`; got != want {
		t.Errorf("data = %s, want %s", got, want)
	}
}

func TestSchema_SelectionFeatures(t *testing.T) {
	h := newHandler(t)

	body := `{
		"query": "query ($withAuthor: Boolean!) { b: book(id: 1) { ...BookParts author @include(if: $withAuthor) { name } } a: author(id: 1) { __typename ... on Author { name } id @skip(if: true) } } fragment BookParts on Book { __typename id name }",
		"variables": {"withAuthor": false}
	}`
	want := `{"b":{"__typename":"Book","id":1,"name":"first book name"},"a":{"__typename":"Author","name":"first author name"}}`
	if got := rawData(t, h, body); got != want {
		t.Errorf("data = %s, want %s", got, want)
	}
}

func TestSchema_MergesRepeatedFields(t *testing.T) {
	h := newHandler(t)

	got := rawData(t, h, `{"query":"{ book(id: 2) { id } book(id: 2) { name } }"}`)
	if want := `{"book":{"id":2,"name":"second book name"}}`; got != want {
		t.Errorf("data = %s, want %s", got, want)
	}
}

type failingBookResolver struct{}

func (failingBookResolver) Author(_ context.Context, obj *catalog.Book) (*catalog.Author, error) {
	if obj.ID == 2 {
		return nil, errors.New("author unavailable")
	}
	return &catalog.Author{ID: obj.AuthorID, Name: "stub"}, nil
}

type failingResolver struct {
	graph.ResolverRoot
}

func (failingResolver) Book() graph.BookResolver { return failingBookResolver{} }

func TestSchema_ResolverErrorNullsField(t *testing.T) {
	root := failingResolver{graph.NewResolver(catalog.NewService(catalog.NewSeededStore()))}
	srv := handler.New(graph.NewExecutableSchema(graph.Config{Resolvers: root}))
	srv.AddTransport(transport.POST{})

	data, errs := execute(t, client.New(srv), `{ books { id author { id } } }`)

	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0]["message"] != "author unavailable" {
		t.Errorf("message = %v", errs[0]["message"])
	}
	if diff := cmp.Diff([]any{"books", float64(1), "author"}, errs[0]["path"]); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	books := data["books"].([]any)
	if len(books) != 8 {
		t.Fatalf("expected siblings to resolve, got %d books", len(books))
	}
	if author := books[1].(map[string]any)["author"]; author != nil {
		t.Errorf("expected books[1].author to be null, got %v", author)
	}
	if author := books[0].(map[string]any)["author"]; author == nil {
		t.Error("expected books[0].author to resolve")
	}
}

// introspectionQuery is the query GraphiQL and the playground send to load
// the schema.
const introspectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated
    deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes { ...TypeRef }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType { kind name }
            }
          }
        }
      }
    }
  }
}
`

func findByName(t *testing.T, list any, name string) map[string]any {
	t.Helper()

	for _, v := range list.([]any) {
		if m := v.(map[string]any); m["name"] == name {
			return m
		}
	}
	t.Fatalf("%q not found in %v", name, list)
	return nil
}

func TestSchema_IntrospectionQuery(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, introspectionQuery, client.Operation("IntrospectionQuery"))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	schema := data["__schema"].(map[string]any)
	if got := schema["queryType"].(map[string]any)["name"]; got != "Query" {
		t.Errorf("queryType.name = %v, want Query", got)
	}
	if got := schema["mutationType"].(map[string]any)["name"]; got != "Mutation" {
		t.Errorf("mutationType.name = %v, want Mutation", got)
	}
	if schema["subscriptionType"] != nil {
		t.Errorf("subscriptionType = %v, want null", schema["subscriptionType"])
	}

	query := findByName(t, schema["types"], "Query")
	if query["description"] != "Root Query" {
		t.Errorf("Query description = %v", query["description"])
	}

	var fields []string
	for _, f := range query["fields"].([]any) {
		field := f.(map[string]any)
		fields = append(fields, field["name"].(string))
		if _, ok := field["args"].([]any); !ok {
			t.Errorf("Query.%s args = %v, want a list", field["name"], field["args"])
		}
	}
	if diff := cmp.Diff([]string{"books", "authors", "book", "author"}, fields); diff != "" {
		t.Errorf("Query fields mismatch (-want +got):\n%s", diff)
	}

	book := findByName(t, query["fields"], "book")
	wantArgs := []any{map[string]any{
		"name":         "id",
		"description":  nil,
		"type":         map[string]any{"kind": "SCALAR", "name": "Int", "ofType": nil},
		"defaultValue": nil,
	}}
	if diff := cmp.Diff(wantArgs, book["args"]); diff != "" {
		t.Errorf("Query.book args mismatch (-want +got):\n%s", diff)
	}

	addBook := findByName(t, findByName(t, schema["types"], "Mutation")["fields"], "addBook")
	var argNames []string
	for _, a := range addBook["args"].([]any) {
		arg := a.(map[string]any)
		argNames = append(argNames, arg["name"].(string))
		if kind := arg["type"].(map[string]any)["kind"]; kind != "NON_NULL" {
			t.Errorf("addBook.%s kind = %v, want NON_NULL", arg["name"], kind)
		}
	}
	if diff := cmp.Diff([]string{"name", "authorId"}, argNames); diff != "" {
		t.Errorf("addBook args mismatch (-want +got):\n%s", diff)
	}

	skip := findByName(t, schema["directives"], "skip")
	if args := skip["args"].([]any); len(args) != 1 {
		t.Errorf("@skip args = %v", args)
	}
}

func TestSchema_IntrospectionFieldArgs(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `{ __type(name: "Query") { fields { name args { name } } } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := map[string]any{
		"__type": map[string]any{
			"fields": []any{
				map[string]any{"name": "books", "args": []any{}},
				map[string]any{"name": "authors", "args": []any{}},
				map[string]any{"name": "book", "args": []any{map[string]any{"name": "id"}}},
				map[string]any{"name": "author", "args": []any{map[string]any{"name": "id"}}},
			},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_IntrospectionType(t *testing.T) {
	c := newClient(t)

	data, errs := execute(t, c, `{ __type(name: "Book") { name kind description fields { name type { kind ofType { name } } } } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	typ := data["__type"].(map[string]any)
	if typ["name"] != "Book" || typ["kind"] != "OBJECT" || typ["description"] != "This represents a book" {
		t.Errorf("unexpected __type: %v", typ)
	}

	var names []string
	for _, f := range typ["fields"].([]any) {
		names = append(names, f.(map[string]any)["name"].(string))
	}
	if diff := cmp.Diff([]string{"id", "name", "authorId", "author"}, names); diff != "" {
		t.Errorf("field names mismatch (-want +got):\n%s", diff)
	}

	id := typ["fields"].([]any)[0].(map[string]any)["type"].(map[string]any)
	if id["kind"] != "NON_NULL" || id["ofType"].(map[string]any)["name"] != "Int" {
		t.Errorf("unexpected id type: %v", id)
	}

	data, errs = execute(t, c, `{ __type(name: "Nope") { name } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if data["__type"] != nil {
		t.Errorf("expected null for unknown type, got %v", data["__type"])
	}
}

func TestSchema_ConcurrentRequests(t *testing.T) {
	h := newHandler(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"mutation { addBook(name: \"c\", authorId: 1) { id } }"}`))
			req.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	data, _ := execute(t, client.New(h), `{ books { id } }`)
	books := data["books"].([]any)
	if len(books) != 18 {
		t.Fatalf("expected 18 books, got %d", len(books))
	}
	for i, b := range books {
		if got := b.(map[string]any)["id"]; got != float64(i+1) {
			t.Errorf("books[%d].id = %v, want %d", i, got, i+1)
		}
	}
}
