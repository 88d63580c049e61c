package graph_test

import (
	"testing"

	"github.com/99designs/gqlgen/client"
	"github.com/goccy/go-json"
	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/n9te9/go-graphql-catalog/graph"
)

func newHandler(t *testing.T) *graph.Handler {
	t.Helper()

	svc := catalog.NewService(catalog.NewSeededStore())
	return graph.NewHandler(svc, graph.HandlerOption{Endpoint: "/graphql", EnablePlayground: true})
}

func newClient(t *testing.T) *client.Client {
	t.Helper()
	return client.New(newHandler(t), client.Path("/graphql"))
}

// execute posts query and returns the decoded data and errors. Requests the
// server rejects with a 4xx status fail the test.
func execute(t *testing.T, c *client.Client, query string, opts ...client.Option) (map[string]any, []map[string]any) {
	t.Helper()

	resp, err := c.RawPost(query, opts...)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var errs []map[string]any
	if len(resp.Errors) > 0 {
		if err := json.Unmarshal(resp.Errors, &errs); err != nil {
			t.Fatalf("failed to decode errors %s: %v", resp.Errors, err)
		}
	}

	data, _ := resp.Data.(map[string]any)
	return data, errs
}
