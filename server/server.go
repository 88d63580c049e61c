package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/n9te9/go-graphql-catalog/graph"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-Id"

type server struct {
	graphql         http.Handler
	graphqlEndpoint string
}

func (s *server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case s.graphqlEndpoint:
		s.graphql.ServeHTTP(w, req)
	default:
		http.NotFound(w, req)
	}
}

// NewHandler builds the HTTP handler for a fresh seeded catalog.
func NewHandler(opt CatalogOption) (http.Handler, error) {
	svc := catalog.NewService(catalog.NewSeededStore())

	var h http.Handler = &server{
		graphql: graph.NewHandler(svc, graph.HandlerOption{
			Endpoint:         opt.Endpoint,
			EnablePlayground: opt.EnablePlayground,
		}),
		graphqlEndpoint: opt.Endpoint,
	}
	h = withRequestID(h, opt.EnableComplementRequestId)

	if opt.Opentelemetry.TracingSetting.Enable {
		h = otelhttp.NewHandler(h, opt.ServiceName)
	}

	return h, nil
}

// withRequestID echoes X-Request-Id, generating one when complement is set.
func withRequestID(next http.Handler, complement bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" && complement {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		if id != "" {
			w.Header().Set(requestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves the catalog until SIGINT or SIGTERM.
func Run(opt CatalogOption) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, opt)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("failed to flush traces: %v", err)
		}
	}()

	h, err := NewHandler(opt)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opt.Port),
		Handler: h,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	log.Printf("Server running on port %d", opt.Port)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		log.Println("Server stopped")
		return nil
	})

	return eg.Wait()
}
