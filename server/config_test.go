package server_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/n9te9/go-graphql-catalog/server"
)

func TestParseOption(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    server.CatalogOption
		wantErr bool
	}{
		{
			name: "empty keeps defaults",
			src:  ``,
			want: server.DefaultOption(),
		},
		{
			name: "partial override",
			src: `
port: 9000
enable_playground: false
opentelemetry:
  tracing:
    enable: true
`,
			want: func() server.CatalogOption {
				o := server.DefaultOption()
				o.Port = 9000
				o.EnablePlayground = false
				o.Opentelemetry.TracingSetting.Enable = true
				return o
			}(),
		},
		{name: "invalid port", src: `port: 70000`, wantErr: true},
		{name: "relative endpoint", src: `endpoint: graphql`, wantErr: true},
		{name: "malformed yaml", src: `port: [`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := server.ParseOption([]byte(tt.src))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOption() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOption() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultOption(t *testing.T) {
	opt := server.DefaultOption()
	if opt.Port != 8000 || opt.Endpoint != "/graphql" {
		t.Errorf("unexpected defaults: %+v", opt)
	}
}

func TestInitAndLoadOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	if _, err := server.LoadOption(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	if err := server.Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := server.LoadOption(path)
	if err != nil {
		t.Fatalf("LoadOption() error = %v", err)
	}
	if diff := cmp.Diff(server.DefaultOption(), got); diff != "" {
		t.Errorf("round-tripped defaults mismatch (-want +got):\n%s", diff)
	}

	if err := server.Init(path); !errors.Is(err, server.ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file missing: %v", err)
	}
}
