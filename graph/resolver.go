package graph

//go:generate go tool gqlgen generate --config ../gqlgen.yml

import "github.com/n9te9/go-graphql-catalog/catalog"

// This file will not be regenerated automatically.
//
// Resolver is the root of the resolver tree; every field reads and writes
// through the catalog service.
type Resolver struct {
	service *catalog.Service
}

// NewResolver creates a Resolver backed by service.
func NewResolver(service *catalog.Service) *Resolver {
	return &Resolver{service: service}
}
