package graph

// This file will be automatically regenerated based on the schema, any resolver
// implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.86

import (
	"context"

	"github.com/n9te9/go-graphql-catalog/catalog"
	"github.com/samber/lo"
)

// Books is the resolver for the books field.
func (r *authorResolver) Books(ctx context.Context, obj *catalog.Author) ([]*catalog.Book, error) {
	return lo.ToSlicePtr(r.service.BooksOfAuthor(*obj)), nil
}

// Author is the resolver for the author field.
func (r *bookResolver) Author(ctx context.Context, obj *catalog.Book) (*catalog.Author, error) {
	author, ok := r.service.AuthorOfBook(*obj)
	if !ok {
		return nil, nil
	}
	return &author, nil
}

// AddBook is the resolver for the addBook field.
func (r *mutationResolver) AddBook(ctx context.Context, name string, authorID int) (*catalog.Book, error) {
	book := r.service.AddBook(name, authorID)
	return &book, nil
}

// Books is the resolver for the books field.
func (r *queryResolver) Books(ctx context.Context) ([]*catalog.Book, error) {
	return lo.ToSlicePtr(r.service.ListBooks()), nil
}

// Authors is the resolver for the authors field.
func (r *queryResolver) Authors(ctx context.Context) ([]*catalog.Author, error) {
	return lo.ToSlicePtr(r.service.ListAuthors()), nil
}

// Book is the resolver for the book field.
func (r *queryResolver) Book(ctx context.Context, id *int) (*catalog.Book, error) {
	if id == nil {
		return nil, nil
	}
	book, ok := r.service.GetBook(*id)
	if !ok {
		return nil, nil
	}
	return &book, nil
}

// Author is the resolver for the author field.
func (r *queryResolver) Author(ctx context.Context, id *int) (*catalog.Author, error) {
	if id == nil {
		return nil, nil
	}
	author, ok := r.service.GetAuthor(*id)
	if !ok {
		return nil, nil
	}
	return &author, nil
}

// Author returns AuthorResolver implementation.
func (r *Resolver) Author() AuthorResolver { return &authorResolver{r} }

// Book returns BookResolver implementation.
func (r *Resolver) Book() BookResolver { return &bookResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type authorResolver struct{ *Resolver }
type bookResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
