package catalog

import (
	"sync"

	"github.com/samber/lo"
)

// Store owns the author and book tables.
// Reads return copies; the only write is appending a book.
type Store struct {
	mu      sync.RWMutex
	authors []Author
	books   []Book
}

// NewStore creates a Store holding copies of the given tables.
func NewStore(authors []Author, books []Book) *Store {
	return &Store{
		authors: append([]Author(nil), authors...),
		books:   append([]Book(nil), books...),
	}
}

// NewSeededStore creates a Store with the start-up seed data.
func NewSeededStore() *Store {
	return NewStore(SeedAuthors(), SeedBooks())
}

// Authors returns a snapshot of the author table in insertion order.
func (s *Store) Authors() []Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Author, len(s.authors))
	copy(out, s.authors)
	return out
}

// Books returns a snapshot of the book table in insertion order.
func (s *Store) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// FindBook returns the first book matching pred. The scan runs under the
// read lock, so nothing is copied except the match.
func (s *Store) FindBook(pred func(Book) bool) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.books, pred)
}

// FindAuthor returns the first author matching pred.
func (s *Store) FindAuthor(pred func(Author) bool) (Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.authors, pred)
}

// FilterBooks returns the books matching pred in table order. The result is
// never nil.
func (s *Store) FilterBooks(pred func(Book) bool) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(s.books, func(b Book, _ int) bool {
		return pred(b)
	})
}

// AppendBook assigns the next id and appends the book in one critical section.
//
// The id is len(books)+1, not max(id)+1. It stays unique only while the
// table is append-only.
func (s *Store) AppendBook(name string, authorID int) Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := Book{
		ID:       len(s.books) + 1,
		Name:     name,
		AuthorID: authorID,
	}
	s.books = append(s.books, b)
	return b
}
