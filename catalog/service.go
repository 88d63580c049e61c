package catalog

// Service exposes the catalog operations independently of any transport.
type Service struct {
	store *Store
}

// NewService creates a Service backed by store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ListBooks returns every book in insertion order.
func (s *Service) ListBooks() []Book {
	return s.store.Books()
}

// ListAuthors returns every author in insertion order.
func (s *Service) ListAuthors() []Author {
	return s.store.Authors()
}

// GetBook returns the first book with the given id.
func (s *Service) GetBook(id int) (Book, bool) {
	return s.store.FindBook(func(b Book) bool {
		return b.ID == id
	})
}

// GetAuthor returns the first author with the given id.
func (s *Service) GetAuthor(id int) (Author, bool) {
	return s.store.FindAuthor(func(a Author) bool {
		return a.ID == id
	})
}

// AuthorOfBook returns the author referenced by book.AuthorID.
// A dangling reference reports false, not an error.
func (s *Service) AuthorOfBook(book Book) (Author, bool) {
	return s.GetAuthor(book.AuthorID)
}

// BooksOfAuthor returns the author's books in table order.
func (s *Service) BooksOfAuthor(author Author) []Book {
	return s.store.FilterBooks(func(b Book) bool {
		return b.AuthorID == author.ID
	})
}

// AddBook appends a new book and returns it. The author is not required to exist.
func (s *Service) AddBook(name string, authorID int) Book {
	return s.store.AppendBook(name, authorID)
}
