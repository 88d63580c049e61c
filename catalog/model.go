package catalog

// Author is a book author.
type Author struct {
	ID   int
	Name string
}

// Book is a single book record. AuthorID is not checked against the author table.
type Book struct {
	ID       int
	Name     string
	AuthorID int
}

// SeedAuthors returns the authors present at process start.
func SeedAuthors() []Author {
	return []Author{
		{ID: 1, Name: "first author name"},
		{ID: 2, Name: "second author name"},
		{ID: 3, Name: "third author name"},
		{ID: 4, Name: "fourth author name"},
	}
}

// SeedBooks returns the books present at process start.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Name: "first book name", AuthorID: 1},
		{ID: 2, Name: "second book name", AuthorID: 1},
		{ID: 3, Name: "3rd book name", AuthorID: 1},
		{ID: 4, Name: "4th book name", AuthorID: 2},
		{ID: 5, Name: "5th book name", AuthorID: 2},
		{ID: 6, Name: "6th book name", AuthorID: 2},
		{ID: 7, Name: "7th book name", AuthorID: 3},
		{ID: 8, Name: "8th book name", AuthorID: 3},
	}
}
