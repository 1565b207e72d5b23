package shop

import (
	"context"
	"strings"

	"github.com/awesomestore/backend/models"
)

// SearchStore is the slice of the document store search needs.
type SearchStore interface {
	SearchBooksByTitle(ctx context.Context, query string) ([]models.Book, error)
	FirstAuthorByName(ctx context.Context, query string) (*models.Author, error)
	BooksByNumericID(ctx context.Context, bookID int64) ([]models.Book, error)
}

type Search struct {
	Store SearchStore
}

// SearchResult distinguishes "nothing matched" from a matched-but-empty book
// list: NoMatch is set only when neither a title nor an author matched.
type SearchResult struct {
	Books   []models.Book `json:"books"`
	NoMatch bool          `json:"noMatch"`
}

// Search resolves a free-text query against the catalog. Titles are tried
// first as a case-insensitive substring match; only when no title matches is
// the query retried against author names, with the first matching author's
// numeric book id used to fetch their books. Ordering within each stage is
// title ascending.
func (s *Search) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)

	books, err := s.Store.SearchBooksByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(books) > 0 {
		return &SearchResult{Books: books}, nil
	}

	author, err := s.Store.FirstAuthorByName(ctx, query)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return &SearchResult{NoMatch: true}, nil
	}

	books, err = s.Store.BooksByNumericID(ctx, author.BookID)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Books: books}, nil
}
