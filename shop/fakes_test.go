package shop

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/awesomestore/backend/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory document store implementing CartStore,
// CheckoutStore, and SearchStore. Error fields let tests inject failures for
// specific operations.
type fakeStore struct {
	books   map[primitive.ObjectID]*models.Book
	authors []models.Author
	lines   []models.CartLine
	orders  []models.Order

	insertOrderErr    error
	deleteCartLineErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{books: make(map[primitive.ObjectID]*models.Book)}
}

func dec128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func (f *fakeStore) addBook(t *testing.T, title, authorName string, bookID, quantity int64, price string) *models.Book {
	t.Helper()
	book := &models.Book{
		ID:         primitive.NewObjectID(),
		BookID:     bookID,
		Title:      title,
		AuthorName: authorName,
		Quantity:   quantity,
		Price:      dec128(t, price),
	}
	f.books[book.ID] = book
	return book
}

func (f *fakeStore) addAuthor(bookID, authorID int64, name string) {
	f.authors = append(f.authors, models.Author{
		ID:         primitive.NewObjectID(),
		BookID:     bookID,
		AuthorID:   authorID,
		AuthorName: name,
	})
}

func (f *fakeStore) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	copied := *book
	return &copied, nil
}

func (f *fakeStore) InsertCartLine(_ context.Context, line *models.CartLine) (primitive.ObjectID, error) {
	stored := *line
	stored.ID = primitive.NewObjectID()
	f.lines = append(f.lines, stored)
	return stored.ID, nil
}

func (f *fakeStore) CartLinesByUser(_ context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, line := range f.lines {
		if line.UserID == userID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeStore) CartLineByID(_ context.Context, id primitive.ObjectID) (*models.CartLine, error) {
	for _, line := range f.lines {
		if line.ID == id {
			copied := line
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteCartLine(_ context.Context, id primitive.ObjectID) (bool, error) {
	if f.deleteCartLineErr != nil {
		return false, f.deleteCartLineErr
	}
	for i, line := range f.lines {
		if line.ID == id {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DecrementBookQuantity(_ context.Context, id primitive.ObjectID, n int64) (bool, error) {
	book, ok := f.books[id]
	if !ok || book.Quantity < n {
		return false, nil
	}
	book.Quantity -= n
	return true, nil
}

func (f *fakeStore) IncrementBookQuantity(_ context.Context, id primitive.ObjectID, n int64) error {
	if book, ok := f.books[id]; ok {
		book.Quantity += n
	}
	return nil
}

func (f *fakeStore) InsertOrder(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	if f.insertOrderErr != nil {
		return primitive.NilObjectID, f.insertOrderErr
	}
	stored := *order
	stored.ID = primitive.NewObjectID()
	f.orders = append(f.orders, stored)
	return stored.ID, nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, id primitive.ObjectID) (bool, error) {
	for i, order := range f.orders {
		if order.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) SearchBooksByTitle(_ context.Context, query string) ([]models.Book, error) {
	q := strings.ToLower(query)
	var out []models.Book
	for _, book := range f.books {
		if strings.Contains(strings.ToLower(book.Title), q) {
			out = append(out, *book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeStore) FirstAuthorByName(_ context.Context, query string) (*models.Author, error) {
	q := strings.ToLower(query)
	var matches []models.Author
	for _, author := range f.authors {
		if strings.Contains(strings.ToLower(author.AuthorName), q) {
			matches = append(matches, author)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].AuthorName < matches[j].AuthorName })
	first := matches[0]
	return &first, nil
}

func (f *fakeStore) BooksByNumericID(_ context.Context, bookID int64) ([]models.Book, error) {
	var out []models.Book
	for _, book := range f.books {
		if book.BookID == bookID {
			out = append(out, *book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}
