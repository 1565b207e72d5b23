package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddToCart_ComputesLinePrice(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	cart := &Cart{Store: store}
	userID := primitive.NewObjectID()

	line, err := cart.AddToCart(context.Background(), book.ID, 3, userID)
	require.NoError(t, err)

	assert.Equal(t, "38.97", line.Price.String())
	assert.Equal(t, "Dune", line.BookName)
	assert.Equal(t, int64(3), line.Quantity)
	assert.Equal(t, userID, line.UserID)
	assert.False(t, line.ID.IsZero())
}

func TestAddToCart_UnknownBookCreatesNothing(t *testing.T) {
	store := newFakeStore()
	cart := &Cart{Store: store}

	line, err := cart.AddToCart(context.Background(), primitive.NewObjectID(), 1, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrBookNotFound)
	assert.Nil(t, line)
	assert.Empty(t, store.lines)
}

func TestAddToCart_RepeatedAddsCreateSeparateLines(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	cart := &Cart{Store: store}
	userID := primitive.NewObjectID()

	_, err := cart.AddToCart(context.Background(), book.ID, 1, userID)
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), book.ID, 2, userID)
	require.NoError(t, err)

	view, err := cart.ViewCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestAddToCart_DoesNotCheckStock(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 2, "12.99")
	cart := &Cart{Store: store}

	line, err := cart.AddToCart(context.Background(), book.ID, 50, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, int64(50), line.Quantity)
	assert.Equal(t, int64(2), store.books[book.ID].Quantity)
}

func TestViewCart_TotalSumsStoredLinePrices(t *testing.T) {
	store := newFakeStore()
	a := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	b := store.addBook(t, "Foundation", "Isaac Asimov", 7, 10, "9.50")
	cart := &Cart{Store: store}
	userID := primitive.NewObjectID()

	_, err := cart.AddToCart(context.Background(), a.ID, 2, userID) // 25.98
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), b.ID, 3, userID) // 28.50
	require.NoError(t, err)

	view, err := cart.ViewCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "54.48", view.Total)
	assert.False(t, view.Empty)
}

func TestViewCart_EmptyCartIsDistinct(t *testing.T) {
	cart := &Cart{Store: newFakeStore()}

	view, err := cart.ViewCart(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.True(t, view.Empty)
	assert.Empty(t, view.Lines)
	assert.Equal(t, "0.00", view.Total)
}

func TestViewCart_OnlyReturnsOwnLines(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	cart := &Cart{Store: store}
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	_, err := cart.AddToCart(context.Background(), book.ID, 1, alice)
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), book.ID, 4, bob)
	require.NoError(t, err)

	view, err := cart.ViewCart(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, alice, view.Lines[0].UserID)
	assert.Equal(t, "12.99", view.Total)
}

func TestRemoveLine(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	cart := &Cart{Store: store}
	userID := primitive.NewObjectID()

	line, err := cart.AddToCart(context.Background(), book.ID, 1, userID)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveLine(context.Background(), line.ID, userID))
	view, err := cart.ViewCart(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, view.Empty)

	err = cart.RemoveLine(context.Background(), line.ID, userID)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestRemoveLine_OtherUsersLineIsNotFound(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	cart := &Cart{Store: store}
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	line, err := cart.AddToCart(context.Background(), book.ID, 1, alice)
	require.NoError(t, err)

	err = cart.RemoveLine(context.Background(), line.ID, bob)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
	assert.Len(t, store.lines, 1, "alice's line must survive")

	require.NoError(t, cart.RemoveLine(context.Background(), line.ID, alice))
	assert.Empty(t, store.lines)
}
