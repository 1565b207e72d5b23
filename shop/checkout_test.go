package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/awesomestore/backend/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validPaymentForm() PaymentForm {
	return PaymentForm{
		Name:       "Jane Reader",
		Email:      "jane@example.com",
		Address:    "1 Main Street",
		Phone:      "519-555-0142",
		CreditCard: "4111-1111-1111-1111",
		ExpMonth:   "JAN",
		ExpYear:    "2030",
	}
}

func newCheckout(store *fakeStore) *Checkout {
	return &Checkout{Store: store, Validate: validation.New()}
}

func fillCart(t *testing.T, store *fakeStore, userID primitive.ObjectID, bookID primitive.ObjectID, qty int64) {
	t.Helper()
	cart := &Cart{Store: store}
	_, err := cart.AddToCart(context.Background(), bookID, qty, userID)
	require.NoError(t, err)
}

func TestCheckout_InvalidPhoneRejectedWithNoSideEffects(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, book.ID, 2)

	form := validPaymentForm()
	form.Phone = "555-1234" // missing digit group

	batch, err := newCheckout(store).Checkout(context.Background(), form, userID)
	require.Error(t, err)
	assert.Nil(t, batch)

	var verrs *validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Fields, "phone")

	assert.Len(t, store.lines, 1, "cart must be untouched")
	assert.Empty(t, store.orders, "no orders may be created")
	assert.Equal(t, int64(10), store.books[book.ID].Quantity, "stock must be untouched")
}

func TestCheckout_CollectsAllFieldFailures(t *testing.T) {
	store := newFakeStore()
	form := PaymentForm{
		Name:       "",
		Email:      "not-an-email",
		Address:    "",
		Phone:      "12345",
		CreditCard: "1234",
		ExpMonth:   "January",
		ExpYear:    "30",
	}

	_, err := newCheckout(store).Checkout(context.Background(), form, primitive.NewObjectID())
	var verrs *validation.Errors
	require.ErrorAs(t, err, &verrs)
	for _, field := range []string{"name", "email", "address", "phone", "creditcard", "expmonth", "expyear"} {
		assert.Contains(t, verrs.Fields, field)
	}
}

func TestCheckout_ConvertsEveryLine(t *testing.T) {
	store := newFakeStore()
	dune := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	foundation := store.addBook(t, "Foundation", "Isaac Asimov", 7, 5, "9.50")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, dune.ID, 2)
	fillCart(t, store, userID, foundation.ID, 1)

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	assert.True(t, batch.AllPlaced())
	assert.Equal(t, 2, batch.Placed)
	require.Len(t, batch.Results, 2)
	for _, result := range batch.Results {
		assert.Equal(t, StatusOrdered, result.Status)
		assert.False(t, result.OrderID.IsZero())
	}

	assert.Empty(t, store.lines, "cart must be emptied")
	assert.Len(t, store.orders, 2, "one order per former cart line")
	assert.Equal(t, int64(8), store.books[dune.ID].Quantity)
	assert.Equal(t, int64(4), store.books[foundation.ID].Quantity)
}

func TestCheckout_OrderCopiesLineFields(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, book.ID, 3)

	_, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	require.Len(t, store.orders, 1)
	order := store.orders[0]
	assert.Equal(t, book.ID, order.BookID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, int64(3), order.Quantity)
	assert.Equal(t, "38.97", order.Price.String())
}

func TestCheckout_InsufficientStockLeavesLine(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 3, "12.99")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, book.ID, 5)

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusInsufficientStock, batch.Results[0].Status)
	assert.False(t, batch.AllPlaced())
	assert.Zero(t, batch.Placed)

	assert.Len(t, store.lines, 1, "failed line stays in the cart")
	assert.Empty(t, store.orders)
	assert.Equal(t, int64(3), store.books[book.ID].Quantity, "stock never goes negative")
}

func TestCheckout_OrderInsertFailureRestoresStock(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	store.insertOrderErr = errors.New("write failed")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, book.ID, 2)

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	assert.Len(t, store.lines, 1)
	assert.Empty(t, store.orders)
	assert.Equal(t, int64(10), store.books[book.ID].Quantity, "decrement must be compensated")
}

func TestCheckout_CartDeleteFailureCompensatesOrderAndStock(t *testing.T) {
	store := newFakeStore()
	book := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, book.ID, 2)
	store.deleteCartLineErr = errors.New("delete failed")

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	require.Len(t, batch.Results, 1)
	assert.Equal(t, StatusFailed, batch.Results[0].Status)
	assert.Empty(t, store.orders, "order must be rolled back")
	assert.Equal(t, int64(10), store.books[book.ID].Quantity)
	assert.Len(t, store.lines, 1)
}

func TestCheckout_LinesAreIndependent(t *testing.T) {
	store := newFakeStore()
	dune := store.addBook(t, "Dune", "Frank Herbert", 42, 10, "12.99")
	rare := store.addBook(t, "Rare Tome", "Unknown", 9, 1, "99.00")
	userID := primitive.NewObjectID()
	fillCart(t, store, userID, dune.ID, 2)
	fillCart(t, store, userID, rare.ID, 3) // more than on hand

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Placed)
	assert.False(t, batch.AllPlaced())
	require.Len(t, batch.Results, 2)
	assert.Equal(t, StatusOrdered, batch.Results[0].Status)
	assert.Equal(t, StatusInsufficientStock, batch.Results[1].Status)

	assert.Len(t, store.orders, 1)
	assert.Len(t, store.lines, 1, "only the failed line remains")
	assert.Equal(t, int64(8), store.books[dune.ID].Quantity)
	assert.Equal(t, int64(1), store.books[rare.ID].Quantity)
}

func TestCheckout_EmptyCartYieldsEmptyBatch(t *testing.T) {
	store := newFakeStore()

	batch, err := newCheckout(store).Checkout(context.Background(), validPaymentForm(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, batch.Results)
	assert.True(t, batch.AllPlaced())
}
