package shop

import (
	"context"
	"log"
	"time"

	"github.com/awesomestore/backend/models"
	"github.com/awesomestore/backend/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutStore is the slice of the document store checkout needs.
type CheckoutStore interface {
	CartLinesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	DecrementBookQuantity(ctx context.Context, id primitive.ObjectID, n int64) (bool, error)
	IncrementBookQuantity(ctx context.Context, id primitive.ObjectID, n int64) error
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteCartLine(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// PaymentForm carries the checkout form fields. Expiry fields are
// format-checked only; there is no expired-card rule in the active chain.
type PaymentForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	Phone      string `json:"phone" validate:"required,phone"`
	CreditCard string `json:"creditcard" validate:"required,creditcard"`
	ExpMonth   string `json:"expmonth" validate:"required,expmonth"`
	ExpYear    string `json:"expyear" validate:"required,expyear"`
}

// Line statuses reported in a checkout batch.
const (
	StatusOrdered           = "ordered"
	StatusInsufficientStock = "insufficient stock"
	StatusFailed            = "failed"
)

// LineResult is the outcome of processing one cart line.
type LineResult struct {
	LineID   primitive.ObjectID `json:"lineId"`
	BookID   primitive.ObjectID `json:"bookId"`
	OrderID  primitive.ObjectID `json:"orderId,omitempty"`
	Status   string             `json:"status"`
	BookName string             `json:"bookName"`
}

// Batch is the aggregate outcome of a checkout: one result per cart line
// processed, and how many of them became orders.
type Batch struct {
	Results []LineResult `json:"results"`
	Placed  int          `json:"placed"`
}

func (b *Batch) AllPlaced() bool {
	return b.Placed == len(b.Results)
}

type Checkout struct {
	Store    CheckoutStore
	Validate *validation.Validator
}

// Checkout validates the payment form and, when it passes, converts each of
// the user's cart lines into an order. A failed form leaves cart and stock
// untouched; the returned error is *validation.Errors with per-field messages.
//
// Each line is processed as its own compensating sequence: stock is
// conditionally decremented first, the order is inserted, then the cart line
// is deleted. A failure at any step undoes the earlier steps for that line
// and the line stays in the cart, so a line either fully becomes an order or
// is untouched. Lines are independent; one line's failure does not stop the
// rest.
func (p *Checkout) Checkout(ctx context.Context, form PaymentForm, userID primitive.ObjectID) (*Batch, error) {
	if err := p.Validate.Struct(form); err != nil {
		return nil, err
	}

	lines, err := p.Store.CartLinesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Results: make([]LineResult, 0, len(lines))}
	for _, line := range lines {
		result := p.processLine(ctx, line)
		if result.Status == StatusOrdered {
			batch.Placed++
		}
		batch.Results = append(batch.Results, result)
	}
	return batch, nil
}

func (p *Checkout) processLine(ctx context.Context, line models.CartLine) LineResult {
	result := LineResult{
		LineID:   line.ID,
		BookID:   line.BookID,
		BookName: line.BookName,
		Status:   StatusFailed,
	}

	ok, err := p.Store.DecrementBookQuantity(ctx, line.BookID, line.Quantity)
	if err != nil {
		log.Printf("checkout: decrement stock for line %s: %v", line.ID.Hex(), err)
		return result
	}
	if !ok {
		result.Status = StatusInsufficientStock
		return result
	}

	order := &models.Order{
		BookID:    line.BookID,
		UserID:    line.UserID,
		Quantity:  line.Quantity,
		Price:     line.Price,
		CreatedAt: time.Now(),
	}
	orderID, err := p.Store.InsertOrder(ctx, order)
	if err != nil {
		log.Printf("checkout: insert order for line %s: %v", line.ID.Hex(), err)
		p.restoreStock(ctx, line)
		return result
	}

	if _, err := p.Store.DeleteCartLine(ctx, line.ID); err != nil {
		log.Printf("checkout: delete cart line %s: %v", line.ID.Hex(), err)
		if _, derr := p.Store.DeleteOrder(ctx, orderID); derr != nil {
			log.Printf("checkout: compensate order %s: %v", orderID.Hex(), derr)
		}
		p.restoreStock(ctx, line)
		return result
	}

	result.OrderID = orderID
	result.Status = StatusOrdered
	return result
}

func (p *Checkout) restoreStock(ctx context.Context, line models.CartLine) {
	if err := p.Store.IncrementBookQuantity(ctx, line.BookID, line.Quantity); err != nil {
		log.Printf("checkout: restore stock for book %s: %v", line.BookID.Hex(), err)
	}
}
