// Package shop holds the storefront's purchase flow: cart accumulation,
// checkout, and catalog search. It talks to persistence through narrow
// interfaces satisfied by the Mongo store.
package shop

import (
	"context"
	"errors"
	"time"

	"github.com/awesomestore/backend/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCartLineNotFound = errors.New("cart line not found")
)

// CartStore is the slice of the document store the cart manager needs.
type CartStore interface {
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	InsertCartLine(ctx context.Context, line *models.CartLine) (primitive.ObjectID, error)
	CartLinesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	CartLineByID(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error)
	DeleteCartLine(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Cart struct {
	Store CartStore
}

// CartView is a user's cart with its running total. Empty distinguishes a
// cart with no lines from one whose lines sum to zero.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total string            `json:"total"`
	Empty bool              `json:"empty"`
}

// AddToCart prices requestedQuantity units of the book and persists a new
// cart line for the user. The line price is unit price times quantity at two
// decimal places. Repeated adds of the same book create separate lines, and
// no stock check happens here; checkout is where stock is enforced.
func (c *Cart) AddToCart(ctx context.Context, bookID primitive.ObjectID, requestedQuantity int64, userID primitive.ObjectID) (*models.CartLine, error) {
	book, err := c.Store.BookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	unit, err := decimal.NewFromString(book.Price.String())
	if err != nil {
		return nil, err
	}
	price := unit.Mul(decimal.NewFromInt(requestedQuantity))
	linePrice, err := primitive.ParseDecimal128(price.StringFixed(2))
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		BookID:    book.ID,
		BookName:  book.Title,
		UserID:    userID,
		Quantity:  requestedQuantity,
		Price:     linePrice,
		CreatedAt: time.Now(),
	}
	id, err := c.Store.InsertCartLine(ctx, line)
	if err != nil {
		return nil, err
	}
	line.ID = id
	return line, nil
}

// ViewCart returns the user's cart lines and their total, the sum of each
// line's stored price formatted to two decimals.
func (c *Cart) ViewCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	lines, err := c.Store.CartLinesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := cartTotal(lines)
	if err != nil {
		return nil, err
	}
	return &CartView{
		Lines: lines,
		Total: total,
		Empty: len(lines) == 0,
	}, nil
}

// RemoveLine deletes one of the user's cart lines. A line that does not exist
// or belongs to another user reports ErrCartLineNotFound either way, so the
// response does not reveal which.
func (c *Cart) RemoveLine(ctx context.Context, lineID, userID primitive.ObjectID) error {
	line, err := c.Store.CartLineByID(ctx, lineID)
	if err != nil {
		return err
	}
	if line == nil || line.UserID != userID {
		return ErrCartLineNotFound
	}
	deleted, err := c.Store.DeleteCartLine(ctx, lineID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCartLineNotFound
	}
	return nil
}

func cartTotal(lines []models.CartLine) (string, error) {
	total := decimal.Zero
	for _, line := range lines {
		p, err := decimal.NewFromString(line.Price.String())
		if err != nil {
			return "", err
		}
		total = total.Add(p)
	}
	return total.StringFixed(2), nil
}
