package domain

import "context"

// Cart domain errors.
var (
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must not be negative"}
)

// CartItem is one line in a shopper's cart. A line is identified by the
// (ProductID, Size, Color) tuple; at most one line exists per tuple.
// Name, prices and images are copied from the product at add time.
type CartItem struct {
	ProductID     int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Images        []string `json:"images"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	Quantity      int      `json:"quantity"`
}

// Is reports whether the line matches the given identity tuple.
func (i CartItem) Is(productID int64, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// CartRepository persists a session's cart lines between visits.
// Save replaces the stored value wholesale; Load returns an empty slice,
// never an error, when nothing is stored or the stored value is corrupt.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) ([]CartItem, error)
	Save(ctx context.Context, sessionID string, items []CartItem) error
	Clear(ctx context.Context, sessionID string) error
}
