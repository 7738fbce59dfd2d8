package models

import "time"

// CartItem represents a single line in a shopping cart.
// Two lines are the same line when productId, size and color all match;
// adding a duplicate merges quantities instead of appending.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"-" gorm:"index;type:varchar(64)"` // user ID or guest session ID
	ProductID string    `json:"productId" gorm:"type:varchar(36)" validate:"required"`
	VariantID string    `json:"variantId,omitempty" gorm:"type:varchar(36)"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	UnitPrice float64   `json:"unitPrice" validate:"gte=0"` // price frozen when the item was added
	Subtotal  float64   `json:"subtotal"`                   // always UnitPrice * Quantity
	AddedAt   time.Time `json:"addedAt"`
}

// SameLine reports whether the item occupies the same cart line as the
// given (productID, size, color) identity tuple.
func (i *CartItem) SameLine(productID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// Recalculate refreshes the derived subtotal after a quantity change.
func (i *CartItem) Recalculate() {
	i.Subtotal = i.UnitPrice * float64(i.Quantity)
}

// Cart is the full cart for one browsing session, with derived totals.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`     // sum of line subtotals
	ItemCount int        `json:"itemCount"` // sum of line quantities
}

// NewCart builds a Cart from its lines, computing the derived totals.
func NewCart(items []CartItem) Cart {
	cart := Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, item := range cart.Items {
		cart.Total += item.Subtotal
		cart.ItemCount += item.Quantity
	}
	return cart
}
