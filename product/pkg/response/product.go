package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/pricing"
)

type Product struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    pricing.Category `json:"category"`
	Variants    []Variant        `json:"variants"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Variant carries what the cart needs to price a purchasable variant.
type Variant struct {
	ProductID int64            `json:"productId"`
	VariantID int64            `json:"variantId"`
	Title     string           `json:"title"`
	Image     string           `json:"image"`
	BasePrice decimal.Decimal  `json:"basePrice"`
	Category  pricing.Category `json:"category"`
}
