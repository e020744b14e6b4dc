package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
)

type Cart struct {
	SessionID        string                 `json:"sessionId"`
	Cart             []store.LineItem       `json:"cart"`
	CheckoutProgress store.CheckoutProgress `json:"checkoutProgress"`
	CartOpen         bool                   `json:"cartOpen"`
	Total            decimal.Decimal        `json:"total"`
	FormattedTotal   string                 `json:"formattedTotal"`
}

type Quote struct {
	Name              string           `json:"name"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	FormattedPrice    string           `json:"formattedPrice"`
	Quantity          int32            `json:"quantity"`
	Total             decimal.Decimal  `json:"total"`
	FormattedTotal    string           `json:"formattedTotal"`
	HasCustomizations bool             `json:"hasCustomizations"`
	IsValid           bool             `json:"isValid"`
	AvailableLayers   []pricing.Layers `json:"availableLayers"`
	Details           []store.Detail   `json:"details"`
	LineItem          store.LineItem   `json:"lineItem"`
}

func NewCart(sessionID string, state store.State) Cart {
	total := state.Total()
	return Cart{
		SessionID:        sessionID,
		Cart:             state.Cart,
		CheckoutProgress: state.CheckoutProgress,
		CartOpen:         state.CartOpen,
		Total:            total,
		FormattedTotal:   pricing.FormatPrice(total),
	}
}
