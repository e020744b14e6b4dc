package response

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/store"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSucceeded, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s *Status) UnmarshalText(text []byte) error {
	v := Status(text)
	if !v.Valid() {
		return fmt.Errorf("unknown order status=%q", v)
	}
	*s = v
	return nil
}

type CustomerInfo struct {
	FullName   string `json:"fullName"   validate:"required,max=255"`
	Email      string `json:"email"      validate:"required,email"`
	Phone      string `json:"phone"      validate:"required,max=32"`
	Whatsapp   string `json:"whatsapp"   validate:"omitempty,max=32"`
	Address    string `json:"address"    validate:"required"`
	City       string `json:"city"       validate:"required"`
	State      string `json:"state"      validate:"required"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=16"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Status        Status          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	CustomerInfo  CustomerInfo    `json:"customerInfo"`
	OrderItems    []OrderItem     `json:"orderItems"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID            uuid.UUID            `json:"id"`
	OrderID       uuid.UUID            `json:"orderId"`
	ProductID     int64                `json:"productId"`
	VariantID     int64                `json:"variantId"`
	Name          string               `json:"name"`
	Image         string               `json:"image"`
	Quantity      int32                `json:"quantity"`
	Price         decimal.Decimal      `json:"price"`
	Customization *store.Customization `json:"customization,omitempty"`
}

func (i OrderItem) LineItem() store.LineItem {
	return store.LineItem{
		ProductID:     i.ProductID,
		Variant:       store.Variant{VariantID: i.VariantID, Quantity: i.Quantity},
		Name:          i.Name,
		Price:         i.Price,
		Image:         i.Image,
		Customization: i.Customization,
	}
}

func (o Order) LineItems() []store.LineItem {
	items := make([]store.LineItem, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, item.LineItem())
	}
	return items
}
