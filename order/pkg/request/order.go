package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/order/pkg/response"
)

const DefaultPaymentMethod = "palmpay"

type CreateOrder struct {
	Items         []store.LineItem      `validate:"required,gt=0"    json:"items"`
	Total         decimal.Decimal       `validate:"price"            json:"total"`
	CustomerInfo  response.CustomerInfo `validate:"required"         json:"customerInfo"`
	PaymentMethod string                `validate:"omitempty,max=32" json:"paymentMethod"`
}

type FindOrderById struct {
	UserID  uuid.UUID `validate:"required"`
	OrderID uuid.UUID `validate:"required"`
}

type FindOrders struct {
	UserID uuid.UUID `validate:"required"`
}

type UpdateOrderStatus struct {
	UserID  uuid.UUID       `validate:"required" json:"-"`
	OrderID uuid.UUID       `validate:"required" json:"-"`
	Status  response.Status `validate:"required" json:"status"`
}
