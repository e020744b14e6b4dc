package request

import (
	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/order/pkg/response"
)

type Customization struct {
	Size     pricing.Size      `json:"size"`
	Layers   pricing.Layers    `json:"layers"`
	Flavour  pricing.Flavour   `json:"flavour"`
	Upgrade  pricing.Upgrade   `json:"upgrade"`
	Toppings []pricing.Topping `json:"toppings" validate:"omitempty,unique"`
	AddOns   []pricing.AddOn   `json:"addOns"   validate:"omitempty,unique"`
	Message  string            `json:"message"  validate:"max=200"`
}

type AddItem struct {
	VariantID     int64          `validate:"required,gt=0"         json:"variantId"`
	Quantity      int32          `validate:"required,gte=1,lte=99" json:"quantity"`
	Customization *Customization `validate:"omitempty"             json:"customization"`
}

type RemoveItem struct {
	VariantID  int64 `validate:"required,gt=0" json:"variantId"`
	Customized bool  `                         json:"customized"`
}

type Quote struct {
	VariantID     int64         `validate:"required,gt=0"          json:"variantId"`
	Quantity      int32         `validate:"omitempty,gte=1,lte=99" json:"quantity"`
	Customization Customization `                                  json:"customization"`
}

type CheckoutProgress struct {
	CheckoutProgress store.CheckoutProgress `validate:"required" json:"checkoutProgress"`
}

type CartOpen struct {
	CartOpen bool `json:"cartOpen"`
}

type Checkout struct {
	CustomerInfo  response.CustomerInfo `validate:"required"         json:"customerInfo"`
	PaymentMethod string                `validate:"omitempty,max=32" json:"paymentMethod"`
}
