package store

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type CheckoutProgress string

const (
	CheckoutProgressCartPage         CheckoutProgress = "cart-page"
	CheckoutProgressPaymentPage      CheckoutProgress = "payment-page"
	CheckoutProgressConfirmationPage CheckoutProgress = "confirmation-page"
)

func (p CheckoutProgress) Valid() bool {
	switch p {
	case CheckoutProgressCartPage, CheckoutProgressPaymentPage, CheckoutProgressConfirmationPage:
		return true
	}
	return false
}

func (p *CheckoutProgress) UnmarshalText(text []byte) error {
	v := CheckoutProgress(text)
	if !v.Valid() {
		return fmt.Errorf("unknown checkout progress=%q", v)
	}
	*p = v
	return nil
}

type State struct {
	Cart             []LineItem       `json:"cart"`
	CheckoutProgress CheckoutProgress `json:"checkoutProgress"`
	CartOpen         bool             `json:"cartOpen"`
}

func NewState() State {
	return State{
		Cart:             []LineItem{},
		CheckoutProgress: CheckoutProgressCartPage,
		CartOpen:         false,
	}
}

func (s State) Total() decimal.Decimal { return Total(s.Cart) }

func (s State) clone() State {
	cart := make([]LineItem, 0, len(s.Cart))
	for _, item := range s.Cart {
		cart = append(cart, item.clone())
	}
	s.Cart = cart
	return s
}

// sanitize drops entries a healthy cart can never hold.
func (s State) sanitize() State {
	cart := make([]LineItem, 0, len(s.Cart))
	for _, item := range s.Cart {
		if item.Variant.Quantity <= 0 {
			continue
		}
		cart = append(cart, item)
	}
	s.Cart = cart
	if !s.CheckoutProgress.Valid() {
		s.CheckoutProgress = CheckoutProgressCartPage
	}
	return s
}
