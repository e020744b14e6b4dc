package store

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/pricing"
)

type Variant struct {
	VariantID int64 `json:"variantId"`
	Quantity  int32 `json:"quantity"`
}

type LineItem struct {
	ProductID     int64           `json:"productId"`
	Variant       Variant         `json:"variant"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Customization *Customization  `json:"customization,omitempty"`
}

type Customization struct {
	Size       pricing.Size      `json:"size"`
	Layers     pricing.Layers    `json:"layers"`
	Flavour    pricing.Flavour   `json:"flavour"`
	Upgrade    pricing.Upgrade   `json:"upgrade"`
	Toppings   []pricing.Topping `json:"toppings"`
	AddOns     []pricing.AddOn   `json:"addOns"`
	Message    string            `json:"message"`
	BasePrice  decimal.Decimal   `json:"basePrice"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (i LineItem) IsCustomized() bool { return i.Customization != nil }

// EffectivePrice is the customization total when the item carries one,
// otherwise the item price.
func (i LineItem) EffectivePrice() decimal.Decimal {
	if i.Customization != nil {
		return i.Customization.TotalPrice
	}
	return i.Price
}

func (i LineItem) Total() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt32(i.Variant.Quantity))
}

func (i LineItem) clone() LineItem {
	if i.Customization != nil {
		c := i.Customization.clone()
		i.Customization = &c
	}
	return i
}

func (c Customization) clone() Customization {
	if c.Toppings != nil {
		c.Toppings = append([]pricing.Topping(nil), c.Toppings...)
	}
	if c.AddOns != nil {
		c.AddOns = append([]pricing.AddOn(nil), c.AddOns...)
	}
	return c
}

// Details renders the selections in a fixed order: Size, Layers, Flavour,
// Toppings, Add-Ons, Message. Unselected and empty values are left out.
func (c Customization) Details() []Detail {
	details := make([]Detail, 0, 6)
	if c.Size.IsSelected() {
		details = append(details, Detail{Label: "Size", Value: string(c.Size)})
	}
	if c.Layers.IsSelected() {
		details = append(details, Detail{Label: "Layers", Value: string(c.Layers)})
	}
	if c.Flavour.IsSelected() {
		details = append(details, Detail{Label: "Flavour", Value: string(c.Flavour)})
	}
	if len(c.Toppings) > 0 {
		toppings := make([]string, 0, len(c.Toppings))
		for _, t := range c.Toppings {
			toppings = append(toppings, string(t))
		}
		details = append(details, Detail{Label: "Toppings", Value: strings.Join(toppings, ", ")})
	}
	if len(c.AddOns) > 0 {
		addOns := make([]string, 0, len(c.AddOns))
		for _, a := range c.AddOns {
			addOns = append(addOns, string(a))
		}
		details = append(details, Detail{Label: "Add-Ons", Value: strings.Join(addOns, ", ")})
	}
	if message := strings.TrimSpace(c.Message); message != "" {
		details = append(details, Detail{Label: "Message", Value: `"` + message + `"`})
	}
	return details
}

// Total sums effective price times quantity over items. An empty cart totals
// zero.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
