package customization

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/internal/constants"
)

const (
	MaxMessageLength = 200
	defaultImage     = "/placeholder-cake.jpg"
	defaultTitle     = "Product"
)

var (
	ErrLayersUnavailable = errors.New("layers unavailable for selected size")
	ErrMessageTooLong    = errors.New("message too long")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// requireSizeAndLayers gates IsValid. Customization stays optional.
const requireSizeAndLayers = false

type Product struct {
	ProductID int64
	VariantID int64
	Title     string
	Image     string
	BasePrice decimal.Decimal
	Category  pricing.Category
}

// Selection is a full set of options applied at once.
type Selection struct {
	Size     pricing.Size
	Layers   pricing.Layers
	Flavour  pricing.Flavour
	Upgrade  pricing.Upgrade
	Toppings []pricing.Topping
	AddOns   []pricing.AddOn
	Message  string
	Quantity int32
}

// Calculator derives the unit price of a product from its base price and the
// selected options. The total is recomputed after every change.
type Calculator struct {
	product    Product
	size       pricing.Size
	layers     pricing.Layers
	flavour    pricing.Flavour
	upgrade    pricing.Upgrade
	toppings   []pricing.Topping
	addOns     []pricing.AddOn
	message    string
	quantity   int32
	totalPrice decimal.Decimal
	logger     zerolog.Logger
}

func New(c context.Context, product Product) *Calculator {
	calc := &Calculator{
		product: product,
		logger: zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "customization Calculator").
			Int64(constants.KEY_VARIANT_ID, product.VariantID).
			Logger(),
	}
	calc.Clear()
	return calc
}

// Clear resets every option and the quantity.
func (calc *Calculator) Clear() {
	calc.size = pricing.SizeUnselected
	calc.layers = pricing.LayersUnselected
	calc.flavour = pricing.FlavourNone
	calc.upgrade = pricing.UpgradeNone
	calc.toppings = nil
	calc.addOns = nil
	calc.message = ""
	calc.quantity = 1
	calc.recompute()
}

// SetSize selects a size and resets the layers.
func (calc *Calculator) SetSize(size pricing.Size) {
	calc.size = size
	calc.layers = pricing.LayersUnselected
	calc.recompute()
}

func (calc *Calculator) SetLayers(layers pricing.Layers) error {
	if layers.IsSelected() && !slices.Contains(pricing.LayersFor(calc.size), layers) {
		return fmt.Errorf("%w: size=%q layers=%q", ErrLayersUnavailable, calc.size, layers)
	}
	calc.layers = layers
	calc.recompute()
	return nil
}

func (calc *Calculator) SetFlavour(flavour pricing.Flavour) {
	if flavour == "" {
		flavour = pricing.FlavourNone
	}
	calc.flavour = flavour
	calc.recompute()
}

func (calc *Calculator) SetUpgrade(upgrade pricing.Upgrade) {
	if upgrade == "" {
		upgrade = pricing.UpgradeNone
	}
	calc.upgrade = upgrade
	calc.recompute()
}

// ToggleTopping adds the topping when absent and removes it otherwise.
func (calc *Calculator) ToggleTopping(topping pricing.Topping) {
	calc.toppings = toggle(calc.toppings, topping)
	calc.recompute()
}

// ToggleAddOn adds the add-on when absent and removes it otherwise.
func (calc *Calculator) ToggleAddOn(addOn pricing.AddOn) {
	calc.addOns = toggle(calc.addOns, addOn)
	calc.recompute()
}

func (calc *Calculator) SetMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return fmt.Errorf("%w: length=%d", ErrMessageTooLong, utf8.RuneCountInString(message))
	}
	calc.message = message
	return nil
}

func (calc *Calculator) SetQuantity(quantity int32) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity=%d", ErrInvalidQuantity, quantity)
	}
	calc.quantity = quantity
	return nil
}

// Apply clears the calculator and applies selection in order. Duplicate
// toppings and add-ons are kept once.
func (calc *Calculator) Apply(selection Selection) error {
	calc.Clear()
	calc.SetSize(selection.Size)
	if err := calc.SetLayers(selection.Layers); err != nil {
		return err
	}
	calc.SetFlavour(selection.Flavour)
	calc.SetUpgrade(selection.Upgrade)
	for _, t := range selection.Toppings {
		if !slices.Contains(calc.toppings, t) {
			calc.toppings = append(calc.toppings, t)
		}
	}
	for _, a := range selection.AddOns {
		if !slices.Contains(calc.addOns, a) {
			calc.addOns = append(calc.addOns, a)
		}
	}
	if err := calc.SetMessage(selection.Message); err != nil {
		return err
	}
	if selection.Quantity != 0 {
		if err := calc.SetQuantity(selection.Quantity); err != nil {
			return err
		}
	}
	calc.recompute()
	return nil
}

func (calc *Calculator) TotalPrice() decimal.Decimal { return calc.totalPrice }

func (calc *Calculator) Quantity() int32 { return calc.quantity }

func (calc *Calculator) HasCustomizations() bool {
	return calc.size.IsSelected() ||
		calc.layers.IsSelected() ||
		calc.flavour.IsSelected() ||
		calc.upgrade.IsSelected() ||
		len(calc.toppings) > 0 ||
		len(calc.addOns) > 0
}

// IsValid always holds unless the size and layers requirement is switched on.
func (calc *Calculator) IsValid() bool {
	if !requireSizeAndLayers {
		return true
	}
	return calc.size.IsSelected() && calc.layers.IsSelected()
}

// Name is the product title followed by the selected options in parentheses.
func (calc *Calculator) Name() string {
	title := calc.product.Title
	if title == "" {
		title = defaultTitle
	}

	parts := make([]string, 0, 4+len(calc.toppings)+len(calc.addOns))
	if calc.size.IsSelected() {
		parts = append(parts, string(calc.size))
	}
	if calc.layers.IsSelected() {
		parts = append(parts, string(calc.layers))
	}
	if calc.flavour.IsSelected() {
		parts = append(parts, string(calc.flavour))
	}
	if calc.upgrade.IsSelected() {
		parts = append(parts, string(calc.upgrade))
	}
	for _, t := range calc.toppings {
		parts = append(parts, string(t))
	}
	for _, a := range calc.addOns {
		parts = append(parts, string(a))
	}
	if len(parts) == 0 {
		return title
	}
	return title + " (" + strings.Join(parts, ", ") + ")"
}

// LineItem builds the cart entry for the current selection. Only cake products
// with at least one selection carry a customization.
func (calc *Calculator) LineItem() store.LineItem {
	image := calc.product.Image
	if image == "" {
		image = defaultImage
	}

	item := store.LineItem{
		ProductID: calc.product.ProductID,
		Variant: store.Variant{
			VariantID: calc.product.VariantID,
			Quantity:  calc.quantity,
		},
		Name:  calc.Name(),
		Price: calc.totalPrice,
		Image: image,
	}
	if calc.product.Category.Customizable() && calc.HasCustomizations() {
		item.Customization = &store.Customization{
			Size:       calc.size,
			Layers:     calc.layers,
			Flavour:    calc.flavour,
			Upgrade:    calc.upgrade,
			Toppings:   slices.Clone(calc.toppings),
			AddOns:     slices.Clone(calc.addOns),
			Message:    strings.TrimSpace(calc.message),
			BasePrice:  calc.product.BasePrice,
			TotalPrice: calc.totalPrice,
		}
	}
	return item
}

func (calc *Calculator) recompute() {
	price := calc.product.BasePrice

	if calc.product.Category.Customizable() && calc.size.IsSelected() && calc.layers.IsSelected() {
		if tier, ok := pricing.TierPrice(calc.size, calc.layers); ok {
			price = tier
		} else {
			calc.logger.Warn().
				Str("size", string(calc.size)).
				Str("layers", string(calc.layers)).
				Msg("size and layers not in price table, keeping base price")
		}
	}

	surcharge, ok := pricing.UpgradeSurcharge(calc.upgrade)
	if !ok {
		calc.logger.Warn().Str("upgrade", string(calc.upgrade)).Msg("unknown upgrade, adding no surcharge")
	}
	price = price.Add(surcharge)

	toppings, unknownToppings := pricing.ToppingsSurcharge(calc.toppings)
	if len(unknownToppings) > 0 {
		calc.logger.Warn().Interface("toppings", unknownToppings).Msg("unknown toppings, adding no surcharge")
	}
	price = price.Add(toppings)

	addOns, unknownAddOns := pricing.AddOnsSurcharge(calc.addOns)
	if len(unknownAddOns) > 0 {
		calc.logger.Warn().Interface("addOns", unknownAddOns).Msg("unknown add ons, adding no surcharge")
	}
	price = price.Add(addOns)

	calc.totalPrice = price
}

func toggle[T comparable](selected []T, v T) []T {
	if i := slices.Index(selected, v); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}
	return append(slices.Clone(selected), v)
}
