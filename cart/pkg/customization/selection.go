package customization

import (
	"slices"

	"github.com/Alturino/bakery/cart/pkg/store"
	productRes "github.com/Alturino/bakery/product/pkg/response"
)

func ProductOf(variant productRes.Variant) Product {
	return Product{
		ProductID: variant.ProductID,
		VariantID: variant.VariantID,
		Title:     variant.Title,
		Image:     variant.Image,
		BasePrice: variant.BasePrice,
		Category:  variant.Category,
	}
}

// SelectionOf rebuilds the selection a line item was priced with.
func SelectionOf(item store.LineItem) Selection {
	selection := Selection{Quantity: item.Variant.Quantity}
	if item.Customization == nil {
		return selection
	}
	selection.Size = item.Customization.Size
	selection.Layers = item.Customization.Layers
	selection.Flavour = item.Customization.Flavour
	selection.Upgrade = item.Customization.Upgrade
	selection.Toppings = slices.Clone(item.Customization.Toppings)
	selection.AddOns = slices.Clone(item.Customization.AddOns)
	selection.Message = item.Customization.Message
	return selection
}
