package customization

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bakery/cart/pkg/pricing"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func cake() Product {
	return Product{
		ProductID: 3,
		VariantID: 11,
		Title:     "Birthday Cake",
		Image:     "/birthday-cake.jpg",
		BasePrice: decimal.NewFromInt(20000),
		Category:  pricing.CategoryCake,
	}
}

func smallChops() Product {
	return Product{
		ProductID: 4,
		VariantID: 12,
		Title:     "Small Chops Platter",
		Image:     "/small-chops.jpg",
		BasePrice: decimal.NewFromInt(15000),
		Category:  pricing.CategorySmallChops,
	}
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name      string
		product   Product
		selection Selection
		expected  int64
	}{
		{
			name:     "given no selection should return base price",
			product:  cake(),
			expected: 20000,
		},
		{
			name:    "given 8 inches and 2 layers should replace base price with tier",
			product: cake(),
			selection: Selection{
				Size:   pricing.Size8Inches,
				Layers: pricing.Layers2,
			},
			expected: 37000,
		},
		{
			name:    "given 8 inches and 2 layers with surcharges should add them to tier",
			product: cake(),
			selection: Selection{
				Size:     pricing.Size8Inches,
				Layers:   pricing.Layers2,
				Upgrade:  pricing.UpgradeOneToTwoLayers,
				Toppings: []pricing.Topping{pricing.ToppingMixed},
				AddOns:   []pricing.AddOn{pricing.AddOnCupcakeCandle, pricing.AddOnHeartBalloon},
			},
			expected: 37000 + 5000 + 3000 + 500 + 12000,
		},
		{
			name:    "given 6 inches 1 layer tiered cake mixed toppings and gold candle should return 32500",
			product: cake(),
			selection: Selection{
				Size:     pricing.Size6Inches,
				Layers:   pricing.Layers1,
				Upgrade:  pricing.UpgradeTieredCake,
				Toppings: []pricing.Topping{pricing.ToppingMixed},
				AddOns:   []pricing.AddOn{pricing.AddOnGoldCakeCandle},
			},
			expected: 32500,
		},
		{
			name:    "given size without layers should keep base price",
			product: cake(),
			selection: Selection{
				Size:    pricing.Size10Inches,
				Upgrade: pricing.UpgradeTieredCake,
			},
			expected: 35000,
		},
		{
			name:    "given non cake product should ignore tier",
			product: smallChops(),
			selection: Selection{
				Size:   pricing.Size10Inches,
				Layers: pricing.Layers3,
				AddOns: []pricing.AddOn{pricing.AddOnCupcakeCandle},
			},
			expected: 15500,
		},
		{
			name:    "given duplicate add ons should count once",
			product: cake(),
			selection: Selection{
				AddOns: []pricing.AddOn{pricing.AddOnRoseStem, pricing.AddOnRoseStem},
			},
			expected: 28500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := New(testContext(), tt.product)
			require.NoError(t, calc.Apply(tt.selection))
			actual := calc.TotalPrice()
			assert.True(t, decimal.NewFromInt(tt.expected).Equal(actual), "expected=%d actual=%s", tt.expected, actual)
		})
	}
}

func TestUnknownUpgradeFallsBackToZero(t *testing.T) {
	calc := New(testContext(), cake())
	calc.SetUpgrade(pricing.Upgrade("Golden Tier"))
	assert.True(t, decimal.NewFromInt(20000).Equal(calc.TotalPrice()))
}

func TestSetSizeResetsLayers(t *testing.T) {
	calc := New(testContext(), cake())
	calc.SetSize(pricing.Size6Inches)
	require.NoError(t, calc.SetLayers(pricing.Layers3))
	assert.True(t, decimal.NewFromInt(32500).Equal(calc.TotalPrice()))

	calc.SetSize(pricing.Size8Inches)
	assert.False(t, calc.LineItem().Customization.Layers.IsSelected())
	assert.True(t, decimal.NewFromInt(20000).Equal(calc.TotalPrice()))
}

func TestSetLayers(t *testing.T) {
	calc := New(testContext(), cake())
	err := calc.SetLayers(pricing.Layers1)
	assert.ErrorIs(t, err, ErrLayersUnavailable)

	calc.SetSize(pricing.Size10Inches)
	assert.NoError(t, calc.SetLayers(pricing.Layers2))
	assert.True(t, decimal.NewFromInt(40000).Equal(calc.TotalPrice()))
}

func TestToggle(t *testing.T) {
	calc := New(testContext(), cake())
	calc.ToggleAddOn(pricing.AddOnGoldCakeCandle)
	calc.ToggleAddOn(pricing.AddOnCupcakeCandle)
	calc.ToggleTopping(pricing.ToppingMixed)
	assert.True(t, decimal.NewFromInt(24500).Equal(calc.TotalPrice()))

	calc.ToggleAddOn(pricing.AddOnGoldCakeCandle)
	calc.ToggleTopping(pricing.ToppingMixed)
	assert.True(t, decimal.NewFromInt(20500).Equal(calc.TotalPrice()))
	assert.Equal(t, []pricing.AddOn{pricing.AddOnCupcakeCandle}, calc.LineItem().Customization.AddOns)
}

func TestMessageAndQuantity(t *testing.T) {
	calc := New(testContext(), cake())
	assert.NoError(t, calc.SetMessage(strings.Repeat("é", MaxMessageLength)))
	assert.ErrorIs(t, calc.SetMessage(strings.Repeat("a", MaxMessageLength+1)), ErrMessageTooLong)
	assert.ErrorIs(t, calc.SetQuantity(0), ErrInvalidQuantity)
	assert.NoError(t, calc.SetQuantity(3))
	assert.EqualValues(t, 3, calc.Quantity())
	assert.True(t, decimal.NewFromInt(20000).Equal(calc.TotalPrice()), "message is unpriced")
}

func TestClear(t *testing.T) {
	calc := New(testContext(), cake())
	require.NoError(t, calc.Apply(Selection{
		Size:     pricing.Size8Inches,
		Layers:   pricing.Layers3,
		Flavour:  pricing.FlavourChocolate,
		Upgrade:  pricing.UpgradeTieredCake,
		Toppings: []pricing.Topping{pricing.ToppingMixed},
		AddOns:   []pricing.AddOn{pricing.AddOnAcrylicAgeTopper},
		Message:  "Congrats",
		Quantity: 4,
	}))
	assert.True(t, calc.HasCustomizations())

	calc.Clear()
	assert.False(t, calc.HasCustomizations())
	assert.EqualValues(t, 1, calc.Quantity())
	assert.True(t, decimal.NewFromInt(20000).Equal(calc.TotalPrice()))
	assert.Nil(t, calc.LineItem().Customization)
}

func TestHasCustomizations(t *testing.T) {
	tests := []struct {
		name     string
		apply    func(calc *Calculator)
		expected bool
	}{
		{name: "given nothing should return false", apply: func(calc *Calculator) {}, expected: false},
		{name: "given none flavour should return false", apply: func(calc *Calculator) { calc.SetFlavour(pricing.FlavourNone) }, expected: false},
		{name: "given message only should return false", apply: func(calc *Calculator) { _ = calc.SetMessage("hi") }, expected: false},
		{name: "given size should return true", apply: func(calc *Calculator) { calc.SetSize(pricing.Size6Inches) }, expected: true},
		{name: "given flavour should return true", apply: func(calc *Calculator) { calc.SetFlavour(pricing.FlavourVanilla) }, expected: true},
		{name: "given upgrade should return true", apply: func(calc *Calculator) { calc.SetUpgrade(pricing.UpgradeTieredCake) }, expected: true},
		{name: "given topping should return true", apply: func(calc *Calculator) { calc.ToggleTopping(pricing.ToppingMixed) }, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := New(testContext(), cake())
			tt.apply(calc)
			assert.Equal(t, tt.expected, calc.HasCustomizations())
			assert.True(t, calc.IsValid())
		})
	}
}

func TestLineItem(t *testing.T) {
	tests := []struct {
		name                  string
		product               Product
		selection             Selection
		expectedName          string
		expectedPrice         int64
		expectedCustomization bool
	}{
		{
			name:                  "given cake without selection should use title only",
			product:               cake(),
			expectedName:          "Birthday Cake",
			expectedPrice:         20000,
			expectedCustomization: false,
		},
		{
			name:    "given cake with selections should embed them in name",
			product: cake(),
			selection: Selection{
				Size:     pricing.Size8Inches,
				Layers:   pricing.Layers3,
				Flavour:  pricing.FlavourRedVelvet,
				Upgrade:  pricing.UpgradeNone,
				Toppings: []pricing.Topping{pricing.ToppingMixed},
				AddOns:   []pricing.AddOn{pricing.AddOnGoldCakeCandle},
				Message:  "  Happy 30th  ",
			},
			expectedName:          "Birthday Cake (8 inches, 3 layers, Red Velvet, Mixed Toppings, Gold Cake Candle)",
			expectedPrice:         50000,
			expectedCustomization: true,
		},
		{
			name: "given product without title should fall back to product",
			product: func() Product {
				p := cake()
				p.Title = ""
				return p
			}(),
			selection:             Selection{Upgrade: pricing.UpgradeTieredCake},
			expectedName:          "Product (Tiered Cake)",
			expectedPrice:         35000,
			expectedCustomization: true,
		},
		{
			name:                  "given non cake with add on should not attach customization",
			product:               smallChops(),
			selection:             Selection{AddOns: []pricing.AddOn{pricing.AddOnCupcakeCandle}},
			expectedName:          "Small Chops Platter (Cupcake Candle)",
			expectedPrice:         15500,
			expectedCustomization: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := New(testContext(), tt.product)
			require.NoError(t, calc.Apply(tt.selection))

			item := calc.LineItem()
			assert.Equal(t, tt.expectedName, item.Name)
			assert.True(t, decimal.NewFromInt(tt.expectedPrice).Equal(item.Price), "price=%s", item.Price)
			assert.Equal(t, tt.product.VariantID, item.Variant.VariantID)
			assert.EqualValues(t, 1, item.Variant.Quantity)
			if !tt.expectedCustomization {
				assert.Nil(t, item.Customization)
				return
			}
			require.NotNil(t, item.Customization)
			assert.True(t, item.Customization.TotalPrice.Equal(item.Price))
			assert.True(t, item.Customization.BasePrice.Equal(tt.product.BasePrice))
			assert.Equal(t, strings.TrimSpace(tt.selection.Message), item.Customization.Message)
		})
	}
}
