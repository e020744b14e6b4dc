package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/request"
	"github.com/Alturino/bakery/cart/pkg/store"
	inErrors "github.com/Alturino/bakery/internal/errors"
	orderReq "github.com/Alturino/bakery/order/pkg/request"
	orderRes "github.com/Alturino/bakery/order/pkg/response"
	productRes "github.com/Alturino/bakery/product/pkg/response"
)

type memoryPersister struct {
	mu     sync.Mutex
	states map[string]store.State
}

func (p *memoryPersister) Save(c context.Context, key string, state store.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[key] = state
	return nil
}

func (p *memoryPersister) Load(c context.Context, key string) (store.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.states[key]
	if !ok {
		return store.State{}, store.ErrNoState
	}
	return state, nil
}

type fakeCatalog map[int64]productRes.Variant

func (f fakeCatalog) FindVariantById(c context.Context, variantID int64) (productRes.Variant, error) {
	variant, ok := f[variantID]
	if !ok {
		return productRes.Variant{}, inErrors.ErrProductNotFound
	}
	return variant, nil
}

type fakeOrders struct {
	err      error
	received []orderReq.CreateOrder
	tokens   []string
}

func (f *fakeOrders) CreateOrder(c context.Context, token string, param orderReq.CreateOrder) (orderRes.Order, error) {
	f.received = append(f.received, param)
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return orderRes.Order{}, f.err
	}
	return orderRes.Order{
		ID:            uuid.New(),
		Status:        orderRes.StatusPending,
		Total:         param.Total,
		PaymentMethod: param.PaymentMethod,
		CustomerInfo:  param.CustomerInfo,
	}, nil
}

const (
	cakeVariantID  int64 = 11
	chopsVariantID int64 = 12
	sessionID            = "0b5b7a4e-3c1e-4f55-9b0c-4d5a8f1e2a10"
)

func catalog() fakeCatalog {
	return fakeCatalog{
		cakeVariantID: {
			ProductID: 3,
			VariantID: cakeVariantID,
			Title:     "Birthday Cake",
			Image:     "/birthday-cake.jpg",
			BasePrice: decimal.NewFromInt(20000),
			Category:  pricing.CategoryCake,
		},
		chopsVariantID: {
			ProductID: 4,
			VariantID: chopsVariantID,
			Title:     "Small Chops Platter",
			Image:     "/small-chops.jpg",
			BasePrice: decimal.NewFromInt(5000),
			Category:  pricing.CategorySmallChops,
		},
	}
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func customerInfo() orderRes.CustomerInfo {
	return orderRes.CustomerInfo{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Phone:    "08030000000",
		Address:  "12 Admiralty Way",
		City:     "Lekki",
		State:    "Lagos",
	}
}

func newService(orders *fakeOrders) (CartService, *memoryPersister) {
	persister := &memoryPersister{states: map[string]store.State{}}
	return NewCartService(persister, catalog(), orders), persister
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name                string
		params              []request.AddItem
		expectedItems       int
		expectedTotal       int64
		expectedCustomizeds []bool
		expectedErr         error
	}{
		{
			name: "given plain items of same variant should merge them",
			params: []request.AddItem{
				{VariantID: chopsVariantID, Quantity: 1},
				{VariantID: chopsVariantID, Quantity: 2},
			},
			expectedItems:       1,
			expectedTotal:       15000,
			expectedCustomizeds: []bool{false},
		},
		{
			name: "given customized cake twice should keep separate entries",
			params: []request.AddItem{
				{
					VariantID: cakeVariantID,
					Quantity:  1,
					Customization: &request.Customization{
						Size:   pricing.Size8Inches,
						Layers: pricing.Layers3,
					},
				},
				{
					VariantID: cakeVariantID,
					Quantity:  1,
					Customization: &request.Customization{
						Size:   pricing.Size8Inches,
						Layers: pricing.Layers3,
					},
				},
			},
			expectedItems:       2,
			expectedTotal:       92000,
			expectedCustomizeds: []bool{true, true},
		},
		{
			name: "given unknown variant should return error product not found",
			params: []request.AddItem{
				{VariantID: 404, Quantity: 1},
			},
			expectedErr: inErrors.ErrProductNotFound,
		},
		{
			name: "given layers without size should return error invalid customization",
			params: []request.AddItem{
				{
					VariantID:     cakeVariantID,
					Quantity:      1,
					Customization: &request.Customization{Layers: pricing.Layers2},
				},
			},
			expectedErr: inErrors.ErrInvalidCustomization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			svc, _ := newService(&fakeOrders{})

			var err error
			for _, param := range tt.params {
				_, err = svc.AddItem(c, sessionID, param)
				if err != nil {
					break
				}
			}
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)

			cart, err := svc.FindCart(c, sessionID)
			require.NoError(t, err)
			require.Len(t, cart.Cart, tt.expectedItems)
			assert.True(t, decimal.NewFromInt(tt.expectedTotal).Equal(cart.Total), "total=%s", cart.Total)
			for i, customized := range tt.expectedCustomizeds {
				assert.Equal(t, customized, cart.Cart[i].IsCustomized())
			}
		})
	}
}

func TestAddItemIgnoresClientPrice(t *testing.T) {
	c := testContext()
	svc, persister := newService(&fakeOrders{})

	_, err := svc.AddItem(c, sessionID, request.AddItem{
		VariantID: cakeVariantID,
		Quantity:  2,
		Customization: &request.Customization{
			Size:     pricing.Size6Inches,
			Layers:   pricing.Layers1,
			Upgrade:  pricing.UpgradeTieredCake,
			Toppings: []pricing.Topping{pricing.ToppingMixed},
			AddOns:   []pricing.AddOn{pricing.AddOnGoldCakeCandle},
			Message:  "Happy Birthday",
		},
	})
	require.NoError(t, err)

	state := persister.states["cart-storage:"+sessionID]
	require.Len(t, state.Cart, 1)
	item := state.Cart[0]
	assert.Equal(
		t,
		"Birthday Cake (6 inches, 1 layer, Tiered Cake, Mixed Toppings, Gold Cake Candle)",
		item.Name,
	)
	assert.True(t, decimal.NewFromInt(32500).Equal(item.EffectivePrice()))
	assert.True(t, decimal.NewFromInt(65000).Equal(state.Total()))
	assert.Equal(t, "Happy Birthday", item.Customization.Message)
}

func TestRemoveItem(t *testing.T) {
	c := testContext()
	svc, _ := newService(&fakeOrders{})

	_, err := svc.AddItem(c, sessionID, request.AddItem{VariantID: cakeVariantID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(c, sessionID, request.AddItem{
		VariantID:     cakeVariantID,
		Quantity:      1,
		Customization: &request.Customization{Flavour: pricing.FlavourVanilla},
	})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(c, sessionID, request.RemoveItem{VariantID: cakeVariantID, Customized: true})
	require.NoError(t, err)
	require.Len(t, cart.Cart, 1)
	assert.False(t, cart.Cart[0].IsCustomized())
	assert.EqualValues(t, 2, cart.Cart[0].Variant.Quantity)

	cart, err = svc.RemoveItem(c, sessionID, request.RemoveItem{VariantID: cakeVariantID})
	require.NoError(t, err)
	require.Len(t, cart.Cart, 1)
	assert.EqualValues(t, 1, cart.Cart[0].Variant.Quantity)
}

func TestQuote(t *testing.T) {
	c := testContext()
	svc, persister := newService(&fakeOrders{})

	quote, err := svc.Quote(c, request.Quote{
		VariantID: cakeVariantID,
		Quantity:  2,
		Customization: request.Customization{
			Size:     pricing.Size8Inches,
			Layers:   pricing.Layers2,
			Toppings: []pricing.Topping{pricing.ToppingMixed},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40000).Equal(quote.UnitPrice))
	assert.True(t, decimal.NewFromInt(80000).Equal(quote.Total))
	assert.Equal(t, "₦40,000", quote.FormattedPrice)
	assert.Equal(t, "₦80,000", quote.FormattedTotal)
	assert.True(t, quote.HasCustomizations)
	assert.True(t, quote.IsValid)
	assert.Equal(t, []pricing.Layers{pricing.Layers1, pricing.Layers2, pricing.Layers3}, quote.AvailableLayers)
	assert.Equal(t, []store.Detail{
		{Label: "Size", Value: "8 inches"},
		{Label: "Layers", Value: "2 layers"},
		{Label: "Toppings", Value: "Mixed Toppings"},
	}, quote.Details)
	assert.Empty(t, persister.states)
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name             string
		orderErr         error
		addItem          bool
		expectedErr      error
		expectedItems    int
		expectedProgress store.CheckoutProgress
	}{
		{
			name:             "given accepted order should clear cart and move to confirmation page",
			addItem:          true,
			expectedItems:    0,
			expectedProgress: store.CheckoutProgressConfirmationPage,
		},
		{
			name:             "given rejected order should keep cart and stage",
			orderErr:         inErrors.ErrOrderRejected,
			addItem:          true,
			expectedErr:      inErrors.ErrOrderRejected,
			expectedItems:    1,
			expectedProgress: store.CheckoutProgressPaymentPage,
		},
		{
			name:             "given empty cart should return error empty cart",
			addItem:          false,
			expectedErr:      inErrors.ErrEmptyCart,
			expectedItems:    0,
			expectedProgress: store.CheckoutProgressPaymentPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			orders := &fakeOrders{err: tt.orderErr}
			svc, _ := newService(orders)

			if tt.addItem {
				_, err := svc.AddItem(c, sessionID, request.AddItem{
					VariantID: cakeVariantID,
					Quantity:  1,
					Customization: &request.Customization{
						Size:   pricing.Size8Inches,
						Layers: pricing.Layers3,
					},
				})
				require.NoError(t, err)
			}
			_, err := svc.SetCheckoutProgress(c, sessionID, store.CheckoutProgressPaymentPage)
			require.NoError(t, err)

			order, err := svc.Checkout(c, sessionID, "token", request.Checkout{CustomerInfo: customerInfo()})
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, order.ID)
				require.Len(t, orders.received, 1)
				assert.True(t, decimal.NewFromInt(46000).Equal(orders.received[0].Total))
				assert.Equal(t, orderReq.DefaultPaymentMethod, orders.received[0].PaymentMethod)
				assert.Equal(t, []string{"token"}, orders.tokens)
			}

			cart, err := svc.FindCart(c, sessionID)
			require.NoError(t, err)
			assert.Len(t, cart.Cart, tt.expectedItems)
			assert.Equal(t, tt.expectedProgress, cart.CheckoutProgress)
		})
	}
}

func TestEmptySession(t *testing.T) {
	c := testContext()
	svc, _ := newService(&fakeOrders{})

	_, err := svc.FindCart(c, "")
	assert.ErrorIs(t, err, inErrors.ErrEmptySession)
	_, err = svc.ClearCart(c, "")
	assert.ErrorIs(t, err, inErrors.ErrEmptySession)
	_, err = svc.SetCartOpen(c, "", true)
	assert.ErrorIs(t, err, inErrors.ErrEmptySession)
}

func TestSessionLocks(t *testing.T) {
	c := testContext()
	svc, _ := newService(&fakeOrders{})

	wg := sync.WaitGroup{}
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(c, sessionID, request.AddItem{VariantID: chopsVariantID, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := svc.FindCart(c, sessionID)
	require.NoError(t, err)
	require.Len(t, cart.Cart, 1)
	assert.EqualValues(t, 20, cart.Cart[0].Variant.Quantity)
	assert.Empty(t, svc.locks.locks)
}
