package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	"github.com/Alturino/bakery/order/pkg/request"
	"github.com/Alturino/bakery/order/pkg/response"
)

func customizedCake(quantity int32) store.LineItem {
	return store.LineItem{
		ProductID: 1,
		Variant:   store.Variant{VariantID: cakeVariantID, Quantity: quantity},
		Name:      "Red Velvet Celebration Cake (6 inches, 3 layers, Mixed Toppings, Gold Cake Candle)",
		Price:     decimal.NewFromInt(36500),
		Image:     "/images/red-velvet.jpg",
		Customization: &store.Customization{
			Size:       pricing.Size6Inches,
			Layers:     pricing.Layers3,
			Flavour:    pricing.FlavourNone,
			Upgrade:    pricing.UpgradeNone,
			Toppings:   []pricing.Topping{pricing.ToppingMixed},
			AddOns:     []pricing.AddOn{pricing.AddOnGoldCakeCandle},
			Message:    "Happy birthday Ada",
			BasePrice:  decimal.NewFromInt(13500),
			TotalPrice: decimal.NewFromInt(36500),
		},
	}
}

func smallChops(quantity int32) store.LineItem {
	return store.LineItem{
		ProductID: 4,
		Variant:   store.Variant{VariantID: chopsVariantID, Quantity: quantity},
		Name:      "Small Chops Platter - 20 pieces",
		Price:     decimal.NewFromInt(15000),
		Image:     "/images/small-chops.jpg",
	}
}

func customerInfo() response.CustomerInfo {
	return response.CustomerInfo{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Phone:    "+2348012345678",
		Address:  "12 Allen Avenue",
		City:     "Ikeja",
		State:    "Lagos",
	}
}

func TestValidateTotal(t *testing.T) {
	tests := []struct {
		name        string
		items       []store.LineItem
		submitted   decimal.Decimal
		expected    decimal.Decimal
		expectedErr error
	}{
		{
			name:        "given no items should return empty cart",
			items:       nil,
			submitted:   decimal.Zero,
			expectedErr: inErrors.ErrEmptyCart,
		},
		{
			name:      "given matching total should return total",
			items:     []store.LineItem{customizedCake(2), smallChops(1)},
			submitted: decimal.NewFromInt(88000),
			expected:  decimal.NewFromInt(88000),
		},
		{
			name:      "given same amount with different scale should return total",
			items:     []store.LineItem{smallChops(1)},
			submitted: decimal.RequireFromString("15000.00"),
			expected:  decimal.NewFromInt(15000),
		},
		{
			name:        "given lower total should return total mismatch",
			items:       []store.LineItem{customizedCake(2), smallChops(1)},
			submitted:   decimal.NewFromInt(1000),
			expectedErr: inErrors.ErrTotalMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := validateTotal(tt.items, tt.submitted)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(total), "expected %s got %s", tt.expected, total)
		})
	}
}

func TestReprice(t *testing.T) {
	svc := OrderService{catalog: newCatalog()}

	tampered := customizedCake(1)
	tampered.Price = decimal.NewFromInt(100)
	tampered.Customization.TotalPrice = decimal.NewFromInt(100)

	renamed := smallChops(1)
	renamed.Name = "Free platter"

	tooLong := customizedCake(1)
	tooLong.Customization.Message = strings.Repeat("a", 201)

	tests := []struct {
		name         string
		items        []store.LineItem
		expectedName []string
		expectedErr  error
	}{
		{
			name:         "given catalog prices should keep items",
			items:        []store.LineItem{customizedCake(2), smallChops(3)},
			expectedName: []string{customizedCake(2).Name, smallChops(3).Name},
		},
		{
			name:         "given client name should use catalog name",
			items:        []store.LineItem{renamed},
			expectedName: []string{"Small Chops Platter - 20 pieces"},
		},
		{
			name:        "given tampered price should return price mismatch",
			items:       []store.LineItem{tampered},
			expectedErr: inErrors.ErrPriceMismatch,
		},
		{
			name:        "given unknown variant should return product not found",
			items:       []store.LineItem{{Variant: store.Variant{VariantID: 99, Quantity: 1}}},
			expectedErr: inErrors.ErrProductNotFound,
		},
		{
			name:        "given message over limit should return invalid customization",
			items:       []store.LineItem{tooLong},
			expectedErr: inErrors.ErrInvalidCustomization,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.reprice(testContext(), tt.items)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, len(tt.expectedName))
			for i, item := range items {
				assert.Equal(t, tt.expectedName[i], item.Name)
				assert.Equal(t, tt.items[i].Variant.Quantity, item.Variant.Quantity)
				assert.True(t, tt.items[i].EffectivePrice().Equal(item.EffectivePrice()))
			}
		})
	}
}

func TestOrderItemParams(t *testing.T) {
	orderID := uuid.New()
	args, err := orderItemParams(orderID, []store.LineItem{customizedCake(2), smallChops(1)})
	require.NoError(t, err)
	require.Len(t, args, 2)

	assert.Equal(t, orderID, args[0].OrderID)
	assert.Equal(t, int32(2), args[0].Quantity)
	require.NotNil(t, args[0].Customization)
	stored := store.Customization{}
	require.NoError(t, json.Unmarshal(args[0].Customization, &stored))
	assert.Equal(t, pricing.Size6Inches, stored.Size)
	assert.Equal(t, "Happy birthday Ada", stored.Message)

	assert.Nil(t, args[1].Customization)
	assert.NotEqual(t, args[0].ID, args[1].ID)
}

func TestOrderService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres and redis container test in short mode")
	}

	c := testContext()
	_, redisClient, svc := setup(t, c)

	pubsub := redisClient.Subscribe(c, constants.CHANNEL_ORDER_CREATED)
	t.Cleanup(func() { pubsub.Close() })
	_, err := pubsub.Receive(c)
	require.NoError(t, err)

	userID := uuid.New()
	created, err := svc.CreateOrder(c, userID, request.CreateOrder{
		Items:        []store.LineItem{customizedCake(2), smallChops(1)},
		Total:        decimal.NewFromInt(88000),
		CustomerInfo: customerInfo(),
	})
	require.NoError(t, err)

	t.Run("given created order should default status and payment method", func(t *testing.T) {
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, response.StatusPending, created.Status)
		assert.Equal(t, request.DefaultPaymentMethod, created.PaymentMethod)
		assert.True(t, decimal.NewFromInt(88000).Equal(created.Total))
		assert.Equal(t, customerInfo(), created.CustomerInfo)
		require.Len(t, created.OrderItems, 2)
	})

	t.Run("given created order should keep customization", func(t *testing.T) {
		var cake *response.OrderItem
		for i := range created.OrderItems {
			if created.OrderItems[i].VariantID == cakeVariantID {
				cake = &created.OrderItems[i]
			}
		}
		require.NotNil(t, cake)
		require.NotNil(t, cake.Customization)
		assert.Equal(t, pricing.Layers3, cake.Customization.Layers)
		assert.True(t, decimal.NewFromInt(36500).Equal(cake.Price))
		assert.True(t, decimal.NewFromInt(73000).Equal(cake.LineItem().Total()))
	})

	t.Run("given created order should publish order created", func(t *testing.T) {
		select {
		case msg := <-pubsub.Channel():
			published := response.Order{}
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &published))
			assert.Equal(t, created.ID, published.ID)
		case <-time.After(5 * time.Second):
			t.Fatal("order created was not published")
		}
	})

	t.Run("given owner should find order", func(t *testing.T) {
		order, err := svc.FindOrderById(c, request.FindOrderById{UserID: userID, OrderID: created.ID})
		require.NoError(t, err)
		assert.Equal(t, created.ID, order.ID)
		assert.Len(t, order.OrderItems, 2)
	})

	t.Run("given other user should return forbidden", func(t *testing.T) {
		_, err := svc.FindOrderById(c, request.FindOrderById{UserID: uuid.New(), OrderID: created.ID})
		assert.ErrorIs(t, err, inErrors.ErrOrderForbidden)
	})

	t.Run("given unknown order should return not found", func(t *testing.T) {
		_, err := svc.FindOrderById(c, request.FindOrderById{UserID: userID, OrderID: uuid.New()})
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})

	t.Run("given user should list orders", func(t *testing.T) {
		orders, err := svc.FindOrders(c, request.FindOrders{UserID: userID})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, created.ID, orders[0].ID)
	})

	t.Run("given valid status should update order and invalidate cache", func(t *testing.T) {
		updated, err := svc.UpdateOrderStatus(c, request.UpdateOrderStatus{
			UserID:  userID,
			OrderID: created.ID,
			Status:  response.StatusProcessing,
		})
		require.NoError(t, err)
		assert.Equal(t, response.StatusProcessing, updated.Status)

		order, err := svc.FindOrderById(c, request.FindOrderById{UserID: userID, OrderID: created.ID})
		require.NoError(t, err)
		assert.Equal(t, response.StatusProcessing, order.Status)
	})

	t.Run("given unknown status should return invalid order status", func(t *testing.T) {
		_, err := svc.UpdateOrderStatus(c, request.UpdateOrderStatus{
			UserID:  userID,
			OrderID: created.ID,
			Status:  response.Status("shipped"),
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidOrderStatus)
	})

	t.Run("given other user should not update status", func(t *testing.T) {
		_, err := svc.UpdateOrderStatus(c, request.UpdateOrderStatus{
			UserID:  uuid.New(),
			OrderID: created.ID,
			Status:  response.StatusCancelled,
		})
		assert.ErrorIs(t, err, inErrors.ErrOrderForbidden)
	})

	t.Run("given mismatched total should not create order", func(t *testing.T) {
		_, err := svc.CreateOrder(c, userID, request.CreateOrder{
			Items:        []store.LineItem{smallChops(1)},
			Total:        decimal.NewFromInt(1),
			CustomerInfo: customerInfo(),
		})
		assert.ErrorIs(t, err, inErrors.ErrTotalMismatch)

		orders, err := svc.FindOrders(c, request.FindOrders{UserID: userID})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}
