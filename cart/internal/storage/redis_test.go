package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
)

func setup(t *testing.T, c context.Context) *redis.Client {
	redisContainer, err := testRedis.Run(c, "redis/redis-stack-server:7.4.0-v1")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	t.Cleanup(func() { redisClient.Close() })
	return redisClient
}

func TestRedisPersister(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	redisClient := setup(t, c)
	persister := NewRedisPersister(redisClient)

	t.Run("given missing key should return no state", func(t *testing.T) {
		_, err := persister.Load(c, CartKey("missing"))
		assert.ErrorIs(t, err, store.ErrNoState)
	})

	t.Run("given saved state should load it back", func(t *testing.T) {
		key := CartKey("session-1")
		s := store.New(c, key, persister)
		s.AddToCart(c, store.LineItem{
			ProductID: 3,
			Variant:   store.Variant{VariantID: 11, Quantity: 1},
			Name:      "Birthday Cake (8 inches, 3 layers)",
			Price:     decimal.NewFromInt(46000),
			Image:     "/birthday-cake.jpg",
			Customization: &store.Customization{
				Size:       pricing.Size8Inches,
				Layers:     pricing.Layers3,
				Flavour:    pricing.FlavourNone,
				Upgrade:    pricing.UpgradeNone,
				Toppings:   []pricing.Topping{},
				AddOns:     []pricing.AddOn{},
				BasePrice:  decimal.NewFromInt(20000),
				TotalPrice: decimal.NewFromInt(46000),
			},
		})
		s.SetCheckoutProgress(c, store.CheckoutProgressPaymentPage)

		state, err := persister.Load(c, key)
		require.NoError(t, err)
		require.Len(t, state.Cart, 1)
		assert.True(t, decimal.NewFromInt(46000).Equal(state.Total()))
		assert.Equal(t, store.CheckoutProgressPaymentPage, state.CheckoutProgress)

		ttl, err := redisClient.TTL(c, key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("given corrupted state should fall back to empty cart", func(t *testing.T) {
		key := CartKey("session-2")
		err := redisClient.JSONSet(c, key, "$", `{"cart":[{"variant":{"variantId":"x"}}]}`).Err()
		require.NoError(t, err)

		_, err = persister.Load(c, key)
		assert.Error(t, err)
		assert.Equal(t, store.NewState(), store.New(c, key, persister).State())
	})
}
