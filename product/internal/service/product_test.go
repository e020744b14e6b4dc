package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	inErrors "github.com/Alturino/bakery/internal/errors"
	"github.com/Alturino/bakery/internal/repository"
	"github.com/Alturino/bakery/product/internal/cache"
	"github.com/Alturino/bakery/product/pkg/request"
)

const migrationDir = "../../../migrations"

func setup(t *testing.T, c context.Context) (*redis.Client, ProductService) {
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join(migrationDir, "20250301090000_create_table_products.up.sql"),
			filepath.Join(migrationDir, "20250301092000_seed_products.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pool, err := pgxpool.New(c, pgConnStr)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

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

	return redisClient, NewProductService(repository.New(pool), redisClient)
}

func TestProductService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres and redis container test in short mode")
	}

	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	redisClient, svc := setup(t, c)

	t.Run("given seeded variant should return it with product title", func(t *testing.T) {
		variant, err := svc.FindVariantById(c, request.FindVariantById{VariantID: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(4), variant.ProductID)
		assert.Equal(t, "Small Chops Platter - 20 pieces", variant.Title)
		assert.Equal(t, pricing.CategorySmallChops, variant.Category)
		assert.True(t, decimal.NewFromInt(15000).Equal(variant.BasePrice))

		exists, err := redisClient.Exists(c, fmt.Sprintf(cache.KEY_VARIANT, 4)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("given cached variant should return cached value", func(t *testing.T) {
		key := fmt.Sprintf(cache.KEY_VARIANT, 1)
		err := redisClient.JSONSet(c, key, "$", `{"productId":1,"variantId":1,"title":"Cached Cake","image":"","basePrice":"1","category":"cake"}`).Err()
		require.NoError(t, err)

		variant, err := svc.FindVariantById(c, request.FindVariantById{VariantID: 1})
		require.NoError(t, err)
		assert.Equal(t, "Cached Cake", variant.Title)
	})

	t.Run("given unknown variant should return product not found", func(t *testing.T) {
		_, err := svc.FindVariantById(c, request.FindVariantById{VariantID: 999})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	tests := []struct {
		name     string
		category string
		expected int
	}{
		{name: "given no category should return every product", category: "", expected: 4},
		{name: "given cake category should return cakes", category: "cake", expected: 3},
		{name: "given smallchops category should return small chops", category: "smallchops", expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := svc.FindProducts(c, request.FindProducts{Category: tt.category})
			require.NoError(t, err)
			assert.Len(t, products, tt.expected)
			for _, p := range products {
				assert.NotEmpty(t, p.Variants)
			}
		})
	}
}
