package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	inErrors "github.com/Alturino/bakery/internal/errors"
	"github.com/Alturino/bakery/internal/repository"
	productRes "github.com/Alturino/bakery/product/pkg/response"
)

const migrationDir = "../../../migrations"

const (
	cakeVariantID  int64 = 1
	chopsVariantID int64 = 4
)

type fakeCatalog map[int64]productRes.Variant

func (f fakeCatalog) FindVariantById(c context.Context, variantID int64) (productRes.Variant, error) {
	variant, ok := f[variantID]
	if !ok {
		return productRes.Variant{}, inErrors.ErrProductNotFound
	}
	return variant, nil
}

func newCatalog() fakeCatalog {
	return fakeCatalog{
		cakeVariantID: {
			ProductID: 1,
			VariantID: cakeVariantID,
			Title:     "Red Velvet Celebration Cake",
			Image:     "/images/red-velvet.jpg",
			BasePrice: decimal.NewFromInt(13500),
			Category:  pricing.CategoryCake,
		},
		chopsVariantID: {
			ProductID: 4,
			VariantID: chopsVariantID,
			Title:     "Small Chops Platter - 20 pieces",
			Image:     "/images/small-chops.jpg",
			BasePrice: decimal.NewFromInt(15000),
			Category:  pricing.CategorySmallChops,
		},
	}
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func setup(t *testing.T, c context.Context) (*pgxpool.Pool, *redis.Client, *OrderService) {
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join(migrationDir, "20250301090000_create_table_products.up.sql"),
			filepath.Join(migrationDir, "20250301091000_create_table_orders.up.sql"),
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

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}
	pgConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
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

	return pool, redisClient, NewOrderService(pool, repository.New(pool), redisClient, newCatalog())
}
