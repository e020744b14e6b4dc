package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/internal/repository"
	"github.com/Alturino/bakery/product/internal/cache"
	"github.com/Alturino/bakery/product/internal/otel"
	"github.com/Alturino/bakery/product/pkg/request"
	"github.com/Alturino/bakery/product/pkg/response"
)

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) ProductService {
	return ProductService{queries: queries, cache: cache}
}

func (svc ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Str("category", param.Category).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products in database").Logger()
	logger.Trace().Msg("finding products in database")
	span.AddEvent("finding products in database")
	rows, err := svc.queries.FindProducts(c, param.Category)
	if err != nil {
		err = fmt.Errorf("failed finding products in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := make([]response.Product, 0, len(rows))
	for _, row := range rows {
		product, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping productId=%d with error=%w", row.ID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		products = append(products, product)
	}
	span.AddEvent("found products in database")
	logger.Info().Int("count", len(products)).Msg("found products in database")

	return products, nil
}

// FindVariantById reads the variant from cache and falls back to the
// database, caching what it finds.
func (svc ProductService) FindVariantById(
	c context.Context,
	param request.FindVariantById,
) (response.Variant, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindVariantById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_VARIANT, param.VariantID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindVariantById").
		Int64(constants.KEY_VARIANT_ID, param.VariantID).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding variant in cache").Logger()
	logger.Trace().Msg("finding variant in cache")
	span.AddEvent("finding variant in cache")
	cached, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err == nil && cached != "" {
		variant := response.Variant{}
		if err = json.Unmarshal([]byte(cached), &variant); err == nil {
			span.AddEvent("found variant in cache")
			logger.Info().Str(constants.KEY_JSON_CACHE, cached).Msg("found variant in cache")
			return variant, nil
		}
		err = fmt.Errorf("failed unmarshaling cached variant with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	} else if err != nil && !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed finding variant in cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("variant not in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding variant in database").Logger()
	logger.Trace().Msg("finding variant in database")
	span.AddEvent("finding variant in database")
	row, err := svc.queries.FindVariantById(c, param.VariantID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding variant in database with error=%w", inErrors.ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding variant in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	variant := row.Response()
	span.AddEvent("found variant in database")
	logger.Info().Msg("found variant in database")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting variant to cache").Logger()
	logger.Trace().Msg("inserting variant to cache")
	_, err = svc.cache.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.JSONSet(c, cacheKey, "$", variant)
		pipe.Expire(c, cacheKey, cache.VARIANT_TTL)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed inserting variant to cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return variant, nil
	}
	logger.Info().Msg("inserted variant to cache")

	return variant, nil
}
