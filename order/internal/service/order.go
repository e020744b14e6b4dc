package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/customization"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	commonOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/internal/repository"
	"github.com/Alturino/bakery/order/internal/cache"
	"github.com/Alturino/bakery/order/internal/otel"
	"github.com/Alturino/bakery/order/pkg/request"
	"github.com/Alturino/bakery/order/pkg/response"
	productRes "github.com/Alturino/bakery/product/pkg/response"
)

type Catalog interface {
	FindVariantById(c context.Context, variantID int64) (productRes.Variant, error)
}

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	catalog Catalog
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	catalog Catalog,
) *OrderService {
	return &OrderService{pool: pool, queries: queries, cache: cache, catalog: catalog}
}

// CreateOrder reprices every line item against the catalog, checks the
// submitted total and stores the order with status pending. Subscribers of
// the order-created channel are notified after commit.
func (svc OrderService) CreateOrder(
	c context.Context,
	userID uuid.UUID,
	param request.CreateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	orderID := uuid.New()
	cacheKey := fmt.Sprintf(cache.KEY_ORDER, orderID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CreateOrder").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "repricing order items").Logger()
	logger.Info().Msg("repricing order items")
	c = logger.WithContext(c)
	items, err := svc.reprice(c, param.Items)
	if err != nil {
		err = fmt.Errorf("failed repricing order items with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("rejected").Inc()
		return response.Order{}, err
	}
	logger.Info().Msg("repriced order items")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating order total").Logger()
	logger.Info().Msg("validating order total")
	total, err := validateTotal(items, param.Total)
	if err != nil {
		err = fmt.Errorf("failed validating order total with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("rejected").Inc()
		return response.Order{}, err
	}
	logger = logger.With().Str(constants.KEY_ORDER_TOTAL, total.String()).Logger()
	logger.Info().Msg("validated order total")

	paymentMethod := param.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = request.DefaultPaymentMethod
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	defer rollback(c, tx)
	logger.Info().Msg("initialized transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	queries := svc.queries.WithTx(tx)
	_, err = queries.InsertOrder(c, repository.InsertOrderParams{
		ID:            orderID,
		UserID:        userID,
		Total:         repository.Numeric(total),
		PaymentMethod: paymentMethod,
		FullName:      param.CustomerInfo.FullName,
		Email:         param.CustomerInfo.Email,
		Phone:         param.CustomerInfo.Phone,
		Whatsapp:      param.CustomerInfo.Whatsapp,
		Address:       param.CustomerInfo.Address,
		City:          param.CustomerInfo.City,
		State:         param.CustomerInfo.State,
		PostalCode:    param.CustomerInfo.PostalCode,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(constants.KEY_PROCESS, "preparing order items").Logger()
	logger.Info().Msg("preparing order items")
	args, err := orderItemParams(orderID, items)
	if err != nil {
		err = fmt.Errorf("failed preparing order items with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	logger.Info().Msg("prepared order items")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	inserted, err := queries.InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	logger.Info().Msgf("inserted order items count=%d", inserted)

	logger = logger.With().Str(constants.KEY_PROCESS, "getting inserted order").Logger()
	logger.Info().Msg("getting inserted order")
	row, err := queries.FindOrderById(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed getting inserted order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	order, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	logger.Info().Msg("got inserted order")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		ordersCreated.WithLabelValues("failed").Inc()
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")
	ordersCreated.WithLabelValues("created").Inc()

	c = logger.WithContext(c)
	svc.cacheOrder(c, order)
	svc.publishOrderCreated(c, order)

	return order, nil
}

func (svc OrderService) FindOrderById(
	c context.Context,
	param request.FindOrderById,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_ORDER, param.OrderID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderById").
		Str(constants.KEY_USER_ID, param.UserID.String()).
		Str(constants.KEY_ORDER_ID, param.OrderID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order in cache").Logger()
	logger.Info().Msg("finding order in cache")
	order, err := svc.cachedOrder(c, cacheKey)
	if err != nil {
		logger.Info().Err(err).Msg("order not in cache")

		logger = logger.With().Str(constants.KEY_PROCESS, "finding order in database").Logger()
		logger.Info().Msg("finding order in database")
		row, err := svc.queries.FindOrderById(c, param.OrderID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding order in database with error=%w", inErrors.ErrOrderNotFound)
			commonOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		if err != nil {
			err = fmt.Errorf("failed finding order in database with error=%w", err)
			commonOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		order, err = row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping order with error=%w", err)
			commonOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		logger.Info().Msg("found order in database")

		svc.cacheOrder(logger.WithContext(c), order)
	} else {
		logger.Info().Msg("found order in cache")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "checking order owner").Logger()
	if order.UserID != param.UserID {
		err = fmt.Errorf("failed checking order owner with error=%w", inErrors.ErrOrderForbidden)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	return order, nil
}

func (svc OrderService) FindOrders(
	c context.Context,
	param request.FindOrders,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrders").
		Str(constants.KEY_PROCESS, "finding orders by userId").
		Str(constants.KEY_USER_ID, param.UserID.String()).
		Logger()

	logger.Info().Msg("finding orders by userId")
	rows, err := svc.queries.FindOrdersByUserId(c, param.UserID)
	if err != nil {
		err = fmt.Errorf("failed finding orders by userId=%s with error=%w", param.UserID.String(), err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := make([]response.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping orderId=%s with error=%w", row.ID.String(), err)
			commonOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		orders = append(orders, order)
	}
	logger.Info().Int("count", len(orders)).Msg("found orders by userId")

	return orders, nil
}

// UpdateOrderStatus moves an order owned by the user to a new status.
func (svc OrderService) UpdateOrderStatus(
	c context.Context,
	param request.UpdateOrderStatus,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrderStatus")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_ORDER, param.OrderID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService UpdateOrderStatus").
		Str(constants.KEY_USER_ID, param.UserID.String()).
		Str(constants.KEY_ORDER_ID, param.OrderID.String()).
		Str(constants.KEY_ORDER_STATUS, string(param.Status)).
		Logger()

	if !param.Status.Valid() {
		err := fmt.Errorf("failed validating status=%q with error=%w", param.Status, inErrors.ErrInvalidOrderStatus)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer rollback(c, tx)
	logger.Info().Msg("initialized transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Info().Msg("finding order")
	queries := svc.queries.WithTx(tx)
	row, err := queries.FindOrderById(c, param.OrderID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding order with error=%w", inErrors.ErrOrderNotFound)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if row.UserID != param.UserID {
		err = fmt.Errorf("failed finding order with error=%w", inErrors.ErrOrderForbidden)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	order, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating order status").Logger()
	logger.Info().Msg("updating order status")
	updated, err := queries.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
		ID:     param.OrderID,
		Status: repository.OrderStatus(param.Status),
	})
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	order.Status = response.Status(updated.Status)
	order.UpdatedAt = updated.UpdatedAt.Time
	logger.Info().Msg("updated order status")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")
	orderStatusUpdates.WithLabelValues(string(order.Status)).Inc()

	logger = logger.With().Str(constants.KEY_PROCESS, "invalidating order cache").Logger()
	logger.Info().Msg("invalidating order cache")
	if err = svc.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed invalidating order cache with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("invalidated order cache")
	}

	return order, nil
}

// reprice rebuilds every line item from the catalog so that names and prices
// come from the server. A submitted price that differs is rejected.
func (svc OrderService) reprice(c context.Context, items []store.LineItem) ([]store.LineItem, error) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "OrderService reprice").Logger()

	repriced := make([]store.LineItem, 0, len(items))
	for i, item := range items {
		lg := logger.With().
			Int64(constants.KEY_VARIANT_ID, item.Variant.VariantID).
			Int("itemIndex", i).
			Logger()

		lg.Trace().Msg("finding variant")
		variant, err := svc.catalog.FindVariantById(lg.WithContext(c), item.Variant.VariantID)
		if err != nil {
			return nil, fmt.Errorf("failed finding variantId=%d with error=%w", item.Variant.VariantID, err)
		}

		calc := customization.New(lg.WithContext(c), customization.ProductOf(variant))
		if err = calc.Apply(customization.SelectionOf(item)); err != nil {
			return nil, errors.Join(inErrors.ErrInvalidCustomization, err)
		}
		expected := calc.LineItem()
		if !expected.EffectivePrice().Equal(item.EffectivePrice()) {
			err = fmt.Errorf(
				"%w: variantId=%d expected=%s submitted=%s",
				inErrors.ErrPriceMismatch,
				item.Variant.VariantID,
				expected.EffectivePrice().String(),
				item.EffectivePrice().String(),
			)
			lg.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		repriced = append(repriced, expected)
	}
	return repriced, nil
}

// validateTotal recomputes the order total from items and compares it with
// the submitted one.
func validateTotal(items []store.LineItem, submitted decimal.Decimal) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, inErrors.ErrEmptyCart
	}
	total := store.Total(items)
	if !total.Equal(submitted) {
		return decimal.Zero, fmt.Errorf(
			"%w: expected=%s submitted=%s",
			inErrors.ErrTotalMismatch,
			total.String(),
			submitted.String(),
		)
	}
	return total, nil
}

func orderItemParams(orderID uuid.UUID, items []store.LineItem) ([]repository.InsertOrderItemsParams, error) {
	args := make([]repository.InsertOrderItemsParams, 0, len(items))
	for _, item := range items {
		var customizationJson []byte
		if item.Customization != nil {
			b, err := json.Marshal(item.Customization)
			if err != nil {
				return nil, fmt.Errorf("failed marshalling customization with error=%w", err)
			}
			customizationJson = b
		}
		args = append(args, repository.InsertOrderItemsParams{
			ID:            uuid.New(),
			OrderID:       orderID,
			ProductID:     item.ProductID,
			VariantID:     item.Variant.VariantID,
			Name:          item.Name,
			Image:         item.Image,
			Quantity:      item.Variant.Quantity,
			Price:         repository.Numeric(item.EffectivePrice()),
			Customization: customizationJson,
		})
	}
	return args, nil
}

func (svc OrderService) cachedOrder(c context.Context, cacheKey string) (response.Order, error) {
	cached, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err != nil {
		return response.Order{}, err
	}
	if cached == "" {
		return response.Order{}, redis.Nil
	}
	order := response.Order{}
	if err = json.Unmarshal([]byte(cached), &order); err != nil {
		return response.Order{}, err
	}
	return order, nil
}

func (svc OrderService) cacheOrder(c context.Context, order response.Order) {
	cacheKey := fmt.Sprintf(cache.KEY_ORDER, order.ID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "inserting order to cache").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger.Info().Msg("inserting order to cache")
	_, err := svc.cache.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.JSONSet(c, cacheKey, "$", order)
		pipe.Expire(c, cacheKey, cache.ORDER_TTL)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order to cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("inserted order to cache")
}

func (svc OrderService) publishOrderCreated(c context.Context, order response.Order) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "publishing order created").
		Str(constants.KEY_CHANNEL, constants.CHANNEL_ORDER_CREATED).
		Logger()

	logger.Info().Msg("publishing order created")
	payload, err := json.Marshal(order)
	if err != nil {
		err = fmt.Errorf("failed marshalling order with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	if err = svc.cache.Publish(c, constants.CHANNEL_ORDER_CREATED, payload).Err(); err != nil {
		err = fmt.Errorf("failed publishing order created with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("published order created")
}

func rollback(c context.Context, tx pgx.Tx) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "rolling back transaction").Logger()
	err := tx.Rollback(c)
	if err == nil {
		logger.Info().Msg("rolled back transaction")
		return
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return
	}
	err = fmt.Errorf("failed rolling back transaction with error=%w", err)
	logger.Error().Err(err).Msg(err.Error())
}
