package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/bakery/cart/internal/otel"
	"github.com/Alturino/bakery/cart/internal/storage"
	"github.com/Alturino/bakery/cart/pkg/customization"
	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/request"
	"github.com/Alturino/bakery/cart/pkg/response"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	commonOtel "github.com/Alturino/bakery/internal/otel"
	orderReq "github.com/Alturino/bakery/order/pkg/request"
	orderRes "github.com/Alturino/bakery/order/pkg/response"
	productRes "github.com/Alturino/bakery/product/pkg/response"
)

type Catalog interface {
	FindVariantById(c context.Context, variantID int64) (productRes.Variant, error)
}

type OrderSubmitter interface {
	CreateOrder(c context.Context, token string, param orderReq.CreateOrder) (orderRes.Order, error)
}

type CartService struct {
	persister store.Persister
	catalog   Catalog
	orders    OrderSubmitter
	locks     *sessionLocks
}

func NewCartService(persister store.Persister, catalog Catalog, orders OrderSubmitter) CartService {
	return CartService{
		persister: persister,
		catalog:   catalog,
		orders:    orders,
		locks:     &sessionLocks{},
	}
}

func (svc CartService) open(c context.Context, sessionID string) *store.Store {
	return store.New(c, storage.CartKey(sessionID), svc.persister)
}

func (svc CartService) FindCart(c context.Context, sessionID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService FindCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed finding cart with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	state := svc.open(logger.WithContext(c), sessionID).State()
	logger.Info().Int(constants.KEY_CART_ITEMS, len(state.Cart)).Msg("found cart")

	return response.NewCart(sessionID, state), nil
}

// AddItem prices the variant from the catalog, applies the requested
// customization and adds the resulting line item to the session cart.
func (svc CartService) AddItem(
	c context.Context,
	sessionID string,
	param request.AddItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Int64(constants.KEY_VARIANT_ID, param.VariantID).
		Int32(constants.KEY_CART_ITEM_QUANTITY, param.Quantity).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed adding item with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	selection := customization.Selection{Quantity: param.Quantity}
	if param.Customization != nil {
		selection = toSelection(*param.Customization, param.Quantity)
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "pricing line item").Logger()
	logger.Info().Msg("pricing line item")
	c = logger.WithContext(c)
	calc, err := svc.calculator(c, param.VariantID, selection)
	if err != nil {
		err = fmt.Errorf("failed pricing line item with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	item := calc.LineItem()
	logger = logger.With().
		Any(constants.KEY_CART_ITEM, item).
		Str(constants.KEY_TOTAL_PRICE, calc.TotalPrice().String()).
		Logger()
	logger.Info().Msg("priced line item")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	s.AddToCart(c, item)
	state := s.State()
	cartItemsAdded.WithLabelValues(strconv.FormatBool(item.IsCustomized())).Inc()
	span.SetAttributes(attribute.Int(constants.KEY_CART_ITEMS, len(state.Cart)))
	logger.Info().Int(constants.KEY_CART_ITEMS, len(state.Cart)).Msg("added item to cart")

	return response.NewCart(sessionID, state), nil
}

func (svc CartService) RemoveItem(
	c context.Context,
	sessionID string,
	param request.RemoveItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Int64(constants.KEY_VARIANT_ID, param.VariantID).
		Bool(constants.KEY_CUSTOMIZATION, param.Customized).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed removing item with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	item := store.LineItem{Variant: store.Variant{VariantID: param.VariantID}}
	if param.Customized {
		item.Customization = &store.Customization{}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing item from cart").Logger()
	logger.Info().Msg("removing item from cart")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	s.RemoveFromCart(c, item)
	state := s.State()
	cartItemsRemoved.Inc()
	logger.Info().Int(constants.KEY_CART_ITEMS, len(state.Cart)).Msg("removed item from cart")

	return response.NewCart(sessionID, state), nil
}

func (svc CartService) ClearCart(c context.Context, sessionID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService ClearCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed clearing cart with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	s.ClearCart(c)
	logger.Info().Msg("cleared cart")

	return response.NewCart(sessionID, s.State()), nil
}

func (svc CartService) SetCheckoutProgress(
	c context.Context,
	sessionID string,
	progress store.CheckoutProgress,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService SetCheckoutProgress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService SetCheckoutProgress").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_CHECKOUT_PROGRESS, string(progress)).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed setting checkout progress with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "setting checkout progress").Logger()
	logger.Info().Msg("setting checkout progress")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	s.SetCheckoutProgress(c, progress)
	logger.Info().Msg("set checkout progress")

	return response.NewCart(sessionID, s.State()), nil
}

func (svc CartService) SetCartOpen(
	c context.Context,
	sessionID string,
	open bool,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService SetCartOpen")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService SetCartOpen").
		Str(constants.KEY_SESSION_ID, sessionID).
		Bool(constants.KEY_CART_OPEN, open).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed setting cart open with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "setting cart open").Logger()
	logger.Info().Msg("setting cart open")
	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	s.SetCartOpen(c, open)
	logger.Info().Msg("set cart open")

	return response.NewCart(sessionID, s.State()), nil
}

// Quote previews the price of a customization without touching any cart.
func (svc CartService) Quote(c context.Context, param request.Quote) (response.Quote, error) {
	c, span := otel.Tracer.Start(c, "CartService Quote")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService Quote").
		Int64(constants.KEY_VARIANT_ID, param.VariantID).
		Logger()

	quantity := param.Quantity
	if quantity == 0 {
		quantity = 1
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "pricing customization").Logger()
	logger.Info().Msg("pricing customization")
	calc, err := svc.calculator(
		logger.WithContext(c),
		param.VariantID,
		toSelection(param.Customization, quantity),
	)
	if err != nil {
		err = fmt.Errorf("failed pricing customization with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Quote{}, err
	}
	item := calc.LineItem()
	total := item.Total()
	logger.Info().Str(constants.KEY_TOTAL_PRICE, calc.TotalPrice().String()).Msg("priced customization")

	details := []store.Detail{}
	if item.Customization != nil {
		details = item.Customization.Details()
	}
	return response.Quote{
		Name:              item.Name,
		UnitPrice:         calc.TotalPrice(),
		FormattedPrice:    pricing.FormatPrice(calc.TotalPrice()),
		Quantity:          calc.Quantity(),
		Total:             total,
		FormattedTotal:    pricing.FormatPrice(total),
		HasCustomizations: calc.HasCustomizations(),
		IsValid:           calc.IsValid(),
		AvailableLayers:   pricing.LayersFor(param.Customization.Size),
		Details:           details,
		LineItem:          item,
	}, nil
}

// Checkout submits the session cart as an order. The cart is cleared and moved
// to the confirmation page only after the order service accepted it; on failure
// the cart and its stage are left untouched.
func (svc CartService) Checkout(
	c context.Context,
	sessionID string,
	token string,
	param request.Checkout,
) (orderRes.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService Checkout").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()
	if sessionID == "" {
		err := fmt.Errorf("failed checking out with error=%w", inErrors.ErrEmptySession)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}

	unlock := svc.locks.lock(sessionID)
	defer unlock()
	c = logger.WithContext(c)
	s := svc.open(c, sessionID)
	state := s.State()
	if len(state.Cart) == 0 {
		err := fmt.Errorf("failed checking out with error=%w", inErrors.ErrEmptyCart)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		cartCheckouts.WithLabelValues("empty").Inc()
		return orderRes.Order{}, err
	}

	paymentMethod := param.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = orderReq.DefaultPaymentMethod
	}
	total := state.Total()
	logger = logger.With().
		Int(constants.KEY_CART_ITEMS, len(state.Cart)).
		Str(constants.KEY_CART_TOTAL, total.String()).
		Str(constants.KEY_PROCESS, "submitting order").
		Logger()
	logger.Info().Msg("submitting order")
	order, err := svc.orders.CreateOrder(logger.WithContext(c), token, orderReq.CreateOrder{
		Items:         state.Cart,
		Total:         total,
		CustomerInfo:  param.CustomerInfo,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		cartCheckouts.WithLabelValues("failed").Inc()
		return orderRes.Order{}, err
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(constants.KEY_PROCESS, "confirming checkout").Logger()
	logger.Info().Msg("confirming checkout")
	c = logger.WithContext(c)
	s.ClearCart(c)
	s.SetCheckoutProgress(c, store.CheckoutProgressConfirmationPage)
	cartCheckouts.WithLabelValues("succeeded").Inc()
	logger.Info().Msg("confirmed checkout")

	return order, nil
}

func (svc CartService) calculator(
	c context.Context,
	variantID int64,
	selection customization.Selection,
) (*customization.Calculator, error) {
	variant, err := svc.catalog.FindVariantById(c, variantID)
	if err != nil {
		return nil, err
	}
	calc := customization.New(c, customization.ProductOf(variant))
	if err = calc.Apply(selection); err != nil {
		return nil, errors.Join(inErrors.ErrInvalidCustomization, err)
	}
	return calc, nil
}

func toSelection(param request.Customization, quantity int32) customization.Selection {
	return customization.Selection{
		Size:     param.Size,
		Layers:   param.Layers,
		Flavour:  param.Flavour,
		Upgrade:  param.Upgrade,
		Toppings: param.Toppings,
		AddOns:   param.AddOns,
		Message:  param.Message,
		Quantity: quantity,
	}
}
