package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/bakery/cart/internal/otel"
	"github.com/Alturino/bakery/cart/internal/service"
	"github.com/Alturino/bakery/cart/pkg/request"
	"github.com/Alturino/bakery/internal/common"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
	"github.com/Alturino/bakery/internal/log"
	"github.com/Alturino/bakery/internal/middleware"
	commonOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/internal/validate"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(
	mux *mux.Router,
	service *service.CartService,
	secretKey string,
) {
	controller := CartController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/carts").Subrouter()
	router.Use(middleware.Session)
	router.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/checkout-progress", controller.SetCheckoutProgress).Methods(http.MethodPut)
	router.HandleFunc("/open", controller.SetCartOpen).Methods(http.MethodPut)
	router.HandleFunc("/customizations/quote", controller.Quote).Methods(http.MethodPost)
	router.Handle(
		"/checkout",
		middleware.Auth(secretKey)(http.HandlerFunc(controller.Checkout)),
	).Methods(http.MethodPost)
}

func (ctrl CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FindCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.FindCart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found cart",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	reqBody := request.AddItem{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	span.SetAttributes(attribute.Int64(constants.KEY_VARIANT_ID, reqBody.VariantID))

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.AddItem(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("added item to cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "added item to cart",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	reqBody := request.RemoveItem{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing item from cart").Logger()
	logger.Info().Msg("removing item from cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveItem(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed removing item from cart with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("removed item from cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "removed item from cart",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ClearCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.ClearCart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) SetCheckoutProgress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetCheckoutProgress")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController SetCheckoutProgress").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	reqBody := request.CheckoutProgress{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "setting checkout progress").
		Str(constants.KEY_CHECKOUT_PROGRESS, string(reqBody.CheckoutProgress)).
		Logger()
	logger.Info().Msg("setting checkout progress")
	c = logger.WithContext(c)
	cart, err := ctrl.service.SetCheckoutProgress(c, sessionID, reqBody.CheckoutProgress)
	if err != nil {
		err = fmt.Errorf("failed setting checkout progress with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("set checkout progress")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "set checkout progress",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) SetCartOpen(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetCartOpen")
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController SetCartOpen").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	reqBody := request.CartOpen{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "setting cart open").Logger()
	logger.Info().Msg("setting cart open")
	c = logger.WithContext(c)
	cart, err := ctrl.service.SetCartOpen(c, sessionID, reqBody.CartOpen)
	if err != nil {
		err = fmt.Errorf("failed setting cart open with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("set cart open")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "set cart open",
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) Quote(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Quote")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController Quote").
		Logger()

	reqBody := request.Quote{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "quoting customization").
		Int64(constants.KEY_VARIANT_ID, reqBody.VariantID).
		Logger()
	logger.Info().Msg("quoting customization")
	c = logger.WithContext(c)
	quote, err := ctrl.service.Quote(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed quoting customization with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("quoted customization")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "quoted customization",
		"data":       map[string]interface{}{"quote": quote},
	})
}

func (ctrl CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	requestId := log.RequestIDFromContext(r.Context())
	c, span := otel.Tracer.Start(
		r.Context(),
		"CartController Checkout",
		trace.WithAttributes(attribute.String(constants.KEY_REQUEST_ID, requestId)),
	)
	defer span.End()

	sessionID := log.SessionIDFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController Checkout").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	reqBody := request.Checkout{}
	c = logger.WithContext(c)
	if err := ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	logger.Info().Msg("getting userId from jwtToken")
	userId, err := common.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusUnauthorized, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Info().Msgf("got userId=%s", userId.String())

	logger = logger.With().Str(constants.KEY_PROCESS, "checking out cart").Logger()
	logger.Info().Msg("checking out cart")
	token := common.JwtTokenFromContext(c).Raw
	c = logger.WithContext(c)
	order, err := ctrl.service.Checkout(c, sessionID, token, reqBody)
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("checked out cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("created orderId=%s", order.ID.String()),
		"data":       map[string]interface{}{"order": order},
	})
}

// decode reads and validates the request body into dst.
func (ctrl CartController) decode(r *http.Request, dst interface{}) error {
	c := r.Context()
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "decoding request body").Logger()

	logger.Info().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := ctrl.validate.StructCtx(c, dst); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("validated request body")

	return nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrEmptySession),
		errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrInvalidCustomization):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrOrderRejected):
		return http.StatusBadGateway
	case errors.Is(err, inErrors.ErrEmptyAuth), errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
