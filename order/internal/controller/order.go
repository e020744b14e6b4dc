package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/common"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
	"github.com/Alturino/bakery/internal/middleware"
	commonOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/internal/validate"
	"github.com/Alturino/bakery/order/internal/otel"
	"github.com/Alturino/bakery/order/internal/service"
	"github.com/Alturino/bakery/order/pkg/request"
)

type OrderController struct {
	service  *service.OrderService
	validate *validator.Validate
}

func AttachOrderController(mux *mux.Router, service *service.OrderService, secretKey string) {
	controller := OrderController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/orders").Subrouter()
	router.Use(middleware.Auth(secretKey))
	router.HandleFunc("", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/status", controller.UpdateOrderStatus).Methods(http.MethodPatch)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController CreateOrder").
		Logger()

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

	reqBody := request.CreateOrder{}
	c = logger.WithContext(c)
	if err = ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "creating order").Logger()
	logger.Info().Msg("creating order")
	c = logger.WithContext(c)
	order, err := ctrl.service.CreateOrder(c, userId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("created order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("created orderId=%s", order.ID.String()),
		"data":       map[string]interface{}{"order": order},
	})
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrders").
		Logger()

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

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := ctrl.service.FindOrders(c, request.FindOrders{UserID: userId})
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found orders",
		"data":       map[string]interface{}{"orders": orders},
	})
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrderById").
		Logger()

	c = logger.WithContext(c)
	userId, orderId, err := ids(r.WithContext(c))
	if err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, request.FindOrderById{UserID: userId, OrderID: orderId})
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("found orderId=%s", orderId.String()),
		"data":       map[string]interface{}{"order": order},
	})
}

func (ctrl OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController UpdateOrderStatus").
		Logger()

	c = logger.WithContext(c)
	userId, orderId, err := ids(r.WithContext(c))
	if err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	reqBody := request.UpdateOrderStatus{UserID: userId, OrderID: orderId}
	c = logger.WithContext(c)
	if err = ctrl.decode(r.WithContext(c), &reqBody); err != nil {
		commonOtel.RecordError(err, span)
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "updating order status").
		Str(constants.KEY_ORDER_STATUS, string(reqBody.Status)).
		Logger()
	logger.Info().Msg("updating order status")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrderStatus(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("updated orderId=%s status=%s", orderId.String(), order.Status),
		"data":       map[string]interface{}{"order": order},
	})
}

// ids reads the caller from the token and the order from the path.
func ids(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	c := r.Context()
	logger := zerolog.Ctx(c)

	logger.Info().Msg("getting userId from jwtToken")
	userId, err := common.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.UUID{}, uuid.UUID{}, err
	}
	logger.Info().Msgf("got userId=%s", userId.String())

	pathValues := mux.Vars(r)
	logger.Info().Any(constants.KEY_PATH_VALUES, pathValues).Msg("validating orderId")
	orderId, err := uuid.Parse(pathValues["orderId"])
	if err != nil {
		err = fmt.Errorf("failed validating orderId=%s with error=%w", pathValues["orderId"], errors.Join(errInvalidOrderId, err))
		logger.Error().Err(err).Msg(err.Error())
		return uuid.UUID{}, uuid.UUID{}, err
	}
	logger.Info().Msg("validated orderId")

	return userId, orderId, nil
}

var errInvalidOrderId = errors.New("invalid orderId")

func (ctrl OrderController) decode(r *http.Request, dst interface{}) error {
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
	case errors.Is(err, errInvalidOrderId),
		errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrTotalMismatch),
		errors.Is(err, inErrors.ErrPriceMismatch),
		errors.Is(err, inErrors.ErrInvalidCustomization),
		errors.Is(err, inErrors.ErrInvalidOrderStatus):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrProductNotFound), errors.Is(err, inErrors.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrOrderForbidden):
		return http.StatusForbidden
	case errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject),
		errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
