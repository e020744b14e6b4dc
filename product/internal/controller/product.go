package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
	inOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/internal/validate"
	"github.com/Alturino/bakery/product/internal/otel"
	"github.com/Alturino/bakery/product/internal/service"
	"github.com/Alturino/bakery/product/pkg/request"
)

type ProductController struct {
	service  *service.ProductService
	validate *validator.Validate
}

func AttachProductController(mux *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/variants/{variantId}", controller.FindVariantById).Methods(http.MethodGet)
}

func (p ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProducts").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating query").Logger()
	logger.Trace().Msg("validating query")
	param := request.FindProducts{Category: r.URL.Query().Get("category")}
	if err := p.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating query with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("validated query")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Trace().Msg("finding products")
	c = logger.WithContext(c)
	products, err := p.service.FindProducts(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusInternalServerError, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found products",
		"data":       map[string]interface{}{"products": products},
	})
}

// FindVariantById answers with the variant itself as data, which is what the
// product client decodes.
func (p ProductController) FindVariantById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindVariantById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindVariantById").
		Logger()

	pathValues := mux.Vars(r)
	logger = logger.With().
		Str(constants.KEY_PROCESS, "validating variantId").
		Any(constants.KEY_PATH_VALUES, pathValues).
		Logger()
	logger.Trace().Msg("validating variantId")
	variantId, err := strconv.ParseInt(pathValues["variantId"], 10, 64)
	if err != nil {
		err = fmt.Errorf("failed parsing variantId=%s with error=%w", pathValues["variantId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	param := request.FindVariantById{VariantID: variantId}
	if err = p.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating variantId=%d with error=%w", variantId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err)
		return
	}
	span.SetAttributes(attribute.Int64(constants.KEY_VARIANT_ID, variantId))
	logger = logger.With().Int64(constants.KEY_VARIANT_ID, variantId).Logger()
	logger.Trace().Msg("validated variantId")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding variant").Logger()
	logger.Trace().Msg("finding variant")
	c = logger.WithContext(c)
	variant, err := p.service.FindVariantById(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding variant with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteFailedResponse(c, w, statusCode, err)
		return
	}
	logger.Info().Msg("found variant")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("found variantId=%d", variantId),
		"data":       variant,
	})
}
