package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
	"github.com/Alturino/bakery/internal/log"
	"github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/order/pkg/request"
	"github.com/Alturino/bakery/order/pkg/response"
)

type OrderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOrderClient(baseURL string) OrderClient {
	return OrderClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// CreateOrder submits the order on behalf of the bearer of token.
func (o OrderClient) CreateOrder(
	c context.Context,
	token string,
	param request.CreateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderClient CreateOrder")
	defer span.End()

	url := o.baseURL + "/orders"
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderClient CreateOrder").
		Str(constants.KEY_REQUEST_URL, url).
		Str(constants.KEY_ORDER_TOTAL, param.Total.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "encoding order").Logger()
	logger.Info().Msg("encoding order")
	reqBody, err := json.Marshal(param)
	if err != nil {
		err = fmt.Errorf("failed encoding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("encoded order")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "creating order in "+constants.APP_ORDER_SERVICE).
		Logger()
	logger.Info().Msg("creating order")
	req, err := http.NewRequestWithContext(c, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, inHttp.VALUE_HEADER_AUTHORIZATION_BEARER+token)
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := o.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer resp.Body.Close()

	body := inHttp.Response[map[string]response.Order]{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf(
			"failed creating order with statusCode=%d message=%s error=%w",
			resp.StatusCode,
			body.Message,
			inErrors.ErrOrderRejected,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if decodeErr != nil {
		err = fmt.Errorf("failed decoding order with error=%w", decodeErr)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	order := body.Data["order"]
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()
	logger.Info().Msg("created order")

	return order, nil
}
