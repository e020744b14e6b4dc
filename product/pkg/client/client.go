package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
	"github.com/Alturino/bakery/internal/log"
	"github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/product/pkg/response"
)

type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(baseURL string) ProductClient {
	return ProductClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (p ProductClient) FindVariantById(c context.Context, variantID int64) (response.Variant, error) {
	c, span := otel.Tracer.Start(c, "ProductClient FindVariantById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductClient FindVariantById").
		Int64(constants.KEY_VARIANT_ID, variantID).
		Logger()

	url := p.baseURL + "/products/variants/" + strconv.FormatInt(variantID, 10)
	logger = logger.With().
		Str(constants.KEY_PROCESS, "finding variant in "+constants.APP_PRODUCT_SERVICE).
		Str(constants.KEY_REQUEST_URL, url).
		Logger()
	logger.Info().Msg("finding variant")
	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed finding variantId=%d with error=%w", variantID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		err = fmt.Errorf("failed finding variantId=%d with error=%w", variantID, inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("failed finding variantId=%d with statusCode=%d", variantID, resp.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}

	body := inHttp.Response[response.Variant]{}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		err = fmt.Errorf("failed decoding variant with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Variant{}, err
	}
	logger.Info().Msg("found variant")

	return body.Data, nil
}
