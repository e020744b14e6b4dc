package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/bakery/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN_BAKERY)
