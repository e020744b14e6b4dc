package listener

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/bakery/internal/config"
	"github.com/Alturino/bakery/internal/constants"
	"github.com/Alturino/bakery/internal/log"
	inOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/notification/internal/mail"
	"github.com/Alturino/bakery/notification/internal/otel"
	"github.com/Alturino/bakery/order/pkg/response"
)

// OrderListener mails the admin for every order published on the
// order-created channel. Delivery is at most once: a failed mail is logged and
// counted, never retried.
type OrderListener struct {
	cache  *redis.Client
	sender mail.Sender
	config config.Mail
}

func NewOrderListener(cache *redis.Client, sender mail.Sender, config config.Mail) *OrderListener {
	return &OrderListener{cache: cache, sender: sender, config: config}
}

// Listen blocks until c is cancelled or the subscription is closed.
func (l *OrderListener) Listen(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderListener Listen").
		Str(constants.KEY_CHANNEL, constants.CHANNEL_ORDER_CREATED).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "subscribing channel").Logger()
	logger.Info().Msg("subscribing channel")
	pubsub := l.cache.Subscribe(c, constants.CHANNEL_ORDER_CREATED)
	defer pubsub.Close()
	if _, err := pubsub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing channel=%s with error=%w", constants.CHANNEL_ORDER_CREATED, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed channel")

	logger = logger.With().Str(constants.KEY_PROCESS, "listening channel").Logger()
	messages := pubsub.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped listening channel")
			return nil
		case message, ok := <-messages:
			if !ok {
				logger.Info().Msg("channel closed")
				return nil
			}
			requestID := uuid.NewString()
			msgLogger := logger.With().Str(constants.KEY_REQUEST_ID, requestID).Logger()
			msgLogger.Info().Msg("received order created")
			mc := msgLogger.WithContext(log.AttachRequestIDToContext(c, requestID))
			if err := l.Handle(mc, message.Payload); err != nil {
				msgLogger.Error().Err(err).Msg(err.Error())
				continue
			}
			msgLogger.Info().Msg("handled order created")
		}
	}
}

func (l *OrderListener) Handle(c context.Context, payload string) error {
	c, span := otel.Tracer.Start(c, "OrderListener Handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderListener Handle").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding order").Logger()
	logger.Trace().Msg("decoding order")
	order := response.Order{}
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		err = fmt.Errorf("failed decoding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		notificationsSent.WithLabelValues("invalid").Inc()
		return err
	}
	span.SetAttributes(attribute.String(constants.KEY_ORDER_ID, order.ID.String()))
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()
	logger.Trace().Msg("decoded order")

	logger = logger.With().Str(constants.KEY_PROCESS, "rendering mail").Logger()
	logger.Trace().Msg("rendering mail")
	message, err := mail.OrderCreated(order, l.config.AdminOrderURL)
	if err != nil {
		err = fmt.Errorf("failed rendering mail with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		notificationsSent.WithLabelValues("invalid").Inc()
		return err
	}
	message.To = l.config.AdminEmail
	logger.Trace().Msg("rendered mail")

	logger = logger.With().Str(constants.KEY_PROCESS, "sending mail").Logger()
	logger.Trace().Msg("sending mail")
	c = logger.WithContext(c)
	if err = l.sender.Send(c, message); err != nil {
		err = fmt.Errorf("failed sending mail with error=%w", err)
		inOtel.RecordError(err, span, attribute.String(constants.KEY_EMAIL, message.To))
		logger.Error().Err(err).Msg(err.Error())
		notificationsSent.WithLabelValues("failed").Inc()
		return err
	}
	notificationsSent.WithLabelValues("sent").Inc()
	logger.Info().Msg("sent mail")

	return nil
}
