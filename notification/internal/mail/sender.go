package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgMail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/bakery/internal/config"
	"github.com/Alturino/bakery/internal/constants"
	inOtel "github.com/Alturino/bakery/internal/otel"
	"github.com/Alturino/bakery/notification/internal/otel"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

var (
	ErrEmptyApiKey    = errors.New("sendgrid api key is empty")
	ErrEmptyRecipient = errors.New("mail recipient is empty")
	ErrSendRejected   = errors.New("mail rejected by sendgrid")
)

type Message struct {
	To        string
	Subject   string
	PlainText string
	HTML      string
}

type Sender interface {
	Send(c context.Context, message Message) error
}

type SendgridSender struct {
	apiKey string
	host   string
	from   *sgMail.Email
}

func NewSendgridSender(cfg config.Mail) *SendgridSender {
	return &SendgridSender{
		apiKey: cfg.SendgridApiKey,
		host:   sendgridHost,
		from:   sgMail.NewEmail(cfg.SenderName, cfg.SenderEmail),
	}
}

func (s *SendgridSender) Send(c context.Context, message Message) error {
	c, span := otel.Tracer.Start(c, "SendgridSender Send")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "SendgridSender Send").
		Str(constants.KEY_EMAIL, message.To).
		Str(constants.KEY_MAIL_SUBJECT, message.Subject).
		Logger()
	span.SetAttributes(attribute.String(constants.KEY_MAIL_SUBJECT, message.Subject))

	logger = logger.With().Str(constants.KEY_PROCESS, "validating message").Logger()
	logger.Trace().Msg("validating message")
	if s.apiKey == "" {
		err := fmt.Errorf("failed validating message with error=%w", ErrEmptyApiKey)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if message.To == "" {
		err := fmt.Errorf("failed validating message with error=%w", ErrEmptyRecipient)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("validated message")

	logger = logger.With().Str(constants.KEY_PROCESS, "sending mail").Logger()
	logger.Trace().Msg("sending mail")
	email := sgMail.NewSingleEmail(
		s.from,
		message.Subject,
		sgMail.NewEmail("", message.To),
		message.PlainText,
		message.HTML,
	)
	request := sendgrid.GetRequest(s.apiKey, sendgridEndpoint, s.host)
	request.Method = http.MethodPost
	request.Body = sgMail.GetRequestBody(email)
	res, err := sendgrid.MakeRequestWithContext(c, request)
	if err != nil {
		err = fmt.Errorf("failed sending mail with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		err = fmt.Errorf("%w: failed sending mail with status=%d body=%s", ErrSendRejected, res.StatusCode, res.Body)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int("statusCode", res.StatusCode).Msg("sent mail")

	return nil
}
