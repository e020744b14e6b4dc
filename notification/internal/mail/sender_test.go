package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bakery/internal/config"
)

type sentMail struct {
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestSendgridSender(t *testing.T) {
	received := make(chan sentMail, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != sendgridEndpoint || r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"message":"unauthorized"}]}`))
			return
		}
		body := sentMail{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	newSender := func(apiKey string) *SendgridSender {
		sender := NewSendgridSender(config.Mail{
			SendgridApiKey: apiKey,
			SenderName:     "Bakery",
			SenderEmail:    "orders@bakery.example",
		})
		sender.host = server.URL
		return sender
	}
	message := Message{
		To:        "admin@bakery.example",
		Subject:   "New Order - #1",
		PlainText: "plain",
		HTML:      "<p>html</p>",
	}

	tests := []struct {
		name        string
		apiKey      string
		message     Message
		expectedErr error
	}{
		{
			name:    "given accepted mail should send",
			apiKey:  "good-key",
			message: message,
		},
		{
			name:        "given empty api key should not send",
			apiKey:      "",
			message:     message,
			expectedErr: ErrEmptyApiKey,
		},
		{
			name:        "given empty recipient should not send",
			apiKey:      "good-key",
			message:     Message{Subject: "New Order - #1"},
			expectedErr: ErrEmptyRecipient,
		},
		{
			name:        "given rejected api key should return send rejected",
			apiKey:      "bad-key",
			message:     message,
			expectedErr: ErrSendRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newSender(tt.apiKey).Send(c, tt.message)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)

			body := <-received
			assert.Equal(t, "orders@bakery.example", body.From.Email)
			assert.Equal(t, "Bakery", body.From.Name)
			assert.Equal(t, tt.message.Subject, body.Subject)
			require.Len(t, body.Personalizations, 1)
			require.Len(t, body.Personalizations[0].To, 1)
			assert.Equal(t, tt.message.To, body.Personalizations[0].To[0].Email)
			require.Len(t, body.Content, 2)
			assert.Equal(t, "text/plain", body.Content[0].Type)
			assert.Equal(t, "text/html", body.Content[1].Type)
		})
	}
}
