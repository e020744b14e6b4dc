package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/common"
	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
	inHttp "github.com/Alturino/bakery/internal/http"
)

func Auth(secretKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(constants.KEY_TAG, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			if len(authorization) <= len(inHttp.VALUE_HEADER_AUTHORIZATION_BEARER) ||
				!strings.EqualFold(
					authorization[:len(inHttp.VALUE_HEADER_AUTHORIZATION_BEARER)],
					inHttp.VALUE_HEADER_AUTHORIZATION_BEARER,
				) {
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteFailedResponse(c, w, http.StatusUnauthorized, inErrors.ErrEmptyAuth)
				return
			}

			token := authorization[len(inHttp.VALUE_HEADER_AUTHORIZATION_BEARER):]
			jwtToken, err := common.VerifyToken(c, secretKey, token)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteFailedResponse(c, w, http.StatusUnauthorized, inErrors.ErrTokenInvalid)
				return
			}

			c = common.AttachJwtTokenToContext(c, jwtToken)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
