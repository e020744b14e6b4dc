package common

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/constants"
	inErrors "github.com/Alturino/bakery/internal/errors"
)

type jwtTokenKey struct{}

func AttachJwtTokenToContext(c context.Context, token *jwt.Token) context.Context {
	return context.WithValue(c, jwtTokenKey{}, token)
}

func JwtTokenFromContext(c context.Context) *jwt.Token {
	token, _ := c.Value(jwtTokenKey{}).(*jwt.Token)
	return token
}

func UserIdFromJwtToken(c context.Context) (uuid.UUID, error) {
	token := JwtTokenFromContext(c)
	if token == nil {
		return uuid.UUID{}, inErrors.ErrEmptyAuth
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: failed getting subject with error=%w", inErrors.ErrTokenInvalid, err)
	}
	if subject == "" {
		return uuid.UUID{}, inErrors.ErrEmptySubject
	}
	userId, err := uuid.Parse(subject)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf(
			"%w: failed parsing subject=%s with error=%w",
			inErrors.ErrTokenInvalid,
			subject,
			err,
		)
	}
	return userId, nil
}

// VerifyToken parses an HS256 token issued by the auth collaborator for the
// user audience. Expiry is mandatory.
func VerifyToken(c context.Context, secretKey string, token string) (*jwt.Token, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "common VerifyToken").
		Str(constants.KEY_PROCESS, "parsing claims").
		Logger()

	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.ISSUER_AUTH),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, fmt.Errorf("%w: %w", inErrors.ErrTokenInvalid, err)
	}
	logger.Trace().Msg("parsed claims")

	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return nil, inErrors.ErrTokenInvalid
	}

	return jwtToken, nil
}
