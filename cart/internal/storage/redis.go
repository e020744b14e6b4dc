package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/cart/internal/otel"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/internal/constants"
	commonOtel "github.com/Alturino/bakery/internal/otel"
)

const (
	KEY_CART_STORAGE = "cart-storage:%s"
	cartTTL          = 30 * 24 * time.Hour
)

func CartKey(sessionID string) string { return fmt.Sprintf(KEY_CART_STORAGE, sessionID) }

// RedisPersister keeps each cart state as a RedisJSON document.
type RedisPersister struct {
	cache *redis.Client
}

func NewRedisPersister(cache *redis.Client) RedisPersister {
	return RedisPersister{cache: cache}
}

func (p RedisPersister) Save(c context.Context, key string, state store.State) error {
	c, span := otel.Tracer.Start(c, "RedisPersister Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RedisPersister Save").
		Str(constants.KEY_CACHE_KEY, key).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart state to cache").Logger()
	logger.Trace().Msg("inserting cart state to cache")
	_, err := p.cache.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.JSONSet(c, key, "$", state)
		pipe.Expire(c, key, cartTTL)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed inserting cart state to cache with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("inserted cart state to cache")

	return nil
}

func (p RedisPersister) Load(c context.Context, key string) (store.State, error) {
	c, span := otel.Tracer.Start(c, "RedisPersister Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RedisPersister Load").
		Str(constants.KEY_CACHE_KEY, key).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart state in cache").Logger()
	logger.Trace().Msg("finding cart state in cache")
	jsonCache, err := p.cache.JSONGet(c, key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && jsonCache == "") {
		logger.Trace().Msg("cart state not found in cache")
		return store.State{}, store.ErrNoState
	}
	if err != nil {
		err = fmt.Errorf("failed finding cart state in cache with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, err
	}
	logger = logger.With().Str(constants.KEY_JSON_CACHE, jsonCache).Logger()
	logger.Trace().Msg("found cart state in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling cart state").Logger()
	logger.Trace().Msg("unmarshaling cart state")
	state := store.State{}
	if err = json.Unmarshal([]byte(jsonCache), &state); err != nil {
		err = fmt.Errorf("failed unmarshaling cart state with error=%w", err)
		commonOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, err
	}
	logger.Trace().Msg("unmarshaled cart state")

	return state, nil
}
