package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/constants"
)

var ErrNoState = errors.New("no persisted cart state")

// Persister saves and loads the whole cart state under a single key. Load
// returns ErrNoState when nothing was saved yet.
type Persister interface {
	Save(c context.Context, key string, state State) error
	Load(c context.Context, key string) (State, error)
}

type Listener func(State)

type Store struct {
	mu        sync.Mutex
	key       string
	state     State
	persister Persister
	listeners map[int]Listener
	nextID    int
}

// New rehydrates the cart stored under key. A missing or unreadable state
// starts an empty cart.
func New(c context.Context, key string, persister Persister) *Store {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "store New").
		Str(constants.KEY_CACHE_KEY, key).
		Logger()

	s := &Store{
		key:       key,
		state:     NewState(),
		persister: persister,
		listeners: map[int]Listener{},
	}
	if persister == nil {
		return s
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "rehydrating cart state").Logger()
	logger.Trace().Msg("rehydrating cart state")
	state, err := persister.Load(c, key)
	if errors.Is(err, ErrNoState) {
		logger.Trace().Msg("no cart state found, starting empty")
		return s
	}
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart state with error=%w", err)
		logger.Warn().Err(err).Msg("falling back to empty cart")
		return s
	}
	s.state = state.sanitize()
	logger.Trace().Int(constants.KEY_CART_ITEMS, len(s.state.Cart)).Msg("rehydrated cart state")
	return s
}

func (s *Store) Key() string { return s.key }

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l to receive a snapshot after every mutation. The
// returned func removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// AddToCart appends customized items unconditionally. Plain items accumulate
// into the plain entry with the same variant, or are appended.
func (s *Store) AddToCart(c context.Context, item LineItem) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "store AddToCart").
		Int64(constants.KEY_VARIANT_ID, item.Variant.VariantID).
		Int32(constants.KEY_CART_ITEM_QUANTITY, item.Variant.Quantity).
		Logger()
	if item.Variant.Quantity <= 0 {
		logger.Warn().Msg("ignoring item with non positive quantity")
		return
	}

	s.mutate(logger.WithContext(c), "adding item to cart", func(state *State) {
		if !item.IsCustomized() {
			for i := range state.Cart {
				existing := &state.Cart[i]
				if existing.IsCustomized() || existing.Variant.VariantID != item.Variant.VariantID {
					continue
				}
				existing.Variant.Quantity += item.Variant.Quantity
				return
			}
		}
		state.Cart = append(state.Cart, item.clone())
	})
}

// RemoveFromCart decrements by one every entry sharing the variant and the
// customization presence of item, then drops entries that reached zero.
func (s *Store) RemoveFromCart(c context.Context, item LineItem) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "store RemoveFromCart").
		Int64(constants.KEY_VARIANT_ID, item.Variant.VariantID).
		Bool(constants.KEY_CUSTOMIZATION, item.IsCustomized()).
		Logger()

	s.mutate(logger.WithContext(c), "removing item from cart", func(state *State) {
		cart := make([]LineItem, 0, len(state.Cart))
		for _, existing := range state.Cart {
			if existing.Variant.VariantID == item.Variant.VariantID &&
				existing.IsCustomized() == item.IsCustomized() {
				existing.Variant.Quantity--
			}
			if existing.Variant.Quantity > 0 {
				cart = append(cart, existing)
			}
		}
		state.Cart = cart
	})
}

func (s *Store) ClearCart(c context.Context) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "store ClearCart").Logger()
	s.mutate(logger.WithContext(c), "clearing cart", func(state *State) {
		state.Cart = []LineItem{}
	})
}

func (s *Store) SetCheckoutProgress(c context.Context, progress CheckoutProgress) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "store SetCheckoutProgress").
		Str(constants.KEY_CHECKOUT_PROGRESS, string(progress)).
		Logger()
	if !progress.Valid() {
		logger.Warn().Msg("ignoring unknown checkout progress")
		return
	}
	s.mutate(logger.WithContext(c), "setting checkout progress", func(state *State) {
		state.CheckoutProgress = progress
	})
}

func (s *Store) SetCartOpen(c context.Context, open bool) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "store SetCartOpen").Logger()
	s.mutate(logger.WithContext(c), "setting cart open", func(state *State) {
		state.CartOpen = open
	})
}

func (s *Store) mutate(c context.Context, process string, fn func(*State)) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, process).Logger()
	logger.Trace().Msg(process)

	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	if s.persister != nil {
		if err := s.persister.Save(c, s.key, snapshot); err != nil {
			err = fmt.Errorf("failed persisting cart state with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot.clone())
	}
	logger.Trace().Int(constants.KEY_CART_ITEMS, len(snapshot.Cart)).Msg("done " + process)
}
