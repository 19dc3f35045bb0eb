package store

import (
	"context"
	"errors"
)

type conversationKeyContext struct{}

// WithConversationKey sets the routing key for state storage in the
// context. Every store read and write of a turn is scoped by it.
func WithConversationKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, conversationKeyContext{}, key)
}

// ConversationKeyFromContext gets the routing key from the context.
func ConversationKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(conversationKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok && key != ""
}

// Store binds a Cache to a namespace and a context key function.
type Store[S any] struct {
	core      Cache[S]
	namespace string
	keyFn     func(ctx context.Context) (string, bool)
}

func New[S any](core Cache[S], namespace string, keyFn func(ctx context.Context) (string, bool)) Store[S] {
	return Store[S]{
		core:      core,
		namespace: namespace,
		keyFn:     keyFn,
	}
}

// NewConversationStore binds a Cache to a namespace keyed by the
// conversation key carried in the context.
func NewConversationStore[S any](core Cache[S], namespace string) Store[S] {
	return New(core, namespace, ConversationKeyFromContext)
}

func (s Store[S]) key(ctx context.Context) (string, bool) {
	key, exist := s.keyFn(ctx)
	if !exist {
		return "", false
	}
	return s.namespace + ":" + key, true
}

func (s Store[S]) Set(ctx context.Context, val S) error {
	key, ok := s.key(ctx)
	if !ok {
		return errors.New("key not found")
	}
	return s.core.Set(ctx, key, val)
}

// Get returns the stored record, or the zero record when none exists
// yet. Records are created lazily on first Set.
func (s Store[S]) Get(ctx context.Context) (S, bool, error) {
	key, ok := s.key(ctx)
	if !ok {
		var zero S
		return zero, false, errors.New("key not found")
	}
	return s.core.Get(ctx, key)
}

func (s Store[S]) Del(ctx context.Context) error {
	key, ok := s.key(ctx)
	if !ok {
		return errors.New("key not found")
	}
	return s.core.Del(ctx, key)
}

func (s Store[S]) Exists(ctx context.Context) (bool, error) {
	key, ok := s.key(ctx)
	if !ok {
		return false, errors.New("key not found")
	}
	return s.core.Exists(ctx, key)
}
