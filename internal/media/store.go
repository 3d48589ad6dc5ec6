// Package media integrates the external object store that holds uploaded
// avatars and tweet attachments. The store is a collaborator, not part of
// the core: callers hold only {URL, Key} references.
package media

import (
	"context"
	"log/slog"
	"time"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/observability"
)

// Object is a reference to a stored media object.
type Object struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Store is the media collaborator interface. Both operations may fail
// transiently; callers see such failures as StorageError.
type Store interface {
	Upload(ctx context.Context, name string, content []byte) (Object, error)
	Delete(ctx context.Context, key string) error
}

// RetryStore wraps a Store with a bounded retry policy for transient
// failures. Context cancellation cuts retries short.
type RetryStore struct {
	inner    Store
	attempts int
	backoff  time.Duration
}

// NewRetryStore wraps inner with the given number of attempts. Attempts
// below 1 are treated as 1.
func NewRetryStore(inner Store, attempts int, backoff time.Duration) *RetryStore {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryStore{inner: inner, attempts: attempts, backoff: backoff}
}

func (s *RetryStore) Upload(ctx context.Context, name string, content []byte) (Object, error) {
	var lastErr error
	for i := 0; i < s.attempts; i++ {
		obj, err := s.inner.Upload(ctx, name, content)
		observability.ObserveMediaStore("upload", err)
		if err == nil {
			return obj, nil
		}
		lastErr = err
		if !s.wait(ctx, i) {
			break
		}
	}
	middleware.Logger.ErrorContext(ctx, "media upload failed",
		slog.String("name", name),
		slog.Int("attempts", s.attempts),
		slog.String("error", lastErr.Error()),
	)
	return Object{}, models.NewStorageError(lastErr)
}

func (s *RetryStore) Delete(ctx context.Context, key string) error {
	var lastErr error
	for i := 0; i < s.attempts; i++ {
		err := s.inner.Delete(ctx, key)
		observability.ObserveMediaStore("delete", err)
		if err == nil {
			return nil
		}
		lastErr = err
		if !s.wait(ctx, i) {
			break
		}
	}
	middleware.Logger.ErrorContext(ctx, "media delete failed",
		slog.String("key", key),
		slog.Int("attempts", s.attempts),
		slog.String("error", lastErr.Error()),
	)
	return models.NewStorageError(lastErr)
}

// wait sleeps before the next attempt; returns false when no attempt should
// follow (context done or this was the last try).
func (s *RetryStore) wait(ctx context.Context, attempt int) bool {
	if attempt >= s.attempts-1 {
		return false
	}
	if s.backoff <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.backoff << attempt):
		return true
	}
}
