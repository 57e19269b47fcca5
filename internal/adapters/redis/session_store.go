package redis

// Package redis provides Redis-based adapters for session storage.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt and
// maintains a per-user index set so all of a user's sessions can be listed.
type SessionStore struct {
	client     redis.UniversalClient
	prefix     string
	userPrefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client:     client,
		prefix:     "session:",
		userPrefix: "user_sessions:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client:     client,
		prefix:     prefix,
		userPrefix: prefix + "by_user:",
	}
}

func (s *SessionStore) sessionKey(id string) string  { return s.prefix + id }
func (s *SessionStore) userKey(userID string) string { return s.userPrefix + userID }

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.ID), data, ttl)
	if sess.UserID != "" {
		pipe.SAdd(ctx, s.userKey(sess.UserID), sess.ID)
		// The index must outlive the longest-lived session it names.
		pipe.ExpireGT(ctx, s.userKey(sess.UserID), ttl)
		pipe.ExpireNX(ctx, s.userKey(sess.UserID), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Double-check expiration (Redis TTL should handle this, but be defensive)
	if time.Now().After(sess.ExpiresAt) {
		// Clean up expired session; if cleanup fails bubble the error up.
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Deleting a missing session is a no-op so callers
// can treat revocation as idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	// Look the session up first so the user index stays consistent. A missing
	// record still gets its key deleted below.
	data, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if err == nil {
		var sess domainauth.Session
		if json.Unmarshal([]byte(data), &sess) == nil && sess.UserID != "" {
			if sremErr := s.client.SRem(ctx, s.userKey(sess.UserID), id).Err(); sremErr != nil {
				return fmt.Errorf("redis unindex session: %w", sremErr)
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis get for delete: %w", err)
	}

	return s.client.Del(ctx, s.sessionKey(id)).Err()
}

// ListByUser returns the user's live sessions. Stale index members whose
// session keys have already expired are pruned as a side effect.
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]domainauth.Session, error) {
	if userID == "" {
		return nil, nil
	}

	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis list user sessions: %w", err)
	}

	var sessions []domainauth.Session
	for _, id := range ids {
		sess, getErr := s.Get(ctx, id)
		if getErr != nil {
			if errors.Is(getErr, ErrNotFound) {
				if sremErr := s.client.SRem(ctx, s.userKey(userID), id).Err(); sremErr != nil {
					return nil, fmt.Errorf("redis prune stale session: %w", sremErr)
				}
				continue
			}
			return nil, getErr
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
