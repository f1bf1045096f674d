package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionState is the position of one user inside the quiz conversation.
type SessionState string

const (
	StateIdle               SessionState = "idle"
	StateChoosingDifficulty SessionState = "choosing_difficulty"
	StateWaitingForAnswer   SessionState = "waiting_for_answer"
)

// Session is the ephemeral per-user conversation record. TaskID is set only
// while waiting for an answer.
type Session struct {
	State  SessionState `json:"state"`
	TaskID uint         `json:"task_id,omitempty"`
}

// SessionStore keeps conversation sessions keyed by Telegram user id. A
// missing session reads back as Idle.
type SessionStore interface {
	Get(telegramID int64) (Session, error)
	Set(telegramID int64, session Session) error
	Clear(telegramID int64) error
}

// NewSessionStore picks Redis when a client is configured, otherwise falls
// back to in-memory storage (sessions are lost on restart).
func NewSessionStore(client *redis.Client) SessionStore {
	if client != nil {
		return NewRedisSessionStore(client)
	}
	return NewMemorySessionStore()
}

const sessionTTL = 24 * time.Hour

type RedisSessionStore struct {
	redis *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func sessionKey(telegramID int64) string {
	return fmt.Sprintf("session:%d", telegramID)
}

func (s *RedisSessionStore) Get(telegramID int64) (Session, error) {
	ctx := context.Background()

	data, err := s.redis.Get(ctx, sessionKey(telegramID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{State: StateIdle}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return Session{}, err
	}

	return session, nil
}

func (s *RedisSessionStore) Set(telegramID int64, session Session) error {
	ctx := context.Background()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, sessionKey(telegramID), data, sessionTTL).Err()
}

func (s *RedisSessionStore) Clear(telegramID int64) error {
	ctx := context.Background()
	return s.redis.Del(ctx, sessionKey(telegramID)).Err()
}

// MemorySessionStore - fallback вариант
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]Session),
	}
}

func (s *MemorySessionStore) Get(telegramID int64) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return Session{State: StateIdle}, nil
	}
	return session, nil
}

func (s *MemorySessionStore) Set(telegramID int64, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[telegramID] = session
	return nil
}

func (s *MemorySessionStore) Clear(telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, telegramID)
	return nil
}
