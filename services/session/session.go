// Package session keeps the state of the search page between requests: the
// last form values, the status line and the accumulated result rows.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"slotfinder/models"
	"slotfinder/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// State is what the page shows for one visitor.
type State struct {
	Status              string              `json:"status"`
	Rows                []models.GroupedRow `json:"rows"`
	Lat                 float64             `json:"lat"`
	Lng                 float64             `json:"lng"`
	City                string              `json:"city,omitempty"`
	Street              string              `json:"street,omitempty"`
	FromDate            string              `json:"fromDate"`
	ToDate              string              `json:"toDate"`
	MinSlots            int                 `json:"minSlots"`
	MaxNearestLocations int                 `json:"maxNearestLocations"`
	Mode                string              `json:"mode"`
	Located             bool                `json:"located"`
}

type Store interface {
	Load(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, id string, state State) error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.New().String()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) (State, bool, error) {
	data, err := s.client.Get(ctx, utils.SessionCachePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, err
	}
	return state, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, utils.SessionCachePrefix+id, data, s.ttl).Err()
}

// MemoryStore is used when Redis is disabled. Entries never expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if ok {
		state.Rows = append([]models.GroupedRow(nil), state.Rows...)
	}
	return state, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Rows = append([]models.GroupedRow(nil), state.Rows...)
	s.sessions[id] = state
	return nil
}
