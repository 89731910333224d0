package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arcanaland/taromancer/internal/spread"
)

const (
	// Key is the KV key under which a user's history is stored
	Key = "tarot_history"
	// MaxEntries is how many spreads are kept per user
	MaxEntries = 50

	DefaultCacheSize = 256
)

var ErrNoUser = errors.New("history: user id is required")

// Store keeps the most recent spreads of each user, newest first.
// Reads always go to the KV; the cache only skips decoding an unchanged value.
type Store struct {
	kv    KV
	cache *lru.Cache[string, cachedHistory]
	mu    sync.Mutex
}

// cachedHistory is a decoded history together with the raw value it came from
type cachedHistory struct {
	raw     string
	entries []spread.Result
}

// NewStore wraps kv with a read cache of cacheSize users
func NewStore(kv KV, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedHistory](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("history: create cache: %w", err)
	}
	return &Store{kv: kv, cache: cache}, nil
}

// Add inserts res at the head of the user's history, dropping the oldest
// entries beyond MaxEntries.
func (s *Store) Add(ctx context.Context, userID string, res spread.Result) error {
	if userID == "" {
		return ErrNoUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	next := make([]spread.Result, 0, min(len(entries)+1, MaxEntries))
	next = append(next, res)
	next = append(next, entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := s.kv.Set(ctx, userID, Key, string(data)); err != nil {
		return err
	}
	s.cache.Add(userID, cachedHistory{raw: string(data), entries: next})
	return nil
}

// List returns the user's history, newest first
func (s *Store) List(ctx context.Context, userID string) ([]spread.Result, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]spread.Result(nil), entries...), nil
}

// Clear removes the user's history
func (s *Store) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, userID, Key); err != nil {
		return err
	}
	s.cache.Remove(userID)
	return nil
}

func (s *Store) load(ctx context.Context, userID string) ([]spread.Result, error) {
	raw, ok, err := s.kv.Get(ctx, userID, Key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		s.cache.Remove(userID)
		return nil, nil
	}
	if c, hit := s.cache.Get(userID); hit && c.raw == raw {
		return c.entries, nil
	}

	var entries []spread.Result
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", userID, err)
	}
	s.cache.Add(userID, cachedHistory{raw: raw, entries: entries})
	return entries, nil
}
