package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"online-panthi/services/assistant/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	MaxTurns   = 50
	historyTTL = 30 * 24 * time.Hour
)

// Store keeps a chat history per owner, trimmed to the last MaxTurns messages.
type Store interface {
	Load(ctx context.Context, owner string) ([]entity.Message, error)
	Append(ctx context.Context, owner string, msgs ...entity.Message) error
	Clear(ctx context.Context, owner string) error
}

func Key(owner string) string {
	return fmt.Sprintf("assistant:history:%s", owner)
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Load(ctx context.Context, owner string) ([]entity.Message, error) {
	raw, err := s.client.LRange(ctx, Key(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]entity.Message, 0, len(raw))
	for _, item := range raw {
		var m entity.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *redisStore) Append(ctx context.Context, owner string, msgs ...entity.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	key := Key(owner)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -MaxTurns, -1)
		pipe.Expire(ctx, key, historyTTL)
		return nil
	})
	return err
}

func (s *redisStore) Clear(ctx context.Context, owner string) error {
	return s.client.Del(ctx, Key(owner)).Err()
}

const (
	// MaxMemoryOwners bounds how many conversations the in-process store holds.
	MaxMemoryOwners = 1000
	memoryIdleTTL   = 24 * time.Hour
)

type memoryConversation struct {
	messages []entity.Message
	lastSeen time.Time
}

type memoryStore struct {
	mu        sync.Mutex
	owners    map[string]*memoryConversation
	maxOwners int
	idleTTL   time.Duration
	now       func() time.Time
}

// NewMemoryStore keeps history in process. Used when Redis is unavailable. Idle conversations
// expire and the least recently used one is evicted once MaxMemoryOwners is reached.
func NewMemoryStore() Store {
	return newMemoryStore(MaxMemoryOwners, memoryIdleTTL, time.Now)
}

func newMemoryStore(maxOwners int, idleTTL time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{
		owners:    map[string]*memoryConversation{},
		maxOwners: maxOwners,
		idleTTL:   idleTTL,
		now:       now,
	}
}

func (s *memoryStore) Load(ctx context.Context, owner string) ([]entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.owners[owner]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(conv.lastSeen) > s.idleTTL {
		delete(s.owners, owner)
		return nil, nil
	}
	return append([]entity.Message(nil), conv.messages...), nil
}

func (s *memoryStore) Append(ctx context.Context, owner string, msgs ...entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv, ok := s.owners[owner]
	if ok && now.Sub(conv.lastSeen) > s.idleTTL {
		conv.messages = nil
	}
	if !ok {
		s.makeRoom(now)
		conv = &memoryConversation{}
		s.owners[owner] = conv
	}

	all := append(conv.messages, msgs...)
	if len(all) > MaxTurns {
		all = all[len(all)-MaxTurns:]
	}
	conv.messages = all
	conv.lastSeen = now
	return nil
}

// makeRoom drops idle conversations, then the least recently used one if still full.
func (s *memoryStore) makeRoom(now time.Time) {
	if len(s.owners) < s.maxOwners {
		return
	}
	var oldest string
	var oldestSeen time.Time
	for owner, conv := range s.owners {
		if now.Sub(conv.lastSeen) > s.idleTTL {
			delete(s.owners, owner)
			continue
		}
		if oldest == "" || conv.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen = owner, conv.lastSeen
		}
	}
	if len(s.owners) >= s.maxOwners && oldest != "" {
		delete(s.owners, oldest)
	}
}

func (s *memoryStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, owner)
	return nil
}
