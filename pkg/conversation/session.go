package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Sessions хранит текущий шаг диалога каждого пользователя.
// Шаг создаётся при входе в сценарий и удаляется при завершении или отмене.
type Sessions interface {
	Load(ctx context.Context, userID int64) (State, error)
	Save(ctx context.Context, userID int64, s State) error
	Delete(ctx context.Context, userID int64) error
}

// MemorySessions — хранилище шагов в памяти процесса.
type MemorySessions struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{states: make(map[int64]State)}
}

// Load возвращает nil, если пользователь не в сценарии.
func (m *MemorySessions) Load(ctx context.Context, userID int64) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[userID], nil
}

func (m *MemorySessions) Save(ctx context.Context, userID int64, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = s
	return nil
}

func (m *MemorySessions) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

// RedisSessions хранит шаги в Redis, чтобы незавершённые черновики переживали перезапуск.
// Срок жизни ключей не ограничен, черновик живёт до завершения или отмены.
type RedisSessions struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSessions(rdb *redis.Client, prefix string) *RedisSessions {
	return &RedisSessions{rdb: rdb, prefix: prefix}
}

func (r *RedisSessions) key(userID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, userID)
}

func (r *RedisSessions) Load(ctx context.Context, userID int64) (State, error) {
	data, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState(data)
}

func (r *RedisSessions) Save(ctx context.Context, userID int64, s State) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(userID), data, 0).Err()
}

func (r *RedisSessions) Delete(ctx context.Context, userID int64) error {
	return r.rdb.Del(ctx, r.key(userID)).Err()
}
