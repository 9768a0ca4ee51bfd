package bot

import (
	"sync"

	"github.com/gotd/td/tg"
)

// peerCache запоминает access hash пользователей из пришедших обновлений.
// Без него бот не может первым написать пользователю, например новому участнику.
type peerCache struct {
	mu     sync.RWMutex
	hashes map[int64]int64
}

func newPeerCache() *peerCache {
	return &peerCache{hashes: make(map[int64]int64)}
}

func (c *peerCache) remember(e tg.Entities) {
	if len(e.Users) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, u := range e.Users {
		if u == nil {
			continue
		}
		if hash, ok := u.GetAccessHash(); ok {
			c.hashes[id] = hash
		}
	}
}

// peer возвращает адрес пользователя. Неизвестный hash передаётся нулём.
func (c *peerCache) peer(userID int64) *tg.InputPeerUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &tg.InputPeerUser{UserID: userID, AccessHash: c.hashes[userID]}
}
