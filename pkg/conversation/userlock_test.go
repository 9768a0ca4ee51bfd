package conversation

import (
	"sync"
	"testing"
)

func TestUserLocksSerializeSameUser(t *testing.T) {
	locks := newUserLocks()
	var wg sync.WaitGroup
	inside := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7)
			defer unlock()
			inside++
			if inside != 1 {
				t.Errorf("два обработчика одного пользователя одновременно")
			}
			inside--
		}()
	}
	wg.Wait()

	if len(locks.locks) != 0 {
		t.Fatalf("после разблокировки записи должны удаляться, осталось %d", len(locks.locks))
	}
}
