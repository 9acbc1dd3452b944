package locker

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "kgl:stock:Maganjo:maize", Key(model.BranchMaganjo, " Maize "))
	assert.NotEqual(t, Key(model.BranchMaganjo, "maize"), Key(model.BranchMatugga, "maize"))
}

func TestNoop(t *testing.T) {
	release, err := Noop{}.Lock(context.Background(), model.BranchMaganjo, "maize")
	require.NoError(t, err)
	release()
}

func TestRedisLocker_SerializesHolders(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}

	l, err := NewRedisLocker(addr, "", 0)
	require.NoError(t, err)
	defer l.Close()

	ctx := context.Background()
	var (
		mu      sync.Mutex
		holders int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, model.BranchMatugga, "beans")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
