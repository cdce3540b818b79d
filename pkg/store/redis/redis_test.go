//go:build integration

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/narrative/pkg/store"
	"github.com/matzehuels/narrative/pkg/store/storetest"
)

// Run with: NARRATIVE_TEST_REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/store/redis/
func TestContract(t *testing.T) {
	addr := os.Getenv("NARRATIVE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NARRATIVE_TEST_REDIS_ADDR not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		prefix := fmt.Sprintf("narrative-test-%d:", time.Now().UnixNano())
		s, err := New(ctx, Config{Addr: addr, Prefix: prefix})
		require.NoError(t, err)
		t.Cleanup(func() {
			s.client.Del(ctx, s.key)
			s.Close()
		})
		return s
	})
}
