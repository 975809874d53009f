package service

import (
	"testing"
	"time"

	"github.com/sesmlabs/fabric/internal/domain"
	"github.com/sesmlabs/fabric/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweeperRemovesExpiredEntries(t *testing.T) {
	es := store.NewEpisodicStore()
	sweeper := NewSweeperService(es, domain.SystemClock{}, zap.NewNop())
	sweeper.SetInterval(5 * time.Millisecond)

	_, _, err := es.InsertOrRefresh("door is open", "door is open", 10*time.Millisecond, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, es.Len())

	sweeper.Start()
	defer sweeper.Stop()

	assert.Eventually(t, func() bool { return es.Len() == 0 },
		time.Second, 5*time.Millisecond, "sweeper should remove the expired entry")
}

func TestSweeperStopTerminates(t *testing.T) {
	es := store.NewEpisodicStore()
	sweeper := NewSweeperService(es, domain.SystemClock{}, zap.NewNop())
	sweeper.SetInterval(time.Millisecond)

	sweeper.Start()

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
