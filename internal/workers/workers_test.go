package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/mock"
	"github.com/MKhiriev/go-pref-sync/models"
)

type countingWorker struct {
	runs atomic.Int32
}

func (w *countingWorker) Run(ctx context.Context) {
	w.runs.Add(1)
	<-ctx.Done()
}

func TestWorkers_RunAllAndStop(t *testing.T) {
	first := &countingWorker{}
	second := &countingWorker{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorkers(first, second).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return first.runs.Load() == 1 && second.runs.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}

// TestResyncWorker_RetriesOnlyFailedKinds verifies that the sweep leaves
// healthy kinds alone and retries the broken one.
func TestResyncWorker_RetriesOnlyFailedKinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mock.NewMockReconciliationEngine(ctrl)

	engine.EXPECT().State(models.KindPreferences).Return(models.StateError).MinTimes(1)
	engine.EXPECT().Err(models.KindPreferences).Return(errors.New("network down")).MinTimes(1)
	engine.EXPECT().Resync(models.KindPreferences).MinTimes(1)
	engine.EXPECT().State(models.KindCredentials).Return(models.StateSubscribed).MinTimes(1)

	worker := NewResyncWorker(engine, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	worker.Run(ctx)
}

func TestSessionWorker_ForwardsSessionsToEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mock.NewMockReconciliationEngine(ctrl)

	engine.EXPECT().Run(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, sessions <-chan models.Session) {
			// the subscribed channel must deliver the current session first
			select {
			case session := <-sessions:
				assert.True(t, session.Anonymous)
			case <-time.After(time.Second):
				t.Error("no session delivered")
			}
		})

	worker := NewSessionWorker(engine, auth.NewSignal())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	worker.Run(ctx)
}
