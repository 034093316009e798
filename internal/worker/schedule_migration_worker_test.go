package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/daycare-backend/internal/service"
)

type countingMigrator struct {
	calls atomic.Int32
	err   error
}

func (m *countingMigrator) RunScheduled(_ context.Context) (*service.MigrationResult, error) {
	n := m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &service.MigrationResult{Month: "2025-03", Applied: []int{}, Skipped: n > 1}, nil
}

func TestScheduleMigrationWorker_RunsAtStartupAndOnTick(t *testing.T) {
	m := &countingMigrator{}
	w := NewScheduleMigrationWorker(m, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestScheduleMigrationWorker_KeepsGoingAfterError(t *testing.T) {
	m := &countingMigrator{err: errors.New("redis down")}
	w := NewScheduleMigrationWorker(m, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.Eventually(t, func() bool { return m.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestNewScheduleMigrationWorker_DefaultsInterval(t *testing.T) {
	w := NewScheduleMigrationWorker(&countingMigrator{}, 0, zerolog.Nop())
	assert.Equal(t, time.Hour, w.interval)
}
