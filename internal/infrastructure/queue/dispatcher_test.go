package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenops/carbon-management/internal/core/domain"
)

type memoryAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *memoryAuditRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *memoryAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestAuditDispatcher_WritesInOrderPerCaller(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(3, 16, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	kinds := []domain.AuditKind{domain.AuditLoginFailed, domain.AuditLoginFailed, domain.AuditLogin}
	for _, k := range kinds {
		d.Record(domain.AuditEvent{Kind: k, Email: "ana@example.com"})
	}

	require.Eventually(t, func() bool { return len(repo.snapshot()) == len(kinds) }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()

	got := repo.snapshot()
	for i, k := range kinds {
		assert.Equal(t, k, got[i].Kind)
		assert.NotEmpty(t, got[i].ID)
		assert.False(t, got[i].OccurredAt.IsZero())
	}
}

func TestAuditDispatcher_DropsWhenSaturated(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(1, 1, repo, zerolog.Nop())

	// Not started: the single slot fills and the rest are dropped.
	for i := 0; i < 5; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditRateLimited, RemoteIP: "10.0.0.1"})
	}
	assert.Len(t, d.workers[0], 1)
}

func TestAuditDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(2, 8, repo, zerolog.Nop())

	for i := 0; i < 4; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditRegister, Email: "x@example.com"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	assert.Len(t, repo.snapshot(), 4)
}

func TestAuditDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &memoryAuditRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, 4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Record(domain.AuditEvent{Kind: domain.AuditLogin, Email: "a@example.com"})
	d.Record(domain.AuditEvent{Kind: domain.AuditLogin, Email: "a@example.com"})

	require.Eventually(t, func() bool { return len(d.workers[0]) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()
	assert.Empty(t, repo.snapshot())
}

func TestShardIndex_Stable(t *testing.T) {
	d := NewAuditDispatcher(8, 1, &memoryAuditRepo{}, zerolog.Nop())
	a := d.shardIndex("ana@example.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, d.shardIndex("ana@example.com"))
	}
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 8)
}
