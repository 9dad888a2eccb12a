package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/geosync/geosync/models"
)

// countingSyncService is a ClientSyncService stub that counts SyncAll calls.
type countingSyncService struct {
	calls atomic.Int32
}

func (c *countingSyncService) CloneProject(ctx context.Context, namespace, name, dir string) (models.LocalProject, error) {
	return models.LocalProject{}, nil
}

func (c *countingSyncService) SyncProject(ctx context.Context, project models.LocalProject) (models.FileSyncPlan, error) {
	return models.FileSyncPlan{}, nil
}

func (c *countingSyncService) ListProjects(ctx context.Context) ([]models.LocalProject, error) {
	return nil, nil
}

func (c *countingSyncService) SyncAll(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestClientSyncJob_RunsPeriodically(t *testing.T) {
	syncService := &countingSyncService{}
	job := NewClientSyncJob(syncService)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	if calls := syncService.calls.Load(); calls < 2 {
		t.Errorf("expected at least 2 sync runs, got %d", calls)
	}
}

func TestClientSyncJob_StopIsIdempotent(t *testing.T) {
	job := NewClientSyncJob(&countingSyncService{})

	// Stop before Start must not panic or block.
	job.Stop()

	job.Start(context.Background(), time.Minute)
	job.Stop()
	job.Stop()
}

func TestClientSyncJob_RestartReplacesPreviousJob(t *testing.T) {
	syncService := &countingSyncService{}
	job := NewClientSyncJob(syncService)

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	if calls := syncService.calls.Load(); calls < 1 {
		t.Errorf("expected the restarted job to run, got %d calls", calls)
	}
}

func TestClientSyncJob_StopsOnContextCancel(t *testing.T) {
	syncService := &countingSyncService{}
	job := NewClientSyncJob(syncService)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	before := syncService.calls.Load()
	time.Sleep(30 * time.Millisecond)
	after := syncService.calls.Load()

	if before != after {
		t.Errorf("job kept running after context cancellation: %d -> %d", before, after)
	}

	job.Stop()
}
