package service

import (
	"github.com/geosync/geosync/internal/adapter"
	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/workers"
)

// ClientServices bundles every client-side service behind one constructor.
type ClientServices struct {
	Auth    ClientAuthService
	Sync    ClientSyncService
	SyncJob ClientSyncJob
}

func NewClientServices(serverAdapter adapter.ServerAdapter, storages *store.ClientStorages, cfg config.ClientConfig, logger *logger.Logger) *ClientServices {
	pool := workers.NewPool(cfg.Workers.DownloadConcurrency)
	syncService := NewClientSyncService(serverAdapter, NewFileSyncPlanner(), storages.Projects, pool, logger)

	return &ClientServices{
		Auth:    NewClientAuthService(serverAdapter, storages.Sessions, logger),
		Sync:    syncService,
		SyncJob: NewClientSyncJob(syncService),
	}
}
