package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tcmc-hq/tcmc-client/internal/config"
	"github.com/tcmc-hq/tcmc-client/internal/harvest"
	"github.com/tcmc-hq/tcmc-client/internal/logger"
	"github.com/tcmc-hq/tcmc-client/internal/storage"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tcmc-hq/tcmc-client/pkg/publishers"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/clientuser"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/qalog"
)

// Harvester represents the QA-log harvester runtime. It runs the harvest loop
// against the admin API and forwards new logs to the configured publishers.
// It also handles storage initialization and cleanup.
type Harvester struct {
	cfg             *config.Config
	fanout          *publishers.Fanout
	service         *harvest.Service
	harvestInterval time.Duration
	log             logger.Logger
	store           storage.Store
}

// NewDispatcher builds the API dispatcher from config.
func NewDispatcher(cfg *config.Config) *httpclient.Dispatcher {
	return httpclient.New(httpclient.Config{
		BaseURL:            cfg.APIBaseURL,
		DefaultContentType: cfg.APIContentType,
		Timeout:            cfg.APITimeout,
	}, httpclient.NewRestyTransport())
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	dispatcher := NewDispatcher(cfg)
	service := harvest.NewService(
		clientuser.NewClient(dispatcher),
		qalog.NewClient(dispatcher),
		fanout,
		store,
		log,
		cfg.SessionPageSize,
	)

	return &Harvester{
		cfg:             cfg,
		fanout:          fanout,
		service:         service,
		harvestInterval: cfg.HarvestInterval,
		log:             log,
		store:           store,
	}, nil
}

// Run starts the harvest loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"api_base_url":     h.cfg.APIBaseURL,
		"publishers_count": h.fanout.Size(),
		"harvest_interval": h.harvestInterval.String(),
	})

	if err := h.runOnce(ctx); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err)
	}

	ticker := time.NewTicker(h.harvestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err)
			}
		}
	}
}

// runOnce performs a single harvest pass.
func (h *Harvester) runOnce(ctx context.Context) error {
	start := time.Now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"started_at": start.UTC(),
	})
	stats, err := h.service.Run(ctx)
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"stats":      stats,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and publisher clients, logging any errors encountered.
func (h *Harvester) close() {
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			h.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := h.fanout.Close(); err != nil {
		h.log.ErrorObj("publishers close failed", "error", err)
	}
}
