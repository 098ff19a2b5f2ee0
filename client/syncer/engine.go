// Package syncer converges the local product cache with the server catalog
// via incremental delta pulls.
package syncer

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"scanpay/client/api"
	"scanpay/client/model"
	"scanpay/pkg/logger"
)

// ErrOffline is the only failure callers see from a sync attempt. The
// underlying cause is logged, not propagated: the existing cache stays the
// valid fallback either way.
var ErrOffline = errors.New("syncer: offline")

// CatalogAPI is the server catalog delta endpoint
type CatalogAPI interface {
	Catalog(ctx context.Context, since int64) (*api.CatalogResponse, error)
}

// CacheStore is the local product cache plus the sync watermark
type CacheStore interface {
	Watermark(ctx context.Context) (int64, error)
	SetWatermark(ctx context.Context, ts int64) error
	UpsertProducts(ctx context.Context, products []model.Product) error
}

// Engine pulls catalog deltas and tracks whether the server was reachable
// on the last attempt
type Engine struct {
	api    CatalogAPI
	store  CacheStore
	online atomic.Bool
}

// NewEngine creates a sync engine over the given API and cache
func NewEngine(catalogAPI CatalogAPI, store CacheStore) *Engine {
	e := &Engine{api: catalogAPI, store: store}
	e.online.Store(true)
	return e
}

// Online reports whether the last sync attempt reached the server
func (e *Engine) Online() bool {
	return e.online.Load()
}

// Sync pulls every product changed since the local watermark, upserts the
// batch and advances the watermark to the server-reported sync time. The
// watermark is only ever moved after a fully applied pull, so a failed or
// interrupted sync re-fetches the same delta next time.
func (e *Engine) Sync(ctx context.Context) error {
	log := logger.FromContext(ctx)

	since, err := e.store.Watermark(ctx)
	if err != nil {
		return err
	}

	resp, err := e.api.Catalog(ctx, since)
	if err != nil {
		e.online.Store(false)
		log.Debug("Catalog sync failed, staying on cache", zap.Error(err))
		return ErrOffline
	}

	if err := e.store.UpsertProducts(ctx, resp.Products); err != nil {
		return err
	}

	// The server's clock, not ours, defines the next lower bound; a skewed
	// local clock must not cause missed updates
	if err := e.store.SetWatermark(ctx, resp.SyncedAt); err != nil {
		return err
	}

	e.online.Store(true)
	log.Debug("Catalog synced",
		zap.Int64("since", since),
		zap.Int64("synced_at", resp.SyncedAt),
		zap.Int("products", len(resp.Products)))
	return nil
}
