// Package store is the device-local durable cache: the last-synced catalog,
// the active cart and the sync watermark, in a single SQLite file. It is
// the only read path for offline lookups.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"scanpay/client/model"
)

// ErrNotFound is the typed miss for every point lookup. Misses are an
// expected outcome of the resolution chain, never a fault.
var ErrNotFound = errors.New("store: not found")

const watermarkKey = "lastSync"

// Store wraps the SQLite cache
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache file and runs migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		sku TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		image_url TEXT DEFAULT '',
		shop TEXT NOT NULL,
		variants TEXT NOT NULL DEFAULT '[]',
		article_no TEXT,
		barcodes TEXT NOT NULL DEFAULT '[]',
		qr_codes TEXT NOT NULL DEFAULT '[]',
		stock_available INTEGER DEFAULT 1,
		last_updated_at INTEGER,
		cached_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_products_article_no ON products(article_no);

	CREATE TABLE IF NOT EXISTS cart (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		image_url TEXT DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 1,
		selected_variant TEXT NOT NULL,
		shop TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// ready reports whether the store can serve lookups. A nil or unopened
// store fails closed: callers see a miss, not a panic.
func (s *Store) ready() bool {
	return s != nil && s.db != nil
}

// UpsertProducts applies a sync batch by SKU, replacing existing rows.
// Re-applying the same batch is a no-op beyond the overwrite. cached_at is
// local bookkeeping only; sync authority is the server watermark.
func (s *Store) UpsertProducts(ctx context.Context, products []model.Product) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO products
			(sku, name, price, image_url, shop, variants, article_no, barcodes, qr_codes, stock_available, last_updated_at, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	cachedAt := time.Now().UnixMilli()
	for _, p := range products {
		variants, _ := json.Marshal(p.Variants)
		barcodes, _ := json.Marshal(p.Barcodes)
		qrCodes, _ := json.Marshal(p.QRCodes)

		stock := 0
		if p.StockAvailable {
			stock = 1
		}

		if _, err := stmt.ExecContext(ctx,
			p.SKU, p.Name, p.Price, p.ImageURL, p.Shop,
			string(variants), p.ArticleNo, string(barcodes), string(qrCodes),
			stock, p.LastUpdatedAt, cachedAt,
		); err != nil {
			return fmt.Errorf("store: upsert %s: %w", p.SKU, err)
		}
	}

	return tx.Commit()
}

const productColumns = `sku, name, price, image_url, shop, variants, article_no, barcodes, qr_codes, stock_available, last_updated_at`

func (s *Store) queryOne(ctx context.Context, query string, args ...interface{}) (*model.Product, error) {
	if !s.ready() {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, query, args...)

	var (
		p        model.Product
		variants string
		barcodes string
		qrCodes  string
		stock    int
	)
	err := row.Scan(&p.SKU, &p.Name, &p.Price, &p.ImageURL, &p.Shop,
		&variants, &p.ArticleNo, &barcodes, &qrCodes, &stock, &p.LastUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan product: %w", err)
	}

	// A row that no longer decodes is corruption, not a miss; the resolver
	// treats the error as a cache miss and falls through to the server
	if err := json.Unmarshal([]byte(variants), &p.Variants); err != nil {
		return nil, fmt.Errorf("store: decode variants for %s: %w", p.SKU, err)
	}
	if err := json.Unmarshal([]byte(barcodes), &p.Barcodes); err != nil {
		return nil, fmt.Errorf("store: decode barcodes for %s: %w", p.SKU, err)
	}
	if err := json.Unmarshal([]byte(qrCodes), &p.QRCodes); err != nil {
		return nil, fmt.Errorf("store: decode qr codes for %s: %w", p.SKU, err)
	}
	p.StockAvailable = stock == 1

	return &p, nil
}

// ProductBySKU returns the cached product with the given SKU
func (s *Store) ProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return s.queryOne(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
}

// ProductByArticleNo returns the first cached product with the given
// article number
func (s *Store) ProductByArticleNo(ctx context.Context, articleNo string) (*model.Product, error) {
	return s.queryOne(ctx,
		`SELECT `+productColumns+` FROM products WHERE article_no = ? LIMIT 1`, articleNo)
}

// ProductByBarcode returns the first cached product carrying the barcode
func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return s.queryOne(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE EXISTS (SELECT 1 FROM json_each(products.barcodes) WHERE json_each.value = ?)
		 LIMIT 1`, barcode)
}

// ProductByQR returns the first cached product carrying the QR payload
func (s *Store) ProductByQR(ctx context.Context, payload string) (*model.Product, error) {
	return s.queryOne(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE EXISTS (SELECT 1 FROM json_each(products.qr_codes) WHERE json_each.value = ?)
		 LIMIT 1`, payload)
}

// Watermark returns the last confirmed sync timestamp, zero when the store
// has never synced
func (s *Store) Watermark(ctx context.Context) (int64, error) {
	if !s.ready() {
		return 0, nil
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM sync_meta WHERE key = ?`, watermarkKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read watermark: %w", err)
	}

	var ts int64
	if _, err := fmt.Sscanf(value, "%d", &ts); err != nil {
		return 0, fmt.Errorf("store: parse watermark %q: %w", value, err)
	}
	return ts, nil
}

// SetWatermark records a confirmed sync timestamp
func (s *Store) SetWatermark(ctx context.Context, ts int64) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sync_meta (key, value) VALUES (?, ?)`,
		watermarkKey, fmt.Sprintf("%d", ts))
	if err != nil {
		return fmt.Errorf("store: set watermark: %w", err)
	}
	return nil
}
