// Package resolver turns a raw scan into a product. Sources are consulted
// in strict order: the bundled sample set, the local cache, then a live
// server lookup when the client is online. The first hit wins.
package resolver

import (
	"context"
	"errors"
	"strings"

	"scanpay/client/model"
)

var (
	// ErrEmptyScan rejects a scan with no payload; the only malformed-input
	// case
	ErrEmptyScan = errors.New("resolver: empty scan payload")
	// ErrNotFound is the typed miss after every source has been consulted
	ErrNotFound = errors.New("resolver: product not found")
)

// Kind declares how a scan payload should be interpreted
type Kind string

const (
	KindBarcode Kind = "barcode"
	KindQR      Kind = "qr"
	KindArticle Kind = "articleNo"
	KindSKU     Kind = "sku"
)

// Scan is a raw scanned or typed code
type Scan struct {
	Payload string
	Kind    Kind
}

// LocalStore is the offline cache lookup surface
type LocalStore interface {
	ProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	ProductByQR(ctx context.Context, payload string) (*model.Product, error)
	ProductByArticleNo(ctx context.Context, articleNo string) (*model.Product, error)
}

// LookupAPI is the live server fallback
type LookupAPI interface {
	Lookup(ctx context.Context, key, value string) (*model.Product, error)
}

// Resolver resolves scans against samples, cache and server in order
type Resolver struct {
	samples []model.Product
	store   LocalStore
	api     LookupAPI
	online  func() bool
}

// New creates a resolver. online reports current connectivity and gates the
// server fallback; a nil api or online disables that source.
func New(samples []model.Product, store LocalStore, lookupAPI LookupAPI, online func() bool) *Resolver {
	return &Resolver{
		samples: samples,
		store:   store,
		api:     lookupAPI,
		online:  online,
	}
}

// Resolve returns the first product matching the scan, or ErrNotFound.
// Misses in one source fall through to the next; any store error short of a
// miss is treated as a miss too, so a broken cache never blocks scanning.
func (r *Resolver) Resolve(ctx context.Context, scan Scan) (*model.Product, error) {
	payload := strings.TrimSpace(scan.Payload)
	if payload == "" {
		return nil, ErrEmptyScan
	}

	if p := r.fromSamples(payload); p != nil {
		return p, nil
	}

	if p := r.fromStore(ctx, scan.Kind, payload); p != nil {
		return p, nil
	}

	if r.api != nil && r.online != nil && r.online() {
		if p, err := r.api.Lookup(ctx, string(scan.Kind), payload); err == nil {
			return p, nil
		}
	}

	return nil, ErrNotFound
}

// fromSamples matches the bundled demo set by article number or SKU so
// scanning works with zero network and zero cache
func (r *Resolver) fromSamples(payload string) *model.Product {
	for i := range r.samples {
		if r.samples[i].ArticleNo == payload || r.samples[i].SKU == payload {
			return &r.samples[i]
		}
	}
	return nil
}

func (r *Resolver) fromStore(ctx context.Context, kind Kind, payload string) *model.Product {
	if r.store == nil {
		return nil
	}

	var (
		p   *model.Product
		err error
	)
	switch kind {
	case KindBarcode:
		p, err = r.store.ProductByBarcode(ctx, payload)
	case KindQR:
		p, err = r.store.ProductByQR(ctx, payload)
	case KindArticle:
		p, err = r.store.ProductByArticleNo(ctx, payload)
	case KindSKU:
		p, err = r.store.ProductBySKU(ctx, payload)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return p
}
