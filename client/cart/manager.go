// Package cart mutates the durable cart and keeps an in-memory snapshot
// that always equals the persisted state: every mutation is followed by a
// full reload from storage.
package cart

import (
	"context"

	"github.com/google/uuid"

	"scanpay/client/api"
	"scanpay/client/model"
)

// Store is the durable cart surface
type Store interface {
	CartLines(ctx context.Context) ([]model.CartLine, error)
	AddOrIncrementLine(ctx context.Context, id string, line model.CartLine) error
	SetLineQuantity(ctx context.Context, id string, quantity int) error
	RemoveLine(ctx context.Context, id string) error
	ClearCart(ctx context.Context) error
}

// Manager owns the active cart
type Manager struct {
	store Store
	lines []model.CartLine
}

// NewManager loads the persisted cart and returns a manager over it
func NewManager(ctx context.Context, store Store) (*Manager, error) {
	m := &Manager{store: store}
	if err := m.reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) reload(ctx context.Context) error {
	lines, err := m.store.CartLines(ctx)
	if err != nil {
		return err
	}
	m.lines = lines
	return nil
}

// Lines returns the current cart snapshot
func (m *Manager) Lines() []model.CartLine {
	return m.lines
}

// Add puts one unit of the product in the selected variant into the cart.
// An existing (SKU, variant) line is incremented instead of duplicated.
func (m *Manager) Add(ctx context.Context, product model.Product, variant string) error {
	line := model.CartLine{
		SKU:             product.SKU,
		Name:            product.Name,
		Price:           product.Price,
		ImageURL:        product.ImageURL,
		SelectedVariant: variant,
		Shop:            product.Shop,
	}
	if err := m.store.AddOrIncrementLine(ctx, uuid.New().String(), line); err != nil {
		return err
	}
	return m.reload(ctx)
}

// SetQuantity updates a line's quantity. Quantities below one are a no-op;
// removal goes through Remove.
func (m *Manager) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if err := m.store.SetLineQuantity(ctx, id, quantity); err != nil {
		return err
	}
	return m.reload(ctx)
}

// Remove deletes a line unconditionally
func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.store.RemoveLine(ctx, id); err != nil {
		return err
	}
	return m.reload(ctx)
}

// Clear empties the cart, used after a completed checkout
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.ClearCart(ctx); err != nil {
		return err
	}
	return m.reload(ctx)
}

// OrderLines converts the cart into the checkout submission shape. Prices
// deliberately stay behind: the server recomputes them.
func (m *Manager) OrderLines() []api.OrderLine {
	out := make([]api.OrderLine, 0, len(m.lines))
	for _, line := range m.lines {
		out = append(out, api.OrderLine{
			SKU:             line.SKU,
			Quantity:        line.Quantity,
			SelectedVariant: line.SelectedVariant,
		})
	}
	return out
}
