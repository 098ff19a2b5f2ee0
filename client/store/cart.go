package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"scanpay/client/model"
)

// CartLines returns every active cart line
func (s *Store) CartLines(ctx context.Context) ([]model.CartLine, error) {
	if !s.ready() {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sku, name, price, image_url, quantity, selected_variant, shop FROM cart`)
	if err != nil {
		return nil, fmt.Errorf("store: load cart: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		if err := rows.Scan(&line.ID, &line.SKU, &line.Name, &line.Price,
			&line.ImageURL, &line.Quantity, &line.SelectedVariant, &line.Shop); err != nil {
			return nil, fmt.Errorf("store: scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AddOrIncrementLine merges on duplicate: an existing line with the same
// SKU and variant gets its quantity bumped by one, otherwise a new line is
// inserted with quantity one under the given id.
func (s *Store) AddOrIncrementLine(ctx context.Context, id string, line model.CartLine) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}

	var existingID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM cart WHERE sku = ? AND selected_variant = ?`,
		line.SKU, line.SelectedVariant).Scan(&existingID)

	switch {
	case err == nil:
		_, err = s.db.ExecContext(ctx,
			`UPDATE cart SET quantity = quantity + 1 WHERE id = ?`, existingID)
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO cart (id, sku, name, price, image_url, quantity, selected_variant, shop)
			 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
			id, line.SKU, line.Name, line.Price, line.ImageURL, line.SelectedVariant, line.Shop)
	}
	if err != nil {
		return fmt.Errorf("store: add cart line: %w", err)
	}
	return nil
}

// SetLineQuantity updates the quantity of an existing line
func (s *Store) SetLineQuantity(ctx context.Context, id string, quantity int) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE cart SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("store: set quantity: %w", err)
	}
	return nil
}

// RemoveLine deletes a cart line if present
func (s *Store) RemoveLine(ctx context.Context, id string) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: remove cart line: %w", err)
	}
	return nil
}

// ClearCart deletes every cart line, used after a completed checkout
func (s *Store) ClearCart(ctx context.Context) error {
	if !s.ready() {
		return errors.New("store: not initialized")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart`)
	if err != nil {
		return fmt.Errorf("store: clear cart: %w", err)
	}
	return nil
}
