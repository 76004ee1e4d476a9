package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/techmart/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// ListProducts returns the catalog in display order. Prices and ratings are
// read from the stored labels the same way the product cards show them.
func (m *MySQLAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, category, brand, price_label, rating_label
		FROM products ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var id, name, category, brand, priceLabel, ratingLabel string
		if err := rows.Scan(&id, &name, &category, &brand, &priceLabel, &ratingLabel); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, domain.NewProductFromLabels(id, name, category, brand, priceLabel, ratingLabel))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var id, name, category, brand, priceLabel, ratingLabel string
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, category, brand, price_label, rating_label
		FROM products WHERE id = ?`, productID,
	).Scan(&id, &name, &category, &brand, &priceLabel, &ratingLabel)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	p := domain.NewProductFromLabels(id, name, category, brand, priceLabel, ratingLabel)
	return &p, nil
}

func (m *MySQLAdapter) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	var fields []byte
	if len(sub.Fields) > 0 {
		var err error
		if fields, err = json.Marshal(sub.Fields); err != nil {
			return fmt.Errorf("encode fields: %w", err)
		}
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO submissions (id, kind, session_id, email, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Kind, sub.SessionID, sub.Email, nullableJSON(fields), sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
