package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

type OrderRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewOrderRepository(db *sql.DB, logger *logrus.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, reference, user_id, product_id, quantity, address, pincode, status, deleted, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `INSERT INTO orders (reference, user_id, product_id, quantity, address, pincode, status, deleted, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		order.Reference,
		order.UserID,
		order.ProductID,
		order.Quantity,
		order.Address,
		order.Pincode,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.WithError(err).Error("Failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND deleted = FALSE`

	var order models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Reference,
		&order.UserID,
		&order.ProductID,
		&order.Quantity,
		&order.Address,
		&order.Pincode,
		&order.Status,
		&order.Deleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE deleted = FALSE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(
			&order.ID,
			&order.Reference,
			&order.UserID,
			&order.ProductID,
			&order.Quantity,
			&order.Address,
			&order.Pincode,
			&order.Status,
			&order.Deleted,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted = FALSE`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}
