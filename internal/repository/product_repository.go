package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

type ProductRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewProductRepository(db *sql.DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, name, description, price, image, phone_number, seller_id, arrival, deleted, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `INSERT INTO products (name, description, price, image, phone_number, seller_id, arrival, deleted, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		models.EncodeImages(product.Images),
		product.PhoneNumber,
		product.SellerID,
		product.Arrival,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.logger.WithError(err).Error("Failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted = FALSE`

	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted = FALSE ORDER BY id`

	return r.queryProducts(ctx, query)
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE seller_id = $1 AND deleted = FALSE ORDER BY id`

	return r.queryProducts(ctx, query, sellerID)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products SET name = $1, description = $2, price = $3, image = $4, phone_number = $5, arrival = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted = FALSE`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		models.EncodeImages(product.Images),
		product.PhoneNumber,
		product.Arrival,
		product.ID,
	)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete marks the product deleted; rows stay behind for existing orders.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		var rawImages string
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&rawImages,
			&product.PhoneNumber,
			&product.SellerID,
			&product.Arrival,
			&product.Deleted,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		product.Images = models.DecodeImages(rawImages)
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func scanProduct(row *sql.Row) (*models.Product, error) {
	var product models.Product
	var rawImages string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&rawImages,
		&product.PhoneNumber,
		&product.SellerID,
		&product.Arrival,
		&product.Deleted,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.Images = models.DecodeImages(rawImages)
	return &product, nil
}
