package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

type BannerRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewBannerRepository(db *sql.DB, logger *logrus.Logger) *BannerRepository {
	return &BannerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	query := `INSERT INTO banners (title, image_url, link_url, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, banner.Title, banner.ImageURL, banner.LinkURL).
		Scan(&banner.ID, &banner.CreatedAt, &banner.UpdatedAt)
	if err != nil {
		r.logger.WithError(err).Error("Failed to create banner")
		return fmt.Errorf("failed to create banner: %w", err)
	}

	return nil
}

func (r *BannerRepository) GetByID(ctx context.Context, id int64) (*models.Banner, error) {
	query := `SELECT id, title, image_url, link_url, created_at, updated_at FROM banners WHERE id = $1`

	var banner models.Banner
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&banner.ID,
		&banner.Title,
		&banner.ImageURL,
		&banner.LinkURL,
		&banner.CreatedAt,
		&banner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}

	return &banner, nil
}

func (r *BannerRepository) List(ctx context.Context, offset, limit int) ([]models.Banner, error) {
	query := `SELECT id, title, image_url, link_url, created_at, updated_at
			  FROM banners ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list banners")
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	var banners []models.Banner
	for rows.Next() {
		var banner models.Banner
		if err := rows.Scan(
			&banner.ID,
			&banner.Title,
			&banner.ImageURL,
			&banner.LinkURL,
			&banner.CreatedAt,
			&banner.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		banners = append(banners, banner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}

	return banners, nil
}

func (r *BannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	query := `UPDATE banners SET title = $1, image_url = $2, link_url = $3, updated_at = NOW() WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, banner.Title, banner.ImageURL, banner.LinkURL, banner.ID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update banner")
		return fmt.Errorf("failed to update banner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM banners WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete banner")
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}
