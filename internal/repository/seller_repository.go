package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

const pgUniqueViolation = "23505"

type SellerRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSellerRepository(db *sql.DB, logger *logrus.Logger) *SellerRepository {
	return &SellerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	query := `INSERT INTO sellers (name, email, hashed_password, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, seller.Name, seller.Email, seller.HashedPassword).
		Scan(&seller.ID, &seller.CreatedAt, &seller.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailTaken
		}
		r.logger.WithError(err).Error("Failed to create seller")
		return fmt.Errorf("failed to create seller: %w", err)
	}

	return nil
}

func (r *SellerRepository) GetByEmail(ctx context.Context, email string) (*models.Seller, error) {
	query := `SELECT id, name, email, hashed_password, refresh_token, refresh_token_expires_at, created_at, updated_at
			  FROM sellers WHERE email = $1`

	return r.scanSeller(r.db.QueryRowContext(ctx, query, email))
}

func (r *SellerRepository) GetByID(ctx context.Context, id int64) (*models.Seller, error) {
	query := `SELECT id, name, email, hashed_password, refresh_token, refresh_token_expires_at, created_at, updated_at
			  FROM sellers WHERE id = $1`

	return r.scanSeller(r.db.QueryRowContext(ctx, query, id))
}

// UpdateRefreshToken overwrites the stored refresh token hash and expiry in a
// single statement. This is the rotation point: any previously issued refresh
// token stops verifying as soon as the write commits.
func (r *SellerRepository) UpdateRefreshToken(ctx context.Context, sellerID int64, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE sellers SET refresh_token = $1, refresh_token_expires_at = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, tokenHash, expiresAt, sellerID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update refresh token")
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ClearRefreshToken nulls out both refresh token fields together.
func (r *SellerRepository) ClearRefreshToken(ctx context.Context, sellerID int64) error {
	query := `UPDATE sellers SET refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, sellerID); err != nil {
		r.logger.WithError(err).Error("Failed to clear refresh token")
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

func (r *SellerRepository) scanSeller(row *sql.Row) (*models.Seller, error) {
	var seller models.Seller
	var tokenHash sql.NullString
	var tokenExpiry sql.NullTime

	err := row.Scan(
		&seller.ID,
		&seller.Name,
		&seller.Email,
		&seller.HashedPassword,
		&tokenHash,
		&tokenExpiry,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}

	if tokenHash.Valid {
		seller.RefreshTokenHash = &tokenHash.String
	}
	if tokenExpiry.Valid {
		seller.RefreshTokenExpiresAt = &tokenExpiry.Time
	}

	return &seller, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
