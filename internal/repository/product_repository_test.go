package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekart/ekart/internal/models"
)

func productRowColumns() []string {
	return []string{
		"id", "name", "description", "price", "image", "phone_number",
		"seller_id", "arrival", "deleted", "created_at", "updated_at",
	}
}

func TestProductRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, testLogger())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WithArgs("Lamp", "A lamp", 49.99, `["https://cdn.example.com/lamp.jpg"]`, "+911234567890", int64(3), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	product := &models.Product{
		Name:        "Lamp",
		Description: "A lamp",
		Price:       49.99,
		Images:      []string{"https://cdn.example.com/lamp.jpg"},
		PhoneNumber: "+911234567890",
		SellerID:    3,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	assert.Equal(t, int64(11), product.ID)
}

func TestProductRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, testLogger())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1 AND deleted = FALSE`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(productRowColumns()).
			AddRow(int64(11), "Lamp", "A lamp", 49.99, `["https://cdn.example.com/lamp.jpg"]`, "+911234567890", int64(3), false, false, now, now))

	product, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Name)
	assert.Equal(t, []string{"https://cdn.example.com/lamp.jpg"}, product.Images)
}

func TestProductRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductRepository_ListBySeller(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, testLogger())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE seller_id = $1 AND deleted = FALSE`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(productRowColumns()).
			AddRow(int64(11), "Lamp", "A lamp", 49.99, `[]`, "+911234567890", int64(3), false, false, now, now).
			AddRow(int64(12), "Desk", "A desk", 149.99, `["https://cdn.example.com/desk.jpg"]`, "+911234567890", int64(3), true, false, now, now))

	products, err := repo.ListBySeller(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Empty(t, products[0].Images)
	assert.Equal(t, "Desk", products[1].Name)
	assert.True(t, products[1].Arrival)
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET deleted = TRUE`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 11))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET deleted = TRUE`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 11), models.ErrNotFound)
}
