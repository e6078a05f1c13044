// internal/domain/review/service_test.go
package review

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
	"github.com/your-org/farmmarket-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&farm.FarmType{}, &farm.Farm{}, &farm.FarmUser{},
		&product.Unity{}, &product.Tag{}, &product.Category{}, &product.Product{},
		&Review{},
	))

	return NewService(db, &config.Config{}), db
}

func createProduct(t *testing.T, db *gorm.DB, name string) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:      name,
		Price:     decimal.RequireFromString("5.00"),
		UnitPrice: decimal.RequireFromString("5.00"),
		Quantity:  10,
		Status:    "on",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateReviewOncePerProduct(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes")

	r, err := svc.Create(1, &CreateReviewRequest{ProductID: p.ID, Rating: 4, Comment: "Very fresh"})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)

	_, err = svc.Create(1, &CreateReviewRequest{ProductID: p.ID, Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// A different user may still review the same product.
	_, err = svc.Create(2, &CreateReviewRequest{ProductID: p.ID, Rating: 3})
	require.NoError(t, err)

	_, err = svc.Create(1, &CreateReviewRequest{ProductID: p.ID + 99, Rating: 4})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListReviewFilters(t *testing.T) {
	svc, db := newTestService(t)
	pa := createProduct(t, db, "Tomatoes")
	pb := createProduct(t, db, "Eggs")

	_, err := svc.Create(1, &CreateReviewRequest{ProductID: pa.ID, Rating: 4})
	require.NoError(t, err)
	_, err = svc.Create(1, &CreateReviewRequest{ProductID: pb.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(2, &CreateReviewRequest{ProductID: pa.ID, Rating: 2})
	require.NoError(t, err)

	all, err := svc.List(ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byProduct, err := svc.List(ListFilters{ProductID: &pa.ID})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	userID := uint(1)
	byUser, err := svc.List(ListFilters{UserID: &userID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}

func TestUpdateReviewOwnership(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes")

	r, err := svc.Create(1, &CreateReviewRequest{ProductID: p.ID, Rating: 3})
	require.NoError(t, err)

	_, err = svc.Update(2, r.ID, &UpdateReviewRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Update(1, r.ID+99, &UpdateReviewRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	rating := 5
	comment := "Improved after second delivery"
	updated, err := svc.Update(1, r.ID, &UpdateReviewRequest{Rating: &rating, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, comment, updated.Comment)
}

func TestDeleteReviewAdminBypass(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes")

	r, err := svc.Create(1, &CreateReviewRequest{ProductID: p.ID, Rating: 3})
	require.NoError(t, err)

	err = svc.Delete(2, r.ID, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Admins may delete reviews they do not own.
	require.NoError(t, svc.Delete(2, r.ID, true))

	_, err = svc.Get(r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
