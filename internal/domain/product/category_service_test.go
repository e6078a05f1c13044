// internal/domain/product/category_service_test.go
package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
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
		&farm.FarmType{}, &farm.Farm{}, &farm.FarmUser{},
		&Unity{}, &Tag{}, &Category{}, &Product{},
	))

	return db
}

func mustCreateCategory(t *testing.T, svc *CategoryService, name string, parentID *uint) *Category {
	t.Helper()
	c, err := svc.Create(&CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return c
}

func TestCategoryTree(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	root := mustCreateCategory(t, svc, "Vegetables", nil)
	child := mustCreateCategory(t, svc, "Tomatoes", &root.ID)
	mustCreateCategory(t, svc, "Fruits", nil)

	roots, err := svc.ListRoots()
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	children, err := svc.Children(root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

func TestSetParentRejectsCycles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	a := mustCreateCategory(t, svc, "A", nil)
	b := mustCreateCategory(t, svc, "B", &a.ID)
	c := mustCreateCategory(t, svc, "C", &b.ID)

	_, err := svc.SetParent(a.ID, a.ID)
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// A is an ancestor of C; making C the parent of A closes a loop.
	_, err = svc.SetParent(a.ID, c.ID)
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// Reparenting a leaf elsewhere is fine.
	moved, err := svc.SetParent(c.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)
}

func TestRemoveParentMakesRoot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	root := mustCreateCategory(t, svc, "Vegetables", nil)
	child := mustCreateCategory(t, svc, "Tomatoes", &root.ID)

	detached, err := svc.RemoveParent(child.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)
	assert.True(t, detached.IsRoot())

	// The detachment must be persisted, not just reflected on the returned value.
	var reloaded Category
	require.NoError(t, db.First(&reloaded, child.ID).Error)
	assert.Nil(t, reloaded.ParentID)
}

func TestDeleteCategoryDetachesChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	root := mustCreateCategory(t, svc, "Vegetables", nil)
	child := mustCreateCategory(t, svc, "Tomatoes", &root.ID)

	require.NoError(t, svc.Delete(root.ID))

	_, err := svc.Get(root.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	orphan, err := svc.Get(child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
}

func TestCategoryProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	cat := mustCreateCategory(t, svc, "Vegetables", nil)

	p := Product{
		Name:       "Tomatoes",
		Price:      decimal.RequireFromString("4.50"),
		UnitPrice:  decimal.RequireFromString("4.50"),
		Quantity:   10,
		Status:     "on",
		Categories: []Category{{ID: cat.ID}},
	}
	require.NoError(t, db.Create(&p).Error)

	products, err := svc.Products(cat.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}
