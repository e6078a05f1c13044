// internal/domain/order/service_test.go
package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/cart"
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
		&cart.Cart{}, &cart.Item{},
		&Order{}, &Item{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			CheckoutLockTTL: 10 * time.Second,
		},
	}
}

func createFarm(t *testing.T, db *gorm.DB, name string) *farm.Farm {
	t.Helper()
	f := &farm.Farm{Name: name, Status: farm.StatusOn}
	require.NoError(t, db.Create(f).Error)
	return f
}

func createProduct(t *testing.T, db *gorm.DB, name string, farmID *uint, price string, stock int) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:      name,
		FarmID:    farmID,
		Price:     decimal.RequireFromString(price),
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  stock,
		Status:    "on",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func fillCart(t *testing.T, db *gorm.DB, userID uint, lines ...cart.Item) *cart.Cart {
	t.Helper()
	c := &cart.Cart{UserID: userID}
	require.NoError(t, db.Create(c).Error)
	for i := range lines {
		lines[i].CartID = c.ID
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	return c
}

func cartLineCount(t *testing.T, db *gorm.DB, cartID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&cart.Item{}).Where("cart_id = ?", cartID).Count(&n).Error)
	return n
}

func TestValidateCartSplitsByFarm(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f1 := createFarm(t, db, "Farm One")
	f2 := createFarm(t, db, "Farm Two")
	pa := createProduct(t, db, "Product A", &f1.ID, "10.00", 100)
	pb := createProduct(t, db, "Product B", &f1.ID, "5.00", 100)
	pc := createProduct(t, db, "Product C", &f2.ID, "20.00", 100)

	c := fillCart(t, db, 1,
		cart.Item{ProductID: pa.ID, Quantity: 2},
		cart.Item{ProductID: pb.ID, Quantity: 1},
		cart.Item{ProductID: pc.ID, Quantity: 1},
	)

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Orders come out in the order farms first appear in the cart.
	assert.Equal(t, f1.ID, orders[0].FarmID)
	assert.Equal(t, f2.ID, orders[1].FarmID)

	assert.Len(t, orders[0].Items, 2)
	assert.Len(t, orders[1].Items, 1)

	assert.True(t, orders[0].TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"want 25.00, got %s", orders[0].TotalAmount)
	assert.True(t, orders[1].TotalAmount.Equal(decimal.RequireFromString("20.00")),
		"want 20.00, got %s", orders[1].TotalAmount)

	for _, o := range orders {
		assert.Equal(t, StatusValidated, o.Status)
		assert.Equal(t, uint(1), o.UserID)
		assert.NotEmpty(t, o.OrderNumber)
	}

	assert.EqualValues(t, 0, cartLineCount(t, db, c.ID), "cart should be emptied")

	var cartRows int64
	require.NoError(t, db.Model(&cart.Cart{}).Where("id = ?", c.ID).Count(&cartRows).Error)
	assert.EqualValues(t, 1, cartRows, "cart row itself must survive checkout")
}

func TestValidateCartEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	fillCart(t, db, 1)

	_, err := svc.ValidateCart(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestValidateCartNoCartRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	_, err := svc.ValidateCart(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

// The quantity guard is on the cart's total, not on each line. A line driven
// to zero by the duplicate-add subtraction must not block checkout; it just
// rides along as a zero-quantity order item.
func TestValidateCartAllowsZeroQuantityLineWhenTotalPositive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	pa := createProduct(t, db, "Product A", &f.ID, "10.00", 100)
	pb := createProduct(t, db, "Product B", &f.ID, "5.00", 100)
	c := fillCart(t, db, 1,
		cart.Item{ProductID: pa.ID, Quantity: 2},
		cart.Item{ProductID: pb.ID, Quantity: 0},
	)

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.EqualValues(t, 0, cartLineCount(t, db, c.ID))
}

func TestValidateCartRejectsZeroTotalQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	p := createProduct(t, db, "Product", &f.ID, "10.00", 100)
	c := fillCart(t, db, 1, cart.Item{ProductID: p.ID, Quantity: 0})

	_, err := svc.ValidateCart(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidCartQuantity)

	var orders int64
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders, "no order may be created for a rejected cart")
	assert.EqualValues(t, 1, cartLineCount(t, db, c.ID), "cart must be untouched")
}

func TestValidateCartFreezesUnitPrices(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	p := createProduct(t, db, "Product", &f.ID, "4.50", 100)
	fillCart(t, db, 1, cart.Item{ProductID: p.ID, Quantity: 3})

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)

	frozen := orders[0].Items[0].UnitPrice

	// Raising the product price afterwards must not touch the order.
	require.NoError(t, db.Model(p).Update("price", decimal.RequireFromString("9.99")).Error)

	reloaded, err := svc.GetForUser(1, orders[0].ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(frozen))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("13.50")))
}

func TestValidateCartDropsFarmlessLinesButClearsThem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	attached := createProduct(t, db, "Attached", &f.ID, "10.00", 100)
	orphan := createProduct(t, db, "Orphan", nil, "7.00", 100)

	c := fillCart(t, db, 1,
		cart.Item{ProductID: attached.ID, Quantity: 1},
		cart.Item{ProductID: orphan.ID, Quantity: 2},
	)

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 1)
	assert.Equal(t, attached.ID, orders[0].Items[0].ProductID)

	assert.EqualValues(t, 0, cartLineCount(t, db, c.ID),
		"farmless lines are cleared even though no order captures them")
}

func TestValidateCartOnlyFarmlessLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	orphan := createProduct(t, db, "Orphan", nil, "7.00", 100)
	c := fillCart(t, db, 1, cart.Item{ProductID: orphan.ID, Quantity: 2})

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.EqualValues(t, 0, cartLineCount(t, db, c.ID))
}

func TestValidateCartAtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f1 := createFarm(t, db, "Farm One")
	f2 := createFarm(t, db, "Farm Two")
	pa := createProduct(t, db, "Product A", &f1.ID, "10.00", 100)
	pb := createProduct(t, db, "Product B", &f2.ID, "20.00", 100)

	c := fillCart(t, db, 1,
		cart.Item{ProductID: pa.ID, Quantity: 1},
		cart.Item{ProductID: pb.ID, Quantity: 1},
	)

	// Fail the second order insert so the whole checkout must roll back.
	inserted := 0
	boom := errors.New("injected failure")
	err := db.Callback().Create().Before("gorm:create").Register("fail_second_order", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" {
			inserted++
			if inserted > 1 {
				tx.AddError(boom)
			}
		}
	})
	require.NoError(t, err)

	_, err = svc.ValidateCart(context.Background(), 1)
	require.Error(t, err)

	var orders int64
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders, "partial checkout must leave no orders behind")
	assert.EqualValues(t, 2, cartLineCount(t, db, c.ID), "cart must be intact after rollback")
}

func TestGenerateOrderNumberUniqueUnderConcurrency(t *testing.T) {
	svc := NewService(nil, nil, testConfig())

	const n = 200
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num := svc.generateOrderNumber()
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[num], "duplicate order number %s", num)
			seen[num] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for num := range seen {
		assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, num)
	}
}

func TestGetForUserOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	p := createProduct(t, db, "Product", &f.ID, "10.00", 100)
	fillCart(t, db, 1, cart.Item{ProductID: p.ID, Quantity: 1})

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, err = svc.GetForUser(2, orders[0].ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetForUser(1, orders[0].ID+999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	p := createProduct(t, db, "Product", &f.ID, "10.00", 100)

	for i := 0; i < 3; i++ {
		fillCart(t, db, 1, cart.Item{ProductID: p.ID, Quantity: 1})
		_, err := svc.ValidateCart(context.Background(), 1)
		require.NoError(t, err)
		require.NoError(t, db.Where("user_id = ?", 1).Delete(&cart.Cart{}).Error)
	}

	orders, err := svc.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.GreaterOrEqual(t, orders[0].ID, orders[1].ID)
	assert.GreaterOrEqual(t, orders[1].ID, orders[2].ID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, testConfig())

	f := createFarm(t, db, "Farm")
	p := createProduct(t, db, "Product", &f.ID, "10.00", 100)
	fillCart(t, db, 1, cart.Item{ProductID: p.ID, Quantity: 1})

	orders, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	o := orders[0]

	// validated → delivered is allowed
	updated, err := svc.UpdateStatus(1, o.ID, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, updated.Status)

	// delivered is terminal
	_, err = svc.UpdateStatus(1, o.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
