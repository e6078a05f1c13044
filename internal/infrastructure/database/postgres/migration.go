// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/domain/cart"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
	"github.com/your-org/farmmarket-backend/internal/domain/media"
	"github.com/your-org/farmmarket-backend/internal/domain/order"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
	"github.com/your-org/farmmarket-backend/internal/domain/review"
	"github.com/your-org/farmmarket-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models returns every model in dependency order. Shared with the test
// harness so the schema stays in one place.
func Models() []interface{} {
	return []interface{}{
		&user.User{},

		&farm.FarmType{},
		&farm.Farm{},
		&farm.FarmUser{},

		&product.Unity{},
		&product.Tag{},
		&product.Category{},
		&product.Product{},

		&cart.Cart{},
		&cart.Item{},

		&order.Order{},
		&order.Item{},

		&review.Review{},
		&media.Media{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for common query paths
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_farm_status ON products(farm_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(featured)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}
	return nil
}

// SeedInitialData inserts reference and development data
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedUnities(); err != nil {
		return fmt.Errorf("failed to seed unities: %w", err)
	}
	if err := m.seedFarmTypes(); err != nil {
		return fmt.Errorf("failed to seed farm types: %w", err)
	}
	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedDemoFarm(); err != nil {
		return fmt.Errorf("failed to seed demo farm: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedUnities() error {
	names := []string{"kg", "g", "litre", "piece", "bunch", "dozen"}
	for _, name := range names {
		var existing product.Unity
		if err := m.db.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := m.db.Create(&product.Unity{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Migration) seedFarmTypes() error {
	names := []string{"Market garden", "Dairy", "Orchard", "Vineyard", "Livestock", "Apiary"}
	for _, name := range names {
		var existing farm.FarmType
		if err := m.db.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := m.db.Create(&farm.FarmType{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Migration) seedCategories() error {
	names := []string{"Vegetables", "Fruits", "Dairy", "Meat", "Drinks", "Bakery"}
	for _, name := range names {
		var existing product.Category
		if err := m.db.Where("name = ? AND parent_id IS NULL", name).First(&existing).Error; err != nil {
			if err := m.db.Create(&product.Category{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	if err := m.db.Where("email = ?", "admin@farmmarket.local").First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123!"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Email:     "admin@farmmarket.local",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@farmmarket.local")
	return nil
}

// seedDemoFarm creates a sample farm with a few products for development
func (m *Migration) seedDemoFarm() error {
	var count int64
	m.db.Model(&farm.Farm{}).Count(&count)
	if count > 0 {
		return nil
	}

	f := farm.Farm{
		Name:        "Sunrise Valley Farm",
		Description: "Family-run market garden supplying seasonal vegetables.",
		City:        "Lyon",
		ZipCode:     "69001",
		Region:      "Auvergne-Rhône-Alpes",
		Status:      farm.StatusOn,
	}
	if err := m.db.Create(&f).Error; err != nil {
		return err
	}

	products := []product.Product{
		{
			Name:             "Heirloom Tomatoes",
			Quantity:         120,
			FarmID:           &f.ID,
			Price:            decimal.NewFromFloat(4.50),
			UnitPrice:        decimal.NewFromFloat(4.50),
			Origin:           "Lyon",
			ShortDescription: "Sun-ripened heirloom tomatoes picked daily.",
			Status:           "on",
		},
		{
			Name:             "Free-range Eggs",
			Quantity:         60,
			FarmID:           &f.ID,
			Price:            decimal.NewFromFloat(3.20),
			UnitPrice:        decimal.NewFromFloat(3.20),
			ShortDescription: "Box of six free-range eggs.",
			Status:           "on",
		},
	}
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	log.Println("✅ Created demo farm with sample products")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	tables := []string{
		"media",
		"reviews",
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"product_categories_products",
		"product_tags",
		"products",
		"product_categories",
		"tags",
		"unities",
		"farm_users",
		"farm_farm_types",
		"farms",
		"farm_types",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		}
	}
	return nil
}
