// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/cart"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an order does not exist
	ErrNotFound = errors.New("order not found")
	// ErrAccessDenied is returned when an order belongs to another user
	ErrAccessDenied = errors.New("order does not belong to user")
	// ErrCartEmpty is returned when checking out a cart with no lines
	ErrCartEmpty = errors.New("cart is empty")
	// ErrInvalidCartQuantity is returned when the cart's total quantity is below one
	ErrInvalidCartQuantity = errors.New("cart quantity must be at least 1")
	// ErrCheckoutInProgress is returned when another checkout holds the user's lock
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrInvalidTransition is returned for a disallowed status change
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Service handles order business logic, including cart checkout
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
}

// NewService creates a new order service. The redis client may be nil, in
// which case the per-user checkout lock degrades to a no-op.
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
	}
}

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending validated delivered cancelled"`
}

// ValidateCart converts the user's cart into one order per farm. All orders
// and the cart-line removal happen in a single transaction: either every farm
// gets its order and the cart empties, or nothing changes.
//
// Lines whose product has no farm are not captured by any order but are
// still cleared from the cart with the rest. Unit prices are frozen from the
// product's current price at this moment.
func (s *Service) ValidateCart(ctx context.Context, userID uint) ([]Order, error) {
	release, err := s.acquireCheckoutLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var c cart.Cart
	err = s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Preload("Items.Product").Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}
	// The sum is what matters, not each line: individual lines at zero are
	// reachable through the duplicate-add subtraction and still check out.
	if c.ItemCount() < 1 {
		return nil, ErrInvalidCartQuantity
	}

	// Partition lines by farm, preserving the order farms first appear in
	// the cart so order creation is deterministic.
	farmIDs := make([]uint, 0)
	byFarm := make(map[uint][]cart.Item)
	for _, item := range c.Items {
		if item.Product == nil || item.Product.FarmID == nil {
			continue
		}
		fid := *item.Product.FarmID
		if _, seen := byFarm[fid]; !seen {
			farmIDs = append(farmIDs, fid)
		}
		byFarm[fid] = append(byFarm[fid], item)
	}

	createdIDs := make([]uint, 0, len(farmIDs))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, fid := range farmIDs {
			o := Order{
				OrderNumber: s.generateOrderNumber(),
				UserID:      userID,
				FarmID:      fid,
				Status:      StatusValidated,
				TotalAmount: decimal.Zero,
			}

			total := decimal.Zero
			for _, line := range byFarm[fid] {
				unitPrice := line.Product.Price
				o.Items = append(o.Items, Item{
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					UnitPrice: unitPrice,
				})
				total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
			o.TotalAmount = total

			if err := tx.Create(&o).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			createdIDs = append(createdIDs, o.ID)
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrders(createdIDs)
}

// ListByUser returns the user's orders, newest first. The slice is never
// nil so an empty history serializes as [].
func (s *Service) ListByUser(userID uint) ([]Order, error) {
	orders := make([]Order, 0)
	err := s.db.Preload("Farm").Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetForUser retrieves an order, enforcing ownership
func (s *Service) GetForUser(userID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.Preload("Farm").Preload("Items").Preload("Items.Product").First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if o.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &o, nil
}

// UpdateStatus applies an order status transition, enforcing ownership and
// the allowed lifecycle (pending → validated/cancelled, validated →
// delivered/cancelled).
func (s *Service) UpdateStatus(userID, orderID uint, status string) (*Order, error) {
	o, err := s.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if err := s.db.Model(o).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return s.GetForUser(userID, orderID)
}

// generateOrderNumber produces a customer-facing order reference of the form
// ORD-20260115-1A2B3C4D. The random suffix comes from a UUID so concurrent
// checkouts do not collide; the unique index on order_number backstops it.
func (s *Service) generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// acquireCheckoutLock takes a short-lived per-user lock in Redis so two
// concurrent checkouts for the same user cannot both read the same cart.
// Without Redis configured the lock is skipped; the database transaction
// still keeps each individual checkout atomic.
func (s *Service) acquireCheckoutLock(ctx context.Context, userID uint) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("checkout:lock:%d", userID)
	ok, err := s.redis.SetNX(ctx, key, "1", s.config.Security.CheckoutLockTTL).Result()
	if err != nil {
		// Redis being down should not block checkout.
		return func() {}, nil
	}
	if !ok {
		return nil, ErrCheckoutInProgress
	}

	return func() {
		s.redis.Del(context.Background(), key)
	}, nil
}

func (s *Service) loadOrders(ids []uint) ([]Order, error) {
	if len(ids) == 0 {
		return []Order{}, nil
	}

	var orders []Order
	err := s.db.Preload("Farm").Preload("Items").Preload("Items.Product").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}
