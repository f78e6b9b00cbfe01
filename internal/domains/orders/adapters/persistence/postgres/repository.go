package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
	"github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The compound operations
// run inside one transaction; stock is moved with guarded conditional updates,
// never read-modify-write, so concurrent placements serialize at the store.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	ProductID int64     `gorm:"column:product_id;index:idx_orders_product"`
	Quantity  int64     `gorm:"column:quantity;check:chk_orders_quantity,quantity > 0"`
	Status    string    `gorm:"column:status;type:varchar(32);index:idx_orders_status"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// stockRow addresses the products table for in-transaction stock movements.
type stockRow struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Stock     int64     `gorm:"column:stock"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRow) TableName() string { return "products" }

// Create reserves stock and inserts the order in one transaction. The stock
// decrement is guarded by `stock >= quantity`; zero affected rows means the
// product is missing or exhausted.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.Status = string(domain.StatusPending)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&stockRow{}).
			Where("id = ? AND stock >= ?", order.ProductID, order.Quantity).
			Updates(map[string]any{
				"stock":      gorm.Expr("stock - ?", order.Quantity),
				"updated_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&stockRow{}).Where("id = ?", order.ProductID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ports.ErrProductNotFound
			}
			return ports.ErrInsufficientStock
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Transition flips the status with a `status = from` guard and restores stock
// in the same transaction when restock is positive. A guard miss against an
// existing order reports ErrStaleStatus.
func (r *Repository) Transition(ctx context.Context, id int64, from, to domain.Status, restock int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrStaleStatus
		}
		if restock > 0 {
			// A product deleted after ordering leaves nothing to restore.
			result := tx.Model(&stockRow{}).
				Where("id = ?", record.ProductID).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock + ?", restock),
					"updated_at": gorm.Expr("NOW()"),
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// DeletePending removes the order only while its status is still PENDING.
func (r *Repository) DeletePending(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Delete(&orderRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrStaleStatus
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:        order.ID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
}
