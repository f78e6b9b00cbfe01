package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	"github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

var (
	_ ports.Repository    = (*Repository)(nil)
	_ ports.StockAdjuster = (*Repository)(nil)
)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	SKU       string    `gorm:"column:sku;size:64;uniqueIndex:uq_products_sku"`
	Name      string    `gorm:"column:name"`
	Price     float64   `gorm:"column:price"`
	Stock     int64     `gorm:"column:stock;check:chk_products_stock,stock >= 0"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Create inserts a product, mapping unique violations to ErrDuplicateSKU.
func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateSKU
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns a window of products in insertion (id) order.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Count reports the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Update overwrites the mutable columns of an existing product.
func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"sku":        product.SKU,
			"name":       product.Name,
			"price":      product.Price,
			"stock":      product.Stock,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateSKU
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, product.ID)
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ReserveStock performs the guarded decrement; zero affected rows means either
// a missing product or exhausted stock, disambiguated with a follow-up count.
func (r *Repository) ReserveStock(ctx context.Context, productID, quantity int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return reserveStock(r.db.WithContext(ctx), productID, quantity)
}

// RestoreStock returns previously reserved units to the product.
func (r *Repository) RestoreStock(ctx context.Context, productID, quantity int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return restoreStock(r.db.WithContext(ctx), productID, quantity)
}

func reserveStock(tx *gorm.DB, productID, quantity int64) error {
	result := tx.Model(&productRecord{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&productRecord{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrInsufficientStock
	}
	return nil
}

func restoreStock(tx *gorm.DB, productID, quantity int64) error {
	result := tx.Model(&productRecord{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:        product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:        r.ID,
		SKU:       r.SKU,
		Name:      r.Name,
		Price:     r.Price,
		Stock:     r.Stock,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
