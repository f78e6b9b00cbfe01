package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&webhookEventRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	ProductID int64     `gorm:"column:product_id;index:idx_orders_product"`
	Quantity  int64     `gorm:"column:quantity;check:chk_orders_quantity,quantity > 0"`
	Status    string    `gorm:"column:status;type:varchar(32);index:idx_orders_status"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Webhook event ledger schema mirrors the webhooks Postgres adapter.
type webhookEventRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	EventID    string    `gorm:"column:event_id;size:255;uniqueIndex:uq_webhook_events_event_id"`
	ReceivedAt time.Time `gorm:"column:received_at;index"`
}

func (webhookEventRecord) TableName() string { return "webhook_events" }
