package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

var _ ports.EventLedger = (*Ledger)(nil)

// Ledger persists webhook event ids in PostgreSQL. The unique index on
// event_id makes Record atomic under concurrent deliveries; the duplicate key
// error is the replay signal, not a failure.
type Ledger struct {
	db *gorm.DB
}

// NewLedger wires a PostgreSQL-backed event ledger. Caller manages DB lifecycle.
func NewLedger(db *gorm.DB) *Ledger {
	ledger := &Ledger{db: db}
	if db != nil {
		_ = db.AutoMigrate(&webhookEventRecord{})
	}
	return ledger
}

type webhookEventRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	EventID    string    `gorm:"column:event_id;size:255;uniqueIndex:uq_webhook_events_event_id"`
	ReceivedAt time.Time `gorm:"column:received_at;index"`
}

func (webhookEventRecord) TableName() string { return "webhook_events" }

func (l *Ledger) Record(ctx context.Context, eventID string) (bool, error) {
	if err := l.ensureDB(); err != nil {
		return false, err
	}
	record := webhookEventRecord{EventID: eventID, ReceivedAt: time.Now().UTC()}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PurgeOlderThan removes ledger entries received before the cutoff. Pruned
// event ids lose their replay protection, so the cutoff must exceed the
// provider's maximum redelivery window.
func (l *Ledger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := l.ensureDB(); err != nil {
		return 0, err
	}
	result := l.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&webhookEventRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (l *Ledger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres webhook ledger not configured")
	}
	return nil
}
