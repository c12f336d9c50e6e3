package catalog

import "time"

// RefreshSignal is a best-effort request to re-scrape an existing
// product, queued when an import batch resubmits a purchase URL that is
// already in the catalog. Drained by the catalog:refresh-drain cron
// job.
type RefreshSignal struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   uint       `gorm:"column:product_id;not null;index" json:"product_id"`
	PurchaseURL string     `gorm:"column:purchase_url;type:varchar(1024)" json:"purchase_url"`
	RequestedAt time.Time  `gorm:"column:requested_at;not null" json:"requested_at"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
}

func (RefreshSignal) TableName() string {
	return "catalog_refresh_signals"
}
