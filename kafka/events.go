package kafka

import "time"

// LowStockAlertEvent is published when an item's stock severity crosses into
// critical or out_of_stock
type LowStockAlertEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ItemID        uint      `json:"item_id"`
	SKU           string    `json:"sku"`
	ItemName      string    `json:"item_name"`
	CategoryID    uint      `json:"category_id"`
	AlertLevel    string    `json:"alert_level"`
	CurrentStock  int       `json:"current_stock"`
	MinStockLevel int       `json:"min_stock_level"`
	Shortage      int       `json:"shortage"`
	Timestamp     time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeLowStockAlert = "inventory.low_stock"
)

// Kafka topics
const (
	TopicLowStockAlerts = "inventory-low-stock"
)
