package domain

import (
	"fmt"

	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// AlertLevel is the severity tier assigned to a low-stock item
type AlertLevel string

// Severity tiers, highest first
const (
	LevelOutOfStock AlertLevel = "out_of_stock"
	LevelCritical   AlertLevel = "critical"
	LevelLow        AlertLevel = "low"
	LevelWarning    AlertLevel = "warning"
)

// Priority returns the numeric rank of the tier, higher is more severe
func (l AlertLevel) Priority() int {
	switch l {
	case LevelOutOfStock:
		return 4
	case LevelCritical:
		return 3
	case LevelLow:
		return 2
	case LevelWarning:
		return 1
	}
	return 0
}

// ValidAlertLevel reports whether l is a known tier
func ValidAlertLevel(l AlertLevel) bool {
	return l.Priority() > 0
}

// Notifiable reports whether entering this tier triggers a notification
func (l AlertLevel) Notifiable() bool {
	return l == LevelCritical || l == LevelOutOfStock
}

// LowStockAlert is a derived alert record; never persisted
type LowStockAlert struct {
	ItemID             uint       `json:"item_id"`
	ItemName           string     `json:"item_name"`
	SKU                string     `json:"sku"`
	CategoryID         uint       `json:"category_id"`
	CurrentStock       int        `json:"current_stock"`
	MinStockLevel      int        `json:"min_stock_level"`
	Shortage           int        `json:"shortage"`
	AlertLevel         AlertLevel `json:"alert_level"`
	UrgencyScore       int        `json:"urgency_score"`
	UnitCost           float64    `json:"unit_cost"`
	PotentialLostSales float64    `json:"potential_lost_sales"`
}

// ClassifierConfig holds the classification policy. The breakpoint fractions
// are multiplied by the effective threshold (min_stock_level *
// threshold_multiplier); they must be strictly increasing so that lower stock
// always maps to the same or a higher severity.
type ClassifierConfig struct {
	ThresholdMultiplier float64
	CriticalFraction    float64
	LowFraction         float64
	WarningFraction     float64
}

// DefaultClassifierConfig returns the default breakpoints
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ThresholdMultiplier: 1.0,
		CriticalFraction:    0.25,
		LowFraction:         0.75,
		WarningFraction:     1.0,
	}
}

// Validate checks that the config describes a monotonic step function
func (c ClassifierConfig) Validate() error {
	var violations []string
	if c.ThresholdMultiplier <= 0 {
		violations = append(violations, "threshold_multiplier must be positive")
	}
	if c.CriticalFraction <= 0 {
		violations = append(violations, "critical_fraction must be positive")
	}
	if c.CriticalFraction >= c.LowFraction {
		violations = append(violations, fmt.Sprintf(
			"critical_fraction (%v) must be below low_fraction (%v)", c.CriticalFraction, c.LowFraction))
	}
	if c.LowFraction >= c.WarningFraction {
		violations = append(violations, fmt.Sprintf(
			"low_fraction (%v) must be below warning_fraction (%v)", c.LowFraction, c.WarningFraction))
	}
	if len(violations) > 0 {
		return apperrors.NewValidation(violations...)
	}
	return nil
}

// WithMultiplier returns a copy of the config with the given sensitivity
// multiplier; values below 1 increase sensitivity, above 1 decrease it
func (c ClassifierConfig) WithMultiplier(multiplier float64) ClassifierConfig {
	if multiplier > 0 {
		c.ThresholdMultiplier = multiplier
	}
	return c
}
