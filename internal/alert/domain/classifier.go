package domain

import "math"

// Classify assigns a severity tier from current stock and the minimum stock
// level. The second return value is false when no alert applies.
//
// With the default config: out_of_stock at <=0, critical in (0, 0.25*t],
// low in (0.25*t, 0.75*t], warning in (0.75*t, t] where
// t = min_stock_level * threshold_multiplier. For a fixed config the mapping
// is monotonic: less stock never yields a lower tier.
func Classify(currentStock, minStockLevel int, cfg ClassifierConfig) (AlertLevel, bool) {
	if currentStock <= 0 {
		return LevelOutOfStock, true
	}
	if minStockLevel <= 0 {
		return "", false
	}

	effective := float64(minStockLevel) * cfg.ThresholdMultiplier
	stock := float64(currentStock)

	switch {
	case stock <= cfg.CriticalFraction*effective:
		return LevelCritical, true
	case stock <= cfg.LowFraction*effective:
		return LevelLow, true
	case stock <= cfg.WarningFraction*effective:
		return LevelWarning, true
	}
	return "", false
}

// Shortage is the deficit between the minimum desired stock and the current
// stock, floored at zero
func Shortage(currentStock, minStockLevel int) int {
	if shortage := minStockLevel - currentStock; shortage > 0 {
		return shortage
	}
	return 0
}

// UrgencyScore maps a tier and shortage ratio to a 0-10 integer used purely
// for ordering within a tier, never for tier assignment. It is monotonic in
// both inputs.
func UrgencyScore(level AlertLevel, currentStock, minStockLevel int) int {
	var base int
	switch level {
	case LevelOutOfStock:
		base = 9
	case LevelCritical:
		base = 6
	case LevelLow:
		base = 3
	case LevelWarning:
		base = 1
	default:
		return 0
	}

	den := minStockLevel
	if den < 1 {
		den = 1
	}
	ratio := float64(Shortage(currentStock, minStockLevel)) / float64(den)
	score := base + int(math.Round(ratio))

	if score > 10 {
		return 10
	}
	return score
}

// NewLowStockAlert builds the derived alert record for an item's stock
// figures, or reports that no alert applies
func NewLowStockAlert(itemID uint, name, sku string, categoryID uint, currentStock, minStockLevel int, unitCost float64, cfg ClassifierConfig) (*LowStockAlert, bool) {
	level, ok := Classify(currentStock, minStockLevel, cfg)
	if !ok {
		return nil, false
	}

	shortage := Shortage(currentStock, minStockLevel)
	return &LowStockAlert{
		ItemID:             itemID,
		ItemName:           name,
		SKU:                sku,
		CategoryID:         categoryID,
		CurrentStock:       currentStock,
		MinStockLevel:      minStockLevel,
		Shortage:           shortage,
		AlertLevel:         level,
		UrgencyScore:       UrgencyScore(level, currentStock, minStockLevel),
		UnitCost:           unitCost,
		PotentialLostSales: unitCost * float64(shortage),
	}, true
}
