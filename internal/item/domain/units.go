package domain

import "github.com/gemdesk/inventory-service/pkg/apperrors"

// ConversionFactor returns the multiplier of the given unit relative to the
// item's base unit. The base unit has an implicit factor of 1.
func (i *InventoryItem) ConversionFactor(unit string) (float64, bool) {
	if unit == i.UnitOfMeasure {
		return 1, true
	}
	factor, ok := i.ConversionFactors[unit]
	if !ok || factor <= 0 {
		return 0, false
	}
	return factor, true
}

// ConvertUnits converts a quantity between two of the item's units:
// quantity * factor(from) / factor(to)
func ConvertUnits(item *InventoryItem, fromUnit, toUnit string, quantity float64) (float64, error) {
	var violations []string

	fromFactor, ok := item.ConversionFactor(fromUnit)
	if !ok {
		violations = append(violations, "unknown unit '"+fromUnit+"'")
	}
	toFactor, ok := item.ConversionFactor(toUnit)
	if !ok {
		violations = append(violations, "unknown unit '"+toUnit+"'")
	}
	if len(violations) > 0 {
		return 0, apperrors.NewValidation(violations...)
	}

	return quantity * fromFactor / toFactor, nil
}
