package domain

import (
	"fmt"

	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
)

// BarcodeRules is the configured barcode format: length bounds and charset
type BarcodeRules struct {
	MinLength int
	MaxLength int
}

// DefaultBarcodeRules covers EAN-8 through EAN-14 style numeric barcodes
var DefaultBarcodeRules = BarcodeRules{MinLength: 8, MaxLength: 14}

// ValidateSKUFormat returns every format rule the SKU violates
func ValidateSKUFormat(sku string) []string {
	var violations []string
	if sku == "" {
		violations = append(violations, "sku must not be empty")
		return violations
	}
	if len(sku) > 64 {
		violations = append(violations, "sku must not exceed 64 characters")
	}
	for _, r := range sku {
		if !isSKURune(r) {
			violations = append(violations, fmt.Sprintf("sku contains invalid character %q", r))
			break
		}
	}
	return violations
}

func isSKURune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.':
		return true
	}
	return false
}

// ValidateBarcodeFormat returns every format rule the barcode violates
// against the given rules
func ValidateBarcodeFormat(barcode string, rules BarcodeRules) []string {
	var violations []string
	if len(barcode) < rules.MinLength {
		violations = append(violations, fmt.Sprintf("barcode must be at least %d characters", rules.MinLength))
	}
	if len(barcode) > rules.MaxLength {
		violations = append(violations, fmt.Sprintf("barcode must not exceed %d characters", rules.MaxLength))
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			violations = append(violations, "barcode must contain only digits")
			break
		}
	}
	return violations
}

// ValidateAttributes checks an item's attribute map against the owning
// category's schema and returns every violation found
func ValidateAttributes(schema categorydomain.AttributeSchema, attributes map[string]interface{}) []string {
	var violations []string

	for _, field := range schema {
		value, present := attributes[field.Key]
		if !present {
			if field.Required {
				violations = append(violations, fmt.Sprintf("attribute '%s' is required", field.Key))
			}
			continue
		}
		if !attributeTypeMatches(field.Type, value) {
			violations = append(violations, fmt.Sprintf("attribute '%s' must be of type %s", field.Key, field.Type))
		}
	}

	for key := range attributes {
		if _, ok := schema.Field(key); !ok {
			violations = append(violations, fmt.Sprintf("attribute '%s' is not declared in the category schema", key))
		}
	}

	return violations
}

func attributeTypeMatches(fieldType string, value interface{}) bool {
	switch fieldType {
	case categorydomain.AttributeTypeString:
		_, ok := value.(string)
		return ok
	case categorydomain.AttributeTypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case categorydomain.AttributeTypeBoolean:
		_, ok := value.(bool)
		return ok
	}
	return false
}
