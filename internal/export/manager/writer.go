package manager

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gemdesk/inventory-service/internal/export/domain"
)

// fetchSection loads the records for one data type
func fetchSection(source Source, dataType string, dateRange domain.DateRange) (interface{}, error) {
	switch dataType {
	case domain.DataTypeItems:
		return source.Items()
	case domain.DataTypeCategories:
		return source.Categories()
	case domain.DataTypeMovements:
		return source.Movements(dateRange.From, dateRange.To)
	case domain.DataTypeAlerts:
		return source.Alerts()
	}
	return nil, fmt.Errorf("unknown data type: %s", dataType)
}

// writeJSON encodes all sections as one JSON document keyed by data type
func writeJSON(w io.Writer, sections map[string]interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sections)
}

// writeCSVSection appends one data type's records to the CSV artifact. Each
// section starts with a marker row and its own header.
func writeCSVSection(w *csv.Writer, dataType string, records interface{}) error {
	if err := w.Write([]string{"#", dataType}); err != nil {
		return err
	}

	rows, err := csvRows(dataType, records)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func csvRows(dataType string, records interface{}) ([][]string, error) {
	// Flatten through JSON so CSV columns track the API field names
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var objects []map[string]interface{}
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, err
	}

	header := csvHeader(dataType)
	rows := [][]string{header}
	for _, obj := range objects {
		row := make([]string, len(header))
		for i, column := range header {
			row[i] = csvCell(obj[column])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func csvHeader(dataType string) []string {
	switch dataType {
	case domain.DataTypeItems:
		return []string{"id", "sku", "barcode", "name", "category_id", "business_type",
			"cost_price", "sale_price", "currency", "stock_quantity", "min_stock_level",
			"unit_of_measure", "is_active", "created_at"}
	case domain.DataTypeCategories:
		return []string{"id", "name", "parent_id", "level", "business_type", "sort_order",
			"is_active", "created_at"}
	case domain.DataTypeMovements:
		return []string{"id", "item_id", "type", "quantity_delta", "unit_cost",
			"reference_type", "reference_id", "created_at", "created_by"}
	case domain.DataTypeAlerts:
		return []string{"item_id", "item_name", "sku", "category_id", "current_stock",
			"min_stock_level", "shortage", "alert_level", "urgency_score", "unit_cost",
			"potential_lost_sales"}
	}
	return nil
}

func csvCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
