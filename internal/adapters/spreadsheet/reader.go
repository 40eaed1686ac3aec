// internal/adapters/spreadsheet/reader.go
package spreadsheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockledger/internal/core/ports"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor json
var ErrUnsupportedFormat = errors.New("unsupported legacy file format")

// ErrMissingColumn is returned when the header row lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// headerAliases maps normalized header text to a legacy field
var headerAliases = map[string]string{
	"sku":             "sku",
	"code":            "sku",
	"item_code":       "sku",
	"article":         "sku",
	"name":            "name",
	"item_name":       "name",
	"product":         "name",
	"description":     "description",
	"category":        "category",
	"unit":            "unit",
	"uom":             "unit",
	"quantity":        "quantity",
	"qty":             "quantity",
	"stock":           "quantity",
	"on_hand":         "quantity",
	"min_stock":       "min_stock_level",
	"min_stock_level": "min_stock_level",
	"reorder_level":   "min_stock_level",
	"cost":            "cost_price",
	"cost_price":      "cost_price",
	"purchase_price":  "cost_price",
	"price":           "sale_price",
	"sale_price":      "sale_price",
	"currency":        "currency",
	"warehouse":       "warehouse_code",
	"warehouse_code":  "warehouse_code",
	"location":        "warehouse_code",
	"lot":             "lot_number",
	"lot_number":      "lot_number",
	"serial":          "serial_number",
	"serial_number":   "serial_number",
}

var requiredColumns = []string{"sku", "name"}

// ReadLegacy dispatches on the file extension
func ReadLegacy(filename string, data []byte) ([]ports.LegacyRecord, []ports.ImportError, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadLegacyXLSX(data)
	case ".json":
		records, err := ReadLegacyJSON(data)
		return records, nil, err
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
}

// ReadLegacyJSON accepts either an array of records or {"products": [...]}
func ReadLegacyJSON(data []byte) ([]ports.LegacyRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []ports.LegacyRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode legacy records: %w", err)
		}
		return records, nil
	}

	var wrapped struct {
		Products []ports.LegacyRecord `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode legacy records: %w", err)
	}
	return wrapped.Products, nil
}

// ReadLegacyXLSX reads the first sheet. The header row selects columns by
// name; rows with unparseable numbers are returned as import errors.
func ReadLegacyXLSX(data []byte) ([]ports.LegacyRecord, []ports.ImportError, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, nil
	}

	var (
		records []ports.LegacyRecord
		issues  []ports.ImportError
		columns map[string]int
	)

	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowIdx := r.GetCoordinate() + 1
		if columns == nil {
			columns, err = mapHeader(r)
			return err
		}

		get := func(field string) string {
			i, ok := columns[field]
			if !ok {
				return ""
			}
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			return strings.TrimSpace(c.String())
		}

		if isBlankRow(columns, get) {
			return nil
		}

		rec, err := parseRow(get)
		if err != nil {
			issues = append(issues, ports.ImportError{Row: rowIdx, SKU: get("sku"), Message: err.Error()})
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	if columns == nil {
		return nil, nil, nil
	}
	return records, issues, nil
}

func mapHeader(r *xlsx.Row) (map[string]int, error) {
	columns := make(map[string]int)
	err := r.ForEachCell(func(c *xlsx.Cell) error {
		col, _ := c.GetCoordinates()
		if field, ok := headerAliases[normalizeHeader(c.String())]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = col
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	return columns, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(s)
}

func isBlankRow(columns map[string]int, get func(string) string) bool {
	for field := range columns {
		if get(field) != "" {
			return false
		}
	}
	return true
}

func parseRow(get func(string) string) (ports.LegacyRecord, error) {
	rec := ports.LegacyRecord{
		SKU:           get("sku"),
		Name:          get("name"),
		Description:   get("description"),
		Category:      get("category"),
		Unit:          get("unit"),
		Currency:      get("currency"),
		WarehouseCode: get("warehouse_code"),
		LotNumber:     get("lot_number"),
		SerialNumber:  get("serial_number"),
	}

	numbers := []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"quantity", &rec.Quantity},
		{"min_stock_level", &rec.MinStockLevel},
		{"cost_price", &rec.CostPrice},
		{"sale_price", &rec.SalePrice},
	}
	for _, n := range numbers {
		v, err := parseDecimal(get(n.field))
		if err != nil {
			return rec, fmt.Errorf("invalid %s %q", n.field, get(n.field))
		}
		*n.dst = v
	}
	return rec, nil
}

// parseDecimal accepts blank cells, currency symbols and thousands separators
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
