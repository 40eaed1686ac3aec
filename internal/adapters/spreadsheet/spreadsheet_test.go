package spreadsheet_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/test/helpers"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestReadLegacyXLSX_HeaderDrivenColumns(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"Qty", "Item Code", "Product", "Cost", "Warehouse", "UOM"},
		{"12", "B-100", "Hex bolt", "€1,25", "main", "pcs"},
		{"", "", "", "", "", ""},
		{"1,250.5", "C-200", "Cable", "0.4", "", "m"},
		{"many", "D-300", "Drill", "10", "", ""},
	})

	records, issues, err := spreadsheet.ReadLegacyXLSX(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "B-100", records[0].SKU)
	assert.Equal(t, "Hex bolt", records[0].Name)
	assert.True(t, decimal.NewFromInt(12).Equal(records[0].Quantity))
	assert.True(t, decimal.RequireFromString("1.25").Equal(records[0].CostPrice))
	assert.Equal(t, "main", records[0].WarehouseCode)
	assert.Equal(t, "pcs", records[0].Unit)

	assert.True(t, decimal.RequireFromString("1250.5").Equal(records[1].Quantity))

	require.Len(t, issues, 1)
	assert.Equal(t, 5, issues[0].Row)
	assert.Equal(t, "D-300", issues[0].SKU)
	assert.Contains(t, issues[0].Message, "quantity")
}

func TestReadLegacyXLSX_MissingRequiredColumn(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"Name", "Quantity"},
		{"Hex bolt", "3"},
	})

	_, _, err := spreadsheet.ReadLegacyXLSX(data)
	assert.ErrorIs(t, err, spreadsheet.ErrMissingColumn)
}

func TestReadLegacy_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantSKUs []string
		wantErr  error
	}{
		{
			name:     "json_array",
			filename: "legacy.json",
			data:     []byte(`[{"sku":"A-1","name":"Washer","quantity":"4"}]`),
			wantSKUs: []string{"A-1"},
		},
		{
			name:     "json_products_envelope",
			filename: "LEGACY.JSON",
			data:     []byte(`{"products":[{"sku":"A-1","name":"Washer"},{"sku":"A-2","name":"Nut"}]}`),
			wantSKUs: []string{"A-1", "A-2"},
		},
		{
			name:     "unsupported_extension",
			filename: "legacy.csv",
			data:     []byte("sku,name"),
			wantErr:  spreadsheet.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := spreadsheet.ReadLegacy(tt.filename, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			skus := make([]string, 0, len(records))
			for _, r := range records {
				skus = append(skus, r.SKU)
			}
			assert.Equal(t, tt.wantSKUs, skus)
		})
	}
}

func TestWriteTransactions(t *testing.T) {
	itemID := uuid.New()
	cancelledAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	entries := []domain.Transaction{
		*helpers.CreateTestTransaction(itemID, func(tr *domain.Transaction) { tr.TransactionNumber = 1 }),
		*helpers.CreateTestTransaction(itemID, func(tr *domain.Transaction) {
			tr.TransactionNumber = 2
			tr.Status = domain.TransactionCancelled
			tr.CancelledAt = &cancelledAt
			tr.CancelledBy = "auditor"
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteTransactions(&buf, entries))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, 3, sheet.MaxRow)

	header, err := sheet.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Number", header.String())

	number, err := sheet.Cell(2, 0)
	require.NoError(t, err)
	assert.Equal(t, "TX-000002", number.String())

	cancelledBy, err := sheet.Cell(2, 21)
	require.NoError(t, err)
	assert.Equal(t, "auditor", cancelledBy.String())
}

func TestWriteStatistics(t *testing.T) {
	stats := &ports.Statistics{
		GeneratedAt:   time.Now().UTC(),
		TotalItems:    2,
		ActiveItems:   2,
		TotalQuantity: decimal.NewFromInt(7),
		StockValue:    ports.CurrencyAmounts{domain.CurrencyEUR: decimal.NewFromInt(14)},
		SaleValue:     ports.CurrencyAmounts{},
		OutOfStock:    []ports.StockAlert{{SKU: "Z-1", Name: "Empty", Unit: "pcs"}},
		ByCategory: []ports.CategoryStats{
			{Category: domain.CategoryComponent, ItemCount: 2, Quantity: decimal.NewFromInt(7), Value: ports.CurrencyAmounts{domain.CurrencyEUR: decimal.NewFromInt(14)}},
		},
		Transactions: ports.TransactionStats{
			Total: 3,
			ByType: map[domain.TransactionType]*ports.TypeStats{
				domain.TransactionInbound: {Count: 3, Quantity: decimal.NewFromInt(7), Value: ports.CurrencyAmounts{}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStatistics(&buf, stats))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	names := make([]string, 0, len(file.Sheets))
	for _, s := range file.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Summary", "Stock Alerts", "By Category", "By Warehouse", "By Type"}, names)

	value, err := file.Sheet["By Category"].Cell(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "EUR 14.00", value.String())
}
