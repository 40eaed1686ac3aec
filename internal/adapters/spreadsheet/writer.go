// internal/adapters/spreadsheet/writer.go
package spreadsheet

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

var transactionHeaders = []string{
	"Number", "Date", "Type", "Subtype", "SKU", "Item", "Unit",
	"Quantity", "Previous Stock", "New Stock", "Unit Price", "Currency", "Total Value",
	"Company", "Lot", "Serial", "Reference", "Notes", "Status",
	"Created By", "Cancelled At", "Cancelled By", "Corrected At", "Corrected By",
}

// WriteTransactions renders ledger entries as a single-sheet workbook
func WriteTransactions(w io.Writer, entries []domain.Transaction) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeader(sheet, transactionHeaders)
	for i := range entries {
		e := &entries[i]
		row := sheet.AddRow()
		addText(row, e.Number())
		addText(row, e.CreatedAt.Format(timeLayout))
		addText(row, string(e.Type))
		addText(row, string(e.Subtype))
		addText(row, e.Item.SKU)
		addText(row, e.Item.Name)
		addText(row, e.Item.Unit)
		addNumber(row, e.Quantity)
		addNumber(row, e.PreviousStock)
		addNumber(row, e.NewStock)
		addNumber(row, e.UnitPrice)
		addText(row, string(e.Currency))
		addNumber(row, e.TotalValue)
		addText(row, e.CompanyName)
		addText(row, e.LotNumber)
		addText(row, e.SerialNumber)
		addText(row, e.Reference)
		addText(row, e.Notes)
		addText(row, string(e.Status))
		addText(row, e.CreatedBy)
		addText(row, formatTime(e.CancelledAt))
		addText(row, e.CancelledBy)
		addText(row, formatTime(e.CorrectedAt))
		addText(row, e.CorrectedBy)
	}
	setWidths(sheet, len(transactionHeaders))

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteStatistics renders a statistics snapshot as a multi-sheet workbook
func WriteStatistics(w io.Writer, stats *ports.Statistics) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeader(summary, []string{"Metric", "Value"})
	addPair(summary, "Generated At", stats.GeneratedAt.Format(timeLayout))
	addPair(summary, "Total Items", fmt.Sprint(stats.TotalItems))
	addPair(summary, "Active Items", fmt.Sprint(stats.ActiveItems))
	addPair(summary, "Total Quantity", stats.TotalQuantity.String())
	for _, c := range sortedCurrencies(stats.StockValue) {
		addPair(summary, "Stock Value "+string(c), stats.StockValue[c].StringFixed(2))
	}
	for _, c := range sortedCurrencies(stats.SaleValue) {
		addPair(summary, "Sale Value "+string(c), stats.SaleValue[c].StringFixed(2))
	}
	addPair(summary, "Transactions", fmt.Sprint(stats.Transactions.Total))
	addPair(summary, "Cancelled Transactions", fmt.Sprint(stats.Transactions.Cancelled))
	setWidths(summary, 2)

	alerts, err := file.AddSheet("Stock Alerts")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeader(alerts, []string{"Alert", "SKU", "Name", "Quantity", "Min Stock", "Unit"})
	for _, group := range []struct {
		label string
		rows  []ports.StockAlert
	}{
		{"out_of_stock", stats.OutOfStock},
		{"low_stock", stats.LowStock},
	} {
		for _, a := range group.rows {
			row := alerts.AddRow()
			addText(row, group.label)
			addText(row, a.SKU)
			addText(row, a.Name)
			addNumber(row, a.Quantity)
			addNumber(row, a.MinStockLevel)
			addText(row, a.Unit)
		}
	}
	setWidths(alerts, 6)

	categories, err := file.AddSheet("By Category")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeader(categories, []string{"Category", "Items", "Quantity", "Value"})
	for _, c := range stats.ByCategory {
		row := categories.AddRow()
		addText(row, string(c.Category))
		addText(row, fmt.Sprint(c.ItemCount))
		addNumber(row, c.Quantity)
		addText(row, formatAmounts(c.Value))
	}
	setWidths(categories, 4)

	warehouses, err := file.AddSheet("By Warehouse")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeader(warehouses, []string{"Code", "Name", "Items", "Quantity", "Value"})
	for _, ws := range stats.ByWarehouse {
		row := warehouses.AddRow()
		code := ws.Code
		if ws.WarehouseID == nil {
			code = "(unassigned)"
		}
		addText(row, code)
		addText(row, ws.Name)
		addText(row, fmt.Sprint(ws.ItemCount))
		addNumber(row, ws.Quantity)
		addText(row, formatAmounts(ws.Value))
	}
	setWidths(warehouses, 5)

	byType, err := file.AddSheet("By Type")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeader(byType, []string{"Type", "Count", "Quantity", "Value"})
	typeNames := make([]string, 0, len(stats.Transactions.ByType))
	for t := range stats.Transactions.ByType {
		typeNames = append(typeNames, string(t))
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		ts := stats.Transactions.ByType[domain.TransactionType(name)]
		row := byType.AddRow()
		addText(row, name)
		addText(row, fmt.Sprint(ts.Count))
		addNumber(row, ts.Quantity)
		addText(row, formatAmounts(ts.Value))
	}
	setWidths(byType, 4)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		cell := row.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
}

func addPair(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	addText(row, label)
	addText(row, value)
}

func addText(row *xlsx.Row, v string) {
	row.AddCell().Value = v
}

func addNumber(row *xlsx.Row, d decimal.Decimal) {
	row.AddCell().SetFloat(d.InexactFloat64())
}

func setWidths(sheet *xlsx.Sheet, n int) {
	for i := 1; i <= n; i++ {
		sheet.SetColWidth(i, i, 16)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func sortedCurrencies(m ports.CurrencyAmounts) []domain.Currency {
	out := make([]domain.Currency, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// formatAmounts renders {"EUR": 10, "USD": 2} as "EUR 10.00; USD 2.00"
func formatAmounts(m ports.CurrencyAmounts) string {
	var s string
	for i, c := range sortedCurrencies(m) {
		if i > 0 {
			s += "; "
		}
		s += string(c) + " " + m[c].StringFixed(2)
	}
	return s
}
