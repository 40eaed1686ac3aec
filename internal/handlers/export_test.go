package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

func ledgerEntries(n int) []domain.Transaction {
	itemID := uuid.New()
	out := make([]domain.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		num := int64(i)
		out = append(out, *helpers.CreateTestTransaction(itemID, func(tx *domain.Transaction) {
			tx.TransactionNumber = num
		}))
	}
	return out
}

func TestExportHandler_ExportTransactions(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockStockOperations)
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "rejects_unknown_format",
			query:          "?format=pdf",
			setupMocks:     func(m *mocks.MockStockOperations) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_bad_filter",
			query:          "?format=json&warehouse_id=main",
			setupMocks:     func(m *mocks.MockStockOperations) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "json_oldest_first",
			query: "?format=json&type=inbound",
			setupMocks: func(m *mocks.MockStockOperations) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, f ports.TransactionFilter) (*ports.TransactionPage, error) {
						assert.False(t, f.Newest)
						assert.Equal(t, domain.TransactionInbound, f.Type)
						assert.Equal(t, 500, f.Limit)
						assert.Equal(t, 0, f.Offset)
						return &ports.TransactionPage{Transactions: ledgerEntries(3)}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp handlers.JSONExportResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Len(t, resp.Transactions, 3)
				assert.Equal(t, 3, resp.Metadata.TotalRows)
				assert.False(t, resp.Metadata.Truncated)
				assert.Equal(t, "format=json&type=inbound", resp.Metadata.Filters)
				assert.Contains(t, w.Header().Get("Content-Disposition"), ".json")
			},
		},
		{
			name:  "pages_through_ledger",
			query: "?format=json",
			setupMocks: func(m *mocks.MockStockOperations) {
				gomock.InOrder(
					m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ interface{}, f ports.TransactionFilter) (*ports.TransactionPage, error) {
							assert.Equal(t, 0, f.Offset)
							return &ports.TransactionPage{Transactions: ledgerEntries(500)}, nil
						}),
					m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ interface{}, f ports.TransactionFilter) (*ports.TransactionPage, error) {
							assert.Equal(t, 500, f.Offset)
							return &ports.TransactionPage{Transactions: ledgerEntries(2)}, nil
						}),
				)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp handlers.JSONExportResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, 502, resp.Metadata.TotalRows)
			},
		},
		{
			name:  "xlsx_by_default",
			query: "",
			setupMocks: func(m *mocks.MockStockOperations) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
					Return(&ports.TransactionPage{Transactions: ledgerEntries(2)}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
				assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions_")
				assert.Empty(t, w.Header().Get("X-Export-Truncated"))

				file, err := xlsx.OpenBinary(w.Body.Bytes())
				require.NoError(t, err)
				require.NotEmpty(t, file.Sheets)
				assert.Equal(t, 3, file.Sheets[0].MaxRow)
			},
		},
		{
			name:  "service_failure",
			query: "?format=xlsx",
			setupMocks: func(m *mocks.MockStockOperations) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ops := mocks.NewMockStockOperations(ctrl)
			tt.setupMocks(ops)
			handler := handlers.NewExportHandler(ops, helpers.TestLogger())

			req := httptest.NewRequest("GET", "/api/v1/export/transactions"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ExportTransactions(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}
