package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/core/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entry(typ domain.TransactionType, qty, prev int64) domain.Transaction {
	return domain.Transaction{
		ID:            uuid.New(),
		ItemID:        uuid.New(),
		Type:          typ,
		Quantity:      dec(qty),
		PreviousStock: dec(prev),
		NewStock:      dec(prev + qty),
		UnitPrice:     dec(10),
		Status:        domain.TransactionCompleted,
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*domain.Transaction)
		wantErr  error
		errorMsg string
	}{
		{
			name:   "valid_inbound",
			modify: func(tx *domain.Transaction) {},
		},
		{
			name:     "zero_quantity",
			modify:   func(tx *domain.Transaction) { tx.Quantity = decimal.Zero; tx.NewStock = tx.PreviousStock },
			wantErr:  domain.ErrInvalidArgument,
			errorMsg: "quantity cannot be zero",
		},
		{
			name:     "inbound_with_negative_quantity",
			modify:   func(tx *domain.Transaction) { tx.Quantity = dec(-5); tx.NewStock = tx.PreviousStock.Add(tx.Quantity) },
			wantErr:  domain.ErrInvalidArgument,
			errorMsg: "does not match inbound",
		},
		{
			name:     "inconsistent_balances",
			modify:   func(tx *domain.Transaction) { tx.NewStock = dec(999) },
			wantErr:  domain.ErrInvalidArgument,
			errorMsg: "does not equal",
		},
		{
			name: "negative_new_stock",
			modify: func(tx *domain.Transaction) {
				tx.Type = domain.TransactionOutbound
				tx.Quantity = dec(-20)
				tx.PreviousStock = dec(5)
				tx.NewStock = dec(-15)
			},
			wantErr: domain.ErrWouldGoNegative,
		},
		{
			name:     "unsupported_currency",
			modify:   func(tx *domain.Transaction) { tx.Currency = "JPY" },
			wantErr:  domain.ErrInvalidArgument,
			errorMsg: "unsupported currency",
		},
		{
			name:     "missing_item",
			modify:   func(tx *domain.Transaction) { tx.ItemID = uuid.Nil },
			wantErr:  domain.ErrInvalidArgument,
			errorMsg: "item_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := entry(domain.TransactionInbound, 10, 0)
			tt.modify(&tx)

			err := tx.Validate()

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, domain.DefaultCurrency, tx.Currency)
				assert.Equal(t, domain.SystemActor, tx.CreatedBy)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errorMsg != "" {
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestTransaction_PrepareForStorage(t *testing.T) {
	tx := entry(domain.TransactionOutbound, -3, 10)
	tx.ID = uuid.Nil
	tx.Status = ""
	tx.UnitPrice = decimal.RequireFromString("2.50")

	tx.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, domain.TransactionCompleted, tx.Status)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.True(t, decimal.RequireFromString("7.50").Equal(tx.TotalValue))
}

func TestTransaction_CancelOnlyOnce(t *testing.T) {
	tx := entry(domain.TransactionInbound, 10, 0)
	now := time.Now()

	require.NoError(t, tx.Cancel("alice", now))
	assert.Equal(t, domain.TransactionCancelled, tx.Status)
	assert.Equal(t, "alice", tx.CancelledBy)
	assert.True(t, dec(10).Equal(tx.Quantity))
	assert.True(t, dec(10).Equal(tx.NewStock))

	err := tx.Cancel("bob", now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestFormatTransactionNumber(t *testing.T) {
	assert.Equal(t, "TX-000042", domain.FormatTransactionNumber(42))
	tx := domain.Transaction{TransactionNumber: 1234567}
	assert.Equal(t, "TX-1234567", tx.Number())
}

func TestFoldStock_SkipsCancelled(t *testing.T) {
	a := entry(domain.TransactionInbound, 100, 0)
	b := entry(domain.TransactionOutbound, -30, 100)
	c := entry(domain.TransactionAdjustment, 5, 70)
	b.Status = domain.TransactionCancelled

	assert.True(t, dec(105).Equal(domain.FoldStock([]domain.Transaction{a, b, c})))
	assert.True(t, decimal.Zero.Equal(domain.FoldStock(nil)))
}

func history(itemID uuid.UUID, qtys ...int64) []domain.Transaction {
	var out []domain.Transaction
	running := int64(0)
	for i, q := range qtys {
		typ := domain.TransactionInbound
		if q < 0 {
			typ = domain.TransactionOutbound
		}
		e := entry(typ, q, running)
		e.ItemID = itemID
		e.TransactionNumber = int64(i + 1)
		out = append(out, e)
		running += q
	}
	return out
}

func TestPlanCorrections(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()

	t.Run("ripples_through_later_entries", func(t *testing.T) {
		h := history(itemID, 100, -30, 20)

		plan, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[0].ID: dec(40)}, "alice", now)

		require.NoError(t, err)
		require.Len(t, plan.Changed, 3)
		assert.True(t, dec(40).Equal(plan.Changed[0].NewStock))
		assert.Equal(t, "alice", plan.Changed[0].CorrectedBy)
		assert.True(t, dec(40).Equal(plan.Changed[1].PreviousStock))
		assert.True(t, dec(10).Equal(plan.Changed[1].NewStock))
		assert.Empty(t, plan.Changed[1].CorrectedBy)
		assert.True(t, dec(30).Equal(plan.Changed[2].NewStock))
		assert.True(t, dec(30).Equal(plan.FinalStock))
		assert.True(t, dec(100).Equal(h[0].Quantity), "history must not be mutated")
	})

	t.Run("skips_cancelled_entries", func(t *testing.T) {
		h := history(itemID, 100, -30)
		h[1].Status = domain.TransactionCancelled

		plan, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[0].ID: dec(40)}, "alice", now)

		require.NoError(t, err)
		require.Len(t, plan.Changed, 1)
		assert.True(t, dec(0).Equal(plan.Changed[0].PreviousStock))
		assert.True(t, dec(40).Equal(plan.Changed[0].NewStock))
		assert.True(t, dec(40).Equal(plan.FinalStock))
	})

	t.Run("starts_from_fold_before_first_amendment", func(t *testing.T) {
		h := history(itemID, 50, 10, -20)

		plan, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[1].ID: dec(30)}, "bob", now)

		require.NoError(t, err)
		require.Len(t, plan.Changed, 2)
		assert.True(t, dec(50).Equal(plan.Changed[0].PreviousStock))
		assert.True(t, dec(80).Equal(plan.Changed[0].NewStock))
		assert.True(t, dec(60).Equal(plan.FinalStock))
	})

	t.Run("rejects_negative_ripple", func(t *testing.T) {
		h := history(itemID, 100, -80)

		plan, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[0].ID: dec(50)}, "alice", now)

		require.Error(t, err)
		assert.Nil(t, plan)
		var wgn *domain.WouldGoNegativeError
		require.ErrorAs(t, err, &wgn)
		assert.Equal(t, h[1].ID, wgn.EntryID)
		assert.True(t, dec(-30).Equal(wgn.Resulting))
	})

	t.Run("rejects_cancelled_target", func(t *testing.T) {
		h := history(itemID, 100, -30)
		h[1].Status = domain.TransactionCancelled

		_, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[1].ID: dec(-10)}, "alice", now)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("rejects_sign_mismatch", func(t *testing.T) {
		h := history(itemID, 100, -30)

		_, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[1].ID: dec(10)}, "alice", now)

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("rejects_zero_quantity", func(t *testing.T) {
		h := history(itemID, 100)

		_, err := domain.PlanCorrections(itemID, h, map[uuid.UUID]decimal.Decimal{h[0].ID: decimal.Zero}, "alice", now)

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
