package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/ports"
)

func BenchmarkStockOperations(b *testing.B) {
	ctx := context.Background()

	b.Run("Receive", func(b *testing.B) {
		l := newBenchLedger(b)
		items := l.seedItems(b, 100, 0)
		one := decimal.NewFromInt(1)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := items[i%len(items)]
			if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: one}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ReceiveIssue", func(b *testing.B) {
		l := newBenchLedger(b)
		items := l.seedItems(b, 100, 10)
		two := decimal.NewFromInt(2)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := items[i%len(items)]
			if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: two}); err != nil {
				b.Fatal(err)
			}
			if _, err := l.ops.Issue(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: two}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ReceiveParallel", func(b *testing.B) {
		l := newBenchLedger(b)
		items := l.seedItems(b, 100, 0)
		one := decimal.NewFromInt(1)

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				item := items[i%len(items)]
				if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: one}); err != nil {
					b.Error(err)
					return
				}
				i++
			}
		})
	})
}

func BenchmarkCancelReplay(b *testing.B) {
	ctx := context.Background()

	for _, depth := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("later_entries_%d", depth), func(b *testing.B) {
			l := newBenchLedger(b)
			item := l.seedItems(b, 1, 0)[0]
			one := decimal.NewFromInt(1)

			// each iteration cancels an early receipt and recomputes over every later entry
			targets := make([]uuid.UUID, 0, b.N)
			for i := 0; i < b.N; i++ {
				entry, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: one})
				if err != nil {
					b.Fatal(err)
				}
				targets = append(targets, entry.ID)
			}
			for i := 0; i < depth; i++ {
				if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: one}); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			for _, id := range targets {
				if _, err := l.ops.Cancel(ctx, id, "bench"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkListTransactions(b *testing.B) {
	ctx := context.Background()
	l := newBenchLedger(b)
	items := l.seedItems(b, 50, 0)
	one := decimal.NewFromInt(1)
	for i := 0; i < 5000; i++ {
		if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: items[i%len(items)].ID, Quantity: one}); err != nil {
			b.Fatal(err)
		}
	}

	b.Run("AllNewestFirst", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := l.ops.ListTransactions(ctx, ports.TransactionFilter{Newest: true, Limit: 50}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ByItem", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			id := items[i%len(items)].ID
			if _, err := l.ops.ListTransactions(ctx, ports.TransactionFilter{ItemID: &id, Limit: 50}); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkStatistics(b *testing.B) {
	ctx := context.Background()
	l := newBenchLedger(b)
	items := l.seedItems(b, 500, 20)
	for i := 0; i < 2000; i++ {
		if _, err := l.ops.Issue(ctx, ports.MovementRequest{ItemID: items[i%len(items)].ID, Quantity: decimal.NewFromInt(1)}); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.stats.GetStatistics(ctx, ports.StatisticsFilter{RecentLimit: 10}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadLegacyXLSX(b *testing.B) {
	for _, rows := range []int{100, 1000} {
		data := legacyWorkbook(b, rows)
		b.Run(fmt.Sprintf("rows_%d", rows), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				records, issues, err := spreadsheet.ReadLegacyXLSX(data)
				if err != nil {
					b.Fatal(err)
				}
				if len(records) != rows || len(issues) != 0 {
					b.Fatalf("got %d records, %d issues", len(records), len(issues))
				}
			}
		})
	}
}
