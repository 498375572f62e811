package billing

import (
	"fmt"
	"time"

	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CurrencyStats is one currency's rollup of invoice totals by display status
type CurrencyStats struct {
	Revenue      decimal.Decimal `json:"revenue"`
	Pending      decimal.Decimal `json:"pending"`
	Overdue      decimal.Decimal `json:"overdue"`
	RevenueCount int             `json:"revenue_count"`
	PendingCount int             `json:"pending_count"`
	OverdueCount int             `json:"overdue_count"`
}

// InvoiceStats holds per-currency rollups. Only USD and IDR are tracked;
// invoices in any other currency are silently dropped from the aggregates.
type InvoiceStats struct {
	USD CurrencyStats `json:"USD"`
	IDR CurrencyStats `json:"IDR"`
}

func newCurrencyStats() CurrencyStats {
	return CurrencyStats{
		Revenue: decimal.Zero,
		Pending: decimal.Zero,
		Overdue: decimal.Zero,
	}
}

// CalculateStats partitions invoices by currency and *display* status into
// three mutually exclusive buckets: paid to revenue, sent to pending, and
// derived-overdue to overdue. Draft invoices contribute to none of them.
func CalculateStats(invoices []Invoice, ref time.Time) InvoiceStats {
	stats := InvoiceStats{
		USD: newCurrencyStats(),
		IDR: newCurrencyStats(),
	}

	for i := range invoices {
		inv := &invoices[i]
		if !inv.Currency.IsRecognized() {
			continue
		}

		var bucket *CurrencyStats
		if inv.Currency == valueobject.USD {
			bucket = &stats.USD
		} else {
			bucket = &stats.IDR
		}

		switch inv.DisplayStatus(ref) {
		case InvoiceStatusPaid:
			bucket.Revenue = bucket.Revenue.Add(inv.Total.Amount())
			bucket.RevenueCount++
		case InvoiceStatusSent:
			bucket.Pending = bucket.Pending.Add(inv.Total.Amount())
			bucket.PendingCount++
		case InvoiceStatusOverdue:
			bucket.Overdue = bucket.Overdue.Add(inv.Total.Amount())
			bucket.OverdueCount++
		}
	}

	return stats
}

// RevenueEntry is one month of the 6-month revenue series
type RevenueEntry struct {
	Month string          `json:"month"`
	Year  int             `json:"year"`
	IDR   decimal.Decimal `json:"IDR"`
	USD   decimal.Decimal `json:"USD"`
}

// LastSixMonthsRevenue builds a fixed 6-entry series covering the reference
// month and the five preceding it, zero-initialized for both currencies.
// Only invoices with *stored* status paid contribute (the overdue projection
// plays no part here); each adds its total to the bucket matching its issue
// date's month, and anything outside the window is skipped.
func LastSixMonthsRevenue(invoices []Invoice, ref time.Time) []RevenueEntry {
	entries := make([]RevenueEntry, 0, 6)
	index := make(map[string]int, 6)

	// anchor at the first of the month so stepping back never skips a
	// short month
	anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	for i := 5; i >= 0; i-- {
		d := anchor.AddDate(0, -i, 0)
		key := monthKey(d.Year(), d.Month())
		index[key] = len(entries)
		entries = append(entries, RevenueEntry{
			Month: d.Format("Jan"),
			Year:  d.Year(),
			IDR:   decimal.Zero,
			USD:   decimal.Zero,
		})
	}

	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != InvoiceStatusPaid {
			continue
		}

		key := monthKey(inv.IssueDate.Year(), inv.IssueDate.Month())
		pos, ok := index[key]
		if !ok {
			continue
		}

		switch inv.Currency {
		case valueobject.IDR:
			entries[pos].IDR = entries[pos].IDR.Add(inv.Total.Amount())
		case valueobject.USD:
			entries[pos].USD = entries[pos].USD.Add(inv.Total.Amount())
		}
	}

	return entries
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%d", year, int(month))
}
