package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-invoice-api/internal/models"
)

// InvoiceSummary aggregates one user's invoices over a date range.
type InvoiceSummary struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	InvoiceCount   int64           `json:"invoiceCount"`
	PaidCount      int64           `json:"paidCount"`
	PendingCount   int64           `json:"pendingCount"`
	TotalINR       decimal.Decimal `json:"totalInr"`
	PaidINR        decimal.Decimal `json:"paidInr"`
	OutstandingINR decimal.Decimal `json:"outstandingInr"`
}

type statusRow struct {
	Status models.Status
	Cnt    int64
	Amount decimal.NullDecimal
}

// GetInvoiceSummary groups the user's invoices dated within [start, end] by
// status. Amounts are in rupees (totalAsPerIndianRupee).
func GetInvoiceSummary(ctx context.Context, db *gorm.DB, userID uint, start, end time.Time) (*InvoiceSummary, error) {
	var rows []statusRow
	err := db.WithContext(ctx).Model(&models.Invoice{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(total_as_per_indian_rupee), 0) AS amount").
		Where("user_id = ? AND invoice_date BETWEEN ? AND ?", userID, start, end).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &InvoiceSummary{
		From:           start.Format(time.DateOnly),
		To:             end.Format(time.DateOnly),
		TotalINR:       decimal.Zero,
		PaidINR:        decimal.Zero,
		OutstandingINR: decimal.Zero,
	}
	for _, r := range rows {
		amount := decimal.Zero
		if r.Amount.Valid {
			amount = r.Amount.Decimal
		}
		summary.InvoiceCount += r.Cnt
		summary.TotalINR = summary.TotalINR.Add(amount)
		switch r.Status {
		case models.StatusPaid:
			summary.PaidCount += r.Cnt
			summary.PaidINR = summary.PaidINR.Add(amount)
		default:
			summary.PendingCount += r.Cnt
			summary.OutstandingINR = summary.OutstandingINR.Add(amount)
		}
	}
	summary.TotalINR = summary.TotalINR.Round(2)
	summary.PaidINR = summary.PaidINR.Round(2)
	summary.OutstandingINR = summary.OutstandingINR.Round(2)
	return summary, nil
}

func (s InvoiceSummary) MarshalJSON() ([]byte, error) {
	type plain InvoiceSummary
	return json.Marshal(struct {
		plain
		TotalINR       string `json:"totalInr"`
		PaidINR        string `json:"paidInr"`
		OutstandingINR string `json:"outstandingInr"`
	}{
		plain:          plain(s),
		TotalINR:       s.TotalINR.StringFixed(2),
		PaidINR:        s.PaidINR.StringFixed(2),
		OutstandingINR: s.OutstandingINR.StringFixed(2),
	})
}
