package invoice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"go-invoice-api/internal/models"
)

type fixedRate struct {
	rate  decimal.Decimal
	calls int
}

func (f *fixedRate) Rate(context.Context) decimal.Decimal {
	f.calls++
	return f.rate
}

func TestTotalInINR(t *testing.T) {
	ctx := context.Background()

	rates := &fixedRate{rate: decimal.NewFromInt(83)}
	got := TotalInINR(ctx, models.ClientOverseas, decimal.NewFromInt(100), rates)
	if !got.Equal(decimal.RequireFromString("8300.00")) {
		t.Fatalf("overseas: got=%s want=8300.00", got)
	}

	rates = &fixedRate{rate: decimal.RequireFromString("83.456")}
	got = TotalInINR(ctx, models.ClientOverseas, decimal.RequireFromString("10.01"), rates)
	if !got.Equal(decimal.RequireFromString("835.39")) {
		t.Fatalf("rounding: got=%s want=835.39", got)
	}

	rates = &fixedRate{rate: decimal.NewFromInt(83)}
	got = TotalInINR(ctx, models.ClientIndian, decimal.RequireFromString("1999.50"), rates)
	if !got.Equal(decimal.RequireFromString("1999.50")) {
		t.Fatalf("indian: got=%s", got)
	}
	if rates.calls != 0 {
		t.Fatalf("rate source consulted for indian client")
	}
}
