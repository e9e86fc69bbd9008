package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"go-invoice-api/internal/models"
)

// RateSource returns the current USD to INR rate. Implementations absorb
// their own failures and always return a usable rate.
type RateSource interface {
	Rate(ctx context.Context) decimal.Decimal
}

// TotalInINR converts total into rupees for the given client type. Indian
// totals pass through; overseas totals are treated as USD and converted at
// the live rate. The rate source is consulted only for overseas clients.
func TotalInINR(ctx context.Context, clientType models.ClientType, total decimal.Decimal, rates RateSource) decimal.Decimal {
	if clientType != models.ClientOverseas {
		return total.Round(2)
	}
	return total.Mul(rates.Rate(ctx)).Round(2)
}
