package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"go-invoice-api/internal/database"
	"go-invoice-api/internal/database/dbtest"
	"go-invoice-api/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGetInvoiceSummary(t *testing.T) {
	db := dbtest.New(t)

	user := models.User{Username: "a", Email: "a@test.dev", Password: "x"}
	other := models.User{Username: "b", Email: "b@test.dev", Password: "x"}
	for _, u := range []*models.User{&user, &other} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("user: %v", err)
		}
	}
	company := models.Company{UserID: user.ID, CompanyName: "Acme", Address: "x", BankName: "b", AccountType: models.AccountCurrent, AccountNumber: "1", IFSCCode: "I", AccountHolderName: "h", BranchName: "br"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("company: %v", err)
	}

	seed := []struct {
		owner  uint
		number string
		date   string
		status models.Status
		inr    string
	}{
		{user.ID, "A-1", "2025-01-10", models.StatusPaid, "100.50"},
		{user.ID, "A-2", "2025-01-20", models.StatusPending, "200.25"},
		{user.ID, "A-3", "2025-01-31", models.StatusPending, "50.00"},
		{user.ID, "A-4", "2025-02-01", models.StatusPaid, "999.00"},
		{other.ID, "B-1", "2025-01-15", models.StatusPaid, "70.00"},
	}
	for _, s := range seed {
		inv := models.Invoice{
			UserID:                s.owner,
			CompanyID:             company.ID,
			InvoiceNumber:         s.number,
			InvoiceType:           "tax",
			InvoiceDate:           models.NewDate(day(s.date)),
			ClientName:            "c",
			ClientAddress:         "c",
			ClientType:            models.ClientIndian,
			SubTotal:              decimal.RequireFromString(s.inr),
			Total:                 decimal.RequireFromString(s.inr),
			TotalAsPerIndianRupee: decimal.RequireFromString(s.inr),
			Status:                s.status,
		}
		inv.SetLineItems(nil)
		if err := db.Create(&inv).Error; err != nil {
			t.Fatalf("invoice %s: %v", s.number, err)
		}
	}

	got, err := database.GetInvoiceSummary(context.Background(), db, user.ID, day("2025-01-01"), day("2025-01-31"))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.InvoiceCount != 3 || got.PaidCount != 1 || got.PendingCount != 2 {
		t.Fatalf("counts: %+v", got)
	}
	if !got.PaidINR.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("paid: got=%s", got.PaidINR)
	}
	if !got.OutstandingINR.Equal(decimal.RequireFromString("250.25")) {
		t.Fatalf("outstanding: got=%s", got.OutstandingINR)
	}
	if !got.TotalINR.Equal(decimal.RequireFromString("350.75")) {
		t.Fatalf("total: got=%s", got.TotalINR)
	}
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		if _, err := database.Dialector(driver, "dsn"); err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
	}
	if _, err := database.Dialector("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
