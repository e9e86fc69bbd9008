package services_test

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/models"
	"go-invoice-api/internal/storage"
)

type stubRates struct {
	rate  decimal.Decimal
	calls int
}

func (s *stubRates) Rate(context.Context) decimal.Decimal {
	s.calls++
	return s.rate
}

// fakeLogos records logo writes and removals without touching the disk.
type fakeLogos struct {
	saved   []string
	removed []string
}

func (f *fakeLogos) SaveLogo(fh *multipart.FileHeader) (string, error) {
	if path.Ext(fh.Filename) == ".exe" {
		return "", storage.ErrUnsupportedType
	}
	p := storage.LogoURLPrefix + fh.Filename
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeLogos) Remove(p string) error {
	f.removed = append(f.removed, p)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Username: "user", Email: email, Password: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCompany(t *testing.T, db *gorm.DB, userID uint, name string, logo *string) *models.Company {
	t.Helper()
	c := &models.Company{
		UserID:            userID,
		CompanyName:       name,
		Address:           "1 Main St",
		BankName:          "Bank",
		AccountType:       models.AccountCurrent,
		AccountNumber:     "000111",
		IFSCCode:          "IFSC0001",
		AccountHolderName: "Holder",
		BranchName:        "Central",
		Logo:              logo,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return c
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error, got %T: %v", err, err)
	}
	if ae.Kind != kind {
		t.Fatalf("kind: got=%v want=%v (%v)", ae.Kind, kind, err)
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T { return &v }
