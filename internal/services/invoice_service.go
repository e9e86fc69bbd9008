package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/database"
	"go-invoice-api/internal/invoice"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/models"
)

// maxNumberAttempts bounds how often Create redraws an invoice number after
// a uniqueness violation.
const maxNumberAttempts = 5

// CreateInvoiceInput is the body of POST /invoices.
type CreateInvoiceInput struct {
	CompanyID     uint              `json:"companyId" binding:"required"`
	InvoiceType   string            `json:"invoiceType" binding:"required"`
	InvoiceDate   string            `json:"invoiceDate" binding:"required,datetime=2006-01-02"`
	ClientName    string            `json:"clientName" binding:"required"`
	ClientAddress string            `json:"clientAddress" binding:"required"`
	ClientGSTNo   *string           `json:"clientGstNo"`
	ClientType    models.ClientType `json:"clientType" binding:"required,oneof=Indian Overseas"`
	Terms         string            `json:"terms"`
	Notes         string            `json:"notes"`
	SubTotal      *decimal.Decimal  `json:"subTotal" binding:"required"`
	Total         *decimal.Decimal  `json:"total" binding:"required"`
	Items         models.Items      `json:"items" binding:"required"`
}

// UpdateInvoiceInput is the body of PUT /invoices/:id. Nil fields are left
// unchanged. Items are upserted by id, then ItemIDsToDelete are removed.
type UpdateInvoiceInput struct {
	InvoiceType     *string            `json:"invoiceType" binding:"omitempty,min=1"`
	InvoiceDate     *string            `json:"invoiceDate" binding:"omitempty,datetime=2006-01-02"`
	ClientName      *string            `json:"clientName" binding:"omitempty,min=1"`
	ClientAddress   *string            `json:"clientAddress" binding:"omitempty,min=1"`
	ClientGSTNo     *string            `json:"clientGstNo"`
	ClientType      *models.ClientType `json:"clientType" binding:"omitempty,oneof=Indian Overseas"`
	Terms           *string            `json:"terms"`
	Notes           *string            `json:"notes"`
	SubTotal        *decimal.Decimal   `json:"subTotal"`
	Total           *decimal.Decimal   `json:"total"`
	Items           models.Items       `json:"items"`
	ItemIDsToDelete []any              `json:"itemIdsToDelete"`
}

// ItemUpdate is the result of a single-item patch.
type ItemUpdate struct {
	Item          models.Item   `json:"updatedItem"`
	InvoiceStatus models.Status `json:"invoiceStatus"`
}

// ItemRemoval is the result of a single-item delete.
type ItemRemoval struct {
	RemainingItems models.Items  `json:"remainingItems"`
	InvoiceStatus  models.Status `json:"invoiceStatus"`
}

type InvoiceService struct {
	db     *gorm.DB
	rates  invoice.RateSource
	log    *logger.Logger
	newID  invoice.IDFunc
	suffix invoice.NumberFunc
}

func NewInvoiceService(db *gorm.DB, rates invoice.RateSource, log *logger.Logger) *InvoiceService {
	return &InvoiceService{
		db:     db,
		rates:  rates,
		log:    log.With("service", "InvoiceService"),
		newID:  invoice.NewItemID,
		suffix: invoice.RandomSuffix,
	}
}

// WithGenerators swaps the item-id and invoice-number generators.
func (s *InvoiceService) WithGenerators(newID invoice.IDFunc, suffix invoice.NumberFunc) *InvoiceService {
	cp := *s
	if newID != nil {
		cp.newID = newID
	}
	if suffix != nil {
		cp.suffix = suffix
	}
	return &cp
}

// Create issues a new pending invoice for one of the caller's companies.
func (s *InvoiceService) Create(ctx context.Context, userID uint, in CreateInvoiceInput) (*models.Invoice, error) {
	date, fields := parseDate(nil, "invoiceDate", in.InvoiceDate)
	fields = checkAmount(fields, "subTotal", in.SubTotal, true)
	fields = checkAmount(fields, "total", in.Total, true)
	fields = checkItems(fields, in.Items)
	if len(fields) > 0 {
		return nil, apperr.Validation("All required fields must be provided", fields)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "User not found", "find user")
	}
	var company models.Company
	err := s.db.WithContext(ctx).First(&company, in.CompanyID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("find company", err)
	}
	if err != nil || company.UserID != userID {
		return nil, apperr.Validation("Invalid company for this user", nil)
	}

	inv := &models.Invoice{
		UserID:                userID,
		CompanyID:             company.ID,
		InvoiceType:           in.InvoiceType,
		InvoiceDate:           models.NewDate(date),
		ClientName:            in.ClientName,
		ClientAddress:         in.ClientAddress,
		ClientGSTNo:           in.ClientGSTNo,
		ClientType:            in.ClientType,
		Terms:                 in.Terms,
		Notes:                 in.Notes,
		SubTotal:              in.SubTotal.Round(2),
		Total:                 in.Total.Round(2),
		TotalAsPerIndianRupee: invoice.TotalInINR(ctx, in.ClientType, *in.Total, s.rates),
		Status:                models.StatusPending,
	}
	inv.SetLineItems(invoice.AssignMissingIDs(in.Items, s.newID))

	for attempt := 1; ; attempt++ {
		inv.ID = 0
		inv.InvoiceNumber = invoice.GenerateNumber(company.CompanyName, s.suffix)
		err := s.db.WithContext(ctx).Omit("Company").Create(inv).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < maxNumberAttempts {
			s.log.Warn("invoice number collision, retrying", "number", inv.InvoiceNumber, "attempt", attempt)
			continue
		}
		return nil, apperr.Internal("create invoice", err)
	}

	inv.Company = &company
	s.log.Info("invoice created", "invoice_id", inv.ID, "number", inv.InvoiceNumber, "user_id", userID)
	return inv, nil
}

// ListByUser returns the caller's invoices, newest first.
func (s *InvoiceService) ListByUser(ctx context.Context, userID uint) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	err := s.db.WithContext(ctx).Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, apperr.Internal("list invoices", err)
	}
	return invoices, nil
}

// ListByCompany returns the invoices of one of the caller's companies,
// newest first.
func (s *InvoiceService) ListByCompany(ctx context.Context, userID, companyID uint) ([]models.Invoice, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, companyID).Error; err != nil {
		return nil, lookupErr(err, "Company not found", "find company")
	}
	if err := checkOwner(&company, userID, "Unauthorized access"); err != nil {
		return nil, err
	}

	invoices := []models.Invoice{}
	err := s.db.WithContext(ctx).Preload("Company").
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Order("created_at DESC, id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, apperr.Internal("list company invoices", err)
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, userID, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.WithContext(ctx).Preload("Company").First(&inv, id).Error; err != nil {
		return nil, lookupErr(err, "Invoice not found", "find invoice")
	}
	if err := checkOwner(&inv, userID, "Unauthorized user"); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update applies a partial update. Items are merged before deletions are
// applied, the status is derived from the result, and the rupee total is
// recomputed whenever the total or the client type is supplied.
func (s *InvoiceService) Update(ctx context.Context, userID, id uint, in UpdateInvoiceInput) (*models.Invoice, error) {
	var date time.Time
	var fields map[string]string
	if in.InvoiceDate != nil {
		date, fields = parseDate(fields, "invoiceDate", *in.InvoiceDate)
	}
	fields = checkAmount(fields, "subTotal", in.SubTotal, false)
	fields = checkAmount(fields, "total", in.Total, false)
	fields = checkItems(fields, in.Items)
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields)
	}

	deleteIDs := make([]string, 0, len(in.ItemIDsToDelete))
	for _, v := range in.ItemIDsToDelete {
		if key := models.ItemKey(v); key != "" {
			deleteIDs = append(deleteIDs, key)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		if in.InvoiceType != nil {
			inv.InvoiceType = *in.InvoiceType
		}
		if in.InvoiceDate != nil {
			inv.InvoiceDate = models.NewDate(date)
		}
		if in.ClientName != nil {
			inv.ClientName = *in.ClientName
		}
		if in.ClientAddress != nil {
			inv.ClientAddress = *in.ClientAddress
		}
		if in.ClientGSTNo != nil {
			inv.ClientGSTNo = in.ClientGSTNo
		}
		if in.ClientType != nil {
			inv.ClientType = *in.ClientType
		}
		if in.Terms != nil {
			inv.Terms = *in.Terms
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if in.SubTotal != nil {
			inv.SubTotal = in.SubTotal.Round(2)
		}
		if in.Total != nil {
			inv.Total = in.Total.Round(2)
		}
		if in.Total != nil || in.ClientType != nil {
			inv.TotalAsPerIndianRupee = invoice.TotalInINR(ctx, inv.ClientType, inv.Total, s.rates)
		}

		merged := invoice.MergeItems(inv.LineItems(), in.Items, deleteIDs, s.newID)
		inv.SetLineItems(merged)
		inv.Status = invoice.DeriveStatus(merged)

		if err := tx.Omit("Company").Save(inv).Error; err != nil {
			return apperr.Internal("update invoice", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *InvoiceService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(inv).Error; err != nil {
			return apperr.Internal("delete invoice", err)
		}
		return nil
	})
}

// UpdateItem patches one line item and recomputes the invoice status. The
// items and the status are written together.
func (s *InvoiceService) UpdateItem(ctx context.Context, userID, invoiceID uint, itemID string, patch invoice.ItemPatch) (*ItemUpdate, error) {
	var out ItemUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(ctx, tx, userID, invoiceID)
		if err != nil {
			return err
		}
		items, item, err := invoice.PatchItem(inv.LineItems(), itemID, patch)
		if errors.Is(err, invoice.ErrItemNotFound) {
			return apperr.NotFound("Item not found in invoice")
		}
		if err != nil {
			return apperr.Internal("patch item", err)
		}
		status := invoice.DeriveStatus(items)
		if err := saveItems(tx, inv, items, status); err != nil {
			return err
		}
		out = ItemUpdate{Item: item, InvoiceStatus: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem removes one line item and recomputes the invoice status.
func (s *InvoiceService) DeleteItem(ctx context.Context, userID, invoiceID uint, itemID string) (*ItemRemoval, error) {
	var out ItemRemoval
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(ctx, tx, userID, invoiceID)
		if err != nil {
			return err
		}
		items, err := invoice.RemoveItem(inv.LineItems(), itemID)
		if errors.Is(err, invoice.ErrItemNotFound) {
			return apperr.NotFound("Item not found in invoice")
		}
		if err != nil {
			return apperr.Internal("remove item", err)
		}
		status := invoice.DeriveStatus(items)
		if err := saveItems(tx, inv, items, status); err != nil {
			return err
		}
		out = ItemRemoval{RemainingItems: items, InvoiceStatus: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkItemPaid is a shortcut for UpdateItem with status=paid.
func (s *InvoiceService) MarkItemPaid(ctx context.Context, userID, invoiceID uint, itemID string) (*ItemUpdate, error) {
	paid := models.StatusPaid
	return s.UpdateItem(ctx, userID, invoiceID, itemID, invoice.ItemPatch{Status: &paid})
}

// Summary reports the caller's invoice counts and rupee totals for invoices
// dated between from and to (YYYY-MM-DD, both optional, inclusive).
func (s *InvoiceService) Summary(ctx context.Context, userID uint, from, to string) (*database.InvoiceSummary, error) {
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	var fields map[string]string
	if from != "" {
		start, fields = parseDate(fields, "from", from)
	}
	if to != "" {
		end, fields = parseDate(fields, "to", to)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid date range", fields)
	}
	if end.Before(start) {
		return nil, apperr.Validation("Invalid date range", map[string]string{"to": "must not be before from"})
	}

	summary, err := database.GetInvoiceSummary(ctx, s.db, userID, start, end)
	if err != nil {
		return nil, apperr.Internal("invoice summary", err)
	}
	return summary, nil
}

// lockInvoice loads an invoice owned by userID under a row lock. It must be
// called with the transaction handle.
func lockInvoice(ctx context.Context, tx *gorm.DB, userID, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	if err != nil {
		return nil, lookupErr(err, "Invoice not found", "lock invoice")
	}
	if err := checkOwner(&inv, userID, "Unauthorized"); err != nil {
		return nil, err
	}
	return &inv, nil
}

func saveItems(tx *gorm.DB, inv *models.Invoice, items models.Items, status models.Status) error {
	inv.SetLineItems(items)
	inv.Status = status
	err := tx.Model(inv).Updates(map[string]any{
		"items":  inv.Items,
		"status": status,
	}).Error
	if err != nil {
		return apperr.Internal("save items", err)
	}
	return nil
}

func parseDate(fields map[string]string, name, value string) (time.Time, map[string]string) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		if fields == nil {
			fields = map[string]string{}
		}
		fields[name] = "must be a date in YYYY-MM-DD format"
	}
	return t, fields
}

func checkAmount(fields map[string]string, name string, v *decimal.Decimal, required bool) map[string]string {
	msg := ""
	switch {
	case v == nil && required:
		msg = "is required"
	case v != nil && v.IsNegative():
		msg = "must not be negative"
	}
	if msg == "" {
		return fields
	}
	if fields == nil {
		fields = map[string]string{}
	}
	fields[name] = msg
	return fields
}

// checkItems rejects item statuses other than pending and paid.
func checkItems(fields map[string]string, items models.Items) map[string]string {
	for i, it := range items {
		if it == nil {
			continue
		}
		raw, ok := it["status"]
		if !ok || raw == nil {
			continue
		}
		switch it.Status() {
		case models.StatusPending, models.StatusPaid:
			continue
		}
		if fields == nil {
			fields = map[string]string{}
		}
		fields[fmt.Sprintf("items[%d].status", i)] = "must be pending or paid"
	}
	return fields
}
