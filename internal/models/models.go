package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AccountType string

const (
	AccountSavings AccountType = "savings"
	AccountCurrent AccountType = "current"
)

type ClientType string

const (
	ClientIndian   ClientType = "Indian"
	ClientOverseas ClientType = "Overseas"
)

// Status is shared by invoices and their line items.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// User - the account that owns companies and invoices
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company - the issuer printed on an invoice, with its bank details
type Company struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	UserID            uint        `gorm:"index;not null" json:"userId"`
	CompanyName       string      `gorm:"size:255;not null" json:"companyName"`
	GSTNumber         *string     `gorm:"size:50" json:"gstNumber"`
	Address           string      `gorm:"size:500;not null" json:"address"`
	BankName          string      `gorm:"size:255;not null" json:"bankName"`
	AccountType       AccountType `gorm:"size:20;not null" json:"accountType"`
	AccountNumber     string      `gorm:"size:50;not null" json:"accountNumber"`
	IFSCCode          string      `gorm:"size:20;not null" json:"ifscCode"`
	AccountHolderName string      `gorm:"size:255;not null" json:"accountHolderName"`
	BranchName        string      `gorm:"size:255;not null" json:"branchName"`
	Logo              *string     `gorm:"size:500" json:"logo"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

func (c *Company) GetUserID() uint { return c.UserID }

// Invoice - a billing document. Line items live in a single JSON column.
type Invoice struct {
	ID                    uint                      `gorm:"primaryKey" json:"id"`
	UserID                uint                      `gorm:"index;not null" json:"userId"`
	CompanyID             uint                      `gorm:"index;not null" json:"companyId"`
	Company               *Company                  `gorm:"foreignKey:CompanyID" json:"Company,omitempty"`
	InvoiceNumber         string                    `gorm:"uniqueIndex;size:32;not null" json:"invoiceNumber"`
	InvoiceType           string                    `gorm:"size:100;not null" json:"invoiceType"`
	InvoiceDate           Date                      `gorm:"not null" json:"invoiceDate"`
	ClientName            string                    `gorm:"size:255;not null" json:"clientName"`
	ClientAddress         string                    `gorm:"size:500;not null" json:"clientAddress"`
	ClientGSTNo           *string                   `gorm:"size:50" json:"clientGstNo"`
	ClientType            ClientType                `gorm:"size:20;not null" json:"clientType"`
	Terms                 string                    `gorm:"type:text" json:"terms"`
	Notes                 string                    `gorm:"type:text" json:"notes"`
	SubTotal              decimal.Decimal           `gorm:"type:decimal(10,2);not null" json:"subTotal"`
	Total                 decimal.Decimal           `gorm:"type:decimal(10,2);not null" json:"total"`
	TotalAsPerIndianRupee decimal.Decimal           `gorm:"type:decimal(10,2);not null" json:"totalAsPerIndianRupee"`
	Status                Status                    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Items                 datatypes.JSONType[Items] `gorm:"not null" json:"items"`
	CreatedAt             time.Time                 `json:"createdAt"`
	UpdatedAt             time.Time                 `json:"updatedAt"`
}

func (i *Invoice) GetUserID() uint { return i.UserID }

// LineItems returns the decoded items collection, never nil.
func (i *Invoice) LineItems() Items {
	items := i.Items.Data()
	if items == nil {
		return Items{}
	}
	return items
}

func (i *Invoice) SetLineItems(items Items) {
	if items == nil {
		items = Items{}
	}
	i.Items = datatypes.NewJSONType(items)
}

// MarshalJSON writes money fields with two fraction digits ("8300.00"),
// matching the decimal(10,2) columns.
func (i Invoice) MarshalJSON() ([]byte, error) {
	type plain Invoice
	return json.Marshal(struct {
		plain
		SubTotal              string `json:"subTotal"`
		Total                 string `json:"total"`
		TotalAsPerIndianRupee string `json:"totalAsPerIndianRupee"`
	}{
		plain:                 plain(i),
		SubTotal:              i.SubTotal.StringFixed(2),
		Total:                 i.Total.StringFixed(2),
		TotalAsPerIndianRupee: i.TotalAsPerIndianRupee.StringFixed(2),
	})
}
