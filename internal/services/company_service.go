package services

import (
	"context"
	"errors"
	"mime/multipart"

	"gorm.io/gorm"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/models"
	"go-invoice-api/internal/storage"
)

// CompanyInput is the multipart form for creating a company.
type CompanyInput struct {
	CompanyName       string             `form:"companyName" json:"companyName" binding:"required"`
	GSTNumber         *string            `form:"gstNumber" json:"gstNumber"`
	Address           string             `form:"address" json:"address" binding:"required"`
	BankName          string             `form:"bankName" json:"bankName" binding:"required"`
	AccountType       models.AccountType `form:"accountType" json:"accountType" binding:"required,oneof=savings current"`
	AccountNumber     string             `form:"accountNumber" json:"accountNumber" binding:"required"`
	IFSCCode          string             `form:"ifscCode" json:"ifscCode" binding:"required"`
	AccountHolderName string             `form:"accountHolderName" json:"accountHolderName" binding:"required"`
	BranchName        string             `form:"branchName" json:"branchName" binding:"required"`
}

// CompanyPatch is a partial update; nil fields are left unchanged.
type CompanyPatch struct {
	CompanyName       *string             `form:"companyName" json:"companyName" binding:"omitempty,min=1"`
	GSTNumber         *string             `form:"gstNumber" json:"gstNumber"`
	Address           *string             `form:"address" json:"address" binding:"omitempty,min=1"`
	BankName          *string             `form:"bankName" json:"bankName" binding:"omitempty,min=1"`
	AccountType       *models.AccountType `form:"accountType" json:"accountType" binding:"omitempty,oneof=savings current"`
	AccountNumber     *string             `form:"accountNumber" json:"accountNumber" binding:"omitempty,min=1"`
	IFSCCode          *string             `form:"ifscCode" json:"ifscCode" binding:"omitempty,min=1"`
	AccountHolderName *string             `form:"accountHolderName" json:"accountHolderName" binding:"omitempty,min=1"`
	BranchName        *string             `form:"branchName" json:"branchName" binding:"omitempty,min=1"`
}

type CompanyService struct {
	db    *gorm.DB
	logos LogoStore
	log   *logger.Logger
}

func NewCompanyService(db *gorm.DB, logos LogoStore, log *logger.Logger) *CompanyService {
	return &CompanyService{db: db, logos: logos, log: log.With("service", "CompanyService")}
}

func (s *CompanyService) Create(ctx context.Context, userID uint, in CompanyInput, logo *multipart.FileHeader) (*models.Company, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	company := &models.Company{
		UserID:            userID,
		CompanyName:       in.CompanyName,
		GSTNumber:         in.GSTNumber,
		Address:           in.Address,
		BankName:          in.BankName,
		AccountType:       in.AccountType,
		AccountNumber:     in.AccountNumber,
		IFSCCode:          in.IFSCCode,
		AccountHolderName: in.AccountHolderName,
		BranchName:        in.BranchName,
	}
	if logo != nil {
		path, err := s.saveLogo(logo)
		if err != nil {
			return nil, err
		}
		company.Logo = &path
	}

	if err := s.db.WithContext(ctx).Create(company).Error; err != nil {
		if company.Logo != nil {
			_ = s.logos.Remove(*company.Logo)
		}
		return nil, apperr.Internal("create company", err)
	}
	s.log.Info("company created", "company_id", company.ID, "user_id", userID)
	return company, nil
}

func (s *CompanyService) List(ctx context.Context, userID uint) ([]models.Company, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	companies := []models.Company{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&companies).Error; err != nil {
		return nil, apperr.Internal("list companies", err)
	}
	return companies, nil
}

// Get returns a company owned by userID: NotFound when absent, Forbidden
// when it belongs to someone else.
func (s *CompanyService) Get(ctx context.Context, userID, id uint) (*models.Company, error) {
	return s.owned(ctx, s.db, userID, id)
}

func (s *CompanyService) Update(ctx context.Context, userID, id uint, in CompanyPatch, logo *multipart.FileHeader) (*models.Company, error) {
	company, err := s.owned(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}

	applyCompanyPatch(company, in)

	oldLogo := company.Logo
	if logo != nil {
		path, err := s.saveLogo(logo)
		if err != nil {
			return nil, err
		}
		company.Logo = &path
	}

	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		if logo != nil {
			_ = s.logos.Remove(*company.Logo)
		}
		return nil, apperr.Internal("update company", err)
	}

	if logo != nil && oldLogo != nil && *oldLogo != "" {
		if err := s.logos.Remove(*oldLogo); err != nil {
			s.log.Warn("failed to remove replaced logo", "path", *oldLogo, "error", err)
		}
	}
	return company, nil
}

// Delete removes the company, its invoices and its logo file.
func (s *CompanyService) Delete(ctx context.Context, userID, id uint) error {
	var logo *string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := s.owned(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		logo = company.Logo
		if err := tx.Where("company_id = ?", company.ID).Delete(&models.Invoice{}).Error; err != nil {
			return apperr.Internal("delete company invoices", err)
		}
		if err := tx.Delete(company).Error; err != nil {
			return apperr.Internal("delete company", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if logo != nil && *logo != "" {
		if err := s.logos.Remove(*logo); err != nil {
			s.log.Warn("failed to remove logo", "path", *logo, "error", err)
		}
	}
	return nil
}

func (s *CompanyService) owned(ctx context.Context, db *gorm.DB, userID, id uint) (*models.Company, error) {
	var company models.Company
	if err := db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, lookupErr(err, "Company not found", "find company")
	}
	if err := checkOwner(&company, userID, "Unauthorized access"); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompanyService) requireUser(ctx context.Context, userID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperr.Internal("find user", err)
	}
	if count == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func (s *CompanyService) saveLogo(fh *multipart.FileHeader) (string, error) {
	path, err := s.logos.SaveLogo(fh)
	if errors.Is(err, storage.ErrUnsupportedType) {
		return "", apperr.Validation(err.Error(), map[string]string{"logo": err.Error()})
	}
	if err != nil {
		return "", apperr.Internal("save logo", err)
	}
	return path, nil
}

func applyCompanyPatch(c *models.Company, in CompanyPatch) {
	if in.CompanyName != nil {
		c.CompanyName = *in.CompanyName
	}
	if in.GSTNumber != nil {
		c.GSTNumber = in.GSTNumber
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.BankName != nil {
		c.BankName = *in.BankName
	}
	if in.AccountType != nil {
		c.AccountType = *in.AccountType
	}
	if in.AccountNumber != nil {
		c.AccountNumber = *in.AccountNumber
	}
	if in.IFSCCode != nil {
		c.IFSCCode = *in.IFSCCode
	}
	if in.AccountHolderName != nil {
		c.AccountHolderName = *in.AccountHolderName
	}
	if in.BranchName != nil {
		c.BranchName = *in.BranchName
	}
}
