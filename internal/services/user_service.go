package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/auth"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/models"
)

const minPasswordLen = 6

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService struct {
	db       *gorm.DB
	logos    LogoStore
	validate *validator.Validate
	log      *logger.Logger
}

func NewUserService(db *gorm.DB, logos LogoStore, log *logger.Logger) *UserService {
	return &UserService{
		db:       db,
		logos:    logos,
		validate: validator.New(),
		log:      log.With("service", "UserService"),
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	s.checkUsername(fields, &in.Username)
	s.checkEmail(fields, &in.Email)
	s.checkPassword(fields, &in.Password)
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, apperr.Internal("check email", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("Email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	user := &models.User{Username: strings.TrimSpace(in.Username), Email: in.Email, Password: hash}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("create user", err)
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperr.Validation("Email and password required", nil)
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(in.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Validation("Invalid credentials", nil)
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperr.Validation("Invalid credentials", nil)
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "User not found", "find user")
	}
	return &user, nil
}

// Update changes the caller's own account. Updating anyone else is forbidden.
func (s *UserService) Update(ctx context.Context, callerID, targetID uint, in UpdateUserInput) (*models.User, error) {
	if callerID != targetID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	fields := map[string]string{}
	if in.Username != nil {
		s.checkUsername(fields, in.Username)
	}
	if in.Email != nil {
		*in.Email = strings.TrimSpace(*in.Email)
		s.checkEmail(fields, in.Email)
	}
	if in.Password != nil {
		s.checkPassword(fields, in.Password)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields)
	}

	user, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil && *in.Email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", *in.Email, user.ID).Count(&count).Error; err != nil {
			return nil, apperr.Internal("check email", err)
		}
		if count > 0 {
			return nil, apperr.Conflict("Email already registered")
		}
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Internal("hash password", err)
		}
		user.Password = hash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("update user", err)
	}
	return user, nil
}

// Delete removes the caller's account together with their invoices and
// companies, then cleans up the companies' logo files.
func (s *UserService) Delete(ctx context.Context, callerID, targetID uint) error {
	if callerID != targetID {
		return apperr.Forbidden("Unauthorized")
	}

	var logos []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, targetID).Error; err != nil {
			return lookupErr(err, "User not found", "find user")
		}
		var companies []models.Company
		if err := tx.Where("user_id = ?", user.ID).Find(&companies).Error; err != nil {
			return apperr.Internal("list companies", err)
		}
		for _, c := range companies {
			if c.Logo != nil && *c.Logo != "" {
				logos = append(logos, *c.Logo)
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Invoice{}).Error; err != nil {
			return apperr.Internal("delete invoices", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Company{}).Error; err != nil {
			return apperr.Internal("delete companies", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return apperr.Internal("delete user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range logos {
		if err := s.logos.Remove(p); err != nil {
			s.log.Warn("failed to remove logo", "path", p, "error", err)
		}
	}
	s.log.Info("user deleted", "user_id", targetID, "logos_removed", len(logos))
	return nil
}

func (s *UserService) checkUsername(fields map[string]string, username *string) {
	if strings.TrimSpace(*username) == "" {
		fields["username"] = "Username is required"
	}
}

func (s *UserService) checkEmail(fields map[string]string, email *string) {
	if *email == "" {
		fields["email"] = "Email is required"
		return
	}
	if err := s.validate.Var(*email, "email"); err != nil {
		fields["email"] = "Invalid email format"
	}
}

func (s *UserService) checkPassword(fields map[string]string, password *string) {
	if len(*password) < minPasswordLen {
		fields["password"] = "Password must be at least 6 characters"
	}
}
