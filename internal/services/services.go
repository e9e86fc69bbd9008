// Package services holds the business rules behind the HTTP handlers:
// ownership checks, validation that needs the database, and the
// transactional read-modify-write of invoices.
package services

import (
	"errors"
	"mime/multipart"

	"gorm.io/gorm"

	"go-invoice-api/internal/apperr"
)

// Ownable is implemented by rows that belong to a single user.
type Ownable interface {
	GetUserID() uint
}

// LogoStore persists company logos.
type LogoStore interface {
	SaveLogo(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

func checkOwner(row Ownable, userID uint, msg string) error {
	if row.GetUserID() != userID {
		return apperr.Forbidden(msg)
	}
	return nil
}

// lookupErr turns gorm.ErrRecordNotFound into a NotFound error and wraps
// anything else as internal.
func lookupErr(err error, notFoundMsg, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal(op, err)
}
