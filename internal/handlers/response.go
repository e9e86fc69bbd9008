package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/middleware"
)

var registerTagNames sync.Once

// useJSONFieldNames makes binding errors report the json name of a field
// ("clientName") instead of the Go one ("ClientName").
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// respondError writes the JSON error envelope for err. Internal errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal("unexpected error", err)
	}
	if ae.Kind == apperr.KindInternal {
		log.Error("request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	body := gin.H{"message": ae.Message}
	if len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
	}
	c.JSON(ae.Status(), body)
}

// bindError turns a gin binding failure into a validation error carrying a
// field -> message map.
func bindError(err error, msg string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(msg, nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return apperr.Validation(msg, fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must not be empty"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid "+label+" id", nil)
	}
	return uint(id), nil
}

// currentUser returns the id stored by the auth middleware.
func currentUser(c *gin.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.Unauthorized("Not authenticated")
	}
	return id, nil
}
