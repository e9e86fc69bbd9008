package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/services"
)

// CompanyHandler serves /companies. Create and update accept
// multipart/form-data with an optional "logo" file part.
type CompanyHandler struct {
	companies *services.CompanyService
	log       *logger.Logger
}

func NewCompanyHandler(companies *services.CompanyService, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{companies: companies, log: log}
}

// --- POST: /companies ---
func (h *CompanyHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// 1. Parse the form fields
	var input services.CompanyInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, h.log, bindError(err, "All required fields must be filled"))
		return
	}

	// 2. Save the company together with its logo
	company, err := h.companies.Create(c.Request.Context(), userID, input, logoFile(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Company created successfully", "company": company})
}

// --- GET: /companies ---
func (h *CompanyHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	companies, err := h.companies.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// --- GET: /companies/:id ---
func (h *CompanyHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "company")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	company, err := h.companies.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// --- PUT: /companies/:id ---
// Only the fields that were sent change. A new logo replaces the old file.
func (h *CompanyHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "company")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var input services.CompanyPatch
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, h.log, bindError(err, "Invalid input"))
		return
	}

	company, err := h.companies.Update(c.Request.Context(), userID, id, input, logoFile(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company updated successfully", "company": company})
}

// --- DELETE: /companies/:id ---
func (h *CompanyHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "company")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.companies.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}

// logoFile returns the uploaded logo, or nil when the request has none.
func logoFile(c *gin.Context) *multipart.FileHeader {
	fh, err := c.FormFile("logo")
	if err != nil {
		return nil
	}
	return fh
}
