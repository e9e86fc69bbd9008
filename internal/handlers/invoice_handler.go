package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/invoice"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/services"
)

// InvoiceHandler serves /invoices and the per-item routes beneath it.
type InvoiceHandler struct {
	invoices *services.InvoiceService
	log      *logger.Logger
}

func NewInvoiceHandler(invoices *services.InvoiceService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, log: log}
}

// --- POST: /invoices ---
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var input services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, bindError(err, "All required fields must be provided"))
		return
	}

	inv, err := h.invoices.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invoice created successfully", "invoice": inv})
}

// --- GET: /invoices/user ---
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	invoices, err := h.invoices.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// --- GET: /invoices/company/:companyId ---
func (h *InvoiceHandler) ListByCompany(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	companyID, err := parseID(c, "companyId", "company")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	invoices, err := h.invoices.ListByCompany(c.Request.Context(), userID, companyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// --- GET: /invoices/:id ---
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "invoice")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- PUT: /invoices/:id ---
// Items in the body are upserted by id, then itemIdsToDelete are removed and
// the invoice status is derived from what is left.
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "invoice")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var input services.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, bindError(err, "Invalid input"))
		return
	}

	inv, err := h.invoices.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice updated successfully", "invoice": inv})
}

// --- DELETE: /invoices/:id ---
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "invoice")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// --- PUT: /invoices/:id/items/:itemId ---
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "invoice")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// An empty body is an empty patch: nothing changes but the status is
	// recomputed.
	var patch invoice.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.log, bindError(err, "Invalid input"))
		return
	}

	res, err := h.invoices.UpdateItem(c.Request.Context(), userID, id, c.Param("itemId"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Item updated successfully",
		"updatedItem":   res.Item,
		"invoiceStatus": res.InvoiceStatus,
	})
}

// --- DELETE: /invoices/:id/items/:itemId ---
func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id", "invoice")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	res, err := h.invoices.DeleteItem(c.Request.Context(), userID, id, c.Param("itemId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Item deleted successfully",
		"remainingItems": res.RemainingItems,
		"invoiceStatus":  res.InvoiceStatus,
	})
}
