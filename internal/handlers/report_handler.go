package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- GET: /invoices/summary?from=YYYY-MM-DD&to=YYYY-MM-DD ---
// Counts and rupee totals of the caller's invoices, split by status.
func (h *InvoiceHandler) Summary(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	summary, err := h.invoices.Summary(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
