package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/auth"
	"go-invoice-api/internal/services"
)

// --- GET: /users/me ---
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": viewOf(user)})
}

// --- PUT: /users/:id ---
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	targetID, err := parseID(c, "id", "user")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var input services.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperr.Validation("Invalid input", nil))
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, targetID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": viewOf(user)})
}

// --- DELETE: /users/:id ---
// Removes the account with all its companies and invoices and ends the session.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	targetID, err := parseID(c, "id", "user")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.ClearSessionCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
