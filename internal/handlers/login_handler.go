package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/auth"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/models"
	"go-invoice-api/internal/services"
)

// UserHandler serves /users: registration, sessions and self-service
// account changes.
type UserHandler struct {
	users        *services.UserService
	tokens       *auth.Tokens
	cookieSecure bool
	log          *logger.Logger
}

func NewUserHandler(users *services.UserService, tokens *auth.Tokens, cookieSecure bool, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, cookieSecure: cookieSecure, log: log}
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// --- POST: /users/register ---
func (h *UserHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	// 1. Parse JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperr.Validation("Invalid input", nil))
		return
	}

	// 2. Create the account
	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// 3. Start the session
	if err := h.startSession(c, user); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": viewOf(user)})
}

// --- POST: /users/login ---
func (h *UserHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperr.Validation("Email and password required", nil))
		return
	}

	user, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": viewOf(user)})
}

// --- POST: /users/logout ---
func (h *UserHandler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *UserHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return apperr.Internal("generate token", err)
	}
	auth.SetSessionCookie(c, token, h.tokens.TTL(), h.cookieSecure)
	return nil
}
