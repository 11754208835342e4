package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	issuer *auth.Issuer

	// emailDomainOK and principalFor are swapped in tests to avoid DNS
	// lookups and the database.
	emailDomainOK func(email string) bool
	principalFor  func(ctx context.Context, userID uint) (auth.Principal, error)
}

func NewAuthHandler(db *gorm.DB, issuer *auth.Issuer) *AuthHandler {
	h := &AuthHandler{
		db:            db,
		issuer:        issuer,
		emailDomainOK: validators.IsEmailDomainValid,
	}
	h.principalFor = h.loadPrincipal
	return h
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a client account together with its booking contact.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email", "The email domain does not look valid.")
		return
	}

	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}
	phone := validators.NormalizePhone(req.Phone)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create account.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        phone,
		Role:         models.RoleClient,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		client := models.Client{
			UserID: &user.ID,
			Name:   user.Name,
			Phone:  phone,
			Email:  email,
		}
		return tx.Create(&client).Error
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrConflict("email_taken"))
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Could not create account.")
		return
	}

	sess, err := h.issuer.Issue(auth.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not start session.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"session": sess,
	})
}

// Login works for every role. Barber sessions carry the barber id their
// staff routes are scoped to.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	principal, err := h.principalOf(c.Request.Context(), &user)
	if err != nil {
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	sess, err := h.issuer.Issue(principal)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not start session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"barber_id": principal.BarberID,
		"session":   sess,
	})
}

// Refresh swaps the caller's token for a new one once RefreshAt has passed.
// Earlier calls get the current session back.
func (h *AuthHandler) Refresh(c *gin.Context) {
	current, ok := c.Get(middleware.ContextSession)
	if !ok {
		httperr.Unauthorized(c, "invalid_token", "Session is invalid or expired.")
		return
	}

	ctx := c.Request.Context()
	sess, err := h.issuer.Refresh(current.(auth.Session).Token, func(p auth.Principal) (auth.Principal, error) {
		return h.principalFor(ctx, p.UserID)
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			httperr.Unauthorized(c, "invalid_token", "Session is invalid or expired.")
			return
		}
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// loadPrincipal reads the account behind a session. A deleted user has no
// principal and gets ErrInvalidToken.
func (h *AuthHandler) loadPrincipal(ctx context.Context, userID uint) (auth.Principal, error) {
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, auth.ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	return h.principalOf(ctx, &user)
}

// principalOf links barbers to their staff profile; a barber user without
// one gets no barber scope.
func (h *AuthHandler) principalOf(ctx context.Context, user *models.User) (auth.Principal, error) {
	p := auth.Principal{UserID: user.ID, Role: user.Role}
	if user.Role != models.RoleBarber {
		return p, nil
	}

	var barber models.Barber
	err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&barber).Error
	switch {
	case err == nil:
		p.BarberID = &barber.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return auth.Principal{}, err
	}
	return p, nil
}
