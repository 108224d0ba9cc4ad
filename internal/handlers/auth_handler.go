package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	log    *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	BarbershopName    string `json:"barbershop_name" binding:"required"`
	BarbershopSlug    string `json:"barbershop_slug" binding:"required"`
	BarbershopPhone   string `json:"barbershop_phone"`
	BarbershopAddress string `json:"barbershop_address"`
	Timezone          string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register cria a barbearia e o usuário admin dela.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BarbershopSlug))
	email := validators.NormalizeEmail(req.Email)

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = h.config.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	shop := models.Barbershop{
		Name:     req.BarbershopName,
		Slug:     slug,
		Phone:    req.BarbershopPhone,
		Address:  req.BarbershopAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleAdmin,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}

		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		user.BarbershopID = shop.ID
		return tx.Omit("Barbershop").Create(&user).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	token, err := middleware.GenerateToken(h.config.JWTSecret, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}

	h.log.Info("barbershop registered", zap.Uint("barbershop_id", shop.ID), zap.String("slug", shop.Slug))

	c.JSON(http.StatusCreated, gin.H{
		"user":       userJSON(&user),
		"barbershop": shop,
		"token":      token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.GenerateToken(h.config.JWTSecret, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       userJSON(&user),
		"barbershop": user.Barbershop,
		"token":      token,
	})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"barbershop_id": user.BarbershopID,
	}
}
