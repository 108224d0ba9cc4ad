package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type BarberHandler struct {
	db    *gorm.DB
	log   *zap.Logger
	audit *audit.Dispatcher
}

func NewBarberHandler(db *gorm.DB, log *zap.Logger, audit *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{db: db, log: log, audit: audit}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`

	DisplayName            string   `json:"display_name"`
	Specialties            []string `json:"specialties"`
	ExperienceYears        int      `json:"experience_years" binding:"min=0"`
	WorkingHoursPreference string   `json:"working_hours_preference"`
}

type UpdateBarberRequest struct {
	DisplayName            *string  `json:"display_name,omitempty"`
	Specialties            []string `json:"specialties,omitempty"`
	ExperienceYears        *int     `json:"experience_years,omitempty" binding:"omitempty,min=0"`
	WorkingHoursPreference *string  `json:"working_hours_preference,omitempty"`
	Active                 *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

// Create cria o login (role barber) e o perfil profissional juntos.
func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	shopID := barbershopIDFrom(c)

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Name
	}

	specialties := req.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	user := models.User{
		BarbershopID: shopID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleBarber,
	}
	barber := models.Barber{
		BarbershopID:           shopID,
		DisplayName:            displayName,
		Specialties:            datatypes.JSONSlice[string](specialties),
		ExperienceYears:        req.ExperienceYears,
		WorkingHoursPreference: req.WorkingHoursPreference,
		Active:                 true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Omit("Barbershop").Create(&user).Error; err != nil {
			return err
		}
		barber.UserID = user.ID
		return tx.Create(&barber).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	adminID := userIDFrom(c)
	h.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &adminID,
		Action:       "barber_created",
		Entity:       "barber",
		EntityID:     &barber.ID,
	})

	h.log.Info("barber created", zap.Uint("barber_id", barber.ID), zap.Uint("barbershop_id", shopID))

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(&user),
		"barber": barber,
	})
}

func (h *BarberHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", barbershopIDFrom(c))

	switch c.Query("active") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var barbers []models.Barber
	if err := q.Order("average_rating DESC, id ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, barbers)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND barbershop_id = ?", id, barbershopIDFrom(c)).
		First(&barber).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Erro ao buscar o barbeiro.")
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	if req.DisplayName != nil {
		barber.DisplayName = *req.DisplayName
	}
	if req.Specialties != nil {
		barber.Specialties = datatypes.JSONSlice[string](req.Specialties)
	}
	if req.ExperienceYears != nil {
		barber.ExperienceYears = *req.ExperienceYears
	}
	if req.WorkingHoursPreference != nil {
		barber.WorkingHoursPreference = *req.WorkingHoursPreference
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar o barbeiro.")
		return
	}

	c.JSON(http.StatusOK, barber)
}
