package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type AbsenceDTO struct {
	ID          uint   `json:"id"`
	BarberID    uint   `json:"barber_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
	Description string `json:"description"`

	ApprovalState string     `json:"approval_state"`
	IsApproved    *bool      `json:"is_approved"`
	ApprovedBy    *uint      `json:"approved_by"`
	DecidedAt     *time.Time `json:"decided_at"`

	AffectedBookings []models.AffectedBooking  `json:"affected_bookings"`
	Resolutions      []models.ResolutionRecord `json:"resolutions"`

	CreatedAt time.Time `json:"created_at"`
}

func NewAbsenceDTO(a *models.Absence) AbsenceDTO {
	affected := []models.AffectedBooking(a.AffectedBookings)
	if affected == nil {
		affected = []models.AffectedBooking{}
	}
	resolutions := []models.ResolutionRecord(a.Resolutions)
	if resolutions == nil {
		resolutions = []models.ResolutionRecord{}
	}

	return AbsenceDTO{
		ID:               a.ID,
		BarberID:         a.BarberID,
		StartDate:        time.Time(a.StartDate).Format(timezone.DateLayout),
		EndDate:          time.Time(a.EndDate).Format(timezone.DateLayout),
		Reason:           a.Reason,
		Description:      a.Description,
		ApprovalState:    a.ApprovalState,
		IsApproved:       domain.ApprovalState(a.ApprovalState).IsApproved(),
		ApprovedBy:       a.ApprovedBy,
		DecidedAt:        a.DecidedAt,
		AffectedBookings: affected,
		Resolutions:      resolutions,
		CreatedAt:        a.CreatedAt,
	}
}

func NewAbsenceList(absences []models.Absence) []AbsenceDTO {
	out := make([]AbsenceDTO, 0, len(absences))
	for i := range absences {
		out = append(out, NewAbsenceDTO(&absences[i]))
	}
	return out
}

// ======================================================
// CANDIDATOS E DETALHE (admin)
// ======================================================

type BarberCandidateDTO struct {
	ID              uint     `json:"id"`
	DisplayName     string   `json:"display_name"`
	AverageRating   float64  `json:"average_rating"`
	ExperienceYears int      `json:"experience_years"`
	Specialties     []string `json:"specialties"`
}

func NewBarberCandidate(b models.Barber) BarberCandidateDTO {
	specialties := []string(b.Specialties)
	if specialties == nil {
		specialties = []string{}
	}
	return BarberCandidateDTO{
		ID:              b.ID,
		DisplayName:     b.DisplayName,
		AverageRating:   b.AverageRating,
		ExperienceYears: b.ExperienceYears,
		Specialties:     specialties,
	}
}

// LiveAffectedBookingDTO é o agendamento como está agora, com os barbeiros
// que poderiam assumi-lo.
type LiveAffectedBookingDTO struct {
	BookingID    uint                 `json:"booking_id"`
	CustomerName string               `json:"customer_name"`
	ServiceName  string               `json:"service_name"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
	DurationMin  int                  `json:"service_duration"`
	Status       string               `json:"status"`
	Candidates   []BarberCandidateDTO `json:"candidates"`
}

type AbsenceDetailDTO struct {
	AbsenceDTO
	LiveAffected []LiveAffectedBookingDTO `json:"live_affected_bookings"`
}
