package models

import (
	"time"

	"gorm.io/datatypes"
)

type Absence struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"index:idx_absences_barber_dates;not null" json:"barber_id"`

	// datas puras, inclusivas
	StartDate datatypes.Date `gorm:"index:idx_absences_barber_dates;not null" json:"start_date"`
	EndDate   datatypes.Date `gorm:"index:idx_absences_barber_dates;not null" json:"end_date"`

	Reason      string `gorm:"size:20;not null" json:"reason"`
	Description string `gorm:"type:text" json:"description"`

	ApprovalState string     `gorm:"size:10;not null;default:'pending';index" json:"approval_state"`
	ApprovedBy    *uint      `json:"approved_by"`
	DecidedAt     *time.Time `json:"decided_at"`

	// cópia desnormalizada, tirada no envio do pedido
	AffectedBookings datatypes.JSONSlice[AffectedBooking] `json:"affected_bookings"`
	// decisões do admin por agendamento (auditoria)
	Resolutions datatypes.JSONSlice[ResolutionRecord] `json:"resolutions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AffectedBooking struct {
	BookingID    uint      `json:"booking_id"`
	CustomerName string    `json:"customer_name"`
	ServiceName  string    `json:"service_name"`
	OriginalDate time.Time `json:"original_date"`
	DurationMin  int       `json:"service_duration"`
}

type ResolutionRecord struct {
	BookingID       uint      `json:"booking_id"`
	Action          string    `json:"action"`
	NewBarberID     *uint     `json:"new_barber_id,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	RejectionNote   string    `json:"rejection_note,omitempty"`
	DecidedBy       uint      `json:"decided_by"`
	DecidedAt       time.Time `json:"decided_at"`
}
