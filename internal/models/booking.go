package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	BarberID uint   `gorm:"index:idx_bookings_barber_start" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime   time.Time `gorm:"index:idx_bookings_barber_start;not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	DurationMin int       `gorm:"not null" json:"duration_min"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Note         string     `gorm:"size:255" json:"note"`
	CancelReason string     `gorm:"size:50" json:"cancel_reason,omitempty"`
	CancelNote   string     `gorm:"size:255" json:"cancel_note,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	// incrementado a cada escrita (concorrência otimista)
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
