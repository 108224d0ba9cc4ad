package models

import (
	"time"

	"gorm.io/datatypes"
)

// Perfil profissional do barbeiro, ligado a um User com role "barber".
type Barber struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`
	UserID       uint `gorm:"uniqueIndex;not null" json:"user_id"`

	DisplayName            string                      `gorm:"size:100;not null" json:"display_name"`
	Specialties            datatypes.JSONSlice[string] `json:"specialties"`
	ExperienceYears        int                         `json:"experience_years"`
	AverageRating          float64                     `gorm:"default:0" json:"average_rating"`
	TotalBookings          int                         `gorm:"default:0" json:"total_bookings"`
	WorkingHoursPreference string                      `gorm:"size:50" json:"working_hours_preference"`
	Active                 bool                        `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
