package booking

import "time"

type SlotsInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	Date         time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
