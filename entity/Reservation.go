package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
	ReservationNoShow    = "no_show"
)

const (
	SourcePhone  = "phone"
	SourceWalkIn = "walk_in"
	SourceOnline = "online"
)

type Reservation struct {
	gorm.Model
	CustomerID uint     `gorm:"index;not null" json:"customerId"`
	Customer   Customer `json:"customer"`

	StartTime time.Time `gorm:"index;not null" json:"startTime"`
	EndTime   time.Time `gorm:"index;not null" json:"endTime"`
	PartySize int       `gorm:"not null" json:"partySize"`
	Status    string    `gorm:"index;not null;default:confirmed" json:"status"`
	Source    string    `gorm:"not null;default:phone" json:"source"`
	Notes     string    `json:"notes"`

	CreatedByID uint `json:"createdById"`
	CreatedBy   User `json:"-"`
}

// Blocks reports whether the reservation still occupies capacity.
func (r *Reservation) Blocks() bool {
	return r.Status != ReservationCancelled
}
