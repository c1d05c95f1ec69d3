package entity

import "gorm.io/gorm"

type Customer struct {
	gorm.Model
	Name  string `gorm:"not null" json:"name"`
	Phone string `gorm:"index;not null" json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`

	Tags         []Tag         `gorm:"many2many:customer_tags" json:"tags"`
	Reservations []Reservation `json:"-"`
}
