package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// ValidRole reports whether r is one of the staff roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type User struct {
	gorm.Model
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `json:"-"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        string     `gorm:"not null;default:employee" json:"role"`
	Position    string     `json:"position"`
	HireDate    *time.Time `json:"hireDate,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`

	// preload only when needed
	Onboarding *OnboardingProgress `gorm:"foreignKey:EmployeeID" json:"-"`
	Warnings   []Warning           `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
