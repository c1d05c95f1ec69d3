package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

type EmployeeService struct {
	DB             *gorm.DB
	Users          *repository.UserRepository
	OnboardingRepo *repository.OnboardingRepository
	Now            Clock
}

func NewEmployeeService(db *gorm.DB, users *repository.UserRepository, onboarding *repository.OnboardingRepository, now Clock) *EmployeeService {
	return &EmployeeService{DB: db, Users: users, OnboardingRepo: onboarding, Now: orNow(now)}
}

func (s *EmployeeService) List(f repository.UserFilter) ([]entity.User, error) {
	return s.Users.List(f)
}

func (s *EmployeeService) Get(id uint) (*entity.User, error) {
	u, err := s.Users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Angajatul nu a fost găsit")
	}
	return u, err
}

type CreateEmployeeInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        string
	Position    string
	HireDate    *time.Time
}

// Create adds the account and starts its onboarding in one transaction.
func (s *EmployeeService) Create(actor Actor, in CreateEmployeeInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if !entity.ValidRole(role) {
		return nil, invalid("Rol invalid: %s", role)
	}
	if role == entity.RoleAdmin && !actor.IsAdmin() {
		return nil, forbidden("Doar un administrator poate crea alți administratori")
	}
	if len(in.Password) < 8 {
		return nil, invalid("Parola trebuie să aibă cel puțin 8 caractere")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, invalid("Prenumele este obligatoriu")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Email:       email,
		Password:    hash,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        role,
		Position:    strings.TrimSpace(in.Position),
		HireDate:    in.HireDate,
		IsActive:    true,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		users := s.Users.WithTx(tx)
		count, err := users.CountByEmail(email)
		if err != nil {
			return err
		}
		if count > 0 {
			return invalid("Există deja un cont cu acest email")
		}
		if err := users.Create(user); err != nil {
			return err
		}
		progress := newProgress(user.ID, actor.ID, s.Now())
		return s.OnboardingRepo.WithTx(tx).CreateProgress(progress)
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("employee created",
		zap.Uint("user_id", user.ID), zap.String("role", role), zap.Uint("by", actor.ID))
	return user, nil
}

type UpdateEmployeeInput struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Role        *string
	Position    *string
	HireDate    *time.Time
	IsActive    *bool
}

// Update applies a partial update. Role changes and edits of admin accounts are admin-only.
func (s *EmployeeService) Update(actor Actor, id uint, in UpdateEmployeeInput) (*entity.User, error) {
	target, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if target.Role == entity.RoleAdmin && !actor.IsAdmin() {
		return nil, forbidden("Doar un administrator poate modifica un cont de administrator")
	}

	updates := map[string]any{}
	if in.Role != nil && *in.Role != target.Role {
		if !actor.IsAdmin() {
			return nil, forbidden("Doar un administrator poate schimba rolul")
		}
		if !entity.ValidRole(*in.Role) {
			return nil, invalid("Rol invalid: %s", *in.Role)
		}
		if actor.ID == id {
			return nil, invalid("Nu vă puteți schimba propriul rol")
		}
		updates["role"] = *in.Role
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != target.Email {
			count, err := s.Users.CountByEmail(email)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, invalid("Există deja un cont cu acest email")
			}
			updates["email"] = email
		}
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, invalid("Parola trebuie să aibă cel puțin 8 caractere")
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, invalid("Prenumele este obligatoriu")
		}
		updates["first_name"] = v
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Position != nil {
		updates["position"] = strings.TrimSpace(*in.Position)
	}
	if in.HireDate != nil {
		updates["hire_date"] = *in.HireDate
	}
	if in.IsActive != nil && *in.IsActive != target.IsActive {
		if !*in.IsActive && actor.ID == id {
			return nil, invalid("Nu vă puteți dezactiva propriul cont")
		}
		updates["is_active"] = *in.IsActive
	}

	if len(updates) > 0 {
		if err := s.Users.Update(id, updates); err != nil {
			return nil, err
		}
		logger.L().Info("employee updated", zap.Uint("user_id", id), zap.Uint("by", actor.ID))
	}
	return s.Get(id)
}

// Deactivate keeps the account and its history but blocks login.
func (s *EmployeeService) Deactivate(actor Actor, id uint) error {
	if actor.ID == id {
		return invalid("Nu vă puteți dezactiva propriul cont")
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.Users.Update(id, map[string]any{"is_active": false}); err != nil {
		return err
	}
	logger.L().Info("employee deactivated", zap.Uint("user_id", id), zap.Uint("by", actor.ID))
	return nil
}
