package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

const (
	msgBadCredentials  = "Email sau parolă incorectă"
	msgAccountDisabled = "Contul este dezactivat"
)

// AuthService handles login and the current user's own account.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

func (s *AuthService) TTL() time.Duration { return s.jwtTTL }

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.L().Warn("login rejected: unknown email", zap.String("email", email))
		return "", nil, unauthorized(msgBadCredentials)
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.L().Warn("login rejected: bad password", zap.Uint("user_id", user.ID))
		return "", nil, unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		return "", nil, unauthorized(msgAccountDisabled)
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, err
	}
	logger.L().Info("login", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

// Session returns the active user behind a session; used by the auth middleware.
func (s *AuthService) Session(userID uint) (*entity.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("Sesiune invalidă sau expirată")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, unauthorized(msgAccountDisabled)
	}
	return user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Utilizatorul nu a fost găsit")
	}
	return user, err
}

type ProfileInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

func (s *AuthService) UpdateProfile(userID uint, in ProfileInput) (*entity.User, error) {
	updates := map[string]any{}
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
	if len(updates) > 0 {
		if err := s.userRepo.Update(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(userID)
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return invalid("Parola curentă este incorectă")
	}
	if len(next) < 8 {
		return invalid("Parola nouă trebuie să aibă cel puțin 8 caractere")
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(userID, map[string]any{"password": hash}); err != nil {
		return err
	}
	logger.L().Info("password changed", zap.Uint("user_id", userID))
	return nil
}

func hashPassword(p string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
