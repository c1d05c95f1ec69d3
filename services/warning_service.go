package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

// WarningService tracks disciplinary warnings:
// pending_acknowledgment -> acknowledged | refused, and any non-cleared -> cleared.
type WarningService struct {
	DB       *gorm.DB
	Repo     *repository.WarningRepository
	Users    *repository.UserRepository
	Notifier Notifier
	Now      Clock
}

func NewWarningService(db *gorm.DB, repo *repository.WarningRepository, users *repository.UserRepository, notifier Notifier, now Clock) *WarningService {
	return &WarningService{DB: db, Repo: repo, Users: users, Notifier: orNoop(notifier), Now: orNow(now)}
}

// List restricts employees to their own warnings.
func (s *WarningService) List(actor Actor, f repository.WarningFilter) ([]entity.Warning, error) {
	if !actor.CanManage() {
		f.EmployeeID = actor.ID
	}
	return s.Repo.List(f)
}

func (s *WarningService) find(id uint) (*entity.Warning, error) {
	w, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Avertismentul nu a fost găsit")
	}
	return w, err
}

func (s *WarningService) Get(actor Actor, id uint) (*entity.Warning, error) {
	w, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage() && w.EmployeeID != actor.ID {
		return nil, forbidden(msgForbidden)
	}
	return w, nil
}

type WarningInput struct {
	EmployeeID  uint
	Level       string
	Reason      string
	Description string
}

func validateWarning(in WarningInput) error {
	if !entity.ValidWarningLevel(in.Level) {
		return invalid("Nivel de avertisment invalid: %s", in.Level)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return invalid("Motivul este obligatoriu")
	}
	return nil
}

func (s *WarningService) Issue(actor Actor, in WarningInput) (*entity.Warning, error) {
	if !actor.CanManage() {
		return nil, forbidden(msgForbidden)
	}
	if err := validateWarning(in); err != nil {
		return nil, err
	}
	if in.EmployeeID == actor.ID {
		return nil, invalid("Nu vă puteți emite un avertisment singur")
	}
	emp, err := s.Users.FindByID(in.EmployeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Angajatul nu a fost găsit")
	}
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, invalid("Nu se pot emite avertismente pentru un angajat inactiv")
	}

	w := &entity.Warning{
		EmployeeID:  in.EmployeeID,
		IssuedByID:  actor.ID,
		Level:       in.Level,
		Reason:      strings.TrimSpace(in.Reason),
		Description: strings.TrimSpace(in.Description),
		Status:      entity.WarningPending,
	}
	if err := s.Repo.Create(w); err != nil {
		return nil, err
	}
	out, err := s.find(w.ID)
	if err != nil {
		return nil, err
	}
	metrics.WarningsCounter.WithLabelValues("issued").Inc()
	logger.L().Info("warning issued",
		zap.Uint("warning_id", w.ID), zap.Uint("employee_id", w.EmployeeID),
		zap.String("level", w.Level), zap.Uint("by", actor.ID))
	s.Notifier.PublishTo(EventWarningIssued, map[string]any{
		"id": out.ID, "employeeId": out.EmployeeID, "level": out.Level,
	}, managementRoles, out.EmployeeID)
	return out, nil
}

// Update edits level, reason and description while the warning is still pending.
func (s *WarningService) Update(actor Actor, id uint, in WarningInput) (*entity.Warning, error) {
	if !actor.CanManage() {
		return nil, forbidden(msgForbidden)
	}
	if err := validateWarning(in); err != nil {
		return nil, err
	}
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	affected, err := s.Repo.UpdateGuard(id, entity.WarningPending, map[string]any{
		"level":       in.Level,
		"reason":      strings.TrimSpace(in.Reason),
		"description": strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, invalid("Doar avertismentele neconfirmate pot fi modificate")
	}
	return s.find(id)
}

// respond handles acknowledge and refuse; only the warned employee may answer.
func (s *WarningService) respond(actor Actor, id uint, to string, updates map[string]any) (*entity.Warning, error) {
	w, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if w.EmployeeID != actor.ID {
		return nil, forbidden("Doar angajatul vizat poate răspunde la avertisment")
	}
	if w.Status != entity.WarningPending {
		return nil, invalid("Avertismentul are deja statusul %q", w.Status)
	}
	updates["status"] = to
	affected, err := s.Repo.UpdateGuard(id, entity.WarningPending, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, invalid("Avertismentul a fost modificat între timp")
	}
	metrics.WarningsCounter.WithLabelValues(to).Inc()
	logger.L().Info("warning answered", zap.Uint("warning_id", id), zap.String("status", to))
	return s.find(id)
}

func (s *WarningService) Acknowledge(actor Actor, id uint, comment string) (*entity.Warning, error) {
	return s.respond(actor, id, entity.WarningAcknowledged, map[string]any{
		"acknowledged_at":  s.Now(),
		"employee_comment": strings.TrimSpace(comment),
	})
}

func (s *WarningService) Refuse(actor Actor, id uint, reason string) (*entity.Warning, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("Motivul refuzului este obligatoriu")
	}
	return s.respond(actor, id, entity.WarningRefused, map[string]any{
		"refused_at":     s.Now(),
		"refusal_reason": reason,
	})
}

func (s *WarningService) Clear(actor Actor, id uint, reason string) (*entity.Warning, error) {
	if !actor.CanManage() {
		return nil, forbidden(msgForbidden)
	}
	w, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if w.Status == entity.WarningCleared {
		return nil, invalid("Avertismentul este deja anulat")
	}
	affected, err := s.Repo.UpdateGuard(id, w.Status, map[string]any{
		"status":        entity.WarningCleared,
		"cleared_at":    s.Now(),
		"cleared_by_id": actor.ID,
		"clear_reason":  strings.TrimSpace(reason),
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, invalid("Avertismentul a fost modificat între timp")
	}
	metrics.WarningsCounter.WithLabelValues("cleared").Inc()
	logger.L().Info("warning cleared", zap.Uint("warning_id", id), zap.Uint("by", actor.ID))
	return s.find(id)
}

func (s *WarningService) Delete(actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return forbidden(msgForbidden)
	}
	n, err := s.Repo.HardDelete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Avertismentul nu a fost găsit")
	}
	logger.L().Info("warning deleted", zap.Uint("warning_id", id), zap.Uint("by", actor.ID))
	return nil
}

type WarningSummary struct {
	EmployeeID uint             `json:"employeeId"`
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	ByLevel    map[string]int64 `json:"byLevel"`
	ByStatus   map[string]int64 `json:"byStatus"`
}

// Summary counts the employee's warnings; active means not cleared.
func (s *WarningService) Summary(actor Actor, employeeID uint) (*WarningSummary, error) {
	if !actor.CanManage() && actor.ID != employeeID {
		return nil, forbidden(msgForbidden)
	}
	rows, err := s.Repo.CountByLevelAndStatus(employeeID)
	if err != nil {
		return nil, err
	}
	sum := &WarningSummary{
		EmployeeID: employeeID,
		ByLevel: map[string]int64{
			entity.WarningVerbal: 0, entity.WarningWritten: 0, entity.WarningFinal: 0,
		},
		ByStatus: map[string]int64{
			entity.WarningPending: 0, entity.WarningAcknowledged: 0, entity.WarningRefused: 0, entity.WarningCleared: 0,
		},
	}
	for _, r := range rows {
		sum.Total += r.Count
		sum.ByLevel[r.Level] += r.Count
		sum.ByStatus[r.Status] += r.Count
		if r.Status != entity.WarningCleared {
			sum.Active += r.Count
		}
	}
	return sum, nil
}
