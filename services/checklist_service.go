package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

const (
	AuditTemplateCreated   = "template.created"
	AuditTemplateUpdated   = "template.updated"
	AuditTemplateDeleted   = "template.deleted"
	AuditInstanceCreated   = "instance.created"
	AuditItemCompleted     = "item.completed"
	AuditItemUncompleted   = "item.uncompleted"
	AuditInstanceCompleted = "instance.completed"
)

// ChecklistService manages shift templates and their daily runs. Every mutation writes
// an audit row in the same transaction.
type ChecklistService struct {
	DB       *gorm.DB
	Repo     *repository.ChecklistRepository
	Audit    *repository.AuditLogRepository
	Users    *repository.UserRepository
	Notifier Notifier
	Now      Clock
}

func NewChecklistService(
	db *gorm.DB,
	repo *repository.ChecklistRepository,
	audit *repository.AuditLogRepository,
	users *repository.UserRepository,
	notifier Notifier,
	now Clock,
) *ChecklistService {
	return &ChecklistService{DB: db, Repo: repo, Audit: audit, Users: users, Notifier: orNoop(notifier), Now: orNow(now)}
}

func (s *ChecklistService) audit(tx *gorm.DB, entityType string, entityID uint, action string, userID uint, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return s.Audit.WithTx(tx).Create(&entity.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Details:    datatypes.JSONMap(details),
		CreatedAt:  s.Now(),
	})
}

// ---------------- Templates ----------------

type ChecklistItemInput struct {
	Title       string
	Description string
	IsRequired  bool
}

type TemplateInput struct {
	Name        string
	Description string
	Shift       string
	IsActive    *bool
	Items       []ChecklistItemInput
}

func buildItems(in []ChecklistItemInput) ([]entity.ChecklistItem, error) {
	if len(in) == 0 {
		return nil, invalid("Lista trebuie să conțină cel puțin un element")
	}
	items := make([]entity.ChecklistItem, 0, len(in))
	for i, it := range in {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			return nil, invalid("Elementul %d nu are titlu", i+1)
		}
		items = append(items, entity.ChecklistItem{
			Title:       title,
			Description: strings.TrimSpace(it.Description),
			Position:    i + 1,
			IsRequired:  it.IsRequired,
		})
	}
	return items, nil
}

func validateTemplate(in TemplateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("Numele listei este obligatoriu")
	}
	if !entity.ValidShift(in.Shift) {
		return invalid("Tură invalidă: %s", in.Shift)
	}
	return nil
}

func (s *ChecklistService) ListTemplates(shift string, active *bool) ([]entity.ChecklistTemplate, error) {
	return s.Repo.ListTemplates(shift, active)
}

func (s *ChecklistService) GetTemplate(id uint) (*entity.ChecklistTemplate, error) {
	t, err := s.Repo.FindTemplate(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Lista de verificare nu a fost găsită")
	}
	return t, err
}

func (s *ChecklistService) CreateTemplate(actor Actor, in TemplateInput) (*entity.ChecklistTemplate, error) {
	if err := validateTemplate(in); err != nil {
		return nil, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	t := &entity.ChecklistTemplate{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Shift:       in.Shift,
		IsActive:    true,
		Items:       items,
		CreatedByID: actor.ID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.WithTx(tx).CreateTemplate(t); err != nil {
			return err
		}
		if in.IsActive != nil && !*in.IsActive {
			if err := tx.Model(t).Update("is_active", false).Error; err != nil {
				return err
			}
			t.IsActive = false
		}
		return s.audit(tx, entity.AuditEntityTemplate, t.ID, AuditTemplateCreated, actor.ID,
			map[string]any{"name": t.Name, "shift": t.Shift, "items": len(items)})
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("checklist template created", zap.Uint("template_id", t.ID), zap.Uint("by", actor.ID))
	return t, nil
}

// UpdateTemplate replaces fields and the whole item list.
func (s *ChecklistService) UpdateTemplate(actor Actor, id uint, in TemplateInput) (*entity.ChecklistTemplate, error) {
	if err := validateTemplate(in); err != nil {
		return nil, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		t, err := repo.FindTemplate(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Lista de verificare nu a fost găsită")
		}
		if err != nil {
			return err
		}
		t.Name = strings.TrimSpace(in.Name)
		t.Description = strings.TrimSpace(in.Description)
		t.Shift = in.Shift
		if in.IsActive != nil {
			t.IsActive = *in.IsActive
		}
		if err := repo.SaveTemplate(t); err != nil {
			return err
		}
		if err := repo.ReplaceItems(id, items); err != nil {
			return err
		}
		return s.audit(tx, entity.AuditEntityTemplate, id, AuditTemplateUpdated, actor.ID,
			map[string]any{"name": t.Name, "shift": t.Shift, "items": len(items), "isActive": t.IsActive})
	})
	if err != nil {
		return nil, err
	}
	return s.GetTemplate(id)
}

func (s *ChecklistService) DeleteTemplate(actor Actor, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.WithTx(tx).DeleteTemplate(id)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("Lista de verificare nu a fost găsită")
		}
		return s.audit(tx, entity.AuditEntityTemplate, id, AuditTemplateDeleted, actor.ID, nil)
	})
}

// ---------------- Instances ----------------

type InstanceItem struct {
	entity.ChecklistItem
	Completed     bool       `json:"completed"`
	CompletedByID *uint      `json:"completedById,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type InstanceProgress struct {
	Total             int `json:"total"`
	Completed         int `json:"completed"`
	Required          int `json:"required"`
	RequiredCompleted int `json:"requiredCompleted"`
}

type InstanceDetail struct {
	entity.ChecklistInstance
	TemplateName string           `json:"templateName"`
	Items        []InstanceItem   `json:"items"`
	Progress     InstanceProgress `json:"progress"`
}

func buildDetail(inst *entity.ChecklistInstance) *InstanceDetail {
	done := make(map[uint]entity.ChecklistCompletion, len(inst.Completions))
	for _, c := range inst.Completions {
		done[c.ItemID] = c
	}
	d := &InstanceDetail{ChecklistInstance: *inst, TemplateName: inst.Template.Name, Items: []InstanceItem{}}
	for _, it := range inst.Items {
		row := InstanceItem{ChecklistItem: it}
		if c, ok := done[it.ID]; ok {
			by, at := c.CompletedByID, c.CompletedAt
			row.Completed, row.CompletedByID, row.CompletedAt, row.Notes = true, &by, &at, c.Notes
			d.Progress.Completed++
		}
		d.Progress.Total++
		if it.IsRequired {
			d.Progress.Required++
			if row.Completed {
				d.Progress.RequiredCompleted++
			}
		}
		d.Items = append(d.Items, row)
	}
	return d
}

func (s *ChecklistService) ListInstances(date, shift string) ([]entity.ChecklistInstance, error) {
	return s.Repo.ListInstances(date, shift)
}

func (s *ChecklistService) GetInstance(id uint) (*InstanceDetail, error) {
	inst, err := s.Repo.FindInstance(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Lista zilnică nu a fost găsită")
	}
	if err != nil {
		return nil, err
	}
	return buildDetail(inst), nil
}

func (s *ChecklistService) CreateInstance(actor Actor, templateID uint, date string, assignedToID *uint) (*InstanceDetail, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, invalid("Data trebuie să fie în formatul AAAA-LL-ZZ")
	}
	var inst *entity.ChecklistInstance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		t, err := repo.FindTemplate(templateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Lista de verificare nu a fost găsită")
		}
		if err != nil {
			return err
		}
		if !t.IsActive {
			return invalid("Lista de verificare %q este inactivă", t.Name)
		}
		if assignedToID != nil {
			u, err := s.Users.WithTx(tx).FindByID(*assignedToID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !u.IsActive) {
				return invalid("Angajatul desemnat nu există sau este inactiv")
			}
			if err != nil {
				return err
			}
		}
		count, err := repo.CountInstances(templateID, date)
		if err != nil {
			return err
		}
		if count > 0 {
			return invalid("Există deja o listă %q pentru %s", t.Name, date)
		}
		itemIDs := make([]uint, 0, len(t.Items))
		for _, it := range t.Items {
			itemIDs = append(itemIDs, it.ID)
		}
		inst = &entity.ChecklistInstance{
			TemplateID:   templateID,
			ItemIDs:      itemIDs,
			Date:         date,
			Shift:        t.Shift,
			Status:       entity.InstanceInProgress,
			AssignedToID: assignedToID,
		}
		if err := repo.CreateInstance(inst); err != nil {
			return err
		}
		return s.audit(tx, entity.AuditEntityInstance, inst.ID, AuditInstanceCreated, actor.ID,
			map[string]any{"templateId": templateID, "date": date})
	})
	if err != nil {
		return nil, err
	}
	return s.GetInstance(inst.ID)
}

// openInstance loads an instance for mutation; completed instances are read-only.
func (s *ChecklistService) openInstance(tx *gorm.DB, id uint) (*entity.ChecklistInstance, error) {
	inst, err := s.Repo.WithTx(tx).FindInstance(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Lista zilnică nu a fost găsită")
	}
	if err != nil {
		return nil, err
	}
	if inst.Status == entity.InstanceCompleted {
		return nil, invalid("Lista a fost finalizată și nu mai poate fi modificată")
	}
	return inst, nil
}

func findItem(inst *entity.ChecklistInstance, itemID uint) *entity.ChecklistItem {
	for i := range inst.Items {
		if inst.Items[i].ID == itemID {
			return &inst.Items[i]
		}
	}
	return nil
}

func (s *ChecklistService) CompleteItem(actor Actor, instanceID, itemID uint, notes string) (*InstanceDetail, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		inst, err := s.openInstance(tx, instanceID)
		if err != nil {
			return err
		}
		item := findItem(inst, itemID)
		if item == nil {
			return notFound("Elementul nu aparține acestei liste")
		}
		repo := s.Repo.WithTx(tx)
		count, err := repo.CountCompletion(instanceID, itemID)
		if err != nil {
			return err
		}
		if count > 0 {
			return invalid("Elementul %q este deja bifat", item.Title)
		}
		if err := repo.CreateCompletion(&entity.ChecklistCompletion{
			InstanceID:    instanceID,
			ItemID:        itemID,
			CompletedByID: actor.ID,
			CompletedAt:   s.Now(),
			Notes:         strings.TrimSpace(notes),
		}); err != nil {
			return err
		}
		return s.audit(tx, entity.AuditEntityInstance, instanceID, AuditItemCompleted, actor.ID,
			map[string]any{"itemId": itemID, "title": item.Title, "notes": strings.TrimSpace(notes)})
	})
	if err != nil {
		return nil, err
	}
	metrics.ChecklistItemsCompleted.Inc()
	detail, err := s.GetInstance(instanceID)
	if err != nil {
		return nil, err
	}
	s.Notifier.Publish(EventChecklistItemCompleted, map[string]any{
		"instanceId": instanceID, "itemId": itemID, "userId": actor.ID, "progress": detail.Progress,
	})
	return detail, nil
}

func (s *ChecklistService) UncompleteItem(actor Actor, instanceID, itemID uint) (*InstanceDetail, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.openInstance(tx, instanceID); err != nil {
			return err
		}
		n, err := s.Repo.WithTx(tx).DeleteCompletion(instanceID, itemID)
		if err != nil {
			return err
		}
		if n == 0 {
			return invalid("Elementul nu este bifat")
		}
		return s.audit(tx, entity.AuditEntityInstance, instanceID, AuditItemUncompleted, actor.ID,
			map[string]any{"itemId": itemID})
	})
	if err != nil {
		return nil, err
	}
	return s.GetInstance(instanceID)
}

// CompleteInstance closes the run once every required item is done.
func (s *ChecklistService) CompleteInstance(actor Actor, instanceID uint) (*InstanceDetail, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		inst, err := s.openInstance(tx, instanceID)
		if err != nil {
			return err
		}
		d := buildDetail(inst)
		var missing []string
		for _, it := range d.Items {
			if it.IsRequired && !it.Completed {
				missing = append(missing, it.Title)
			}
		}
		if len(missing) > 0 {
			return invalid("Elemente obligatorii nebifate: %s", strings.Join(missing, ", "))
		}
		affected, err := s.Repo.WithTx(tx).CompleteInstanceGuard(instanceID, actor.ID, s.Now())
		if err != nil {
			return err
		}
		if affected == 0 {
			return invalid("Lista a fost modificată între timp")
		}
		return s.audit(tx, entity.AuditEntityInstance, instanceID, AuditInstanceCompleted, actor.ID,
			map[string]any{"completed": d.Progress.Completed, "total": d.Progress.Total})
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("checklist completed", zap.Uint("instance_id", instanceID), zap.Uint("by", actor.ID))
	detail, err := s.GetInstance(instanceID)
	if err != nil {
		return nil, err
	}
	s.Notifier.Publish(EventChecklistCompleted, map[string]any{
		"instanceId": instanceID, "date": detail.Date, "shift": detail.Shift, "userId": actor.ID,
	})
	return detail, nil
}

func (s *ChecklistService) ListAudit(entityType string, entityID uint, limit int) ([]entity.AuditLog, error) {
	return s.Audit.List(entityType, entityID, limit)
}
