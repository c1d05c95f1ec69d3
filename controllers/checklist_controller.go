package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type ChecklistItemRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	IsRequired  bool   `json:"isRequired"`
}

type TemplateRequest struct {
	Name        string                 `json:"name" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=2000"`
	Shift       string                 `json:"shift" binding:"required,oneof=opening midday closing"`
	IsActive    *bool                  `json:"isActive"`
	Items       []ChecklistItemRequest `json:"items" binding:"dive"`
}

func (r TemplateRequest) input() services.TemplateInput {
	items := make([]services.ChecklistItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, services.ChecklistItemInput(it))
	}
	return services.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		Shift:       r.Shift,
		IsActive:    r.IsActive,
		Items:       items,
	}
}

type InstanceRequest struct {
	TemplateID   uint   `json:"templateId" binding:"required"`
	Date         string `json:"date" binding:"required,date_ymd"`
	AssignedToID *uint  `json:"assignedToId"`
}

type InstanceQuery struct {
	Date  string `form:"date" binding:"omitempty,date_ymd"`
	Shift string `form:"shift" binding:"omitempty,oneof=opening midday closing"`
}

type CompleteItemRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

type ChecklistController struct {
	Service *services.ChecklistService
}

func NewChecklistController(s *services.ChecklistService) *ChecklistController {
	return &ChecklistController{Service: s}
}

// GET /api/checklists/templates?shift=&active=
func (ctl *ChecklistController) ListTemplates(c *gin.Context) {
	active, ok := queryBool(c, "active")
	if !ok {
		return
	}
	list, err := ctl.Service.ListTemplates(c.Query("shift"), active)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *ChecklistController) GetTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := ctl.Service.GetTemplate(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (ctl *ChecklistController) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := ctl.Service.CreateTemplate(actor(c), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, t)
}

func (ctl *ChecklistController) UpdateTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := ctl.Service.UpdateTemplate(actor(c), id, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (ctl *ChecklistController) DeleteTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteTemplate(actor(c), id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// GET /api/checklists/instances?date=&shift=
func (ctl *ChecklistController) ListInstances(c *gin.Context) {
	var q InstanceQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := ctl.Service.ListInstances(q.Date, q.Shift)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *ChecklistController) GetInstance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inst, err := ctl.Service.GetInstance(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, inst)
}

func (ctl *ChecklistController) CreateInstance(c *gin.Context) {
	var req InstanceRequest
	if !bindJSON(c, &req) {
		return
	}
	inst, err := ctl.Service.CreateInstance(actor(c), req.TemplateID, req.Date, req.AssignedToID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, inst)
}

// POST /api/checklists/instances/:id/items/:itemId/complete
func (ctl *ChecklistController) CompleteItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req CompleteItemRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	inst, err := ctl.Service.CompleteItem(actor(c), id, itemID, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, inst)
}

// DELETE /api/checklists/instances/:id/items/:itemId/complete
func (ctl *ChecklistController) UncompleteItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	inst, err := ctl.Service.UncompleteItem(actor(c), id, itemID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, inst)
}

func (ctl *ChecklistController) CompleteInstance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inst, err := ctl.Service.CompleteInstance(actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, inst)
}

// GET /api/checklists/audit?entityType=&entityId=&limit=
func (ctl *ChecklistController) ListAudit(c *gin.Context) {
	entityID, ok := queryUint(c, "entityId")
	if !ok {
		return
	}
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			resp.BadRequest(c, "Parametrul limit trebuie să fie un număr pozitiv")
			return
		}
		limit = n
	}
	logs, err := ctl.Service.ListAudit(c.Query("entityType"), entityID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, logs)
}
