package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type WarningRequest struct {
	EmployeeID  uint   `json:"employeeId" binding:"required"`
	Level       string `json:"level" binding:"required,oneof=verbal written final"`
	Reason      string `json:"reason" binding:"required,max=500"`
	Description string `json:"description" binding:"max=5000"`
}

type WarningQuery struct {
	EmployeeID uint   `form:"employeeId"`
	Status     string `form:"status" binding:"omitempty,oneof=pending_acknowledgment acknowledged refused cleared"`
	Level      string `form:"level" binding:"omitempty,oneof=verbal written final"`
}

type AcknowledgeRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

type WarningController struct {
	Service *services.WarningService
}

func NewWarningController(s *services.WarningService) *WarningController {
	return &WarningController{Service: s}
}

// GET /api/warnings?employeeId=&status=&level=
func (ctl *WarningController) List(c *gin.Context) {
	var q WarningQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := ctl.Service.List(actor(c), repository.WarningFilter(q))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *WarningController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, err := ctl.Service.Get(actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

func (ctl *WarningController) Issue(c *gin.Context) {
	var req WarningRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := ctl.Service.Issue(actor(c), services.WarningInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, w)
}

func (ctl *WarningController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req WarningRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := ctl.Service.Update(actor(c), id, services.WarningInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

// POST /api/warnings/:id/acknowledge
func (ctl *WarningController) Acknowledge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AcknowledgeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	w, err := ctl.Service.Acknowledge(actor(c), id, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

// POST /api/warnings/:id/refuse
func (ctl *WarningController) Refuse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := ctl.Service.Refuse(actor(c), id, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

// POST /api/warnings/:id/clear
func (ctl *WarningController) Clear(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReasonRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	w, err := ctl.Service.Clear(actor(c), id, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, w)
}

func (ctl *WarningController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.Delete(actor(c), id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// GET /api/warnings/summary/:employeeId
func (ctl *WarningController) Summary(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	sum, err := ctl.Service.Summary(actor(c), empID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, sum)
}
