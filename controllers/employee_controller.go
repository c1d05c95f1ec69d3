package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/validation"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type CreateEmployeeRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone_ro"`
	Role        string `json:"role" binding:"omitempty,oneof=admin manager employee"`
	Position    string `json:"position" binding:"max=100"`
	HireDate    string `json:"hireDate" binding:"omitempty,date_ymd"`
}

type UpdateEmployeeRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone_ro"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin manager employee"`
	Position    *string `json:"position" binding:"omitempty,max=100"`
	HireDate    *string `json:"hireDate" binding:"omitempty,date_ymd"`
	IsActive    *bool   `json:"isActive"`
}

type EmployeeController struct {
	Service *services.EmployeeService
}

func NewEmployeeController(s *services.EmployeeService) *EmployeeController {
	return &EmployeeController{Service: s}
}

// GET /api/employees?role=&active=&q=
func (ctl *EmployeeController) List(c *gin.Context) {
	active, ok := queryBool(c, "active")
	if !ok {
		return
	}
	users, err := ctl.Service.List(repository.UserFilter{Role: c.Query("role"), Active: active, Query: c.Query("q")})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, users)
}

// GET /api/employees/:id
func (ctl *EmployeeController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := ctl.Service.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, user)
}

// POST /api/employees
func (ctl *EmployeeController) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctl.Service.Create(actor(c), services.CreateEmployeeInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: validation.NormalizePhone(req.PhoneNumber),
		Role:        req.Role,
		Position:    req.Position,
		HireDate:    parseDate(req.HireDate),
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, user)
}

// PUT /api/employees/:id
func (ctl *EmployeeController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.UpdateEmployeeInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Position:  req.Position,
		IsActive:  req.IsActive,
	}
	if req.PhoneNumber != nil {
		phone := validation.NormalizePhone(*req.PhoneNumber)
		in.PhoneNumber = &phone
	}
	if req.HireDate != nil && strings.TrimSpace(*req.HireDate) != "" {
		in.HireDate = parseDate(*req.HireDate)
	}
	user, err := ctl.Service.Update(actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, user)
}

// DELETE /api/employees/:id deactivates the account.
func (ctl *EmployeeController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.Deactivate(actor(c), id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "isActive": false})
}
