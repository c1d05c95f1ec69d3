package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"required,phone_ro"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes" binding:"max=2000"`
}

type CustomerTagRequest struct {
	TagID uint `json:"tagId" binding:"required"`
}

type TagRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

type ReservationRequest struct {
	CustomerID uint      `json:"customerId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
	PartySize  int       `json:"partySize" binding:"required,min=1"`
	Source     string    `json:"source" binding:"omitempty,oneof=phone walk_in online"`
	Notes      string    `json:"notes" binding:"max=2000"`
}

func (r ReservationRequest) input() services.ReservationInput {
	return services.ReservationInput{
		CustomerID: r.CustomerID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		PartySize:  r.PartySize,
		Source:     r.Source,
		Notes:      r.Notes,
	}
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled completed no_show"`
}

type AvailabilityQuery struct {
	Date string `form:"date" binding:"required,date_ymd"`
}

type CapacityRequest struct {
	MaxPlayersPerSlot int    `json:"maxPlayersPerSlot" binding:"required,min=1"`
	WarningThreshold  int    `json:"warningThreshold" binding:"required,min=1,max=100"`
	OpeningTime       string `json:"openingTime" binding:"required,hhmm"`
	ClosingTime       string `json:"closingTime" binding:"required,hhmm"`
}

// CalendarController serves customers, tags, reservations, availability and capacity.
type CalendarController struct {
	Customers *services.CustomerService
	Calendar  *services.CalendarService
}

func NewCalendarController(customers *services.CustomerService, calendar *services.CalendarService) *CalendarController {
	return &CalendarController{Customers: customers, Calendar: calendar}
}

// ---------------- Customers ----------------

// GET /api/calendar/customers?q=&tag=
func (ctl *CalendarController) ListCustomers(c *gin.Context) {
	tagID, ok := queryUint(c, "tag")
	if !ok {
		return
	}
	list, err := ctl.Customers.List(c.Query("q"), tagID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *CalendarController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := ctl.Customers.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, detail)
}

func (ctl *CalendarController) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	cust, err := ctl.Customers.Create(services.CustomerInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, cust)
}

func (ctl *CalendarController) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	cust, err := ctl.Customers.Update(id, services.CustomerInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, cust)
}

func (ctl *CalendarController) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Customers.Delete(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// POST /api/calendar/customers/:id/tags
func (ctl *CalendarController) AddCustomerTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CustomerTagRequest
	if !bindJSON(c, &req) {
		return
	}
	cust, err := ctl.Customers.AddTag(id, req.TagID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, cust)
}

// DELETE /api/calendar/customers/:id/tags/:tagId
func (ctl *CalendarController) RemoveCustomerTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tagId")
	if !ok {
		return
	}
	if err := ctl.Customers.RemoveTag(id, tagID); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"customerId": id, "tagId": tagID})
}

// ---------------- Tags ----------------

func (ctl *CalendarController) ListTags(c *gin.Context) {
	tags, err := ctl.Customers.ListTags()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, tags)
}

func (ctl *CalendarController) CreateTag(c *gin.Context) {
	var req TagRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := ctl.Customers.CreateTag(req.Name, req.Color)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, tag)
}

func (ctl *CalendarController) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Customers.DeleteTag(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Reservations ----------------

// GET /api/calendar/reservations?from=&to=&status=&customerId=
func (ctl *CalendarController) ListReservations(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	customerID, ok := queryUint(c, "customerId")
	if !ok {
		return
	}
	list, err := ctl.Calendar.ListReservations(repository.ReservationFilter{
		From: from, To: to, Status: c.Query("status"), CustomerID: customerID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *CalendarController) GetReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := ctl.Calendar.GetReservation(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

func (ctl *CalendarController) CreateReservation(c *gin.Context) {
	var req ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := ctl.Calendar.CreateReservation(actor(c), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, r)
}

func (ctl *CalendarController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := ctl.Calendar.UpdateReservation(id, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

// PATCH /api/calendar/reservations/:id/status
func (ctl *CalendarController) ChangeReservationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := ctl.Calendar.ChangeStatus(id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, r)
}

func (ctl *CalendarController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Calendar.DeleteReservation(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Availability & capacity ----------------

// GET /api/calendar/availability?date=YYYY-MM-DD
func (ctl *CalendarController) Availability(c *gin.Context) {
	var q AvailabilityQuery
	if !bindQuery(c, &q) {
		return
	}
	av, err := ctl.Calendar.Availability(q.Date)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, av)
}

func (ctl *CalendarController) GetCapacity(c *gin.Context) {
	s, err := ctl.Calendar.GetCapacity()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, s)
}

// PUT /api/calendar/capacity
func (ctl *CalendarController) UpdateCapacity(c *gin.Context) {
	var req CapacityRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := ctl.Calendar.UpdateCapacity(actor(c), services.CapacityInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, s)
}
