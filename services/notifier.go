package services

import (
	"time"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

// Live event types pushed to connected staff.
const (
	EventReservationCreated     = "reservation.created"
	EventReservationUpdated     = "reservation.updated"
	EventReservationDeleted     = "reservation.deleted"
	EventChecklistItemCompleted = "checklist.item_completed"
	EventChecklistCompleted     = "checklist.completed"
	EventWarningIssued          = "warning.issued"
	EventSocialPublished        = "social.published"
)

// Notifier receives domain events after their transaction committed. Publish reaches all
// staff; PublishTo only clients with one of roles or one of userIDs.
type Notifier interface {
	Publish(eventType string, data any)
	PublishTo(eventType string, data any, roles []string, userIDs ...uint)
}

var managementRoles = []string{entity.RoleAdmin, entity.RoleManager}

type noopNotifier struct{}

func (noopNotifier) Publish(string, any) {}

func (noopNotifier) PublishTo(string, any, []string, ...uint) {}

// NoopNotifier drops every event.
var NoopNotifier Notifier = noopNotifier{}

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func orNoop(n Notifier) Notifier {
	if n == nil {
		return NoopNotifier
	}
	return n
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
