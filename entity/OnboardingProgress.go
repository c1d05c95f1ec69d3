package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StepDocuments = "documents"
	StepVideo     = "video"
	StepQuiz      = "quiz"
	StepCompleted = "completed"
)

// OnboardingAuditEntry is one element of the append-only audit trail kept on the progress row.
type OnboardingAuditEntry struct {
	At       time.Time      `json:"at"`
	Action   string         `json:"action"`
	FromStep string         `json:"fromStep,omitempty"`
	ToStep   string         `json:"toStep,omitempty"`
	ActorID  uint           `json:"actorId"`
	Details  map[string]any `json:"details,omitempty"`
}

type OnboardingProgress struct {
	gorm.Model
	EmployeeID  uint   `gorm:"uniqueIndex;not null" json:"employeeId"`
	CurrentStep string `gorm:"not null;default:documents" json:"currentStep"`

	SignedDocumentIDs    datatypes.JSONSlice[uint] `json:"signedDocumentIds"`
	VideoProgressSeconds int                       `json:"videoProgressSeconds"`
	VideoCompleted       bool                      `json:"videoCompleted"`

	QuizScore    *int `json:"quizScore,omitempty"`
	QuizPassed   bool `json:"quizPassed"`
	QuizAttempts int  `json:"quizAttempts"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	AuditLog datatypes.JSONSlice[OnboardingAuditEntry] `json:"auditLog"`
}

func (p *OnboardingProgress) HasSigned(documentID uint) bool {
	for _, id := range p.SignedDocumentIDs {
		if id == documentID {
			return true
		}
	}
	return false
}

// Record appends an entry to the audit trail. Existing entries are never rewritten.
func (p *OnboardingProgress) Record(e OnboardingAuditEntry) {
	p.AuditLog = append(p.AuditLog, e)
}
