package services

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

const (
	ActionOnboardingStarted = "onboarding_started"
	ActionDocumentSigned    = "document_signed"
	ActionStepChanged       = "step_changed"
	ActionVideoCompleted    = "video_completed"
	ActionQuizSubmitted     = "quiz_submitted"
	ActionReset             = "reset"
)

type OnboardingService struct {
	DB        *gorm.DB
	Repo      *repository.OnboardingRepository
	Users     *repository.UserRepository
	UploadDir string
	Now       Clock
}

func NewOnboardingService(db *gorm.DB, repo *repository.OnboardingRepository, users *repository.UserRepository, uploadDir string, now Clock) *OnboardingService {
	return &OnboardingService{DB: db, Repo: repo, Users: users, UploadDir: uploadDir, Now: orNow(now)}
}

func newProgress(employeeID, actorID uint, now time.Time) *entity.OnboardingProgress {
	p := &entity.OnboardingProgress{
		EmployeeID:        employeeID,
		CurrentStep:       entity.StepDocuments,
		SignedDocumentIDs: datatypes.JSONSlice[uint]{},
		StartedAt:         now,
		AuditLog:          datatypes.JSONSlice[entity.OnboardingAuditEntry]{},
	}
	p.Record(entity.OnboardingAuditEntry{
		At: now, Action: ActionOnboardingStarted, ToStep: entity.StepDocuments, ActorID: actorID,
	})
	return p
}

func moveStep(p *entity.OnboardingProgress, to string, actorID uint, now time.Time, action string, details map[string]any) {
	from := p.CurrentStep
	p.CurrentStep = to
	p.Record(entity.OnboardingAuditEntry{
		At: now, Action: action, FromStep: from, ToStep: to, ActorID: actorID, Details: details,
	})
	logger.L().Info("onboarding step changed",
		zap.Uint("employee_id", p.EmployeeID), zap.String("from", from), zap.String("to", to))
}

// ---------------- Config ----------------

func (s *OnboardingService) GetConfig() (*entity.OnboardingConfig, error) {
	return s.Repo.GetConfig()
}

type OnboardingConfigInput struct {
	WelcomeMessage       string
	VideoURL             string
	VideoDurationSeconds int
	PassingScore         int
	MaxQuizAttempts      int
}

func (s *OnboardingService) UpdateConfig(in OnboardingConfigInput) (*entity.OnboardingConfig, error) {
	if in.PassingScore < 1 || in.PassingScore > 100 {
		return nil, invalid("Pragul de promovare trebuie să fie între 1 și 100")
	}
	if in.MaxQuizAttempts < 0 {
		return nil, invalid("Numărul maxim de încercări nu poate fi negativ")
	}
	if in.VideoDurationSeconds < 0 {
		return nil, invalid("Durata videoclipului nu poate fi negativă")
	}
	cfg, err := s.Repo.GetConfig()
	if err != nil {
		return nil, err
	}
	cfg.WelcomeMessage = strings.TrimSpace(in.WelcomeMessage)
	cfg.VideoURL = strings.TrimSpace(in.VideoURL)
	cfg.VideoDurationSeconds = in.VideoDurationSeconds
	cfg.PassingScore = in.PassingScore
	cfg.MaxQuizAttempts = in.MaxQuizAttempts
	if err := s.Repo.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ---------------- Documents ----------------

type DocumentInput struct {
	Title             string
	Description       string
	FileURL           string
	FileBase64        string
	Position          int
	RequiresSignature bool
}

func (s *OnboardingService) ListDocuments() ([]entity.OnboardingDocument, error) {
	return s.Repo.ListDocuments()
}

func (s *OnboardingService) storeFile(b64 string) (string, error) {
	name, err := utils.SaveBase64File(b64, filepath.Join(s.UploadDir, "onboarding"))
	if err != nil {
		return "", invalid("Fișier invalid: %v", err)
	}
	return "/uploads/onboarding/" + name, nil
}

func (s *OnboardingService) applyDocument(d *entity.OnboardingDocument, in DocumentInput) error {
	d.Title = strings.TrimSpace(in.Title)
	if d.Title == "" {
		return invalid("Titlul documentului este obligatoriu")
	}
	d.Description = strings.TrimSpace(in.Description)
	d.Position = in.Position
	d.RequiresSignature = in.RequiresSignature
	switch {
	case in.FileBase64 != "":
		url, err := s.storeFile(in.FileBase64)
		if err != nil {
			return err
		}
		d.FileURL = url
	case in.FileURL != "":
		d.FileURL = strings.TrimSpace(in.FileURL)
	}
	return nil
}

func (s *OnboardingService) CreateDocument(in DocumentInput) (*entity.OnboardingDocument, error) {
	var d entity.OnboardingDocument
	if err := s.applyDocument(&d, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *OnboardingService) UpdateDocument(id uint, in DocumentInput) (*entity.OnboardingDocument, error) {
	d, err := s.Repo.FindDocument(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Documentul nu a fost găsit")
	}
	if err != nil {
		return nil, err
	}
	if err := s.applyDocument(d, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *OnboardingService) DeleteDocument(id uint) error {
	n, err := s.Repo.Delete(&entity.OnboardingDocument{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Documentul nu a fost găsit")
	}
	return nil
}

// ---------------- Video chapters ----------------

type ChapterInput struct {
	Title        string
	StartSeconds int
	EndSeconds   int
	Position     int
}

func (s *OnboardingService) ListChapters() ([]entity.OnboardingVideoChapter, error) {
	return s.Repo.ListChapters()
}

func applyChapter(ch *entity.OnboardingVideoChapter, in ChapterInput) error {
	ch.Title = strings.TrimSpace(in.Title)
	if ch.Title == "" {
		return invalid("Titlul capitolului este obligatoriu")
	}
	if in.StartSeconds < 0 || in.EndSeconds <= in.StartSeconds {
		return invalid("Intervalul capitolului este invalid")
	}
	ch.StartSeconds = in.StartSeconds
	ch.EndSeconds = in.EndSeconds
	ch.Position = in.Position
	return nil
}

func (s *OnboardingService) CreateChapter(in ChapterInput) (*entity.OnboardingVideoChapter, error) {
	var ch entity.OnboardingVideoChapter
	if err := applyChapter(&ch, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *OnboardingService) UpdateChapter(id uint, in ChapterInput) (*entity.OnboardingVideoChapter, error) {
	ch, err := s.Repo.FindChapter(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Capitolul nu a fost găsit")
	}
	if err != nil {
		return nil, err
	}
	if err := applyChapter(ch, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *OnboardingService) DeleteChapter(id uint) error {
	n, err := s.Repo.Delete(&entity.OnboardingVideoChapter{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Capitolul nu a fost găsit")
	}
	return nil
}

// ---------------- Quiz questions ----------------

type QuestionInput struct {
	Question       string
	Type           string
	Options        []string
	CorrectAnswers []string
	Points         int
	Position       int
}

// PublicQuestion is what employees see: no answer key.
type PublicQuestion struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
	Position int      `json:"position"`
}

func ToPublicQuestions(qs []entity.OnboardingQuizQuestion) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		opts := []string(q.Options)
		if opts == nil {
			opts = []string{}
		}
		out = append(out, PublicQuestion{
			ID: q.ID, Question: q.Question, Type: q.Type, Options: opts, Points: q.Points, Position: q.Position,
		})
	}
	return out
}

func (s *OnboardingService) ListQuestions() ([]entity.OnboardingQuizQuestion, error) {
	return s.Repo.ListQuestions()
}

func applyQuestion(q *entity.OnboardingQuizQuestion, in QuestionInput) error {
	q.Question = strings.TrimSpace(in.Question)
	q.Type = in.Type
	q.Options = datatypes.JSONSlice[string](nonEmpty(in.Options))
	q.CorrectAnswers = datatypes.JSONSlice[string](nonEmpty(in.CorrectAnswers))
	q.Points = in.Points
	if q.Points == 0 {
		q.Points = 1
	}
	q.Position = in.Position
	return ValidateQuestion(q)
}

func (s *OnboardingService) CreateQuestion(in QuestionInput) (*entity.OnboardingQuizQuestion, error) {
	var q entity.OnboardingQuizQuestion
	if err := applyQuestion(&q, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *OnboardingService) UpdateQuestion(id uint, in QuestionInput) (*entity.OnboardingQuizQuestion, error) {
	q, err := s.Repo.FindQuestion(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Întrebarea nu a fost găsită")
	}
	if err != nil {
		return nil, err
	}
	if err := applyQuestion(q, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *OnboardingService) DeleteQuestion(id uint) error {
	n, err := s.Repo.Delete(&entity.OnboardingQuizQuestion{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Întrebarea nu a fost găsită")
	}
	return nil
}

// ---------------- Progress ----------------

func canView(actor Actor, employeeID uint) bool {
	return actor.ID == employeeID || actor.CanManage()
}

// progressTx loads the employee's progress inside tx, creating it on first access.
func (s *OnboardingService) progressTx(tx *gorm.DB, employeeID, actorID uint) (*entity.OnboardingProgress, error) {
	repo := s.Repo.WithTx(tx)
	p, err := repo.FindProgress(employeeID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Users.WithTx(tx).FindByID(employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Angajatul nu a fost găsit")
		}
		return nil, err
	}
	p = newProgress(employeeID, actorID, s.Now())
	if err := repo.CreateProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

// mutate runs fn on the employee's progress in a transaction and saves the result.
func (s *OnboardingService) mutate(actor Actor, employeeID uint, fn func(tx *gorm.DB, p *entity.OnboardingProgress) error) (*entity.OnboardingProgress, error) {
	var out *entity.OnboardingProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := s.progressTx(tx, employeeID, actor.ID)
		if err != nil {
			return err
		}
		if err := fn(tx, p); err != nil {
			return err
		}
		if err := s.Repo.WithTx(tx).SaveProgress(p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (s *OnboardingService) GetProgress(actor Actor, employeeID uint) (*entity.OnboardingProgress, error) {
	if !canView(actor, employeeID) {
		return nil, forbidden(msgForbidden)
	}
	var out *entity.OnboardingProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := s.progressTx(tx, employeeID, actor.ID)
		out = p
		return err
	})
	return out, err
}

// requiredSigned reports whether every signature-required document is signed.
func requiredSigned(tx *gorm.DB, repo *repository.OnboardingRepository, p *entity.OnboardingProgress) (bool, error) {
	docs, err := repo.WithTx(tx).ListDocuments()
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.RequiresSignature && !p.HasSigned(d.ID) {
			return false, nil
		}
	}
	return true, nil
}

func (s *OnboardingService) SignDocument(actor Actor, employeeID, documentID uint) (*entity.OnboardingProgress, error) {
	if actor.ID != employeeID {
		return nil, forbidden("Doar angajatul poate semna propriile documente")
	}
	return s.mutate(actor, employeeID, func(tx *gorm.DB, p *entity.OnboardingProgress) error {
		doc, err := s.Repo.WithTx(tx).FindDocument(documentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Documentul nu a fost găsit")
		}
		if err != nil {
			return err
		}
		now := s.Now()
		if !p.HasSigned(doc.ID) {
			p.SignedDocumentIDs = append(p.SignedDocumentIDs, doc.ID)
			p.Record(entity.OnboardingAuditEntry{
				At: now, Action: ActionDocumentSigned, ActorID: actor.ID,
				Details: map[string]any{"documentId": doc.ID, "title": doc.Title},
			})
		}
		if p.CurrentStep != entity.StepDocuments {
			return nil
		}
		done, err := requiredSigned(tx, s.Repo, p)
		if err != nil {
			return err
		}
		if done {
			moveStep(p, entity.StepVideo, actor.ID, now, ActionStepChanged, nil)
		}
		return nil
	})
}

// UpdateVideo records watch progress. Progress never decreases.
func (s *OnboardingService) UpdateVideo(actor Actor, employeeID uint, progressSeconds int, completed bool) (*entity.OnboardingProgress, error) {
	if actor.ID != employeeID {
		return nil, forbidden("Doar angajatul își poate actualiza progresul")
	}
	if progressSeconds < 0 {
		return nil, invalid("Progresul nu poate fi negativ")
	}
	return s.mutate(actor, employeeID, func(tx *gorm.DB, p *entity.OnboardingProgress) error {
		now := s.Now()
		if p.CurrentStep == entity.StepDocuments {
			done, err := requiredSigned(tx, s.Repo, p)
			if err != nil {
				return err
			}
			if !done {
				return invalid("Semnați mai întâi toate documentele obligatorii")
			}
			moveStep(p, entity.StepVideo, actor.ID, now, ActionStepChanged, nil)
		}

		cfg, err := s.Repo.WithTx(tx).GetConfig()
		if err != nil {
			return err
		}
		if cfg.VideoDurationSeconds > 0 && progressSeconds > cfg.VideoDurationSeconds {
			progressSeconds = cfg.VideoDurationSeconds
		}
		if progressSeconds > p.VideoProgressSeconds {
			p.VideoProgressSeconds = progressSeconds
		}
		if completed && !p.VideoCompleted {
			p.VideoCompleted = true
			if cfg.VideoDurationSeconds > 0 {
				p.VideoProgressSeconds = cfg.VideoDurationSeconds
			}
		}
		if p.VideoCompleted && p.CurrentStep == entity.StepVideo {
			moveStep(p, entity.StepQuiz, actor.ID, now, ActionVideoCompleted,
				map[string]any{"progressSeconds": p.VideoProgressSeconds})
		}
		return nil
	})
}

func (s *OnboardingService) QuizFor(actor Actor, employeeID uint) ([]PublicQuestion, error) {
	if !canView(actor, employeeID) {
		return nil, forbidden(msgForbidden)
	}
	qs, err := s.Repo.ListQuestions()
	if err != nil {
		return nil, err
	}
	return ToPublicQuestions(qs), nil
}

// SubmitQuiz grades the answers server-side and completes onboarding on a pass.
func (s *OnboardingService) SubmitQuiz(actor Actor, employeeID uint, answers map[uint][]string) (*QuizResult, error) {
	if actor.ID != employeeID {
		return nil, forbidden("Doar angajatul își poate susține testul")
	}
	var result QuizResult
	_, err := s.mutate(actor, employeeID, func(tx *gorm.DB, p *entity.OnboardingProgress) error {
		if p.CurrentStep != entity.StepQuiz {
			return invalid("Testul nu este disponibil în etapa curentă (%s)", p.CurrentStep)
		}
		repo := s.Repo.WithTx(tx)
		cfg, err := repo.GetConfig()
		if err != nil {
			return err
		}
		if cfg.MaxQuizAttempts > 0 && p.QuizAttempts >= cfg.MaxQuizAttempts {
			return invalid("Ați epuizat numărul maxim de încercări (%d)", cfg.MaxQuizAttempts)
		}
		questions, err := repo.ListQuestions()
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return invalid("Testul nu are întrebări")
		}

		result = ScoreQuiz(questions, answers, cfg.PassingScore)
		now := s.Now()
		p.QuizAttempts++
		score := result.Score
		p.QuizScore = &score
		p.QuizPassed = result.Passed
		result.Attempt = p.QuizAttempts
		p.Record(entity.OnboardingAuditEntry{
			At: now, Action: ActionQuizSubmitted, ActorID: actor.ID,
			Details: map[string]any{"score": result.Score, "passed": result.Passed, "attempt": p.QuizAttempts},
		})
		if result.Passed {
			moveStep(p, entity.StepCompleted, actor.ID, now, ActionStepChanged, nil)
			p.CompletedAt = &now
		}
		result.CurrentStep = p.CurrentStep
		return nil
	})
	if err != nil {
		return nil, err
	}
	label := "failed"
	if result.Passed {
		label = "passed"
	}
	metrics.QuizSubmissionsCounter.WithLabelValues(label).Inc()
	logger.L().Info("quiz submitted",
		zap.Uint("employee_id", employeeID), zap.Int("score", result.Score), zap.Bool("passed", result.Passed))
	return &result, nil
}

// Reset sends the employee back to the first step. The audit trail is kept.
func (s *OnboardingService) Reset(actor Actor, employeeID uint) (*entity.OnboardingProgress, error) {
	if !actor.CanManage() {
		return nil, forbidden(msgForbidden)
	}
	return s.mutate(actor, employeeID, func(_ *gorm.DB, p *entity.OnboardingProgress) error {
		now := s.Now()
		p.SignedDocumentIDs = datatypes.JSONSlice[uint]{}
		p.VideoProgressSeconds = 0
		p.VideoCompleted = false
		p.QuizScore = nil
		p.QuizPassed = false
		p.QuizAttempts = 0
		p.CompletedAt = nil
		moveStep(p, entity.StepDocuments, actor.ID, now, ActionReset, nil)
		return nil
	})
}
