package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type OnboardingConfigRequest struct {
	WelcomeMessage       string `json:"welcomeMessage" binding:"max=5000"`
	VideoURL             string `json:"videoUrl" binding:"max=500"`
	VideoDurationSeconds int    `json:"videoDurationSeconds" binding:"min=0"`
	PassingScore         int    `json:"passingScore" binding:"required,min=1,max=100"`
	MaxQuizAttempts      int    `json:"maxQuizAttempts" binding:"min=0"`
}

type DocumentRequest struct {
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description" binding:"max=2000"`
	FileURL           string `json:"fileUrl"`
	FileBase64        string `json:"fileBase64"`
	Position          int    `json:"position" binding:"min=0"`
	RequiresSignature bool   `json:"requiresSignature"`
}

type ChapterRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	StartSeconds int    `json:"startSeconds" binding:"min=0"`
	EndSeconds   int    `json:"endSeconds" binding:"min=0"`
	Position     int    `json:"position" binding:"min=0"`
}

type QuestionRequest struct {
	Question       string   `json:"question" binding:"required,max=1000"`
	Type           string   `json:"type" binding:"required,oneof=single_choice multi_select open_text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correctAnswers"`
	Points         int      `json:"points" binding:"min=0"`
	Position       int      `json:"position" binding:"min=0"`
}

type VideoProgressRequest struct {
	ProgressSeconds int  `json:"progressSeconds" binding:"min=0"`
	Completed       bool `json:"completed"`
}

type QuizSubmitRequest struct {
	Answers map[uint][]string `json:"answers" binding:"required"`
}

type OnboardingController struct {
	Service *services.OnboardingService
}

func NewOnboardingController(s *services.OnboardingService) *OnboardingController {
	return &OnboardingController{Service: s}
}

// ---------------- Config ----------------

func (ctl *OnboardingController) GetConfig(c *gin.Context) {
	cfg, err := ctl.Service.GetConfig()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, cfg)
}

func (ctl *OnboardingController) UpdateConfig(c *gin.Context) {
	var req OnboardingConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	cfg, err := ctl.Service.UpdateConfig(services.OnboardingConfigInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, cfg)
}

// ---------------- Documents ----------------

func (ctl *OnboardingController) ListDocuments(c *gin.Context) {
	docs, err := ctl.Service.ListDocuments()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, docs)
}

func (ctl *OnboardingController) CreateDocument(c *gin.Context) {
	var req DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := ctl.Service.CreateDocument(services.DocumentInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, doc)
}

func (ctl *OnboardingController) UpdateDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := ctl.Service.UpdateDocument(id, services.DocumentInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, doc)
}

func (ctl *OnboardingController) DeleteDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteDocument(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Video chapters ----------------

func (ctl *OnboardingController) ListChapters(c *gin.Context) {
	chapters, err := ctl.Service.ListChapters()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, chapters)
}

func (ctl *OnboardingController) CreateChapter(c *gin.Context) {
	var req ChapterRequest
	if !bindJSON(c, &req) {
		return
	}
	ch, err := ctl.Service.CreateChapter(services.ChapterInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, ch)
}

func (ctl *OnboardingController) UpdateChapter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ChapterRequest
	if !bindJSON(c, &req) {
		return
	}
	ch, err := ctl.Service.UpdateChapter(id, services.ChapterInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, ch)
}

func (ctl *OnboardingController) DeleteChapter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteChapter(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Quiz questions ----------------

// ListQuestions hides the answer key from anyone who cannot edit the quiz.
func (ctl *OnboardingController) ListQuestions(c *gin.Context) {
	qs, err := ctl.Service.ListQuestions()
	if err != nil {
		fail(c, err)
		return
	}
	if !actor(c).CanManage() {
		resp.OK(c, services.ToPublicQuestions(qs))
		return
	}
	resp.OK(c, qs)
}

func (ctl *OnboardingController) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := ctl.Service.CreateQuestion(services.QuestionInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, q)
}

func (ctl *OnboardingController) UpdateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req QuestionRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := ctl.Service.UpdateQuestion(id, services.QuestionInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, q)
}

func (ctl *OnboardingController) DeleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteQuestion(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Progress ----------------

// GET /api/onboarding/:employeeId
func (ctl *OnboardingController) GetProgress(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	p, err := ctl.Service.GetProgress(actor(c), empID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

// POST /api/onboarding/:employeeId/documents/:documentId/sign
func (ctl *OnboardingController) SignDocument(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	docID, ok := paramID(c, "documentId")
	if !ok {
		return
	}
	p, err := ctl.Service.SignDocument(actor(c), empID, docID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

// POST /api/onboarding/:employeeId/video
func (ctl *OnboardingController) UpdateVideo(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	var req VideoProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.Service.UpdateVideo(actor(c), empID, req.ProgressSeconds, req.Completed)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

// GET /api/onboarding/:employeeId/quiz
func (ctl *OnboardingController) Quiz(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	qs, err := ctl.Service.QuizFor(actor(c), empID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, qs)
}

// POST /api/onboarding/:employeeId/quiz
func (ctl *OnboardingController) SubmitQuiz(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	var req QuizSubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctl.Service.SubmitQuiz(actor(c), empID, req.Answers)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, result)
}

// POST /api/onboarding/:employeeId/reset
func (ctl *OnboardingController) Reset(c *gin.Context) {
	empID, ok := paramID(c, "employeeId")
	if !ok {
		return
	}
	p, err := ctl.Service.Reset(actor(c), empID)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}
