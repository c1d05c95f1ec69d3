package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone_ro"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthController struct {
	Service *services.AuthService
	Cookie  SessionCookie
}

func NewAuthController(s *services.AuthService, cookie SessionCookie) *AuthController {
	return &AuthController{Service: s, Cookie: cookie}
}

func (a *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.Cookie.Name, value, maxAge, "/", "", a.Cookie.Secure, true)
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, user, err := a.Service.Login(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	a.setCookie(c, token, int(a.Cookie.TTL.Seconds()))
	resp.OK(c, gin.H{"token": token, "user": user})
}

// POST /api/auth/logout
func (a *AuthController) Logout(c *gin.Context) {
	a.setCookie(c, "", -1)
	resp.OK(c, gin.H{"loggedOut": true})
}

// GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Service.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, user)
}

// PATCH /api/auth/me
func (a *AuthController) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.Service.UpdateProfile(utils.CurrentUserID(c), services.ProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, user)
}

// POST /api/auth/password
func (a *AuthController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := a.Service.ChangePassword(utils.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"changed": true})
}
