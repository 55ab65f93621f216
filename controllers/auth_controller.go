package controllers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"backend/pkg/resp"
	"backend/services"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "email and password are required")
		return
	}

	token, err := ctl.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrBadCredentials) {
		resp.Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		resp.ServerError(c, "Server error")
		return
	}

	resp.OK(c, gin.H{"token": token})
}
