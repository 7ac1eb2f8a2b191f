package handler

import (
	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/usecase"
	"taskboss/utils"
)

type AuthHandler struct {
	log  *logger.Logger
	auth *usecase.AuthService
}

func NewAuthHandler(log *logger.Logger, auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "auth"), auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Created(c, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, gin.H{"message": "Successfully logged out"})
}
