package handler

import (
	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/usecase"
	"taskboss/utils"
)

type UserHandler struct {
	log   *logger.Logger
	users *usecase.UserService
}

func NewUserHandler(log *logger.Logger, users *usecase.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "users"), users: users}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeUserInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	user, err := h.users.UpdateMe(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, user)
}

func (h *UserHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.users.Preferences(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, prefs)
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.users.UpdatePreferences(c.Request.Context(), middleware.UserID(c), req.AIModels)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, prefs)
}
