package handler

import (
	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/usecase"
	"taskboss/utils"
)

type GoalHandler struct {
	log   *logger.Logger
	goals *usecase.GoalService
}

func NewGoalHandler(log *logger.Logger, goals *usecase.GoalService) *GoalHandler {
	return &GoalHandler{log: log.With("handler", "goals"), goals: goals}
}

func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, dto.ToGoalResponses(goals))
}

func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	goal, err := h.goals.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, dto.ToGoalResponse(goal))
}

func (h *GoalHandler) Create(c *gin.Context) {
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeGoalInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	goal, err := h.goals.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Created(c, dto.ToGoalResponse(goal))
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeGoalInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	goal, err := h.goals.Update(c.Request.Context(), middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, dto.ToGoalResponse(goal))
}

func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, gin.H{"message": "Goal deleted successfully", "id": id})
}
