package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/model"
	"taskboss/usecase"
	"taskboss/utils"
)

type TaskHandler struct {
	log   *logger.Logger
	tasks *usecase.TaskService
}

func NewTaskHandler(log *logger.Logger, tasks *usecase.TaskService) *TaskHandler {
	return &TaskHandler{log: log.With("handler", "tasks"), tasks: tasks}
}

// List supports ?status= and ?goal_id= filters.
func (h *TaskHandler) List(c *gin.Context) {
	filter := model.TaskFilter{Status: model.TaskStatus(c.Query("status"))}
	if raw := c.Query("goal_id"); raw != "" {
		goalID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || goalID <= 0 {
			utils.BadRequest(c, "invalid goal_id filter")
			return
		}
		filter.GoalID = &goalID
	}

	tasks, err := h.tasks.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeTaskInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Created(c, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeTaskInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, gin.H{"message": "Task deleted successfully", "id": id})
}
