package handler

import (
	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/usecase"
	"taskboss/utils"
)

type StatsHandler struct {
	log   *logger.Logger
	stats *usecase.StatsService
}

func NewStatsHandler(log *logger.Logger, stats *usecase.StatsService) *StatsHandler {
	return &StatsHandler{log: log.With("handler", "stats"), stats: stats}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	stats, err := h.stats.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, stats)
}

func (h *StatsHandler) GetUserStatsByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.stats.GetByID(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, stats)
}

// UpdateUserStats serves both PUT /user-stats and PUT /user-stats/:id.
func (h *StatsHandler) UpdateUserStats(c *gin.Context) {
	var id *int64
	if c.Param("id") != "" {
		parsed, ok := pathID(c)
		if !ok {
			return
		}
		id = &parsed
	}
	raw, ok := bindRawBody(c)
	if !ok {
		return
	}
	in, err := dto.DecodeStatsInput(raw)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	stats, err := h.stats.Update(c.Request.Context(), middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, stats)
}
