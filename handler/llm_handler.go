package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"taskboss/dto"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/usecase"
	"taskboss/utils"
)

type LLMHandler struct {
	log *logger.Logger
	ai  *usecase.AIService
}

func NewLLMHandler(log *logger.Logger, ai *usecase.AIService) *LLMHandler {
	return &LLMHandler{log: log.With("handler", "llm"), ai: ai}
}

func (h *LLMHandler) Invoke(c *gin.Context) {
	var req dto.InvokeRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.ai.Invoke(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.respondAIError(c, err)
		return
	}
	utils.Success(c, out)
}

func (h *LLMHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.ai.Chat(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.respondAIError(c, err)
		return
	}
	utils.Success(c, out)
}

// Quote accepts an empty body.
func (h *LLMHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.ai.Quote(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.respondAIError(c, err)
		return
	}
	utils.Success(c, out)
}

func (h *LLMHandler) TaskAdvice(c *gin.Context) {
	var req dto.TaskAdviceRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.ai.TaskAdvice(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.respondAIError(c, err)
		return
	}
	utils.Success(c, out)
}

// respondAIError echoes the model output when it failed to decode.
func (h *LLMHandler) respondAIError(c *gin.Context, err error) {
	var rawErr *usecase.RawOutputError
	if errors.As(err, &rawErr) {
		h.log.Warn("model output was not valid JSON", "path", c.FullPath(), "error", rawErr.Err)
		utils.RespondErrorWithRaw(c, err, rawErr.Raw)
		return
	}
	respondError(c, h.log, err)
}
