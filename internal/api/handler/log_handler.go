package handler

import (
	"errors"
	"net/http"

	"github.com/JulHeg/LeRobotPanorama/internal/api/dto"
	"github.com/JulHeg/LeRobotPanorama/internal/core/service"
	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	logService *service.LogService
}

func NewLogHandler(logService *service.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

// GetLatestLog handles GET /logs/latest
func (h *LogHandler) GetLatestLog(c *gin.Context) {
	content, err := h.logService.Latest()
	if err != nil {
		if errors.Is(err, service.ErrNoLogsAvailable) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "Not Found",
				Message: "No logs available",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, toLogResponse(content))
}

// ListLogs handles GET /logs
func (h *LogHandler) ListLogs(c *gin.Context) {
	logs, err := h.logService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response := dto.LogListResponse{
		Items: make([]dto.LogResponse, len(logs)),
	}
	for i, content := range logs {
		response.Items[i] = toLogResponse(content)
	}

	c.JSON(http.StatusOK, response)
}

func toLogResponse(content *service.LogContent) dto.LogResponse {
	return dto.LogResponse{
		Filename: content.Name,
		Size:     content.Size,
		ModTime:  content.ModTime,
		Content:  content.Content,
	}
}
