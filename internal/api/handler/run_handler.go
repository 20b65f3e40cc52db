package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JulHeg/LeRobotPanorama/internal/api/dto"
	"github.com/JulHeg/LeRobotPanorama/internal/api/util"
	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
	"github.com/JulHeg/LeRobotPanorama/internal/core/service"
	"github.com/gin-gonic/gin"
)

// Allowed fields for run queries and ordering
var (
	runQueryFields = []string{"id", "run_id", "script", "pid", "status", "return_code", "start_time", "end_time"}
	runOrderFields = []string{"id", "start_time", "end_time", "status"}
)

type RunHandler struct {
	runService *service.RunService
}

func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

// CreateRun handles POST /runs
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req dto.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	script, err := domain.ParseScript(req.Script)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	run, _, err := h.runService.StartRun(c.Request.Context(), script, req.Configuration())
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInvalidConfiguration):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrRunAlreadyActive):
			status = http.StatusConflict
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   http.StatusText(status),
			Message: err.Error(),
			Code:    status,
		})
		return
	}

	link := fmt.Sprintf("/status/%s", run.RunID)
	c.JSON(http.StatusAccepted, dto.AsyncResponse{
		Status:  string(run.Status),
		Link:    &link,
		RunID:   &run.RunID,
		LogFile: &run.LogFile,
	})
}

// ListRuns handles GET /runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	filter := repository.RunFilter{
		ListFilter: util.ListFilter{
			Page:    page,
			PerPage: perPage,
		},
	}

	if queryStr := c.Query("query"); queryStr != "" {
		filters, err := util.ParseQueryString(queryStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}

		if err := util.ValidateFilterFields(filters, runQueryFields); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}

		filter.Filters = filters
	}

	if orderStr := c.Query("order"); orderStr != "" {
		orders, err := util.ParseOrderString(orderStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}

		if err := util.ValidateOrderFields(orders, runOrderFields); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}

		filter.Order = orders
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	count, _ := h.runService.CountRuns(c.Request.Context(), filter)

	totalPages := 0
	if perPage > 0 {
		totalPages = (count + perPage - 1) / perPage
	}

	response := dto.RunListResponse{
		Items: make([]dto.RunResponse, len(runs)),
		Pagination: dto.PaginationInfo{
			Total:      count,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		},
	}

	for i, run := range runs {
		response.Items[i] = toRunResponse(run)
	}

	c.JSON(http.StatusOK, response)
}

// GetRun handles GET /runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid run ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	run, err := h.runService.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Run not found: %d", id),
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, toRunResponse(run))
}

// GetRunByRunID handles GET /status/:run_id
func (h *RunHandler) GetRunByRunID(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.runService.GetRunByRunID(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Run not found: %s", runID),
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, toRunResponse(run))
}

func toRunResponse(run *domain.Run) dto.RunResponse {
	link := fmt.Sprintf("/status/%s", run.RunID)
	return dto.RunResponse{
		ID:         run.ID,
		RunID:      run.RunID,
		Script:     string(run.Script),
		Command:    run.Command,
		PID:        run.PID,
		Status:     string(run.Status),
		ReturnCode: run.ReturnCode,
		LogFile:    run.LogFile,
		StartTime:  run.StartTime,
		EndTime:    run.EndTime,
		Config:     run.Config,
		Link:       &link,
	}
}
