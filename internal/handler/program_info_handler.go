package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

// ProgramInfoHandler serves the admission requirements and tuition of a program.
type ProgramInfoHandler struct {
	requirements *service.RequirementService
	tuition      *service.TuitionService
}

// NewProgramInfoHandler constructs the handler.
func NewProgramInfoHandler(requirements *service.RequirementService, tuition *service.TuitionService) *ProgramInfoHandler {
	return &ProgramInfoHandler{requirements: requirements, tuition: tuition}
}

// GetRequirements godoc
// @Summary Get admission requirements
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/requirements [get]
func (h *ProgramInfoHandler) GetRequirements(c *gin.Context) {
	req, err := h.requirements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, req)
}

// CreateRequirements godoc
// @Summary Create admission requirements
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param payload body service.RequirementRequest true "Requirements payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /programs/{id}/requirements [post]
func (h *ProgramInfoHandler) CreateRequirements(c *gin.Context) {
	var in service.RequirementRequest
	if !bindJSON(c, &in, "invalid requirements payload") {
		return
	}
	req, err := h.requirements.Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// UpdateRequirements godoc
// @Summary Update admission requirements
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param payload body service.RequirementRequest true "Requirements payload"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/requirements [put]
func (h *ProgramInfoHandler) UpdateRequirements(c *gin.Context) {
	var in service.RequirementRequest
	if !bindJSON(c, &in, "invalid requirements payload") {
		return
	}
	req, err := h.requirements.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, req)
}

// DeleteRequirements godoc
// @Summary Delete admission requirements
// @Tags Programs
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204
// @Router /programs/{id}/requirements [delete]
func (h *ProgramInfoHandler) DeleteRequirements(c *gin.Context) {
	if err := h.requirements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetTuition godoc
// @Summary Get tuition
// @Description With credits set, the response meta carries the estimated total.
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Param credits query int false "Credits to estimate"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/tuition [get]
func (h *ProgramInfoHandler) GetTuition(c *gin.Context) {
	tuition, err := h.tuition.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if raw := c.Query("credits"); raw != "" {
		credits, convErr := strconv.Atoi(raw)
		if convErr != nil || credits < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "credits must be a non-negative integer"))
			return
		}
		meta = map[string]interface{}{"credits": credits, "estimated_total": tuition.EstimateTotal(credits)}
	}
	response.Item(c, http.StatusOK, tuition, meta)
}

// CreateTuition godoc
// @Summary Create tuition
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param payload body service.TuitionRequest true "Tuition payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /programs/{id}/tuition [post]
func (h *ProgramInfoHandler) CreateTuition(c *gin.Context) {
	var in service.TuitionRequest
	if !bindJSON(c, &in, "invalid tuition payload") {
		return
	}
	tuition, err := h.tuition.Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tuition)
}

// UpdateTuition godoc
// @Summary Update tuition
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param payload body service.TuitionRequest true "Tuition payload"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/tuition [put]
func (h *ProgramInfoHandler) UpdateTuition(c *gin.Context) {
	var in service.TuitionRequest
	if !bindJSON(c, &in, "invalid tuition payload") {
		return
	}
	tuition, err := h.tuition.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, tuition)
}

// DeleteTuition godoc
// @Summary Delete tuition
// @Tags Programs
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204
// @Router /programs/{id}/tuition [delete]
func (h *ProgramInfoHandler) DeleteTuition(c *gin.Context) {
	if err := h.tuition.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
