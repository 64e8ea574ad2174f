package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

// AdmissionHandler serves admission applications.
type AdmissionHandler struct {
	service *service.AdmissionService
}

// NewAdmissionHandler constructs the handler.
func NewAdmissionHandler(svc *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{service: svc}
}

// Submit godoc
// @Summary Apply for admission
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body service.AdmissionRequest true "Application"
// @Success 201 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var req service.AdmissionRequest
	if !bindJSON(c, &req, "invalid admission payload") {
		return
	}
	admission, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admission)
}

// List godoc
// @Summary List admission applications
// @Tags Admissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted or rejected"
// @Param programId query string false "Filter by program"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	var filter models.AdmissionFilter
	filter.Status = models.AdmissionStatus(c.Query("status"))
	filter.ProgramID = c.Query("programId")
	filter.Page, filter.PageSize = pageParams(c)

	admissions, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Items(c, admissions, pagination)
}

// Decide godoc
// @Summary Accept or reject an application
// @Tags Admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Param payload body service.AdmissionDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admissions/{id}/status [patch]
func (h *AdmissionHandler) Decide(c *gin.Context) {
	var req service.AdmissionDecisionRequest
	if !bindJSON(c, &req, "invalid admission status") {
		return
	}
	admission, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, admission)
}

// Delete godoc
// @Summary Delete application
// @Tags Admissions
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 204
// @Router /admissions/{id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
