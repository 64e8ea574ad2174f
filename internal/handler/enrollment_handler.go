package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	Enroll(ctx context.Context, req service.EnrollRequest) (*models.Enrollment, error)
	SetGrade(ctx context.Context, id string, req service.GradeRequest) (*models.Enrollment, error)
	Drop(ctx context.Context, id string) error
}

// EnrollmentHandler serves course enrollments and grades.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// List godoc
// @Summary List enrollment records
// @Description Students only see their own records.
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Student ID"
// @Param programId query string false "Program ID"
// @Param term query string false "Term label"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	filter := models.EnrollmentFilter{
		StudentID: c.Query("studentId"),
		ProgramID: c.Query("programId"),
		Term:      c.Query("term"),
	}
	if claims, ok := middleware.CurrentUser(c); ok && claims.Role != models.RoleAdmin {
		if filter.StudentID != "" && filter.StudentID != claims.UserID {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		filter.StudentID = claims.UserID
	}
	enrollments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Items(c, enrollments, nil)
}

// Enroll godoc
// @Summary Enroll in a course of the current term
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.EnrollRequest true "Enrollment"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	if !middleware.CanActFor(c, req.StudentID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// SetGrade godoc
// @Summary Record a grade
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param payload body service.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/grade [put]
func (h *EnrollmentHandler) SetGrade(c *gin.Context) {
	var req service.GradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	enrollment, err := h.service.SetGrade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, enrollment)
}

// Drop godoc
// @Summary Drop a registered enrollment
// @Tags Enrollments
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	if err := h.service.Drop(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
