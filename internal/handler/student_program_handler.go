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

type studentProgramService interface {
	Join(ctx context.Context, req service.JoinProgramRequest) (*models.StudentProgram, error)
	Active(ctx context.Context, studentID string) (*models.StudentProgram, error)
	Update(ctx context.Context, id string, req service.UpdateStudentProgramRequest) (*models.StudentProgram, error)
}

// StudentProgramHandler serves program memberships.
type StudentProgramHandler struct {
	service studentProgramService
}

// NewStudentProgramHandler constructs the handler.
func NewStudentProgramHandler(svc studentProgramService) *StudentProgramHandler {
	return &StudentProgramHandler{service: svc}
}

// Join godoc
// @Summary Join a program
// @Description Students may only join for themselves. The student starts at the first term.
// @Tags Student Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.JoinProgramRequest true "Membership"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student-programs [post]
func (h *StudentProgramHandler) Join(c *gin.Context) {
	var req service.JoinProgramRequest
	if !bindJSON(c, &req, "invalid program enrollment payload") {
		return
	}
	if !middleware.CanActFor(c, req.StudentID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	sp, err := h.service.Join(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sp)
}

// Active godoc
// @Summary Active program of a student
// @Tags Student Programs
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-programs/{studentId} [get]
func (h *StudentProgramHandler) Active(c *gin.Context) {
	sp, err := h.service.Active(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, sp)
}

// Update godoc
// @Summary Move a student through a program
// @Tags Student Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student program ID"
// @Param payload body service.UpdateStudentProgramRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /student-programs/{id} [patch]
func (h *StudentProgramHandler) Update(c *gin.Context) {
	var req service.UpdateStudentProgramRequest
	if !bindJSON(c, &req, "invalid student program payload") {
		return
	}
	sp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, sp)
}
