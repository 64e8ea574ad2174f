package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type progressService interface {
	Report(ctx context.Context, studentID string) (*service.StudentProgress, bool)
}

type transcriptService interface {
	Render(ctx context.Context, studentID, format string) (*service.Transcript, error)
}

// ProgressHandler serves the academic progress view and transcripts.
type ProgressHandler struct {
	progress    progressService
	transcripts transcriptService
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(progress progressService, transcripts transcriptService) *ProgressHandler {
	return &ProgressHandler{progress: progress, transcripts: transcripts}
}

// Progress godoc
// @Summary Academic progress of a student
// @Description Overview and per-term course status. Missing data degrades to empty sections.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) Progress(c *gin.Context) {
	report, hit := h.progress.Report(c.Request.Context(), c.Param("id"))
	middleware.SetCacheHit(c, hit)
	response.Item(c, http.StatusOK, report, middleware.ResponseMeta(c))
}

// Transcript godoc
// @Summary Download a transcript
// @Tags Progress
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /students/{id}/transcript [get]
func (h *ProgressHandler) Transcript(c *gin.Context) {
	doc, err := h.transcripts.Render(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
