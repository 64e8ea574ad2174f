package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler constructs the handler.
func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Submit godoc
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body service.ContactRequest true "Message"
// @Success 201 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.ContactRequest
	if !bindJSON(c, &req, "invalid contact payload") {
		return
	}
	msg, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// List godoc
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread messages"
// @Param limit query int false "Maximum messages"
// @Success 200 {object} response.Envelope
// @Router /contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	var filter models.ContactFilter
	if unread := boolQuery(c, "unread"); unread != nil {
		filter.UnreadOnly = *unread
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	messages, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Items(c, messages, nil)
}

// MarkRead godoc
// @Summary Mark a contact message as read
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /contact/{id}/read [patch]
func (h *ContactHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "message marked as read")
}

// Delete godoc
// @Summary Delete a contact message
// @Tags Contact
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
