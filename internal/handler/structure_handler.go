package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

// StructureHandler serves program term structures.
type StructureHandler struct {
	service *service.ProgramStructureService
}

// NewStructureHandler constructs the handler.
func NewStructureHandler(svc *service.ProgramStructureService) *StructureHandler {
	return &StructureHandler{service: svc}
}

// Get godoc
// @Summary Get program structure
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id}/structure [get]
func (h *StructureHandler) Get(c *gin.Context) {
	structure, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, structure)
}

// Save godoc
// @Summary Replace program structure
// @Description Terms reference catalog courses; code and title are copied into the structure.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param payload body service.StructureRequest true "Structure payload"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/structure [put]
func (h *StructureHandler) Save(c *gin.Context) {
	var req service.StructureRequest
	if !bindJSON(c, &req, "invalid structure payload") {
		return
	}
	structure, err := h.service.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, http.StatusOK, structure)
}

// Delete godoc
// @Summary Delete program structure
// @Tags Programs
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204
// @Router /programs/{id}/structure [delete]
func (h *StructureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
