package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

// Envelope mirrors the contract the single-page frontend already consumes:
// a success flag plus either a single item or a list of items.
type Envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Item       interface{}            `json:"item,omitempty"`
	Items      interface{}            `json:"items,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// Item sends a single resource.
func Item(c *gin.Context, status int, item interface{}, meta ...map[string]interface{}) {
	write(c, status, Envelope{Success: true, Item: item}, meta...)
}

// Items sends a collection. A nil slice is still rendered as an empty list.
func Items[T any](c *gin.Context, items []T, pagination *models.Pagination, meta ...map[string]interface{}) {
	if items == nil {
		items = []T{}
	}
	write(c, http.StatusOK, Envelope{Success: true, Items: items, Pagination: pagination}, meta...)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, item interface{}) {
	Item(c, http.StatusCreated, item)
}

// Message sends a success envelope carrying only a human readable message.
func Message(c *gin.Context, status int, message string) {
	write(c, status, Envelope{Success: true, Message: message})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Success: false, Message: appErr.Message, Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func write(c *gin.Context, status int, envelope Envelope, meta ...map[string]interface{}) {
	noStore(c)
	if len(meta) > 0 && len(meta[0]) > 0 {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
