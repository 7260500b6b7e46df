package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit-backend/internal/lending"
	"shareit-backend/internal/parse"
)

// ListItems handles GET /api/items.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.lending.List(c.Request.Context())
	if err != nil {
		log.Printf("GET /api/items failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// BorrowItem handles POST /api/items/{id}/borrow.
func (h *Handler) BorrowItem(c *gin.Context) {
	h.applyTransition(c, parse.ActionBorrow, "Failed to borrow item")
}

// ReturnItem handles POST /api/items/{id}/return.
func (h *Handler) ReturnItem(c *gin.Context) {
	h.applyTransition(c, parse.ActionReturn, "Failed to return item")
}

func (h *Handler) applyTransition(c *gin.Context, action parse.Action, failure string) {
	id := c.Param("id")
	item, err := h.lending.Apply(c.Request.Context(), id, action)
	if err != nil {
		var domainErr *lending.Error
		if errors.As(err, &domainErr) {
			log.Printf("POST /api/items/%s/%s rejected: %s", id, action, domainErr)
			c.AbortWithStatusJSON(domainErr.Status(), gin.H{"error": domainErr.Error()})
			return
		}
		log.Printf("POST /api/items/%s/%s failed: %v", id, action, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": failure})
		return
	}
	c.JSON(http.StatusOK, item)
}
