package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit-backend/internal/todo"
)

type addTodoRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListTodos handles GET /api/todos.
func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.todos.All(c.Request.Context())
	if err != nil {
		log.Printf("GET /api/todos failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// AddTodo handles POST /api/todos.
func (h *Handler) AddTodo(c *gin.Context) {
	var req addTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.todos.Add(c.Request.Context(), req.Text)
	if err != nil {
		writeTodoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ToggleTodo handles POST /api/todos/{id}/toggle.
func (h *Handler) ToggleTodo(c *gin.Context) {
	t, err := h.todos.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTodo handles DELETE /api/todos/{id}. The entry is only marked; it
// disappears when the undo window closes.
func (h *Handler) DeleteTodo(c *gin.Context) {
	t, err := h.todos.MarkForDeletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTodoError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, t)
}

// UndoDeleteTodo handles POST /api/todos/{id}/undo.
func (h *Handler) UndoDeleteTodo(c *gin.Context) {
	t, err := h.todos.CancelDeletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func writeTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, todo.ErrEmptyText):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Todo text is empty"})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todos"})
	}
}
