package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"shareit-backend/internal/lending"
	"shareit-backend/internal/store"
	"shareit-backend/internal/todo"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	lending *lending.Service
	todos   *todo.List
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *lending.Service, todos *todo.List, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		lending: svc,
		todos:   todos,
		webpush: webpushOptions,
	}
}
