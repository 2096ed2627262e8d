package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"gate-access-backend/internal/shift"
	"gate-access-backend/internal/store"
	"gate-access-backend/internal/verify"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	engine  *verify.Engine
	shifts  *shift.Cache
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *verify.Engine, shifts *shift.Cache, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		engine:  engine,
		shifts:  shifts,
		webpush: webpushOptions,
	}
}
