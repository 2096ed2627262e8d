package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"gate-access-backend/internal/mw"
	"gate-access-backend/internal/shift"
	"gate-access-backend/internal/store"
	"gate-access-backend/internal/verify"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, engine *verify.Engine, shifts *shift.Cache, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, engine, shifts, webpushOptions)

	// Rate limit: 10 requests per second with a burst of 5
	rateLimiter := mw.RateLimiter(rate.Limit(10), 5)

	// Report cache: 1 minute default expiration, cleaned up every 5 minutes
	cacheStore := cache.New(1*time.Minute, 5*time.Minute)
	caching := mw.Cache(cacheStore, 1*time.Minute)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Recognition event ingest
		api.POST("/events", handler.PostEvent)

		// Access records and verification actions
		api.GET("/records", handler.ListRecords)
		api.GET("/records/:id", handler.GetRecord)
		api.POST("/records/:id/approve", handler.ApproveRecord)
		api.POST("/records/:id/reject", handler.RejectRecord)
		api.POST("/records/:id/correct", handler.CorrectRecord)

		// Compliance reporting
		api.GET("/reports/compliance", caching, handler.ComplianceReport)

		// Shift configuration
		api.GET("/shifts", handler.ListShifts)
		api.POST("/shifts", handler.CreateShift)
		api.PUT("/shifts/:id", handler.UpdateShift)
		api.POST("/shifts/:id/activate", handler.ActivateShift)

		// Exception requests
		api.GET("/exceptions", handler.ListExceptions)
		api.POST("/exceptions", handler.CreateException)
		api.POST("/exceptions/:id/approve", handler.ApproveException)
		api.POST("/exceptions/:id/reject", handler.RejectException)

		// Guard push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
