package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"shareit-backend/config"
	"shareit-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, handler *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := mw.NewResponseCache(cache.New(ttl, 10*time.Minute))
	caching := mw.Cache(cacheStore, ttl)
	invalidate := mw.Invalidate(cacheStore)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/items", caching, handler.ListItems)
		api.POST("/items/:id/borrow", invalidate, handler.BorrowItem)
		api.POST("/items/:id/return", invalidate, handler.ReturnItem)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		api.GET("/todos", handler.ListTodos)
		api.POST("/todos", handler.AddTodo)
		api.POST("/todos/:id/toggle", handler.ToggleTodo)
		api.POST("/todos/:id/undo", handler.UndoDeleteTodo)
		api.DELETE("/todos/:id", handler.DeleteTodo)
	}

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(StaticFiles(cfg.StaticDir))
	return r
}
