package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache stores GET responses. Every invalidation starts a new
// generation, and a response is only stored if no invalidation happened
// while it was being produced.
type ResponseCache struct {
	store *cache.Cache

	mu         sync.Mutex
	generation uint64
}

// NewResponseCache wraps store.
func NewResponseCache(store *cache.Cache) *ResponseCache {
	return &ResponseCache{store: store}
}

func (rc *ResponseCache) currentGeneration() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.generation
}

// setIfCurrent stores resp unless the cache was invalidated after gen.
func (rc *ResponseCache) setIfCurrent(gen uint64, key string, resp cachedResponse, d time.Duration) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.generation != gen {
		return false
	}
	rc.store.Set(key, resp, d)
	return true
}

// Flush drops every stored response.
func (rc *ResponseCache) Flush() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.generation++
	rc.store.Flush()
}

// Cache is a middleware for in-memory caching of GET requests.
// A non-positive duration disables caching.
func Cache(rc *ResponseCache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || duration <= 0 {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if resp, found := rc.store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		gen := rc.currentGeneration()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 {
			rc.setIfCurrent(gen, key, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, duration)
		}
	}
}

// Invalidate flushes the cache after every successful request it wraps.
// It guards the handlers that change what cached GETs return.
func Invalidate(rc *ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rc.Flush()
		}
	}
}
