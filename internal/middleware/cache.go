package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"job-portal-api/internal/cache"

	"github.com/gin-gonic/gin"
)

// CachedResponse is what ResponseCache stores per key.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type cacheOptions struct {
	ttl     time.Duration
	tags    []string
	keyFunc func(c *gin.Context) string
}

// CacheOption customizes ResponseCache.
type CacheOption func(*cacheOptions)

// WithTTL overrides the store's default TTL for this route.
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *cacheOptions) { o.ttl = ttl }
}

// WithTags attaches explicit invalidation tags to every entry the route stores.
func WithTags(tags ...string) CacheOption {
	return func(o *cacheOptions) { o.tags = append(o.tags, tags...) }
}

// WithKeyFunc replaces the default key, the literal request URI.
func WithKeyFunc(fn func(c *gin.Context) string) CacheOption {
	return func(o *cacheOptions) { o.keyFunc = fn }
}

// URLKey is the default cache key: path plus the literal query string, so the
// same parameters in a different order produce a different key.
func URLKey(c *gin.Context) string {
	return c.Request.URL.RequestURI()
}

// UserURLKey scopes URLKey to the authenticated user, for per-user listings.
func UserURLKey(c *gin.Context) string {
	return URLKey(c) + "#" + c.GetString(CtxUserID)
}

// bodyCaptureWriter tees everything the handler writes into a buffer.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves repeated GET requests from store. On a miss it runs the
// handler chain and stores the emitted body when it is a 2xx JSON response.
// It never invalidates anything; mutating handlers do that explicitly.
func ResponseCache(store *cache.Store, opts ...CacheOption) gin.HandlerFunc {
	o := cacheOptions{
		ttl:     store.DefaultTTLValue(),
		keyFunc: URLKey,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := o.keyFunc(c)
		if v, ok := store.Get(key); ok {
			if resp, ok := v.(CachedResponse); ok {
				c.Header("X-Cache", "HIT")
				c.Data(resp.Status, resp.ContentType, resp.Body)
				c.Abort()
				return
			}
		}

		w := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Header("X-Cache", "MISS")

		c.Next()

		status := w.Status()
		contentType := w.Header().Get("Content-Type")
		if status < 200 || status >= 300 || !strings.HasPrefix(contentType, "application/json") {
			return
		}
		body := make([]byte, w.body.Len())
		copy(body, w.body.Bytes())
		store.SetTagged(key, CachedResponse{
			Status:      status,
			ContentType: contentType,
			Body:        body,
		}, o.ttl, o.tags...)
	}
}
