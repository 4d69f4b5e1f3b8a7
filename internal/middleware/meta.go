package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const metaContextKey = "insights_meta"

// ResponseMeta seeds a metadata map for the request and, once the handler
// chain finishes, stamps the elapsed time unless a handler already did.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(metaContextKey, map[string]interface{}{})
		c.Next()
		meta := metaFor(c)
		if _, ok := meta["processing_time_ms"]; !ok {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the response was served from the analytics cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c)["cache_hit"] = hit
}

// SetProcessingTime records the handler-measured elapsed time since start.
func SetProcessingTime(c *gin.Context, start time.Time) {
	metaFor(c)["processing_time_ms"] = time.Since(start).Milliseconds()
}

// ExtractMeta returns the metadata accumulated for the current request, or
// nil when no metadata has been recorded.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(metaContextKey); ok {
		if meta, ok := v.(map[string]interface{}); ok {
			return meta
		}
	}
	return nil
}

func metaFor(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := map[string]interface{}{}
	c.Set(metaContextKey, meta)
	return meta
}
