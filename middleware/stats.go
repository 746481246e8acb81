package middleware

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/usage"
)

// ContextSlugKey is where audit handlers store the document slug so the
// usage middleware can attribute the request.
const ContextSlugKey = "audit_slug"

// Usage tracks editors and audit request latency
func Usage(stats *usage.Statistics) gin.HandlerFunc {
	var requests int64

	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackEditor(c.ClientIP())

		c.Next()

		if strings.HasSuffix(c.FullPath(), "/audit") {
			latency := float64(time.Since(start).Milliseconds())
			hasError := c.Writer.Status() >= 400
			stats.TrackAudit(c.GetString(ContextSlugKey), latency, hasError)
		}

		// Persist periodically without blocking the request
		if n := atomic.AddInt64(&requests, 1); n%100 == 0 {
			go stats.Save()
		}
	}
}
