package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"Postline/cache"

	"github.com/gin-gonic/gin"
)

const indexCachePrefix = "index_page:"

// indexCacheTTL is the staleness window for the home feed. Reads within it
// serve the memoized page verbatim, deleted posts included.
func indexCacheTTL() time.Duration {
	if raw := os.Getenv("INDEX_CACHE_TTL"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 20 * time.Second
}

func indexCacheKey(page int) string {
	return fmt.Sprintf("%s%d", indexCachePrefix, page)
}

// ClearIndexCache drops every cached home-feed page. This is the only
// invalidation besides expiry.
func (server *Server) ClearIndexCache(c *gin.Context) {
	if err := cache.DeleteByPrefix(context.Background(), indexCachePrefix); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error clearing cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Cache cleared",
	})
}
