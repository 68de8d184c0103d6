package middleware

import (
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"track_swiftly/internal/config"
)

var localhostOrigin = regexp.MustCompile(`(?i)^http://localhost(:\d+)?$`)

// CORS allows the configured origins, plus any http://localhost port while
// running in development. Credentials are allowed so the web client can send
// its Authorization header.
func CORS(cfg config.ServerConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.CorsOrigins))
	for _, o := range cfg.CorsOrigins {
		allowed[o] = struct{}{}
	}
	dev := cfg.IsDevelopment()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOriginFunc = func(origin string) bool {
		if _, ok := allowed[origin]; ok {
			return true
		}
		return dev && localhostOrigin.MatchString(origin)
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}
