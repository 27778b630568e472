package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/stockroom/internal/infrastructure/config"
)

// CORS 跨域中间件（扫码前端与管理后台分开部署）
// allow_origins包含"*"时允许所有来源，此时不能携带凭证（配置校验已保证）
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	if !cfg.Enabled || len(cfg.AllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	corsConfig := cors.DefaultConfig()
	if containsWildcard(cfg.AllowOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	corsConfig.AddAllowHeaders("Authorization", headerRequestID)
	corsConfig.AddExposeHeaders(headerRequestID, "Retry-After")
	corsConfig.AllowCredentials = cfg.AllowCredentials
	corsConfig.MaxAge = cfg.MaxAge

	return cors.New(corsConfig)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
