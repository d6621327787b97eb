package middleware

import (
	"thoughtstream/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORSMiddleware CORS設定用のmiddleware
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// TODO: 本番環境では許可するオリジンを絞ること
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Api-Key, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400") // 24時間

		if c.Request.Method == "OPTIONS" {
			logger.WithFields(logrus.Fields{
				"origin": origin,
				"uri":    c.Request.RequestURI,
			}).Debug("CORS preflight request handled")

			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
