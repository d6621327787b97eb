package middleware

import (
	"crypto/subtle"
	"net/http"

	"thoughtstream/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIKeyMiddleware ストア公開キーの提示を要求するmiddleware
// クライアントは設定された公開キーをX-Api-Keyヘッダーで送る
func APIKeyMiddleware(publicKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if key == "" {
			key = c.GetHeader("apikey")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(publicKey)) != 1 {
			logger.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"uri":       c.Request.RequestURI,
			}).Warn("APIキーの検証に失敗")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
