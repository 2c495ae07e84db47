// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/i18n"
)

// I18nMiddleware stores the preferred supported language under "lang".
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", i18n.Normalize(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
